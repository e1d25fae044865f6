// Package micprofile holds the microphone DSP profile: mic type and gains,
// the noise gate, the compressor, both equalizers and the de-esser, plus the
// conversion of stored values into the deck's wire encodings.
package micprofile

import (
	"fmt"

	"github.com/mixdeck/mixd/mixer"
)

// DefaultName is the reserved mic profile name resolving to the built-in default.
const DefaultName = "Default"

// Index bounds for the time/ratio selector values. The deck consumes the raw
// selector index, not a millisecond or ratio figure.
const (
	NumGateTimes          = 45
	NumCompressorRatios   = 15
	NumCompressorAttacks  = 20
	NumCompressorReleases = 20
)

// Gate is the noise gate configuration. Attack and Release are selector
// indexes; Attenuation is a percentage mapped onto the deck's non-linear
// attenuation table on push.
type Gate struct {
	Threshold   int8  `xml:"threshold,attr" json:"threshold"`
	Attack      uint8 `xml:"attack,attr" json:"attack"`
	Release     uint8 `xml:"release,attr" json:"release"`
	Attenuation uint8 `xml:"attenuation,attr" json:"attenuation"`
	Enabled     bool  `xml:"enabled,attr" json:"enabled"`
}

// Compressor is the compressor configuration. Ratio, Attack and Release are
// selector indexes.
type Compressor struct {
	Threshold  int8  `xml:"threshold,attr" json:"threshold"`
	Ratio      uint8 `xml:"ratio,attr" json:"ratio"`
	Attack     uint8 `xml:"attack,attr" json:"attack"`
	Release    uint8 `xml:"release,attr" json:"release"`
	MakeupGain uint8 `xml:"makeup,attr" json:"makeupGain"`
}

// EqBand is one band of the full ten-band equalizer.
type EqBand int

const (
	Eq31Hz EqBand = iota
	Eq63Hz
	Eq125Hz
	Eq250Hz
	Eq500Hz
	Eq1KHz
	Eq2KHz
	Eq4KHz
	Eq8KHz
	Eq16KHz

	NumEqBands = 10
)

var eqBandNames = [NumEqBands]string{
	"31Hz", "63Hz", "125Hz", "250Hz", "500Hz",
	"1KHz", "2KHz", "4KHz", "8KHz", "16KHz",
}

func (b EqBand) String() string {
	if b < 0 || b >= NumEqBands {
		return fmt.Sprintf("EqBand(%d)", int(b))
	}
	return eqBandNames[b]
}

// Adjustable frequency range per band. Low bands sweep 30-300 Hz, mids
// 300-2000 Hz, highs 2-18 kHz.
func (b EqBand) FreqRange() (min, max float32) {
	switch {
	case b <= Eq250Hz:
		return 30, 300
	case b <= Eq2KHz:
		return 300, 2000
	default:
		return 2000, 18000
	}
}

// GainKey returns the effect key carrying this band's gain.
func (b EqBand) GainKey() mixer.EffectKey {
	return mixer.EffectEqualizer31HzGain + mixer.EffectKey(b)
}

// FreqKey returns the effect key carrying this band's frequency.
func (b EqBand) FreqKey() mixer.EffectKey {
	return mixer.EffectEqualizer31HzFrequency + mixer.EffectKey(b)
}

// MiniEqBand is one band of the six-band equalizer used by the smaller deck.
type MiniEqBand int

const (
	MiniEq90Hz MiniEqBand = iota
	MiniEq250Hz
	MiniEq500Hz
	MiniEq1KHz
	MiniEq3KHz
	MiniEq8KHz

	NumMiniEqBands = 6
)

var miniEqBandNames = [NumMiniEqBands]string{
	"90Hz", "250Hz", "500Hz", "1KHz", "3KHz", "8KHz",
}

func (b MiniEqBand) String() string {
	if b < 0 || b >= NumMiniEqBands {
		return fmt.Sprintf("MiniEqBand(%d)", int(b))
	}
	return miniEqBandNames[b]
}

// GainKey returns the mic param key carrying this band's gain.
func (b MiniEqBand) GainKey() mixer.MicParamKey {
	return mixer.ParamEqualizer90HzGain + 2*mixer.MicParamKey(b)
}

// FreqKey returns the mic param key carrying this band's frequency.
func (b MiniEqBand) FreqKey() mixer.MicParamKey {
	return mixer.ParamEqualizer90HzFrequency + 2*mixer.MicParamKey(b)
}

// Equalizer is the full ten-band equalizer: per-band gain and centre frequency.
type Equalizer struct {
	Gains [NumEqBands]int8    `xml:"gains>gain" json:"gains"`
	Freqs [NumEqBands]float32 `xml:"freqs>freq" json:"freqs"`
}

// EqualizerMini is the six-band equalizer.
type EqualizerMini struct {
	Gains [NumMiniEqBands]int8    `xml:"gains>gain" json:"gains"`
	Freqs [NumMiniEqBands]float32 `xml:"freqs>freq" json:"freqs"`
}

// Store is the complete microphone profile. Like the mixer profile it is
// mutated in place by the device controller and persisted only on save.
type Store struct {
	name string

	MicType mixer.MicrophoneType
	// Gains per microphone type, indexed by MicrophoneType. All three are
	// kept so switching type restores the previous gain.
	Gains [3]uint16

	Gate          Gate
	Compressor    Compressor
	Equalizer     Equalizer
	EqualizerMini EqualizerMini

	// De-esser strength as a percentage.
	Deess uint8
}

// New returns the built-in default mic profile.
func New() *Store {
	return &Store{
		name:    DefaultName,
		MicType: mixer.MicDynamic,
		Gains:   [3]uint16{47, 30, 20},
		Gate: Gate{
			Threshold:   -30,
			Release:     3,
			Attenuation: 100,
			Enabled:     true,
		},
		Compressor: Compressor{
			Ratio:   8,
			Attack:  1,
			Release: 10,
		},
		Equalizer: Equalizer{
			Freqs: [NumEqBands]float32{
				31.5, 63, 125, 250, 500, 1000, 2000, 4000, 8000, 16000,
			},
		},
		EqualizerMini: EqualizerMini{
			Freqs: [NumMiniEqBands]float32{90, 250, 500, 1000, 3000, 8000},
		},
	}
}

// Name returns the profile's load/save name.
func (s *Store) Name() string { return s.name }

// SetName renames the in-memory profile (used after save-as).
func (s *Store) SetName(name string) { s.name = name }

// Gain returns the stored gain for a microphone type.
func (s *Store) Gain(t mixer.MicrophoneType) uint16 { return s.Gains[t] }

// SetMicType selects the active microphone input.
func (s *Store) SetMicType(t mixer.MicrophoneType) { s.MicType = t }

// SetGain stores the gain for a microphone type. Gain is in device units
// capped at 72 dB.
func (s *Store) SetGain(t mixer.MicrophoneType, gain uint16) error {
	if gain > 72 {
		return fmt.Errorf("mic gain %d out of range 0..72", gain)
	}
	s.Gains[t] = gain
	return nil
}

// SetGateThreshold stores the gate threshold in dB.
func (s *Store) SetGateThreshold(v int8) (mixer.EffectKey, error) {
	if v < -59 || v > 0 {
		return 0, fmt.Errorf("gate threshold %d out of range -59..0", v)
	}
	s.Gate.Threshold = v
	return mixer.EffectGateThreshold, nil
}

// SetGateAttack stores the gate attack selector index.
func (s *Store) SetGateAttack(idx uint8) (mixer.EffectKey, error) {
	if idx >= NumGateTimes {
		return 0, fmt.Errorf("gate attack index %d out of range", idx)
	}
	s.Gate.Attack = idx
	return mixer.EffectGateAttack, nil
}

// SetGateRelease stores the gate release selector index.
func (s *Store) SetGateRelease(idx uint8) (mixer.EffectKey, error) {
	if idx >= NumGateTimes {
		return 0, fmt.Errorf("gate release index %d out of range", idx)
	}
	s.Gate.Release = idx
	return mixer.EffectGateRelease, nil
}

// SetGateAttenuation stores the closed-gate attenuation percentage.
func (s *Store) SetGateAttenuation(percent uint8) (mixer.EffectKey, error) {
	if percent > 100 {
		return 0, fmt.Errorf("gate attenuation %d out of range 0..100", percent)
	}
	s.Gate.Attenuation = percent
	return mixer.EffectGateAttenuation, nil
}

// SetGateEnabled switches the gate on or off.
func (s *Store) SetGateEnabled(on bool) mixer.EffectKey {
	s.Gate.Enabled = on
	return mixer.EffectGateEnabled
}

// SetCompressorThreshold stores the compressor threshold in dB.
func (s *Store) SetCompressorThreshold(v int8) (mixer.EffectKey, error) {
	if v < -24 || v > 0 {
		return 0, fmt.Errorf("compressor threshold %d out of range -24..0", v)
	}
	s.Compressor.Threshold = v
	return mixer.EffectCompressorThreshold, nil
}

// SetCompressorRatio stores the ratio selector index.
func (s *Store) SetCompressorRatio(idx uint8) (mixer.EffectKey, error) {
	if idx >= NumCompressorRatios {
		return 0, fmt.Errorf("compressor ratio index %d out of range", idx)
	}
	s.Compressor.Ratio = idx
	return mixer.EffectCompressorRatio, nil
}

// SetCompressorAttack stores the attack selector index.
func (s *Store) SetCompressorAttack(idx uint8) (mixer.EffectKey, error) {
	if idx >= NumCompressorAttacks {
		return 0, fmt.Errorf("compressor attack index %d out of range", idx)
	}
	s.Compressor.Attack = idx
	return mixer.EffectCompressorAttack, nil
}

// SetCompressorRelease stores the release selector index.
func (s *Store) SetCompressorRelease(idx uint8) (mixer.EffectKey, error) {
	if idx >= NumCompressorReleases {
		return 0, fmt.Errorf("compressor release index %d out of range", idx)
	}
	s.Compressor.Release = idx
	return mixer.EffectCompressorRelease, nil
}

// SetCompressorMakeupGain stores the makeup gain in dB.
func (s *Store) SetCompressorMakeupGain(v uint8) (mixer.EffectKey, error) {
	if v > 24 {
		return 0, fmt.Errorf("compressor makeup gain %d out of range 0..24", v)
	}
	s.Compressor.MakeupGain = v
	return mixer.EffectCompressorMakeUpGain, nil
}

// SetEqGain stores a full-equalizer band gain in dB.
func (s *Store) SetEqGain(band EqBand, v int8) (mixer.EffectKey, error) {
	if band < 0 || band >= NumEqBands {
		return 0, fmt.Errorf("unknown eq band %d", band)
	}
	if v < -9 || v > 9 {
		return 0, fmt.Errorf("eq gain %d out of range -9..9", v)
	}
	s.Equalizer.Gains[band] = v
	return band.GainKey(), nil
}

// SetEqFreq stores a full-equalizer band centre frequency in Hz.
func (s *Store) SetEqFreq(band EqBand, hz float32) (mixer.EffectKey, error) {
	if band < 0 || band >= NumEqBands {
		return 0, fmt.Errorf("unknown eq band %d", band)
	}
	if min, max := band.FreqRange(); hz < min || hz > max {
		return 0, fmt.Errorf("%v frequency %.1f out of range %.0f..%.0f", band, hz, min, max)
	}
	s.Equalizer.Freqs[band] = hz
	return band.FreqKey(), nil
}

// SetMiniEqGain stores a mini-equalizer band gain in dB.
func (s *Store) SetMiniEqGain(band MiniEqBand, v int8) (mixer.MicParamKey, error) {
	if band < 0 || band >= NumMiniEqBands {
		return 0, fmt.Errorf("unknown mini eq band %d", band)
	}
	if v < -9 || v > 9 {
		return 0, fmt.Errorf("eq gain %d out of range -9..9", v)
	}
	s.EqualizerMini.Gains[band] = v
	return band.GainKey(), nil
}

// SetMiniEqFreq stores a mini-equalizer band centre frequency in Hz.
func (s *Store) SetMiniEqFreq(band MiniEqBand, hz float32) (mixer.MicParamKey, error) {
	if band < 0 || band >= NumMiniEqBands {
		return 0, fmt.Errorf("unknown mini eq band %d", band)
	}
	if hz < 30 || hz > 18000 {
		return 0, fmt.Errorf("frequency %.1f out of range 30..18000", hz)
	}
	s.EqualizerMini.Freqs[band] = hz
	return band.FreqKey(), nil
}

// SetDeess stores the de-esser strength percentage.
func (s *Store) SetDeess(percent uint8) (mixer.EffectKey, error) {
	if percent > 100 {
		return 0, fmt.Errorf("de-esser %d out of range 0..100", percent)
	}
	s.Deess = percent
	return mixer.EffectDeEsser, nil
}

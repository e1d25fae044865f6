package profile

import (
	"fmt"

	"github.com/mixdeck/mixd/mixer"
)

// PitchStyle selects the pitch encoder's travel.
type PitchStyle int

const (
	PitchWide PitchStyle = iota
	PitchNarrow
)

func (s PitchStyle) String() string {
	if s == PitchNarrow {
		return "Narrow"
	}
	return "Wide"
}

func (s PitchStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *PitchStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Wide":
		*s = PitchWide
	case "Narrow":
		*s = PitchNarrow
	default:
		return fmt.Errorf("unknown pitch style %q", string(text))
	}
	return nil
}

// HardTuneSource selects which inputs feed the hard-tune key detector.
type HardTuneSource int

const (
	HardTuneSourceAll HardTuneSource = iota
	HardTuneSourceMusic
	HardTuneSourceGame
	HardTuneSourceLineIn
	HardTuneSourceSystem
)

var hardTuneSourceNames = [...]string{"All", "Music", "Game", "LineIn", "System"}

func (s HardTuneSource) String() string {
	if s < 0 || int(s) >= len(hardTuneSourceNames) {
		return fmt.Sprintf("HardTuneSource(%d)", int(s))
	}
	return hardTuneSourceNames[s]
}

func (s HardTuneSource) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *HardTuneSource) UnmarshalText(text []byte) error {
	for i, n := range hardTuneSourceNames {
		if n == string(text) {
			*s = HardTuneSource(i)
			return nil
		}
	}
	return fmt.Errorf("unknown hard tune source %q", string(text))
}

// Input returns the single routed input for a non-All source.
func (s HardTuneSource) Input() (mixer.Input, bool) {
	switch s {
	case HardTuneSourceMusic:
		return mixer.InputMusic, true
	case HardTuneSourceGame:
		return mixer.InputGame, true
	case HardTuneSourceLineIn:
		return mixer.InputLineIn, true
	case HardTuneSourceSystem:
		return mixer.InputSystem, true
	default:
		return 0, false
	}
}

// ReverbPreset holds one bank's reverb parameters. Amount is the encoder
// knob position; the rest are raw device-scale values.
type ReverbPreset struct {
	Amount     int8 `xml:"amount,attr" json:"amount"`
	Decay      int  `xml:"decay,attr" json:"decay"`
	EarlyLevel int  `xml:"earlyLevel,attr" json:"earlyLevel"`
	Predelay   int  `xml:"predelay,attr" json:"predelay"`
	LoColor    int  `xml:"loColor,attr" json:"loColor"`
	HiColor    int  `xml:"hiColor,attr" json:"hiColor"`
	HiFactor   int  `xml:"hiFactor,attr" json:"hiFactor"`
	Diffuse    int  `xml:"diffuse,attr" json:"diffuse"`
	ModSpeed   int  `xml:"modSpeed,attr" json:"modSpeed"`
	ModDepth   int  `xml:"modDepth,attr" json:"modDepth"`
	Style      int  `xml:"style,attr" json:"style"`
}

// EchoPreset holds one bank's echo parameters.
type EchoPreset struct {
	Amount      int8 `xml:"amount,attr" json:"amount"`
	Feedback    int  `xml:"feedback,attr" json:"feedback"`
	Tempo       int  `xml:"tempo,attr" json:"tempo"`
	DelayL      int  `xml:"delayL,attr" json:"delayL"`
	DelayR      int  `xml:"delayR,attr" json:"delayR"`
	FeedbackL   int  `xml:"feedbackL,attr" json:"feedbackL"`
	FeedbackR   int  `xml:"feedbackR,attr" json:"feedbackR"`
	XFBLtoR     int  `xml:"xfbLtoR,attr" json:"xfbLtoR"`
	XFBRtoL     int  `xml:"xfbRtoL,attr" json:"xfbRtoL"`
	Source      int  `xml:"source,attr" json:"source"`
	DivL        int  `xml:"divL,attr" json:"divL"`
	DivR        int  `xml:"divR,attr" json:"divR"`
	FilterStyle int  `xml:"filterStyle,attr" json:"filterStyle"`
}

// PitchPreset holds one bank's pitch parameters.
type PitchPreset struct {
	Amount    int8       `xml:"amount,attr" json:"amount"`
	Threshold int        `xml:"threshold,attr" json:"threshold"`
	Character int        `xml:"character,attr" json:"character"`
	Style     PitchStyle `xml:"style,attr" json:"style"`
}

// GenderPreset holds one bank's gender parameters.
type GenderPreset struct {
	Amount int8 `xml:"amount,attr" json:"amount"`
}

// MegaphonePreset holds one bank's megaphone parameters.
type MegaphonePreset struct {
	Amount              int  `xml:"amount,attr" json:"amount"`
	PostGain            int  `xml:"postGain,attr" json:"postGain"`
	Style               int  `xml:"style,attr" json:"style"`
	HP                  int  `xml:"hp,attr" json:"hp"`
	LP                  int  `xml:"lp,attr" json:"lp"`
	PreGain             int  `xml:"preGain,attr" json:"preGain"`
	DistType            int  `xml:"distType,attr" json:"distType"`
	PresenceGain        int  `xml:"presenceGain,attr" json:"presenceGain"`
	PresenceFC          int  `xml:"presenceFC,attr" json:"presenceFC"`
	PresenceBW          int  `xml:"presenceBW,attr" json:"presenceBW"`
	BeatboxEnabled      bool `xml:"beatbox,attr" json:"beatbox"`
	FilterControl       int  `xml:"filterControl,attr" json:"filterControl"`
	Filter              int  `xml:"filter,attr" json:"filter"`
	DrivePotGainCompMid int  `xml:"driveGainCompMid,attr" json:"driveGainCompMid"`
	DrivePotGainCompMax int  `xml:"driveGainCompMax,attr" json:"driveGainCompMax"`
}

// RobotPreset holds one bank's robot (vocoder) parameters.
type RobotPreset struct {
	LowGain    int `xml:"lowGain,attr" json:"lowGain"`
	LowFreq    int `xml:"lowFreq,attr" json:"lowFreq"`
	LowWidth   int `xml:"lowWidth,attr" json:"lowWidth"`
	MidGain    int `xml:"midGain,attr" json:"midGain"`
	MidFreq    int `xml:"midFreq,attr" json:"midFreq"`
	MidWidth   int `xml:"midWidth,attr" json:"midWidth"`
	HiGain     int `xml:"hiGain,attr" json:"hiGain"`
	HiFreq     int `xml:"hiFreq,attr" json:"hiFreq"`
	HiWidth    int `xml:"hiWidth,attr" json:"hiWidth"`
	Waveform   int `xml:"waveform,attr" json:"waveform"`
	PulseWidth int `xml:"pulseWidth,attr" json:"pulseWidth"`
	Threshold  int `xml:"threshold,attr" json:"threshold"`
	DryMix     int `xml:"dryMix,attr" json:"dryMix"`
	Style      int `xml:"style,attr" json:"style"`
}

// HardTunePreset holds one bank's hard-tune parameters.
type HardTunePreset struct {
	Amount      int            `xml:"amount,attr" json:"amount"`
	Scale       int            `xml:"scale,attr" json:"scale"`
	PitchAmount int            `xml:"pitchAmount,attr" json:"pitchAmount"`
	Rate        int            `xml:"rate,attr" json:"rate"`
	Window      int            `xml:"window,attr" json:"window"`
	Source      HardTuneSource `xml:"source,attr" json:"source"`
}

// EffectPreset is one effect bank: the seven parameter families selected
// together by an effect-select button.
type EffectPreset struct {
	Reverb    ReverbPreset    `xml:"reverb" json:"reverb"`
	Echo      EchoPreset      `xml:"echo" json:"echo"`
	Pitch     PitchPreset     `xml:"pitch" json:"pitch"`
	Gender    GenderPreset    `xml:"gender" json:"gender"`
	Megaphone MegaphonePreset `xml:"megaphone" json:"megaphone"`
	Robot     RobotPreset     `xml:"robot" json:"robot"`
	HardTune  HardTunePreset  `xml:"hardTune" json:"hardTune"`
}

func defaultEffectPreset() EffectPreset {
	return EffectPreset{
		Reverb: ReverbPreset{Decay: 1500, EarlyLevel: -10, LoColor: 50, HiColor: 50, HiFactor: 5, Diffuse: 50, ModSpeed: 50, ModDepth: 50},
		Echo:   EchoPreset{Feedback: 40, Tempo: 120, DelayL: 250, DelayR: 250, FeedbackL: 50, FeedbackR: 50, DivL: 4, DivR: 4},
		Pitch:  PitchPreset{Threshold: -20, Character: 50},
		Megaphone: MegaphonePreset{
			Amount: 50, HP: 400, LP: 4000, PresenceGain: 6, PresenceFC: 2500, PresenceBW: 2,
			DrivePotGainCompMid: 0, DrivePotGainCompMax: 0,
		},
		Robot: RobotPreset{
			LowFreq: 120, LowWidth: 4, MidFreq: 1200, MidWidth: 4, HiFreq: 4800, HiWidth: 4,
			PulseWidth: 50, Threshold: -36, DryMix: -6,
		},
		HardTune: HardTunePreset{Amount: 50, Rate: 50, Window: 20, Source: HardTuneSourceAll},
	}
}

// ActivePreset returns the currently selected effect bank.
func (p *Profile) ActivePreset() *EffectPreset { return &p.Effects[p.ActiveEffectBank] }

// LoadEffectBank switches the active effect bank.
func (p *Profile) LoadEffectBank(bank mixer.EffectBank) { p.ActiveEffectBank = bank }

// ToggleMegaphone flips the megaphone enabled state.
func (p *Profile) ToggleMegaphone() { p.MegaphoneEnabled = !p.MegaphoneEnabled }

// ToggleRobot flips the robot enabled state.
func (p *Profile) ToggleRobot() { p.RobotEnabled = !p.RobotEnabled }

// ToggleHardTune flips the hard-tune enabled state.
func (p *Profile) ToggleHardTune() { p.HardTuneEnabled = !p.HardTuneEnabled }

// ToggleFx flips the global effects enable.
func (p *Profile) ToggleFx() { p.FxEnabled = !p.FxEnabled }

// PitchValue returns the active bank's pitch knob position.
func (p *Profile) PitchValue() int8 { return p.ActivePreset().Pitch.Amount }

// SetPitchValue stores the active bank's pitch knob position.
func (p *Profile) SetPitchValue(v int8) { p.ActivePreset().Pitch.Amount = v }

// GenderValue returns the active bank's gender knob position.
func (p *Profile) GenderValue() int8 { return p.ActivePreset().Gender.Amount }

// SetGenderValue stores the active bank's gender knob position.
func (p *Profile) SetGenderValue(v int8) { p.ActivePreset().Gender.Amount = v }

// ReverbValue returns the active bank's reverb knob position.
func (p *Profile) ReverbValue() int8 { return p.ActivePreset().Reverb.Amount }

// SetReverbValue stores the active bank's reverb knob position.
func (p *Profile) SetReverbValue(v int8) { p.ActivePreset().Reverb.Amount = v }

// EchoValue returns the active bank's echo knob position.
func (p *Profile) EchoValue() int8 { return p.ActivePreset().Echo.Amount }

// SetEchoValue stores the active bank's echo knob position.
func (p *Profile) SetEchoValue(v int8) { p.ActivePreset().Echo.Amount = v }

// HardTunePitchEnabled reports whether the pitch encoder operates in
// hard-tune semitone steps.
func (p *Profile) HardTunePitchEnabled() bool { return p.HardTuneEnabled }

// PitchNarrow reports whether the active pitch preset uses narrow travel.
func (p *Profile) PitchNarrow() bool { return p.ActivePreset().Pitch.Style == PitchNarrow }

// HardTuneSourceAll reports whether hard tune listens to all music-type inputs.
func (p *Profile) HardTuneSourceAll() bool {
	return p.ActivePreset().HardTune.Source == HardTuneSourceAll
}

// ActiveHardTuneSource returns the configured hard-tune source.
func (p *Profile) ActiveHardTuneSource() HardTuneSource {
	return p.ActivePreset().HardTune.Source
}

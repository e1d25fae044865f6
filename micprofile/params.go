package micprofile

import (
	"encoding/binary"
	"math"

	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// The deck implements gate attenuation as a non-linear 26-entry table while
// the profile stores a percentage, matching the vendor client's mapping.
var gateAttenuation = [26]int8{
	-6, -7, -8, -9, -10, -11, -12, -13, -14, -15, -16, -17, -18, -19, -20,
	-21, -22, -23, -24, -25, -26, -27, -28, -30, -32, -61,
}

// GateAttenuation maps an attenuation percentage to the device dB value.
func GateAttenuation(percent uint8) int8 {
	if percent > 99 {
		return gateAttenuation[25]
	}
	return gateAttenuation[int(float32(percent)*0.24)]
}

func f32Bytes(v float32) [4]byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], math.Float32bits(v))
	return out
}

func gainBytes(v uint16) [4]byte {
	var out [4]byte
	binary.LittleEndian.PutUint16(out[2:], v)
	return out
}

// ParamValue encodes one mic param for the wire. Gains travel as a u16 in the
// high bytes; everything else is a little-endian f32. The bleep level lives in
// the daemon settings rather than the profile, so it is passed in.
func (s *Store) ParamValue(key mixer.MicParamKey, bleep int8) [4]byte {
	switch key {
	case mixer.ParamMicType:
		if s.MicType.HasPhantomPower() {
			return [4]byte{0x01, 0, 0, 0}
		}
		return [4]byte{}
	case mixer.ParamDynamicGain:
		return gainBytes(s.Gains[mixer.MicDynamic])
	case mixer.ParamCondenserGain:
		return gainBytes(s.Gains[mixer.MicCondenser])
	case mixer.ParamJackGain:
		return gainBytes(s.Gains[mixer.MicJack])
	case mixer.ParamGateThreshold:
		return f32Bytes(float32(s.Gate.Threshold))
	case mixer.ParamGateAttack:
		return f32Bytes(float32(s.Gate.Attack))
	case mixer.ParamGateRelease:
		return f32Bytes(float32(s.Gate.Release))
	case mixer.ParamGateAttenuation:
		return f32Bytes(float32(GateAttenuation(s.Gate.Attenuation)))
	case mixer.ParamCompressorThreshold:
		return f32Bytes(float32(s.Compressor.Threshold))
	case mixer.ParamCompressorRatio:
		return f32Bytes(float32(s.Compressor.Ratio))
	case mixer.ParamCompressorAttack:
		return f32Bytes(float32(s.Compressor.Attack))
	case mixer.ParamCompressorRelease:
		return f32Bytes(float32(s.Compressor.Release))
	case mixer.ParamCompressorMakeUpGain:
		return f32Bytes(float32(s.Compressor.MakeupGain))
	case mixer.ParamBleepLevel:
		return f32Bytes(float32(bleep) * 65536.0)
	}

	// Mini equalizer bands, interleaved frequency/gain.
	for b := MiniEq90Hz; b < NumMiniEqBands; b++ {
		switch key {
		case b.FreqKey():
			return f32Bytes(s.EqualizerMini.Freqs[b])
		case b.GainKey():
			return f32Bytes(float32(s.EqualizerMini.Gains[b]))
		}
	}
	return [4]byte{}
}

// eqFreqCode converts a band centre frequency into the deck's logarithmic
// frequency code: 24 steps per octave anchored at 20 Hz.
func eqFreqCode(hz float32) int32 {
	if hz <= 0 {
		return 0
	}
	return int32(math.Round(24 * math.Log2(float64(hz)/20)))
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// EffectValue resolves one effect-table key to its int32 wire value. Gate and
// compressor values come from the mic store, effect parameters from the mixer
// profile's active bank. A handful of keys are fixed constants the vendor
// client always writes.
func (s *Store) EffectValue(key mixer.EffectKey, p *profile.Profile, bleep int8) int32 {
	preset := p.ActivePreset()

	if key >= mixer.EffectEqualizer31HzFrequency && key <= mixer.EffectEqualizer16KHzFrequency {
		return eqFreqCode(s.Equalizer.Freqs[key-mixer.EffectEqualizer31HzFrequency])
	}
	if key >= mixer.EffectEqualizer31HzGain && key <= mixer.EffectEqualizer16KHzGain {
		return int32(s.Equalizer.Gains[key-mixer.EffectEqualizer31HzGain])
	}

	switch key {
	case mixer.EffectDisableMic:
		// The deck keeps reading the mic while the channel is muted; the
		// explicit disable is pushed separately on mute.
		return 0
	case mixer.EffectBleepLevel:
		return int32(bleep)
	case mixer.EffectGateMode:
		return 2
	case mixer.EffectGateEnabled:
		return 1
	case mixer.EffectGateThreshold:
		return int32(s.Gate.Threshold)
	case mixer.EffectGateAttenuation:
		return int32(GateAttenuation(s.Gate.Attenuation))
	case mixer.EffectGateAttack:
		return int32(s.Gate.Attack)
	case mixer.EffectGateRelease:
		return int32(s.Gate.Release)

	case mixer.EffectCompressorThreshold:
		return int32(s.Compressor.Threshold)
	case mixer.EffectCompressorRatio:
		return int32(s.Compressor.Ratio)
	case mixer.EffectCompressorAttack:
		return int32(s.Compressor.Attack)
	case mixer.EffectCompressorRelease:
		return int32(s.Compressor.Release)
	case mixer.EffectCompressorMakeUpGain:
		return int32(s.Compressor.MakeupGain)

	case mixer.EffectDeEsser:
		return int32(s.Deess)

	case mixer.EffectReverbAmount:
		return int32(preset.Reverb.Amount)
	case mixer.EffectReverbDecay:
		return int32(preset.Reverb.Decay)
	case mixer.EffectReverbEarlyLevel:
		return int32(preset.Reverb.EarlyLevel)
	case mixer.EffectReverbTailLevel:
		return 0
	case mixer.EffectReverbPredelay:
		return int32(preset.Reverb.Predelay)
	case mixer.EffectReverbLoColor:
		return int32(preset.Reverb.LoColor)
	case mixer.EffectReverbHiColor:
		return int32(preset.Reverb.HiColor)
	case mixer.EffectReverbHiFactor:
		return int32(preset.Reverb.HiFactor)
	case mixer.EffectReverbDiffuse:
		return int32(preset.Reverb.Diffuse)
	case mixer.EffectReverbModSpeed:
		return int32(preset.Reverb.ModSpeed)
	case mixer.EffectReverbModDepth:
		return int32(preset.Reverb.ModDepth)
	case mixer.EffectReverbStyle:
		return int32(preset.Reverb.Style)

	case mixer.EffectEchoAmount:
		return int32(preset.Echo.Amount)
	case mixer.EffectEchoFeedback:
		return int32(preset.Echo.Feedback)
	case mixer.EffectEchoTempo:
		return int32(preset.Echo.Tempo)
	case mixer.EffectEchoDelayL:
		return int32(preset.Echo.DelayL)
	case mixer.EffectEchoDelayR:
		return int32(preset.Echo.DelayR)
	case mixer.EffectEchoFeedbackL:
		return int32(preset.Echo.FeedbackL)
	case mixer.EffectEchoFeedbackR:
		return int32(preset.Echo.FeedbackR)
	case mixer.EffectEchoXFBLtoR:
		return int32(preset.Echo.XFBLtoR)
	case mixer.EffectEchoXFBRtoL:
		return int32(preset.Echo.XFBRtoL)
	case mixer.EffectEchoSource:
		return int32(preset.Echo.Source)
	case mixer.EffectEchoDivL:
		return int32(preset.Echo.DivL)
	case mixer.EffectEchoDivR:
		return int32(preset.Echo.DivR)
	case mixer.EffectEchoFilterStyle:
		return int32(preset.Echo.FilterStyle)

	case mixer.EffectPitchAmount:
		return int32(preset.Pitch.Amount)
	case mixer.EffectPitchThreshold:
		return int32(preset.Pitch.Threshold)
	case mixer.EffectPitchCharacter:
		return int32(preset.Pitch.Character)

	case mixer.EffectGenderAmount:
		return int32(preset.Gender.Amount)

	case mixer.EffectMegaphoneAmount:
		return int32(preset.Megaphone.Amount)
	case mixer.EffectMegaphonePostGain:
		return int32(preset.Megaphone.PostGain)
	case mixer.EffectMegaphoneStyle:
		return int32(preset.Megaphone.Style)
	case mixer.EffectMegaphoneHP:
		return int32(preset.Megaphone.HP)
	case mixer.EffectMegaphoneLP:
		return int32(preset.Megaphone.LP)
	case mixer.EffectMegaphonePreGain:
		return int32(preset.Megaphone.PreGain)
	case mixer.EffectMegaphoneDistType:
		return int32(preset.Megaphone.DistType)
	case mixer.EffectMegaphonePresenceGain:
		return int32(preset.Megaphone.PresenceGain)
	case mixer.EffectMegaphonePresenceFC:
		return int32(preset.Megaphone.PresenceFC)
	case mixer.EffectMegaphonePresenceBW:
		return int32(preset.Megaphone.PresenceBW)
	case mixer.EffectMegaphoneBeatboxEnable:
		return b2i(preset.Megaphone.BeatboxEnabled)
	case mixer.EffectMegaphoneFilterControl:
		return int32(preset.Megaphone.FilterControl)
	case mixer.EffectMegaphoneFilter:
		return int32(preset.Megaphone.Filter)
	case mixer.EffectMegaphoneDrivePotGainCompMid:
		return int32(preset.Megaphone.DrivePotGainCompMid)
	case mixer.EffectMegaphoneDrivePotGainCompMax:
		return int32(preset.Megaphone.DrivePotGainCompMax)

	case mixer.EffectRobotLowGain:
		return int32(preset.Robot.LowGain)
	case mixer.EffectRobotLowFreq:
		return int32(preset.Robot.LowFreq)
	case mixer.EffectRobotLowWidth:
		return int32(preset.Robot.LowWidth)
	case mixer.EffectRobotMidGain:
		return int32(preset.Robot.MidGain)
	case mixer.EffectRobotMidFreq:
		return int32(preset.Robot.MidFreq)
	case mixer.EffectRobotMidWidth:
		return int32(preset.Robot.MidWidth)
	case mixer.EffectRobotHiGain:
		return int32(preset.Robot.HiGain)
	case mixer.EffectRobotHiFreq:
		return int32(preset.Robot.HiFreq)
	case mixer.EffectRobotHiWidth:
		return int32(preset.Robot.HiWidth)
	case mixer.EffectRobotWaveform:
		return int32(preset.Robot.Waveform)
	case mixer.EffectRobotPulseWidth:
		return int32(preset.Robot.PulseWidth)
	case mixer.EffectRobotThreshold:
		return int32(preset.Robot.Threshold)
	case mixer.EffectRobotDryMix:
		return int32(preset.Robot.DryMix)
	case mixer.EffectRobotStyle:
		return int32(preset.Robot.Style)

	case mixer.EffectHardTuneAmount:
		return int32(preset.HardTune.Amount)
	case mixer.EffectHardTuneKeySource:
		// Always zero; the key source is selected through routing.
		return 0
	case mixer.EffectHardTuneScale:
		return int32(preset.HardTune.Scale)
	case mixer.EffectHardTunePitchAmount:
		return int32(preset.HardTune.PitchAmount)
	case mixer.EffectHardTuneRate:
		return int32(preset.HardTune.Rate)
	case mixer.EffectHardTuneWindow:
		return int32(preset.HardTune.Window)

	case mixer.EffectRobotEnabled:
		return b2i(p.RobotEnabled)
	case mixer.EffectMegaphoneEnabled:
		return b2i(p.MegaphoneEnabled)
	case mixer.EffectHardTuneEnabled:
		return b2i(p.HardTuneEnabled)

	// Encoders are enabled whenever FX is enabled.
	case mixer.EffectEncoder1Enabled, mixer.EffectEncoder2Enabled,
		mixer.EffectEncoder3Enabled, mixer.EffectEncoder4Enabled:
		return b2i(p.FxEnabled)
	}
	return 0
}

// CommonKeys is the keyset pushed on every mic profile apply: the gate and
// compressor chain plus the global enable flags.
func CommonKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectDeEsser,
		mixer.EffectGateThreshold,
		mixer.EffectGateAttack,
		mixer.EffectGateRelease,
		mixer.EffectGateAttenuation,
		mixer.EffectCompressorThreshold,
		mixer.EffectCompressorRatio,
		mixer.EffectCompressorAttack,
		mixer.EffectCompressorRelease,
		mixer.EffectCompressorMakeUpGain,
		mixer.EffectGateEnabled,
		mixer.EffectBleepLevel,
		mixer.EffectGateMode,
		mixer.EffectDisableMic,
		mixer.EffectEncoder1Enabled,
		mixer.EffectEncoder2Enabled,
		mixer.EffectEncoder3Enabled,
		mixer.EffectEncoder4Enabled,
		mixer.EffectRobotEnabled,
		mixer.EffectHardTuneEnabled,
		mixer.EffectMegaphoneEnabled,
	)
}

// FullKeys is every effect key not covered by CommonKeys.
func FullKeys() mixer.KeySet {
	common := CommonKeys()
	full := make(mixer.KeySet, int(mixer.NumEffectKeys)-len(common))
	for k := mixer.EffectKey(0); k < mixer.NumEffectKeys; k++ {
		if !common.Contains(k) {
			full[k] = struct{}{}
		}
	}
	return full
}

// Per-feature keysets, pushed when an effect bank or a single effect changes.

func ReverbKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectReverbAmount, mixer.EffectReverbDecay,
		mixer.EffectReverbEarlyLevel, mixer.EffectReverbTailLevel,
		mixer.EffectReverbPredelay, mixer.EffectReverbLoColor,
		mixer.EffectReverbHiColor, mixer.EffectReverbHiFactor,
		mixer.EffectReverbDiffuse, mixer.EffectReverbModSpeed,
		mixer.EffectReverbModDepth, mixer.EffectReverbStyle,
	)
}

func EchoKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectEchoAmount, mixer.EffectEchoFeedback, mixer.EffectEchoTempo,
		mixer.EffectEchoDelayL, mixer.EffectEchoDelayR,
		mixer.EffectEchoFeedbackL, mixer.EffectEchoFeedbackR,
		mixer.EffectEchoXFBLtoR, mixer.EffectEchoXFBRtoL,
		mixer.EffectEchoSource, mixer.EffectEchoDivL, mixer.EffectEchoDivR,
		mixer.EffectEchoFilterStyle,
	)
}

func PitchKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectPitchAmount, mixer.EffectPitchThreshold,
		mixer.EffectPitchCharacter,
	)
}

func GenderKeys() mixer.KeySet {
	return mixer.NewKeySet(mixer.EffectGenderAmount)
}

func MegaphoneKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectMegaphoneAmount, mixer.EffectMegaphonePostGain,
		mixer.EffectMegaphoneStyle, mixer.EffectMegaphoneHP,
		mixer.EffectMegaphoneLP, mixer.EffectMegaphonePreGain,
		mixer.EffectMegaphoneDistType, mixer.EffectMegaphonePresenceGain,
		mixer.EffectMegaphonePresenceFC, mixer.EffectMegaphonePresenceBW,
		mixer.EffectMegaphoneBeatboxEnable, mixer.EffectMegaphoneFilterControl,
		mixer.EffectMegaphoneFilter, mixer.EffectMegaphoneDrivePotGainCompMid,
		mixer.EffectMegaphoneDrivePotGainCompMax,
	)
}

func RobotKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectRobotLowGain, mixer.EffectRobotLowFreq, mixer.EffectRobotLowWidth,
		mixer.EffectRobotMidGain, mixer.EffectRobotMidFreq, mixer.EffectRobotMidWidth,
		mixer.EffectRobotHiGain, mixer.EffectRobotHiFreq, mixer.EffectRobotHiWidth,
		mixer.EffectRobotWaveform, mixer.EffectRobotPulseWidth,
		mixer.EffectRobotThreshold, mixer.EffectRobotDryMix, mixer.EffectRobotStyle,
	)
}

func HardTuneKeys() mixer.KeySet {
	return mixer.NewKeySet(
		mixer.EffectHardTuneAmount, mixer.EffectHardTuneKeySource,
		mixer.EffectHardTuneScale, mixer.EffectHardTunePitchAmount,
		mixer.EffectHardTuneRate, mixer.EffectHardTuneWindow,
	)
}

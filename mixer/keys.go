package mixer

import "fmt"

// EffectKey addresses one value in the deck's general effect parameter table.
// Values are written as 32-bit integers; most are unit conversions from the
// human-readable profile values.
type EffectKey int

const (
	EffectDisableMic EffectKey = iota
	EffectBleepLevel
	EffectGateMode
	EffectGateEnabled
	EffectGateThreshold
	EffectGateAttenuation
	EffectGateAttack
	EffectGateRelease

	EffectEqualizer31HzFrequency
	EffectEqualizer63HzFrequency
	EffectEqualizer125HzFrequency
	EffectEqualizer250HzFrequency
	EffectEqualizer500HzFrequency
	EffectEqualizer1KHzFrequency
	EffectEqualizer2KHzFrequency
	EffectEqualizer4KHzFrequency
	EffectEqualizer8KHzFrequency
	EffectEqualizer16KHzFrequency

	EffectEqualizer31HzGain
	EffectEqualizer63HzGain
	EffectEqualizer125HzGain
	EffectEqualizer250HzGain
	EffectEqualizer500HzGain
	EffectEqualizer1KHzGain
	EffectEqualizer2KHzGain
	EffectEqualizer4KHzGain
	EffectEqualizer8KHzGain
	EffectEqualizer16KHzGain

	EffectCompressorThreshold
	EffectCompressorRatio
	EffectCompressorAttack
	EffectCompressorRelease
	EffectCompressorMakeUpGain

	EffectDeEsser

	EffectReverbAmount
	EffectReverbDecay
	EffectReverbEarlyLevel
	EffectReverbTailLevel
	EffectReverbPredelay
	EffectReverbLoColor
	EffectReverbHiColor
	EffectReverbHiFactor
	EffectReverbDiffuse
	EffectReverbModSpeed
	EffectReverbModDepth
	EffectReverbStyle

	EffectEchoAmount
	EffectEchoFeedback
	EffectEchoTempo
	EffectEchoDelayL
	EffectEchoDelayR
	EffectEchoFeedbackL
	EffectEchoFeedbackR
	EffectEchoXFBLtoR
	EffectEchoXFBRtoL
	EffectEchoSource
	EffectEchoDivL
	EffectEchoDivR
	EffectEchoFilterStyle

	EffectPitchAmount
	EffectPitchThreshold
	EffectPitchCharacter

	EffectGenderAmount

	EffectMegaphoneAmount
	EffectMegaphonePostGain
	EffectMegaphoneStyle
	EffectMegaphoneHP
	EffectMegaphoneLP
	EffectMegaphonePreGain
	EffectMegaphoneDistType
	EffectMegaphonePresenceGain
	EffectMegaphonePresenceFC
	EffectMegaphonePresenceBW
	EffectMegaphoneBeatboxEnable
	EffectMegaphoneFilterControl
	EffectMegaphoneFilter
	EffectMegaphoneDrivePotGainCompMid
	EffectMegaphoneDrivePotGainCompMax

	EffectRobotLowGain
	EffectRobotLowFreq
	EffectRobotLowWidth
	EffectRobotMidGain
	EffectRobotMidFreq
	EffectRobotMidWidth
	EffectRobotHiGain
	EffectRobotHiFreq
	EffectRobotHiWidth
	EffectRobotWaveform
	EffectRobotPulseWidth
	EffectRobotThreshold
	EffectRobotDryMix
	EffectRobotStyle

	EffectHardTuneAmount
	EffectHardTuneKeySource
	EffectHardTuneScale
	EffectHardTunePitchAmount
	EffectHardTuneRate
	EffectHardTuneWindow

	EffectRobotEnabled
	EffectMegaphoneEnabled
	EffectHardTuneEnabled

	EffectEncoder1Enabled
	EffectEncoder2Enabled
	EffectEncoder3Enabled
	EffectEncoder4Enabled

	NumEffectKeys
)

var effectKeyNames = [NumEffectKeys]string{
	"DisableMic", "BleepLevel", "GateMode", "GateEnabled", "GateThreshold",
	"GateAttenuation", "GateAttack", "GateRelease",
	"Equalizer31HzFrequency", "Equalizer63HzFrequency", "Equalizer125HzFrequency",
	"Equalizer250HzFrequency", "Equalizer500HzFrequency", "Equalizer1KHzFrequency",
	"Equalizer2KHzFrequency", "Equalizer4KHzFrequency", "Equalizer8KHzFrequency",
	"Equalizer16KHzFrequency",
	"Equalizer31HzGain", "Equalizer63HzGain", "Equalizer125HzGain",
	"Equalizer250HzGain", "Equalizer500HzGain", "Equalizer1KHzGain",
	"Equalizer2KHzGain", "Equalizer4KHzGain", "Equalizer8KHzGain",
	"Equalizer16KHzGain",
	"CompressorThreshold", "CompressorRatio", "CompressorAttack",
	"CompressorRelease", "CompressorMakeUpGain",
	"DeEsser",
	"ReverbAmount", "ReverbDecay", "ReverbEarlyLevel", "ReverbTailLevel",
	"ReverbPredelay", "ReverbLoColor", "ReverbHiColor", "ReverbHiFactor",
	"ReverbDiffuse", "ReverbModSpeed", "ReverbModDepth", "ReverbStyle",
	"EchoAmount", "EchoFeedback", "EchoTempo", "EchoDelayL", "EchoDelayR",
	"EchoFeedbackL", "EchoFeedbackR", "EchoXFBLtoR", "EchoXFBRtoL",
	"EchoSource", "EchoDivL", "EchoDivR", "EchoFilterStyle",
	"PitchAmount", "PitchThreshold", "PitchCharacter",
	"GenderAmount",
	"MegaphoneAmount", "MegaphonePostGain", "MegaphoneStyle", "MegaphoneHP",
	"MegaphoneLP", "MegaphonePreGain", "MegaphoneDistType",
	"MegaphonePresenceGain", "MegaphonePresenceFC", "MegaphonePresenceBW",
	"MegaphoneBeatboxEnable", "MegaphoneFilterControl", "MegaphoneFilter",
	"MegaphoneDrivePotGainCompMid", "MegaphoneDrivePotGainCompMax",
	"RobotLowGain", "RobotLowFreq", "RobotLowWidth", "RobotMidGain",
	"RobotMidFreq", "RobotMidWidth", "RobotHiGain", "RobotHiFreq",
	"RobotHiWidth", "RobotWaveform", "RobotPulseWidth", "RobotThreshold",
	"RobotDryMix", "RobotStyle",
	"HardTuneAmount", "HardTuneKeySource", "HardTuneScale",
	"HardTunePitchAmount", "HardTuneRate", "HardTuneWindow",
	"RobotEnabled", "MegaphoneEnabled", "HardTuneEnabled",
	"Encoder1Enabled", "Encoder2Enabled", "Encoder3Enabled", "Encoder4Enabled",
}

func (k EffectKey) String() string {
	if k < 0 || k >= NumEffectKeys {
		return fmt.Sprintf("EffectKey(%d)", int(k))
	}
	return effectKeyNames[k]
}

// MicParamKey addresses one value in the microphone DSP parameter table.
// Values are written as 4-byte device encodings (little-endian floats or
// packed integers).
type MicParamKey int

const (
	ParamMicType MicParamKey = iota
	ParamDynamicGain
	ParamCondenserGain
	ParamJackGain
	ParamGateThreshold
	ParamGateAttack
	ParamGateRelease
	ParamGateAttenuation
	ParamCompressorThreshold
	ParamCompressorRatio
	ParamCompressorAttack
	ParamCompressorRelease
	ParamCompressorMakeUpGain
	ParamBleepLevel
	ParamEqualizer90HzFrequency
	ParamEqualizer90HzGain
	ParamEqualizer250HzFrequency
	ParamEqualizer250HzGain
	ParamEqualizer500HzFrequency
	ParamEqualizer500HzGain
	ParamEqualizer1KHzFrequency
	ParamEqualizer1KHzGain
	ParamEqualizer3KHzFrequency
	ParamEqualizer3KHzGain
	ParamEqualizer8KHzFrequency
	ParamEqualizer8KHzGain

	NumMicParamKeys
)

var micParamKeyNames = [NumMicParamKeys]string{
	"MicType", "DynamicGain", "CondenserGain", "JackGain",
	"GateThreshold", "GateAttack", "GateRelease", "GateAttenuation",
	"CompressorThreshold", "CompressorRatio", "CompressorAttack",
	"CompressorRelease", "CompressorMakeUpGain", "BleepLevel",
	"Equalizer90HzFrequency", "Equalizer90HzGain",
	"Equalizer250HzFrequency", "Equalizer250HzGain",
	"Equalizer500HzFrequency", "Equalizer500HzGain",
	"Equalizer1KHzFrequency", "Equalizer1KHzGain",
	"Equalizer3KHzFrequency", "Equalizer3KHzGain",
	"Equalizer8KHzFrequency", "Equalizer8KHzGain",
}

func (k MicParamKey) String() string {
	if k < 0 || k >= NumMicParamKeys {
		return fmt.Sprintf("MicParamKey(%d)", int(k))
	}
	return micParamKeyNames[k]
}

// KeySet is a set of effect keys to re-push after a store change.
type KeySet map[EffectKey]struct{}

// NewKeySet builds a set from the given keys.
func NewKeySet(keys ...EffectKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts every key from other into s.
func (s KeySet) Add(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Keys returns the members in an unspecified order.
func (s KeySet) Keys() []EffectKey {
	out := make([]EffectKey, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// Contains reports membership.
func (s KeySet) Contains(k EffectKey) bool {
	_, ok := s[k]
	return ok
}

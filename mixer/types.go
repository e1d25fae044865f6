// Package mixer defines the shared domain types for the MixDeck control
// daemon: channels, faders, buttons, routing endpoints and the fixed-size
// shapes the hardware wire layer expects. Pure data, no I/O.
package mixer

import "fmt"

// Channel is a logical audio source/sink with its own volume and mute state.
type Channel int

const (
	ChannelMic Channel = iota
	ChannelLineIn
	ChannelConsole
	ChannelSystem
	ChannelGame
	ChannelChat
	ChannelSample
	ChannelMusic
	ChannelHeadphones
	ChannelMicMonitor
	ChannelLineOut

	NumChannels = 11
)

var channelNames = [NumChannels]string{
	"Mic", "LineIn", "Console", "System", "Game", "Chat",
	"Sample", "Music", "Headphones", "MicMonitor", "LineOut",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// MarshalText implements encoding.TextMarshaler so channels serialize by name.
func (c Channel) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Channel) UnmarshalText(text []byte) error {
	parsed, err := ParseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseChannel resolves a channel by its canonical name.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}

// Channels returns all channels in declaration order.
func Channels() []Channel {
	out := make([]Channel, NumChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// Fader is one of the four physical volume-slider + mute-button units.
type Fader int

const (
	FaderA Fader = iota
	FaderB
	FaderC
	FaderD

	NumFaders = 4
)

func (f Fader) String() string {
	if f < 0 || f >= NumFaders {
		return fmt.Sprintf("Fader(%d)", int(f))
	}
	return [NumFaders]string{"A", "B", "C", "D"}[f]
}

// Faders returns all faders in slot order.
func Faders() []Fader { return []Fader{FaderA, FaderB, FaderC, FaderD} }

// MuteFunction selects what a non-held mute press silences.
type MuteFunction int

const (
	MuteAll MuteFunction = iota
	MuteToStream
	MuteToVoiceChat
	MuteToPhones
	MuteToLineOut
)

var muteFunctionNames = [...]string{"All", "ToStream", "ToVoiceChat", "ToPhones", "ToLineOut"}

func (m MuteFunction) String() string {
	if m < 0 || int(m) >= len(muteFunctionNames) {
		return fmt.Sprintf("MuteFunction(%d)", int(m))
	}
	return muteFunctionNames[m]
}

func (m MuteFunction) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MuteFunction) UnmarshalText(text []byte) error {
	for i, n := range muteFunctionNames {
		if n == string(text) {
			*m = MuteFunction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mute function %q", string(text))
}

// ChannelState is the hardware-level mute state of a channel.
type ChannelState int

const (
	Unmuted ChannelState = iota
	Muted
)

func (s ChannelState) String() string {
	if s == Muted {
		return "Muted"
	}
	return "Unmuted"
}

// Button identifies one physical button on the deck. The wire layer
// addresses lighting as a fixed array of NumButtons slots in this order;
// the final slot is reserved by the firmware.
type Button int

const (
	ButtonFader1Mute Button = iota
	ButtonFader2Mute
	ButtonFader3Mute
	ButtonFader4Mute
	ButtonBleep
	ButtonCough
	ButtonEffectSelect1
	ButtonEffectSelect2
	ButtonEffectSelect3
	ButtonEffectSelect4
	ButtonEffectSelect5
	ButtonEffectSelect6
	ButtonEffectFx
	ButtonEffectMegaphone
	ButtonEffectRobot
	ButtonEffectHardTune
	ButtonSampleSelectA
	ButtonSampleSelectB
	ButtonSampleSelectC
	ButtonSampleTopLeft
	ButtonSampleTopRight
	ButtonSampleBottomLeft
	ButtonSampleBottomRight
	buttonReserved

	NumButtons = 24
)

var buttonNames = [NumButtons]string{
	"Fader1Mute", "Fader2Mute", "Fader3Mute", "Fader4Mute",
	"Bleep", "Cough",
	"EffectSelect1", "EffectSelect2", "EffectSelect3",
	"EffectSelect4", "EffectSelect5", "EffectSelect6",
	"EffectFx", "EffectMegaphone", "EffectRobot", "EffectHardTune",
	"SampleSelectA", "SampleSelectB", "SampleSelectC",
	"SampleTopLeft", "SampleTopRight", "SampleBottomLeft", "SampleBottomRight",
	"Reserved",
}

func (b Button) String() string {
	if b < 0 || b >= NumButtons {
		return fmt.Sprintf("Button(%d)", int(b))
	}
	return buttonNames[b]
}

// MuteButton returns the mute button that belongs to a fader slot.
func (f Fader) MuteButton() Button { return ButtonFader1Mute + Button(f) }

// LightState is a button lighting instruction.
type LightState int

const (
	LightDimmedColour1 LightState = iota
	LightOn
	LightOff
	LightFlashing
	LightDimmedColour2
	LightColour2
)

func (l LightState) String() string {
	names := [...]string{"DimmedColour1", "On", "Off", "Flashing", "DimmedColour2", "Colour2"}
	if l < 0 || int(l) >= len(names) {
		return fmt.Sprintf("LightState(%d)", int(l))
	}
	return names[l]
}

// Encoder is one of the four effect rotary encoders.
type Encoder int

const (
	EncoderPitch Encoder = iota
	EncoderGender
	EncoderReverb
	EncoderEcho

	NumEncoders = 4
)

func (e Encoder) String() string {
	if e < 0 || e >= NumEncoders {
		return fmt.Sprintf("Encoder(%d)", int(e))
	}
	return [NumEncoders]string{"Pitch", "Gender", "Reverb", "Echo"}[e]
}

// MicrophoneType selects which physical mic input (and gain) is live.
type MicrophoneType int

const (
	MicDynamic MicrophoneType = iota
	MicCondenser
	MicJack

	NumMicTypes = 3
)

var micTypeNames = [NumMicTypes]string{"Dynamic", "Condenser", "Jack"}

func (m MicrophoneType) String() string {
	if m < 0 || m >= NumMicTypes {
		return fmt.Sprintf("MicrophoneType(%d)", int(m))
	}
	return micTypeNames[m]
}

func (m MicrophoneType) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *MicrophoneType) UnmarshalText(text []byte) error {
	for i, n := range micTypeNames {
		if n == string(text) {
			*m = MicrophoneType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown microphone type %q", string(text))
}

// GainParam returns the mic param key carrying this type's gain.
func (m MicrophoneType) GainParam() MicParamKey {
	switch m {
	case MicCondenser:
		return ParamCondenserGain
	case MicJack:
		return ParamJackGain
	default:
		return ParamDynamicGain
	}
}

// HasPhantomPower reports whether the input needs +48V.
func (m MicrophoneType) HasPhantomPower() bool { return m == MicCondenser }

// EffectBank is one of the six effect preset slots.
type EffectBank int

const (
	EffectBank1 EffectBank = iota
	EffectBank2
	EffectBank3
	EffectBank4
	EffectBank5
	EffectBank6

	NumEffectBanks = 6
)

func (b EffectBank) String() string { return fmt.Sprintf("Preset%d", int(b)+1) }

// SampleBank is one of the three sampler banks.
type SampleBank int

const (
	SampleBankA SampleBank = iota
	SampleBankB
	SampleBankC

	NumSampleBanks = 3
)

func (b SampleBank) String() string {
	if b < 0 || b >= NumSampleBanks {
		return fmt.Sprintf("SampleBank(%d)", int(b))
	}
	return [NumSampleBanks]string{"A", "B", "C"}[b]
}

// SamplePad is one of the four sampler trigger pads.
type SamplePad int

const (
	PadTopLeft SamplePad = iota
	PadTopRight
	PadBottomLeft
	PadBottomRight

	NumSamplePads = 4
)

func (p SamplePad) String() string {
	if p < 0 || p >= NumSamplePads {
		return fmt.Sprintf("SamplePad(%d)", int(p))
	}
	return [NumSamplePads]string{"TopLeft", "TopRight", "BottomLeft", "BottomRight"}[p]
}

// Button returns the physical button driving this pad.
func (p SamplePad) Button() Button { return ButtonSampleTopLeft + Button(p) }

// FaderDisplay is the scribble-strip rendering style of a fader.
type FaderDisplay int

const (
	DisplayTwoColour FaderDisplay = iota
	DisplayGradient
	DisplayMeter
	DisplayGradientMeter
)

var faderDisplayNames = [...]string{"TwoColour", "Gradient", "Meter", "GradientMeter"}

func (d FaderDisplay) String() string {
	if d < 0 || int(d) >= len(faderDisplayNames) {
		return fmt.Sprintf("FaderDisplay(%d)", int(d))
	}
	return faderDisplayNames[d]
}

func (d FaderDisplay) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *FaderDisplay) UnmarshalText(text []byte) error {
	for i, n := range faderDisplayNames {
		if n == string(text) {
			*d = FaderDisplay(i)
			return nil
		}
	}
	return fmt.Errorf("unknown fader display %q", string(text))
}

// Gradient reports whether the style paints a colour gradient.
func (d FaderDisplay) Gradient() bool {
	return d == DisplayGradient || d == DisplayGradientMeter
}

// Meter reports whether the style overlays the level meter.
func (d FaderDisplay) Meter() bool {
	return d == DisplayMeter || d == DisplayGradientMeter
}

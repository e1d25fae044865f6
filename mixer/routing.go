package mixer

import "fmt"

// Input is a routable logical input channel. Not every Channel is routable;
// InputForChannel maps between the two.
type Input int

const (
	InputMic Input = iota
	InputChat
	InputMusic
	InputGame
	InputConsole
	InputLineIn
	InputSystem
	InputSamples

	NumInputs = 8
)

var inputNames = [NumInputs]string{
	"Mic", "Chat", "Music", "Game", "Console", "LineIn", "System", "Samples",
}

func (i Input) String() string {
	if i < 0 || i >= NumInputs {
		return fmt.Sprintf("Input(%d)", int(i))
	}
	return inputNames[i]
}

func (i Input) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Input) UnmarshalText(text []byte) error {
	for idx, n := range inputNames {
		if n == string(text) {
			*i = Input(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown input %q", string(text))
}

// Inputs returns all routable inputs in declaration order.
func Inputs() []Input {
	out := make([]Input, NumInputs)
	for i := range out {
		out[i] = Input(i)
	}
	return out
}

// Channel returns the channel carrying this input's volume and mute state.
func (i Input) Channel() Channel {
	switch i {
	case InputMic:
		return ChannelMic
	case InputChat:
		return ChannelChat
	case InputMusic:
		return ChannelMusic
	case InputGame:
		return ChannelGame
	case InputConsole:
		return ChannelConsole
	case InputLineIn:
		return ChannelLineIn
	case InputSystem:
		return ChannelSystem
	default:
		return ChannelSample
	}
}

// InputForChannel maps a channel to its routable input. The second return is
// false for channels that have no routing row (Headphones, MicMonitor, LineOut).
func InputForChannel(c Channel) (Input, bool) {
	switch c {
	case ChannelMic:
		return InputMic, true
	case ChannelChat:
		return InputChat, true
	case ChannelMusic:
		return InputMusic, true
	case ChannelGame:
		return InputGame, true
	case ChannelConsole:
		return InputConsole, true
	case ChannelLineIn:
		return InputLineIn, true
	case ChannelSystem:
		return InputSystem, true
	case ChannelSample:
		return InputSamples, true
	default:
		return 0, false
	}
}

// Output is a routable logical destination.
type Output int

const (
	OutputHeadphones Output = iota
	OutputBroadcastMix
	OutputLineOut
	OutputChatMic
	OutputSampler

	NumOutputs = 5
)

var outputNames = [NumOutputs]string{
	"Headphones", "BroadcastMix", "LineOut", "ChatMic", "Sampler",
}

func (o Output) String() string {
	if o < 0 || o >= NumOutputs {
		return fmt.Sprintf("Output(%d)", int(o))
	}
	return outputNames[o]
}

func (o Output) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Output) UnmarshalText(text []byte) error {
	for idx, n := range outputNames {
		if n == string(text) {
			*o = Output(idx)
			return nil
		}
	}
	return fmt.Errorf("unknown output %q", string(text))
}

// Outputs returns all routable outputs in declaration order.
func Outputs() []Output {
	out := make([]Output, NumOutputs)
	for i := range out {
		out[i] = Output(i)
	}
	return out
}

// RouteMap is one input's boolean routing row over all outputs.
type RouteMap [NumOutputs]bool

// The hardware routing matrix is written per physical input side as a
// fixed array of destination gain bytes. Slots are mono; logical outputs
// occupy a left/right pair, hard tune a single mono slot.
const NumRouteSlots = 22

// Destination gain bytes. The matrix is connectivity, not mixing: an enabled
// destination always gets the same constant.
const (
	RouteGainOn          = 0x20
	RouteGainHardTuneAll = 0x04
	RouteGainHardTuneOne = 0x10
)

// PhysicalInput is the wire-level identifier of one input side.
type PhysicalInput int

const (
	physMicLeft PhysicalInput = iota
	physMicRight
	physChatLeft
	physChatRight
	physMusicLeft
	physMusicRight
	physGameLeft
	physGameRight
	physConsoleLeft
	physConsoleRight
	physLineInLeft
	physLineInRight
	physSystemLeft
	physSystemRight
	physSamplesLeft
	physSamplesRight
)

// Sides returns the left and right physical inputs of a logical input.
func (i Input) Sides() (left, right PhysicalInput) {
	base := PhysicalInput(int(i) * 2)
	return base, base + 1
}

// Wire positions of each output's left and right slots in a routing row.
var outputSlots = [NumOutputs][2]int{
	OutputHeadphones:   {1, 2},
	OutputBroadcastMix: {3, 4},
	OutputLineOut:      {5, 6},
	OutputChatMic:      {7, 8},
	OutputSampler:      {9, 10},
}

// Slots returns the left and right slot positions of an output.
func (o Output) Slots() (left, right int) {
	s := outputSlots[o]
	return s[0], s[1]
}

// HardTuneSlot is the mono routing slot feeding the hard-tune key detector.
const HardTuneSlot = 11

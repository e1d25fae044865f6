// Package device implements the controller owning one attached deck: the
// poll loop classifying button input, the mute state machines, routing
// application and the command surface. All hardware I/O goes through the
// Session contract; the controller itself never touches USB.
package device

import "github.com/mixdeck/mixd/mixer"

// InputSnapshot is one poll read of the deck's physical state.
type InputSnapshot struct {
	Pressed  [mixer.NumButtons]bool
	Volumes  [mixer.NumFaders]uint8
	Encoders [mixer.NumEncoders]int8
}

// MicParam is one keyed microphone DSP value in wire encoding.
type MicParam struct {
	Key   mixer.MicParamKey
	Value [4]byte
}

// EffectValue is one keyed effect-table value.
type EffectValue struct {
	Key   mixer.EffectKey
	Value int32
}

// Session is the open connection to one deck. Implementations wrap the USB
// transport; every call may fail with a transport error. The controller
// decides per call site whether a failure is fatal to the operation or
// logged and swallowed.
type Session interface {
	ReadInputSnapshot() (InputSnapshot, error)
	KernelDriverAttached() (bool, error)

	SetFader(f mixer.Fader, c mixer.Channel) error
	SetVolume(c mixer.Channel, volume uint8) error
	SetChannelState(c mixer.Channel, state mixer.ChannelState) error

	// SetRouting writes one physical input side's destination gain row.
	SetRouting(in mixer.PhysicalInput, row [mixer.NumRouteSlots]byte) error

	SetButtonStates(states [mixer.NumButtons]mixer.LightState) error
	SetColourMap(data []byte) error
	SetFaderDisplayMode(f mixer.Fader, gradient, meter bool) error

	SetEncoderValue(e mixer.Encoder, value uint8) error
	SetEncoderMode(e mixer.Encoder, mode, divisor uint8) error

	SetMicParams(params []MicParam) error
	SetEffectValues(values []EffectValue) error
	SetMicrophoneGain(t mixer.MicrophoneType, gain uint16) error
}

// Player is the sample playback collaborator. Absent (nil) players degrade
// pad presses to an error and lighting resync to a no-op.
type Player interface {
	// Play starts playback of a sample file for a pad.
	Play(pad mixer.SamplePad, path string) error
	// Playing reports whether a pad's playback is still running.
	Playing(pad mixer.SamplePad) bool
	// Reap releases finished playback resources. Called once per poll tick.
	Reap()
}

// Settings is the daemon settings consumed by the controller: ancillary
// per-device configuration that lives outside the profiles. Implemented by
// the settings package; calls are synchronous and must never route back
// through the controller's own queue.
type Settings interface {
	ProfileDirectory() string
	MicProfileDirectory() string
	SamplesDirectory() string

	ProfileName(serial string) string
	SetProfileName(serial, name string) error
	MicProfileName(serial string) string
	SetMicProfileName(serial, name string) error

	BleepVolume(serial string) int8
	SetBleepVolume(serial string, volume int8) error
}

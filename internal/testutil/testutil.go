// Package testutil provides hand-written fakes for the device package's
// collaborators: a recording hardware session, an in-memory settings store
// and a scriptable sample player.
package testutil

import (
	"fmt"

	"github.com/mixdeck/mixd/device"
	"github.com/mixdeck/mixd/mixer"
)

// FakeSession implements device.Session in memory. Every write is recorded
// both as last-value state and as an ordered call log, so tests can assert
// either "the hardware ended up in state X" or "exactly these calls
// happened".
type FakeSession struct {
	// Scripted poll input.
	Snapshot    device.InputSnapshot
	SnapshotErr error
	Kernel      bool

	// Forced failure for every Set call when non-nil.
	Err error

	Volumes      map[mixer.Channel]uint8
	States       map[mixer.Channel]mixer.ChannelState
	FaderAssign  map[mixer.Fader]mixer.Channel
	Routing      map[mixer.PhysicalInput][mixer.NumRouteSlots]byte
	ButtonStates [mixer.NumButtons]mixer.LightState
	ColourMap    []byte
	Encoders     map[mixer.Encoder]uint8
	EncoderModes map[mixer.Encoder][2]uint8
	MicParams    map[mixer.MicParamKey][4]byte
	Effects      map[mixer.EffectKey]int32
	MicGainType  mixer.MicrophoneType
	MicGain      uint16

	Calls []string
}

// NewFakeSession returns a session with empty state maps.
func NewFakeSession() *FakeSession {
	return &FakeSession{
		Volumes:      make(map[mixer.Channel]uint8),
		States:       make(map[mixer.Channel]mixer.ChannelState),
		FaderAssign:  make(map[mixer.Fader]mixer.Channel),
		Routing:      make(map[mixer.PhysicalInput][mixer.NumRouteSlots]byte),
		Encoders:     make(map[mixer.Encoder]uint8),
		EncoderModes: make(map[mixer.Encoder][2]uint8),
		MicParams:    make(map[mixer.MicParamKey][4]byte),
		Effects:      make(map[mixer.EffectKey]int32),
	}
}

func (s *FakeSession) record(format string, args ...any) error {
	s.Calls = append(s.Calls, fmt.Sprintf(format, args...))
	return s.Err
}

// CallCount returns how many recorded calls start with the given prefix.
func (s *FakeSession) CallCount(prefix string) int {
	n := 0
	for _, c := range s.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (s *FakeSession) ReadInputSnapshot() (device.InputSnapshot, error) {
	return s.Snapshot, s.SnapshotErr
}

func (s *FakeSession) KernelDriverAttached() (bool, error) { return s.Kernel, nil }

func (s *FakeSession) SetFader(f mixer.Fader, c mixer.Channel) error {
	s.FaderAssign[f] = c
	return s.record("SetFader %v %v", f, c)
}

func (s *FakeSession) SetVolume(c mixer.Channel, v uint8) error {
	s.Volumes[c] = v
	return s.record("SetVolume %v %d", c, v)
}

func (s *FakeSession) SetChannelState(c mixer.Channel, st mixer.ChannelState) error {
	s.States[c] = st
	return s.record("SetChannelState %v %v", c, st)
}

func (s *FakeSession) SetRouting(in mixer.PhysicalInput, row [mixer.NumRouteSlots]byte) error {
	s.Routing[in] = row
	return s.record("SetRouting %d", in)
}

func (s *FakeSession) SetButtonStates(states [mixer.NumButtons]mixer.LightState) error {
	s.ButtonStates = states
	return s.record("SetButtonStates")
}

func (s *FakeSession) SetColourMap(data []byte) error {
	s.ColourMap = append([]byte(nil), data...)
	return s.record("SetColourMap %d", len(data))
}

func (s *FakeSession) SetFaderDisplayMode(f mixer.Fader, gradient, meter bool) error {
	return s.record("SetFaderDisplayMode %v %v %v", f, gradient, meter)
}

func (s *FakeSession) SetEncoderValue(e mixer.Encoder, v uint8) error {
	s.Encoders[e] = v
	return s.record("SetEncoderValue %v %d", e, v)
}

func (s *FakeSession) SetEncoderMode(e mixer.Encoder, mode, divisor uint8) error {
	s.EncoderModes[e] = [2]uint8{mode, divisor}
	return s.record("SetEncoderMode %v %d %d", e, mode, divisor)
}

func (s *FakeSession) SetMicParams(params []device.MicParam) error {
	for _, p := range params {
		s.MicParams[p.Key] = p.Value
	}
	return s.record("SetMicParams %d", len(params))
}

func (s *FakeSession) SetEffectValues(values []device.EffectValue) error {
	for _, v := range values {
		s.Effects[v.Key] = v.Value
	}
	return s.record("SetEffectValues %d", len(values))
}

func (s *FakeSession) SetMicrophoneGain(t mixer.MicrophoneType, gain uint16) error {
	s.MicGainType, s.MicGain = t, gain
	return s.record("SetMicrophoneGain %v %d", t, gain)
}

// FakeSettings implements device.Settings in memory.
type FakeSettings struct {
	ProfileDir    string
	MicProfileDir string
	SamplesDir    string

	Profiles    map[string]string
	MicProfiles map[string]string
	Bleep       map[string]int8
}

// NewFakeSettings returns settings rooted at the given directory with a
// default bleep volume of -20.
func NewFakeSettings(dir string) *FakeSettings {
	return &FakeSettings{
		ProfileDir:    dir,
		MicProfileDir: dir,
		SamplesDir:    dir,
		Profiles:      make(map[string]string),
		MicProfiles:   make(map[string]string),
		Bleep:         make(map[string]int8),
	}
}

func (s *FakeSettings) ProfileDirectory() string    { return s.ProfileDir }
func (s *FakeSettings) MicProfileDirectory() string { return s.MicProfileDir }
func (s *FakeSettings) SamplesDirectory() string    { return s.SamplesDir }

func (s *FakeSettings) ProfileName(serial string) string {
	if n, ok := s.Profiles[serial]; ok {
		return n
	}
	return "Default"
}

func (s *FakeSettings) SetProfileName(serial, name string) error {
	s.Profiles[serial] = name
	return nil
}

func (s *FakeSettings) MicProfileName(serial string) string {
	if n, ok := s.MicProfiles[serial]; ok {
		return n
	}
	return "Default"
}

func (s *FakeSettings) SetMicProfileName(serial, name string) error {
	s.MicProfiles[serial] = name
	return nil
}

func (s *FakeSettings) BleepVolume(serial string) int8 {
	if v, ok := s.Bleep[serial]; ok {
		return v
	}
	return -20
}

func (s *FakeSettings) SetBleepVolume(serial string, v int8) error {
	s.Bleep[serial] = v
	return nil
}

// FakePlayer implements device.Player. Playback state is scripted by tests.
type FakePlayer struct {
	Played  []string
	Active  map[mixer.SamplePad]bool
	PlayErr error
}

// NewFakePlayer returns a player with no active playback.
func NewFakePlayer() *FakePlayer {
	return &FakePlayer{Active: make(map[mixer.SamplePad]bool)}
}

func (p *FakePlayer) Play(pad mixer.SamplePad, path string) error {
	if p.PlayErr != nil {
		return p.PlayErr
	}
	p.Played = append(p.Played, path)
	p.Active[pad] = true
	return nil
}

func (p *FakePlayer) Playing(pad mixer.SamplePad) bool { return p.Active[pad] }

func (p *FakePlayer) Reap() {}

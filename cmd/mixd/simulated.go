package main

import (
	"sync"

	"github.com/mixdeck/mixd/device"
	"github.com/mixdeck/mixd/mixer"
)

// simulatedSession is an in-memory stand-in for the USB transport, used to
// run the daemon without hardware attached. Pushed fader assignments and
// volumes are echoed back through the input snapshot so the poll loop sees
// a deck that holds the state it was given.
type simulatedSession struct {
	mu      sync.Mutex
	faders  [mixer.NumFaders]mixer.Channel
	volumes map[mixer.Channel]uint8
}

func newSimulatedSession() *simulatedSession {
	return &simulatedSession{volumes: make(map[mixer.Channel]uint8)}
}

func (s *simulatedSession) ReadInputSnapshot() (device.InputSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var snap device.InputSnapshot
	for f, ch := range s.faders {
		snap.Volumes[f] = s.volumes[ch]
	}
	return snap, nil
}

func (s *simulatedSession) KernelDriverAttached() (bool, error) { return false, nil }

func (s *simulatedSession) SetFader(f mixer.Fader, ch mixer.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faders[f] = ch
	return nil
}

func (s *simulatedSession) SetVolume(ch mixer.Channel, v uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes[ch] = v
	return nil
}

func (s *simulatedSession) SetChannelState(mixer.Channel, mixer.ChannelState) error { return nil }

func (s *simulatedSession) SetRouting(mixer.PhysicalInput, [mixer.NumRouteSlots]byte) error {
	return nil
}

func (s *simulatedSession) SetButtonStates([mixer.NumButtons]mixer.LightState) error { return nil }

func (s *simulatedSession) SetColourMap([]byte) error { return nil }

func (s *simulatedSession) SetFaderDisplayMode(mixer.Fader, bool, bool) error { return nil }

func (s *simulatedSession) SetEncoderValue(mixer.Encoder, uint8) error { return nil }

func (s *simulatedSession) SetEncoderMode(mixer.Encoder, uint8, uint8) error { return nil }

func (s *simulatedSession) SetMicParams([]device.MicParam) error { return nil }

func (s *simulatedSession) SetEffectValues([]device.EffectValue) error { return nil }

func (s *simulatedSession) SetMicrophoneGain(mixer.MicrophoneType, uint16) error { return nil }

package device

import (
	"errors"
	"testing"
	"time"

	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// Minimal in-package session fake. The richer recording fake lives in
// internal/testutil for black-box tests; this one only tracks what the
// white-box tests assert on.
type fakeSession struct {
	snapshot    InputSnapshot
	snapshotErr error

	volumes  map[mixer.Channel]uint8
	states   map[mixer.Channel]mixer.ChannelState
	routing  map[mixer.PhysicalInput][mixer.NumRouteSlots]byte
	encoders map[mixer.Encoder]uint8
	modes    map[mixer.Encoder][2]uint8
	effects  map[mixer.EffectKey]int32
	err      error
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		volumes:  make(map[mixer.Channel]uint8),
		states:   make(map[mixer.Channel]mixer.ChannelState),
		routing:  make(map[mixer.PhysicalInput][mixer.NumRouteSlots]byte),
		encoders: make(map[mixer.Encoder]uint8),
		modes:    make(map[mixer.Encoder][2]uint8),
		effects:  make(map[mixer.EffectKey]int32),
	}
}

func (s *fakeSession) ReadInputSnapshot() (InputSnapshot, error) {
	return s.snapshot, s.snapshotErr
}
func (s *fakeSession) KernelDriverAttached() (bool, error) { return false, nil }
func (s *fakeSession) SetFader(mixer.Fader, mixer.Channel) error {
	return s.err
}
func (s *fakeSession) SetVolume(c mixer.Channel, v uint8) error {
	s.volumes[c] = v
	return s.err
}
func (s *fakeSession) SetChannelState(c mixer.Channel, st mixer.ChannelState) error {
	s.states[c] = st
	return s.err
}
func (s *fakeSession) SetRouting(in mixer.PhysicalInput, row [mixer.NumRouteSlots]byte) error {
	s.routing[in] = row
	return s.err
}
func (s *fakeSession) SetButtonStates([mixer.NumButtons]mixer.LightState) error { return s.err }
func (s *fakeSession) SetColourMap([]byte) error                                { return s.err }
func (s *fakeSession) SetFaderDisplayMode(mixer.Fader, bool, bool) error        { return s.err }
func (s *fakeSession) SetEncoderValue(e mixer.Encoder, v uint8) error {
	s.encoders[e] = v
	return s.err
}
func (s *fakeSession) SetEncoderMode(e mixer.Encoder, mode, div uint8) error {
	s.modes[e] = [2]uint8{mode, div}
	return s.err
}
func (s *fakeSession) SetMicParams([]MicParam) error { return s.err }
func (s *fakeSession) SetEffectValues(values []EffectValue) error {
	for _, v := range values {
		s.effects[v.Key] = v.Value
	}
	return s.err
}
func (s *fakeSession) SetMicrophoneGain(mixer.MicrophoneType, uint16) error { return s.err }

type fakeSettings struct{ bleep int8 }

func (s fakeSettings) ProfileDirectory() string               { return "" }
func (s fakeSettings) MicProfileDirectory() string            { return "" }
func (s fakeSettings) SamplesDirectory() string               { return "" }
func (s fakeSettings) ProfileName(string) string              { return profile.DefaultName }
func (s fakeSettings) SetProfileName(string, string) error    { return nil }
func (s fakeSettings) MicProfileName(string) string           { return micprofile.DefaultName }
func (s fakeSettings) SetMicProfileName(string, string) error { return nil }
func (s fakeSettings) BleepVolume(string) int8                { return s.bleep }
func (s fakeSettings) SetBleepVolume(string, int8) error      { return nil }

func newTestController(session *fakeSession) *Controller {
	return &Controller{
		session:  session,
		serial:   "TEST01",
		settings: fakeSettings{bleep: -20},
		profile:  profile.New(),
		mic:      micprofile.New(),
		now:      time.Now,
	}
}

func TestHoldMuteFullCycle(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	// Fader A carries Mic at the default 192.
	if err := c.handleFaderMute(mixer.FaderA, true); err != nil {
		t.Fatalf("hold: %v", err)
	}
	m := c.profile.MuteState(mixer.FaderA)
	if !m.MutedToX || !m.MutedToAll || !m.Blink {
		t.Fatalf("hold state: %+v", m)
	}
	if m.PreviousVolume != 192 {
		t.Fatalf("previous volume: want 192 got %d", m.PreviousVolume)
	}
	if fs.volumes[mixer.ChannelMic] != 0 || fs.states[mixer.ChannelMic] != mixer.Muted {
		t.Fatalf("hardware not fully muted: vol %d state %v",
			fs.volumes[mixer.ChannelMic], fs.states[mixer.ChannelMic])
	}
	if c.profile.Volume(mixer.ChannelMic) != 0 {
		t.Fatalf("store volume should be zeroed")
	}

	// Repeated hold ticks must not re-snapshot the zeroed volume.
	if err := c.handleFaderMute(mixer.FaderA, true); err != nil {
		t.Fatalf("re-hold: %v", err)
	}
	if got := c.profile.MuteState(mixer.FaderA).PreviousVolume; got != 192 {
		t.Fatalf("re-hold clobbered snapshot: %d", got)
	}

	if err := c.handleFaderMute(mixer.FaderA, false); err != nil {
		t.Fatalf("release: %v", err)
	}
	m = c.profile.MuteState(mixer.FaderA)
	if m.MutedToX || m.MutedToAll || m.Blink {
		t.Fatalf("release state: %+v", m)
	}
	if fs.volumes[mixer.ChannelMic] != 192 || c.profile.Volume(mixer.ChannelMic) != 192 {
		t.Fatalf("volume not restored bit-for-bit: hw %d store %d",
			fs.volumes[mixer.ChannelMic], c.profile.Volume(mixer.ChannelMic))
	}
	if fs.states[mixer.ChannelMic] != mixer.Unmuted {
		t.Fatalf("channel should be unmuted")
	}
}

func TestFaderReleaseKeepsMicMutedWhileCoughHolds(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	if err := c.handleFaderMute(mixer.FaderA, true); err != nil {
		t.Fatal(err)
	}
	// Cough engages a full mute on top.
	c.profile.SetCoughOn(true)
	c.profile.SetCoughAll(true)

	if err := c.handleFaderMute(mixer.FaderA, false); err != nil {
		t.Fatal(err)
	}
	if fs.states[mixer.ChannelMic] != mixer.Muted {
		t.Fatalf("mic must stay muted while the cough button holds it")
	}
	if fs.volumes[mixer.ChannelMic] != 192 {
		t.Fatalf("volume restore is independent of the mute arbitration")
	}
}

func TestEffectiveChannelState(t *testing.T) {
	c := newTestController(newFakeSession())

	if got := c.effectiveChannelState(mixer.ChannelMic); got != mixer.Unmuted {
		t.Fatalf("idle: want Unmuted got %v", got)
	}
	c.profile.SetMuteOn(mixer.FaderA, true)
	c.profile.SetMuteAll(mixer.FaderA, true)
	if got := c.effectiveChannelState(mixer.ChannelMic); got != mixer.Muted {
		t.Fatalf("fader full mute: want Muted got %v", got)
	}
	c.profile.SetMuteOn(mixer.FaderA, false)
	c.profile.SetCoughOn(true) // default cough function is All
	if got := c.effectiveChannelState(mixer.ChannelMic); got != mixer.Muted {
		t.Fatalf("cough mute: want Muted got %v", got)
	}
	c.profile.SetCoughOn(false)

	// A transient mute never claims the hardware channel state.
	c.profile.SetMuteFunction(mixer.FaderB, mixer.MuteToStream)
	c.profile.SetMuteOn(mixer.FaderB, true)
	if got := c.effectiveChannelState(mixer.ChannelMusic); got != mixer.Unmuted {
		t.Fatalf("transient mute: want Unmuted got %v", got)
	}
}

func TestTransientMuteToStream(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	// Fader B carries Music.
	c.profile.SetMuteFunction(mixer.FaderB, mixer.MuteToStream)
	if err := c.handleFaderMute(mixer.FaderB, false); err != nil {
		t.Fatalf("press: %v", err)
	}
	if !c.profile.MuteState(mixer.FaderB).MutedToX {
		t.Fatal("transient mute should be engaged")
	}
	if _, ok := fs.states[mixer.ChannelMusic]; ok {
		t.Fatal("transient mute must not touch the hardware channel state")
	}

	left, _ := mixer.InputMusic.Sides()
	row := fs.routing[left]
	bl, _ := mixer.OutputBroadcastMix.Slots()
	if row[bl] != 0 {
		t.Fatalf("broadcast mix should be suppressed, got 0x%02x", row[bl])
	}
	for _, out := range []mixer.Output{mixer.OutputHeadphones, mixer.OutputLineOut} {
		l, _ := out.Slots()
		if row[l] != mixer.RouteGainOn {
			t.Fatalf("%v should be unchanged, got 0x%02x", out, row[l])
		}
	}

	// Press again: release, broadcast mix restored, others untouched.
	if err := c.handleFaderMute(mixer.FaderB, false); err != nil {
		t.Fatalf("release: %v", err)
	}
	row = fs.routing[left]
	if row[bl] != mixer.RouteGainOn {
		t.Fatalf("broadcast mix should be restored, got 0x%02x", row[bl])
	}
}

func TestCoughToggleCycle(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)
	c.profile.SetCoughToggle(true)

	// Toggle mode ignores the press, acts on release.
	if err := c.handleCoughMute(coughPress); err != nil {
		t.Fatal(err)
	}
	if c.profile.CoughState().MutedToX {
		t.Fatal("toggle press should not engage")
	}
	if err := c.handleCoughMute(coughRelease); err != nil {
		t.Fatal(err)
	}
	if !c.profile.CoughState().MutedToX {
		t.Fatal("toggle release should engage")
	}
	if fs.states[mixer.ChannelMic] != mixer.Muted {
		t.Fatal("default cough function All should mute the mic")
	}
	if err := c.handleCoughMute(coughRelease); err != nil {
		t.Fatal(err)
	}
	if c.profile.CoughState().MutedToX {
		t.Fatal("second release should disengage")
	}
	if fs.states[mixer.ChannelMic] != mixer.Unmuted {
		t.Fatal("mic should be unmuted after disengage")
	}
}

func TestCoughHoldEscalationAndGuard(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)
	c.profile.SetCoughToggle(true)

	if err := c.handleCoughMute(coughHeld); err != nil {
		t.Fatal(err)
	}
	cough := c.profile.CoughState()
	if !cough.MutedToX || !cough.MutedToAll || !cough.Blink {
		t.Fatalf("hold escalation state: %+v", cough)
	}
	if fs.states[mixer.ChannelMic] != mixer.Muted {
		t.Fatal("hold escalation should mute the mic")
	}

	// The release immediately following the hold must not double-handle.
	ev := coughRelease
	ev.heldCalled = true
	if err := c.handleCoughMute(ev); err != nil {
		t.Fatal(err)
	}
	if !c.profile.CoughState().MutedToAll {
		t.Fatal("guarded release should leave the mute engaged")
	}

	// The next plain release clears it.
	if err := c.handleCoughMute(coughRelease); err != nil {
		t.Fatal(err)
	}
	cough = c.profile.CoughState()
	if cough.MutedToX || cough.MutedToAll || cough.Blink {
		t.Fatalf("final release state: %+v", cough)
	}
	if fs.states[mixer.ChannelMic] != mixer.Unmuted {
		t.Fatal("mic should be unmuted after final release")
	}
}

func TestCoughHoldMode(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)
	// Hold mode (toggle off) mutes for exactly the press duration.

	if err := c.handleCoughMute(coughPress); err != nil {
		t.Fatal(err)
	}
	if !c.profile.CoughState().MutedToX || fs.states[mixer.ChannelMic] != mixer.Muted {
		t.Fatal("press should engage the mute")
	}
	if err := c.handleCoughMute(coughRelease); err != nil {
		t.Fatal(err)
	}
	if c.profile.CoughState().MutedToX || fs.states[mixer.ChannelMic] != mixer.Unmuted {
		t.Fatal("release should disengage the mute")
	}
}

func TestHardTuneRouting(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	// Source all: the four music-type inputs feed hard tune at the low level.
	if err := c.applyRouting(mixer.InputMusic); err != nil {
		t.Fatal(err)
	}
	left, right := mixer.InputMusic.Sides()
	if fs.routing[left][mixer.HardTuneSlot] != mixer.RouteGainHardTuneAll ||
		fs.routing[right][mixer.HardTuneSlot] != mixer.RouteGainHardTuneAll {
		t.Fatalf("source-all: want 0x04 got 0x%02x", fs.routing[left][mixer.HardTuneSlot])
	}
	if err := c.applyRouting(mixer.InputChat); err != nil {
		t.Fatal(err)
	}
	chatLeft, _ := mixer.InputChat.Sides()
	if fs.routing[chatLeft][mixer.HardTuneSlot] != 0 {
		t.Fatal("chat is not a hard tune source")
	}

	// Single source: only the configured input, at the high level.
	c.profile.ActivePreset().HardTune.Source = profile.HardTuneSourceGame
	if err := c.applyRouting(mixer.InputMusic); err != nil {
		t.Fatal(err)
	}
	if fs.routing[left][mixer.HardTuneSlot] != 0 {
		t.Fatal("music should lose its hard tune feed")
	}
	if err := c.applyRouting(mixer.InputGame); err != nil {
		t.Fatal(err)
	}
	gameLeft, _ := mixer.InputGame.Sides()
	if fs.routing[gameLeft][mixer.HardTuneSlot] != mixer.RouteGainHardTuneOne {
		t.Fatalf("single source: want 0x10 got 0x%02x", fs.routing[gameLeft][mixer.HardTuneSlot])
	}
}

func TestPollTickButtonClassification(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }

	// Press the bleep button: down handler turns the indicator on.
	fs.snapshot.Pressed[mixer.ButtonBleep] = true
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if !c.profile.SwearOn() {
		t.Fatal("bleep indicator should be on after press")
	}

	// Still held under the threshold: nothing new.
	clock = clock.Add(200 * time.Millisecond)
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if c.buttonStates[mixer.ButtonBleep].holdHandled {
		t.Fatal("hold should not fire under the threshold")
	}

	// Past the threshold: hold fires exactly once.
	clock = clock.Add(400 * time.Millisecond)
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if !c.buttonStates[mixer.ButtonBleep].holdHandled {
		t.Fatal("hold should have been marked handled")
	}

	// Release: indicator off, press state cleared.
	fs.snapshot.Pressed[mixer.ButtonBleep] = false
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if c.profile.SwearOn() {
		t.Fatal("bleep indicator should be off after release")
	}
	if c.buttonStates[mixer.ButtonBleep] != (pressState{}) {
		t.Fatal("press state should be cleared on release")
	}
}

func TestPollTickHoldMutesFader(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }

	fs.snapshot.Pressed[mixer.ButtonFader1Mute] = true
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(600 * time.Millisecond)
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if !c.profile.MuteState(mixer.FaderA).MutedToAll {
		t.Fatal("held fader mute should force a full mute")
	}

	// Release after a handled hold must not run the toggle path.
	fs.snapshot.Pressed[mixer.ButtonFader1Mute] = false
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if !c.profile.MuteState(mixer.FaderA).MutedToAll {
		t.Fatal("release after hold should leave the mute engaged")
	}
}

func TestPollTickVolumeDiff(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	fs.snapshot.Volumes = [mixer.NumFaders]uint8{100, 255, 255, 255}
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if got := c.profile.Volume(mixer.ChannelMic); got != 100 {
		t.Fatalf("hardware is authoritative for fader position: want 100 got %d", got)
	}
	// No write-back: the hardware already has this value.
	if _, ok := fs.volumes[mixer.ChannelMic]; ok {
		t.Fatal("volume diff must not echo the value back to hardware")
	}
}

func TestPollTickEncoderPitchConversion(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)
	c.profile.HardTuneEnabled = true

	fs.snapshot.Volumes = [mixer.NumFaders]uint8{192, 255, 255, 255}
	fs.snapshot.Encoders[mixer.EncoderPitch] = 2
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if got := c.profile.PitchValue(); got != 24 {
		t.Fatalf("hard-tune pitch detents are semitones x12: want 24 got %d", got)
	}
	if got := fs.effects[mixer.EffectPitchAmount]; got != 24 {
		t.Fatalf("changed pitch key should be pushed: want 24 got %d", got)
	}
	if _, ok := fs.effects[mixer.EffectGenderAmount]; ok {
		t.Fatal("unchanged keys must not be pushed")
	}
}

func TestPollTickSkipsOnSnapshotError(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)
	fs.snapshotErr = errors.New("transport glitch")

	fs.snapshot.Pressed[mixer.ButtonBleep] = true
	if err := c.PollTick(); err != nil {
		t.Fatalf("snapshot failure is not a tick error: %v", err)
	}
	if c.profile.SwearOn() {
		t.Fatal("tick body must be skipped when the snapshot read fails")
	}
}

func TestSetPitchMode(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	if err := c.setPitchMode(); err != nil {
		t.Fatal(err)
	}
	if got := fs.modes[mixer.EncoderPitch]; got != [2]uint8{1, 4} {
		t.Fatalf("free pitch mode: want [1 4] got %v", got)
	}

	c.profile.HardTuneEnabled = true
	if err := c.setPitchMode(); err != nil {
		t.Fatal(err)
	}
	if got := fs.modes[mixer.EncoderPitch]; got != [2]uint8{3, 2} {
		t.Fatalf("hard-tune wide: want [3 2] got %v", got)
	}

	c.profile.ActivePreset().Pitch.Style = profile.PitchNarrow
	if err := c.setPitchMode(); err != nil {
		t.Fatal(err)
	}
	if got := fs.modes[mixer.EncoderPitch]; got != [2]uint8{3, 1} {
		t.Fatalf("hard-tune narrow: want [3 1] got %v", got)
	}
}

func TestUnmuteBeforeMuteFunctionChange(t *testing.T) {
	fs := newFakeSession()
	c := newTestController(fs)

	if err := c.handleFaderMute(mixer.FaderA, true); err != nil {
		t.Fatal(err)
	}
	if err := c.SetFaderMuteFunction(mixer.FaderA, mixer.MuteToStream); err != nil {
		t.Fatal(err)
	}
	if c.profile.MuteState(mixer.FaderA).MutedToX {
		t.Fatal("changing the mute function must release the active mute first")
	}
	if got := c.profile.MuteState(mixer.FaderA).Function; got != mixer.MuteToStream {
		t.Fatalf("function: want ToStream got %v", got)
	}
	if fs.volumes[mixer.ChannelMic] != 192 {
		t.Fatal("release should restore the snapshot volume")
	}
}

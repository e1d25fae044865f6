package device_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mixdeck/mixd/device"
	"github.com/mixdeck/mixd/internal/testutil"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

func newDevice(t *testing.T) (*device.Controller, *testutil.FakeSession, *testutil.FakeSettings) {
	t.Helper()
	session := testutil.NewFakeSession()
	settings := testutil.NewFakeSettings(t.TempDir())
	c, err := device.New(session, "S1", settings, nil)
	if err != nil {
		t.Fatalf("new device: %v", err)
	}
	return c, session, settings
}

func TestNewAppliesFullState(t *testing.T) {
	_, session, _ := newDevice(t)

	// Default fader layout pushed.
	want := map[mixer.Fader]mixer.Channel{
		mixer.FaderA: mixer.ChannelMic,
		mixer.FaderB: mixer.ChannelMusic,
		mixer.FaderC: mixer.ChannelChat,
		mixer.FaderD: mixer.ChannelSystem,
	}
	for f, ch := range want {
		if got := session.FaderAssign[f]; got != ch {
			t.Fatalf("fader %v: want %v got %v", f, ch, got)
		}
	}
	if session.Volumes[mixer.ChannelMic] != 192 || session.Volumes[mixer.ChannelMusic] != 255 {
		t.Fatalf("default volumes not pushed: %v", session.Volumes)
	}

	// Mic profile: active gain, hardcoded effect constants, pitch mode.
	if session.MicGainType != mixer.MicDynamic || session.MicGain != 47 {
		t.Fatalf("mic gain: want Dynamic/47 got %v/%d", session.MicGainType, session.MicGain)
	}
	if session.Effects[mixer.EffectGateMode] != 2 || session.Effects[mixer.EffectGateEnabled] != 1 {
		t.Fatalf("effect constants not pushed: %v", session.Effects)
	}
	if got := session.EncoderModes[mixer.EncoderPitch]; got != [2]uint8{1, 4} {
		t.Fatalf("pitch mode: want [1 4] got %v", got)
	}

	// Every stereo input side got a routing row.
	if len(session.Routing) != mixer.NumInputs*2 {
		t.Fatalf("routing rows: want %d got %d", mixer.NumInputs*2, len(session.Routing))
	}
	if len(session.ColourMap) == 0 {
		t.Fatal("colour map not pushed")
	}
}

func TestSetFaderSwapIsInvolution(t *testing.T) {
	c, session, _ := newDevice(t)

	// Music is bound to fader B; assigning it to A swaps the two.
	if err := c.SetFader(mixer.FaderA, mixer.ChannelMusic); err != nil {
		t.Fatal(err)
	}
	if c.Profile().FaderChannel(mixer.FaderA) != mixer.ChannelMusic ||
		c.Profile().FaderChannel(mixer.FaderB) != mixer.ChannelMic {
		t.Fatal("swap did not relabel both faders")
	}
	if c.Profile().MicFader != int(mixer.FaderB) {
		t.Fatalf("mic fader id should follow the mic: got %d", c.Profile().MicFader)
	}
	if session.FaderAssign[mixer.FaderA] != mixer.ChannelMusic ||
		session.FaderAssign[mixer.FaderB] != mixer.ChannelMic {
		t.Fatal("both fader pushes missing")
	}

	if err := c.SetFader(mixer.FaderA, mixer.ChannelMic); err != nil {
		t.Fatal(err)
	}
	if c.Profile().FaderChannel(mixer.FaderA) != mixer.ChannelMic ||
		c.Profile().FaderChannel(mixer.FaderB) != mixer.ChannelMusic {
		t.Fatal("double swap should restore the original layout")
	}
	if c.Profile().MicFader != int(mixer.FaderA) {
		t.Fatalf("mic fader id after double swap: got %d", c.Profile().MicFader)
	}
}

func TestSetFaderUnboundReleasesTransientMute(t *testing.T) {
	c, session, _ := newDevice(t)

	// Engage a transient mute on fader D (System) via a press cycle.
	if err := c.SetFaderMuteFunction(mixer.FaderD, mixer.MuteToStream); err != nil {
		t.Fatal(err)
	}
	session.Snapshot.Volumes = [mixer.NumFaders]uint8{192, 255, 255, 255}
	session.Snapshot.Pressed[mixer.ButtonFader4Mute] = true
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	session.Snapshot.Pressed[mixer.ButtonFader4Mute] = false
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if !c.Profile().MuteState(mixer.FaderD).MutedToX {
		t.Fatal("press cycle should engage the transient mute")
	}

	// LineIn is unbound: the reassignment must unwind the mute first.
	if err := c.SetFader(mixer.FaderD, mixer.ChannelLineIn); err != nil {
		t.Fatal(err)
	}
	if c.Profile().MuteState(mixer.FaderD).MutedToX {
		t.Fatal("mute state must not outlive its fader binding")
	}
	if c.Profile().FaderChannel(mixer.FaderD) != mixer.ChannelLineIn {
		t.Fatal("fader not rebound")
	}
}

func TestBleepVolumeValidation(t *testing.T) {
	c, session, settings := newDevice(t)

	if err := c.SetBleepVolume(5); err == nil {
		t.Fatal("bleep volume 5 should be rejected")
	}
	if _, ok := settings.Bleep["S1"]; ok {
		t.Fatal("rejected command must not mutate settings")
	}

	if err := c.SetBleepVolume(-10); err != nil {
		t.Fatalf("bleep volume -10: %v", err)
	}
	if settings.Bleep["S1"] != -10 {
		t.Fatalf("bleep not persisted: %v", settings.Bleep)
	}
	if session.Effects[mixer.EffectBleepLevel] != -10 {
		t.Fatalf("bleep level not pushed: %d", session.Effects[mixer.EffectBleepLevel])
	}
}

func TestLoadProfileMissingLeavesCurrent(t *testing.T) {
	c, _, _ := newDevice(t)

	err := c.LoadProfile("NoSuchShow")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
	if c.Profile().Name() != profile.DefaultName {
		t.Fatalf("current profile must be unchanged, got %q", c.Profile().Name())
	}
}

func TestSaveProfileAsThenLoad(t *testing.T) {
	c, _, settings := newDevice(t)

	if err := c.SetVolume(mixer.ChannelMusic, 111); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveProfileAs("Live Show"); err != nil {
		t.Fatalf("save as: %v", err)
	}
	if settings.Profiles["S1"] != "Live Show" {
		t.Fatalf("profile name not adopted: %v", settings.Profiles)
	}

	if err := c.LoadProfile("Live Show"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.Profile().Volume(mixer.ChannelMusic); got != 111 {
		t.Fatalf("round trip volume: want 111 got %d", got)
	}
}

func TestEqValidationErrors(t *testing.T) {
	c, _, _ := newDevice(t)

	if err := c.SetGateThreshold(-60); err == nil {
		t.Fatal("gate threshold -60 should be rejected")
	}
	if err := c.SetCompressorMakeupGain(25); err == nil {
		t.Fatal("makeup gain 25 should be rejected")
	}
}

func TestGateThresholdPushesBothTables(t *testing.T) {
	c, session, _ := newDevice(t)

	if err := c.SetGateThreshold(-40); err != nil {
		t.Fatal(err)
	}
	if _, ok := session.MicParams[mixer.ParamGateThreshold]; !ok {
		t.Fatal("mic param table not updated")
	}
	if got := session.Effects[mixer.EffectGateThreshold]; got != -40 {
		t.Fatalf("effect table: want -40 got %d", got)
	}
}

func TestSamplerPad(t *testing.T) {
	session := testutil.NewFakeSession()
	dir := t.TempDir()
	settings := testutil.NewFakeSettings(dir)
	player := testutil.NewFakePlayer()
	c, err := device.New(session, "S1", settings, player)
	if err != nil {
		t.Fatal(err)
	}

	sample := filepath.Join(dir, "airhorn.wav")
	if err := os.WriteFile(sample, []byte("riff"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.Profile().SetSampleFile(mixer.SampleBankA, mixer.PadTopLeft, "airhorn.wav")

	// Press and release the pad; playback triggers on release.
	session.Snapshot.Volumes = [mixer.NumFaders]uint8{192, 255, 255, 255}
	session.Snapshot.Pressed[mixer.ButtonSampleTopLeft] = true
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	session.Snapshot.Pressed[mixer.ButtonSampleTopLeft] = false
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}

	if len(player.Played) != 1 || player.Played[0] != sample {
		t.Fatalf("played: %v", player.Played)
	}
	if !c.Profile().SampleActive(mixer.PadTopLeft) {
		t.Fatal("pad should be marked active")
	}

	// Playback ends; the next tick turns the light off.
	player.Active[mixer.PadTopLeft] = false
	if err := c.PollTick(); err != nil {
		t.Fatal(err)
	}
	if c.Profile().SampleActive(mixer.PadTopLeft) {
		t.Fatal("pad light should clear once playback finished")
	}
}

func TestHandleSerializesCommands(t *testing.T) {
	c, _, _ := newDevice(t)
	h := device.NewHandle(c)
	defer h.Close()

	if err := h.Run(func(c *device.Controller) error {
		return c.SetVolume(mixer.ChannelGame, 77)
	}); err != nil {
		t.Fatal(err)
	}

	status, err := h.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status.Serial != "S1" {
		t.Fatalf("serial: %q", status.Serial)
	}
	if status.Volumes[mixer.ChannelGame.String()] != 77 {
		t.Fatalf("status volume: want 77 got %d", status.Volumes[mixer.ChannelGame.String()])
	}
	if status.BleepVolume != -20 {
		t.Fatalf("default bleep: want -20 got %d", status.BleepVolume)
	}
}

package profile

import (
	"errors"
	"testing"

	"github.com/mixdeck/mixd/mixer"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	p := New()
	p.SetVolume(mixer.ChannelMusic, 180)
	p.SetFaderChannel(mixer.FaderD, mixer.ChannelLineIn)
	p.SetMuteFunction(mixer.FaderB, mixer.MuteToStream)
	p.SetCoughToggle(true)
	p.SetRouting(mixer.InputGame, mixer.OutputBroadcastMix, false)
	p.LoadEffectBank(mixer.EffectBank3)
	p.SetPitchValue(-7)
	p.ToggleHardTune()
	p.SetSampleFile(mixer.SampleBankB, mixer.PadTopRight, "airhorn.wav")
	if err := p.SetFaderColours(mixer.FaderA, "FF8800", "112233"); err != nil {
		t.Fatal(err)
	}

	if err := p.Save(dir, "stream", false); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load("stream", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Name() != "stream" {
		t.Fatalf("name: want stream got %q", got.Name())
	}
	if v := got.Volume(mixer.ChannelMusic); v != 180 {
		t.Fatalf("music volume: want 180 got %d", v)
	}
	if c := got.FaderChannel(mixer.FaderD); c != mixer.ChannelLineIn {
		t.Fatalf("fader D: want LineIn got %v", c)
	}
	if fn := got.MuteState(mixer.FaderB).Function; fn != mixer.MuteToStream {
		t.Fatalf("fader B function: want ToStream got %v", fn)
	}
	if !got.CoughState().MuteToggle {
		t.Fatal("cough toggle should survive the round trip")
	}
	if got.Routing(mixer.InputGame)[mixer.OutputBroadcastMix] {
		t.Fatal("disabled route should stay disabled")
	}
	if got.ActiveEffectBank != mixer.EffectBank3 {
		t.Fatalf("active bank: want 3 got %v", got.ActiveEffectBank)
	}
	if v := got.Effects[mixer.EffectBank3].Pitch.Amount; v != -7 {
		t.Fatalf("pitch: want -7 got %d", v)
	}
	if !got.HardTuneEnabled {
		t.Fatal("hard tune enable should survive the round trip")
	}
	if f := got.SampleBanks[mixer.SampleBankB].Files[mixer.PadTopRight]; f != "airhorn.wav" {
		t.Fatalf("sample file: want airhorn.wav got %q", f)
	}
	if got.Faders[mixer.FaderA].Colours != (ColourPair{One: "FF8800", Two: "112233"}) {
		t.Fatalf("fader A colours: got %+v", got.Faders[mixer.FaderA].Colours)
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	p := New()
	if err := p.Save(dir, "keep", false); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := p.Save(dir, "keep", false); !errors.Is(err, ErrExists) {
		t.Fatalf("second save: want ErrExists got %v", err)
	}
	if err := p.Save(dir, "keep", true); err != nil {
		t.Fatalf("overwrite save: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("nope", t.TempDir()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound got %v", err)
	}
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	p, err := Load(DefaultName, t.TempDir())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if p.FaderChannel(mixer.FaderA) != mixer.ChannelMic {
		t.Fatal("built-in default expected")
	}
}

func TestSaveAsRenames(t *testing.T) {
	dir := t.TempDir()
	p := New()
	if err := p.Save(dir, "copy", false); err != nil {
		t.Fatal(err)
	}
	if p.Name() != "copy" {
		t.Fatalf("name after save-as: want copy got %q", p.Name())
	}
}

func TestList(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	p := New()
	for _, tc := range []struct{ dir, name string }{
		{a, "one"}, {a, "two"}, {b, "one"}, {b, "three"},
	} {
		if err := p.Save(tc.dir, tc.name, false); err != nil {
			t.Fatal(err)
		}
	}
	names := List(a, b)
	if len(names) != 3 {
		t.Fatalf("list: want 3 names got %v", names)
	}
}

func TestLoadRejectsInvalidName(t *testing.T) {
	if _, err := Load("../etc/passwd", t.TempDir()); err == nil {
		t.Fatal("path traversal name should be rejected")
	}
}

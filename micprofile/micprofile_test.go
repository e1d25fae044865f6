package micprofile

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

func TestGateAttenuationTable(t *testing.T) {
	if got := GateAttenuation(0); got != -6 {
		t.Fatalf("0%%: want -6 got %d", got)
	}
	if got := GateAttenuation(100); got != -61 {
		t.Fatalf("100%%: want -61 got %d", got)
	}
	if got := GateAttenuation(99); got != -30 {
		t.Fatalf("99%%: want -30 got %d", got)
	}
	prev := GateAttenuation(0)
	for percent := uint8(1); percent <= 100; percent++ {
		cur := GateAttenuation(percent)
		if cur > prev {
			t.Fatalf("attenuation not monotonic at %d%%: %d > %d", percent, cur, prev)
		}
		prev = cur
	}
}

func f32FromBytes(b [4]byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:]))
}

func TestParamEncodings(t *testing.T) {
	s := New()
	s.Gains[mixer.MicDynamic] = 47

	got := s.ParamValue(mixer.ParamDynamicGain, -20)
	if got[0] != 0 || got[1] != 0 || binary.LittleEndian.Uint16(got[2:]) != 47 {
		t.Fatalf("gain: want u16 47 in high bytes got %v", got)
	}

	s.Gate.Threshold = -30
	if v := f32FromBytes(s.ParamValue(mixer.ParamGateThreshold, -20)); v != -30 {
		t.Fatalf("gate threshold: want -30 got %v", v)
	}

	if v := f32FromBytes(s.ParamValue(mixer.ParamBleepLevel, -20)); v != -20*65536 {
		t.Fatalf("bleep: want %v got %v", float32(-20*65536), v)
	}

	s.MicType = mixer.MicCondenser
	if got := s.ParamValue(mixer.ParamMicType, -20); got != [4]byte{1, 0, 0, 0} {
		t.Fatalf("condenser mic type: want phantom flag got %v", got)
	}
	s.MicType = mixer.MicDynamic
	if got := s.ParamValue(mixer.ParamMicType, -20); got != [4]byte{} {
		t.Fatalf("dynamic mic type: want zero got %v", got)
	}

	s.EqualizerMini.Freqs[MiniEq3KHz] = 3100
	if v := f32FromBytes(s.ParamValue(mixer.ParamEqualizer3KHzFrequency, -20)); v != 3100 {
		t.Fatalf("mini eq freq: want 3100 got %v", v)
	}
	s.EqualizerMini.Gains[MiniEq90Hz] = -4
	if v := f32FromBytes(s.ParamValue(mixer.ParamEqualizer90HzGain, -20)); v != -4 {
		t.Fatalf("mini eq gain: want -4 got %v", v)
	}
}

func TestEffectValueConstants(t *testing.T) {
	s := New()
	p := profile.New()

	for _, tc := range []struct {
		key  mixer.EffectKey
		want int32
	}{
		{mixer.EffectGateMode, 2},
		{mixer.EffectGateEnabled, 1},
		{mixer.EffectReverbTailLevel, 0},
		{mixer.EffectHardTuneKeySource, 0},
		{mixer.EffectDisableMic, 0},
	} {
		if got := s.EffectValue(tc.key, p, -20); got != tc.want {
			t.Fatalf("%v: want %d got %d", tc.key, tc.want, got)
		}
	}

	if got := s.EffectValue(mixer.EffectBleepLevel, p, -34); got != -34 {
		t.Fatalf("bleep level: want -34 got %d", got)
	}
}

func TestEffectValueFollowsActiveBank(t *testing.T) {
	s := New()
	p := profile.New()

	p.LoadEffectBank(mixer.EffectBank4)
	p.SetReverbValue(33)
	if got := s.EffectValue(mixer.EffectReverbAmount, p, -20); got != 33 {
		t.Fatalf("reverb amount: want 33 got %d", got)
	}
	p.LoadEffectBank(mixer.EffectBank1)
	if got := s.EffectValue(mixer.EffectReverbAmount, p, -20); got != 0 {
		t.Fatalf("reverb amount bank 1: want 0 got %d", got)
	}

	p.ToggleFx()
	if got := s.EffectValue(mixer.EffectEncoder3Enabled, p, -20); got != 1 {
		t.Fatalf("encoder enable should follow fx enable")
	}
}

func TestEqFreqCode(t *testing.T) {
	if got := eqFreqCode(20); got != 0 {
		t.Fatalf("20Hz: want 0 got %d", got)
	}
	if got := eqFreqCode(40); got != 24 {
		t.Fatalf("40Hz: want 24 got %d", got)
	}
	if got := eqFreqCode(160); got != 72 {
		t.Fatalf("160Hz: want 72 got %d", got)
	}
}

func TestValidationRanges(t *testing.T) {
	s := New()

	if _, err := s.SetGateThreshold(-60); err == nil {
		t.Fatal("gate threshold -60 should be rejected")
	}
	if _, err := s.SetGateThreshold(-59); err != nil {
		t.Fatalf("gate threshold -59: %v", err)
	}
	if _, err := s.SetGateAttenuation(101); err == nil {
		t.Fatal("attenuation 101 should be rejected")
	}
	if _, err := s.SetCompressorThreshold(-25); err == nil {
		t.Fatal("compressor threshold -25 should be rejected")
	}
	if _, err := s.SetCompressorMakeupGain(25); err == nil {
		t.Fatal("makeup gain 25 should be rejected")
	}
	if _, err := s.SetEqGain(Eq1KHz, 10); err == nil {
		t.Fatal("eq gain 10 should be rejected")
	}
	if key, err := s.SetEqGain(Eq1KHz, 9); err != nil || key != mixer.EffectEqualizer1KHzGain {
		t.Fatalf("eq gain 9: key %v err %v", key, err)
	}
	if _, err := s.SetEqFreq(Eq31Hz, 301); err == nil {
		t.Fatal("31Hz band at 301Hz should be rejected")
	}
	if _, err := s.SetEqFreq(Eq4KHz, 1999); err == nil {
		t.Fatal("4KHz band at 1999Hz should be rejected")
	}
	if key, err := s.SetEqFreq(Eq4KHz, 2000); err != nil || key != mixer.EffectEqualizer4KHzFrequency {
		t.Fatalf("4KHz band at 2000Hz: key %v err %v", key, err)
	}
	if err := s.SetGain(mixer.MicDynamic, 73); err == nil {
		t.Fatal("gain 73 should be rejected")
	}
}

func TestKeySetsPartitionEffectTable(t *testing.T) {
	common, full := CommonKeys(), FullKeys()
	if len(common)+len(full) != int(mixer.NumEffectKeys) {
		t.Fatalf("common+full: want %d keys got %d", mixer.NumEffectKeys, len(common)+len(full))
	}
	for k := range full {
		if common.Contains(k) {
			t.Fatalf("key %v in both common and full sets", k)
		}
	}
	for _, set := range []mixer.KeySet{
		ReverbKeys(), EchoKeys(), PitchKeys(), GenderKeys(),
		MegaphoneKeys(), RobotKeys(), HardTuneKeys(),
	} {
		for k := range set {
			if !full.Contains(k) {
				t.Fatalf("feature key %v missing from full set", k)
			}
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s := New()
	s.SetMicType(mixer.MicCondenser)
	if err := s.SetGain(mixer.MicCondenser, 52); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetGateThreshold(-42); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetEqGain(Eq8KHz, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetMiniEqFreq(MiniEq250Hz, 260); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetDeess(35); err != nil {
		t.Fatal(err)
	}

	if err := s.Save(dir, "podcast", false); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load("podcast", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MicType != mixer.MicCondenser {
		t.Fatalf("mic type: want Condenser got %v", got.MicType)
	}
	if got.Gain(mixer.MicCondenser) != 52 {
		t.Fatalf("gain: want 52 got %d", got.Gain(mixer.MicCondenser))
	}
	if got.Gate.Threshold != -42 {
		t.Fatalf("gate threshold: want -42 got %d", got.Gate.Threshold)
	}
	if got.Equalizer.Gains[Eq8KHz] != 5 {
		t.Fatalf("eq gain: want 5 got %d", got.Equalizer.Gains[Eq8KHz])
	}
	if got.EqualizerMini.Freqs[MiniEq250Hz] != 260 {
		t.Fatalf("mini eq freq: want 260 got %v", got.EqualizerMini.Freqs[MiniEq250Hz])
	}
	if got.Deess != 35 {
		t.Fatalf("deess: want 35 got %d", got.Deess)
	}
}

func TestSaveRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := New()
	if err := s.Save(dir, "keep", false); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(dir, "keep", false); !errors.Is(err, ErrExists) {
		t.Fatalf("want ErrExists got %v", err)
	}
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	s, err := Load(DefaultName, t.TempDir())
	if err != nil {
		t.Fatalf("load default: %v", err)
	}
	if !s.Gate.Enabled {
		t.Fatal("default gate should be enabled")
	}
}

package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "settings.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ProfileDirectory() != filepath.Join(dir, "profiles") {
		t.Fatalf("profile dir: %s", s.ProfileDirectory())
	}
	if s.ProfileName("X1") != "Default" {
		t.Fatalf("profile name: %s", s.ProfileName("X1"))
	}
	if s.BleepVolume("X1") != DefaultBleepVolume {
		t.Fatalf("bleep: %d", s.BleepVolume("X1"))
	}
	// Nothing changed, so nothing should be written.
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatal("load alone must not create the file")
	}
}

func TestMutationsPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetProfileName("X1", "Stream"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMicProfileName("X1", "Podcast"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBleepVolume("X1", -5); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ProfileName("X1") != "Stream" {
		t.Fatalf("profile: %s", reloaded.ProfileName("X1"))
	}
	if reloaded.MicProfileName("X1") != "Podcast" {
		t.Fatalf("mic profile: %s", reloaded.MicProfileName("X1"))
	}
	if reloaded.BleepVolume("X1") != -5 {
		t.Fatalf("bleep: %d", reloaded.BleepVolume("X1"))
	}
	// Per-device state is isolated by serial.
	if reloaded.ProfileName("X2") != "Default" {
		t.Fatalf("other serial leaked: %s", reloaded.ProfileName("X2"))
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(filepath.Join(dir, "settings.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"profiles", "mic-profiles", "samples"} {
		if fi, err := os.Stat(filepath.Join(dir, sub)); err != nil || !fi.IsDir() {
			t.Fatalf("%s not created: %v", sub, err)
		}
	}
}

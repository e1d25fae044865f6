// Package settings is the daemon's own configuration file: storage
// directories and the small per-device state that lives outside the profiles
// (active profile names, bleep volume). YAML on disk, loaded once at startup
// and rewritten on every change.
//
// The store is self-contained and synchronous. Controller command handlers
// call it directly while running on their own queue worker, so it must never
// call back into a controller.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultBleepVolume is used when a device has no stored bleep level.
const DefaultBleepVolume = -20

// DeviceSettings is the persisted per-device block, keyed by serial.
type DeviceSettings struct {
	Profile     string `yaml:"profile,omitempty"`
	MicProfile  string `yaml:"micProfile,omitempty"`
	BleepVolume *int8  `yaml:"bleepVolume,omitempty"`
}

type fileFormat struct {
	ProfileDirectory    string                     `yaml:"profileDirectory"`
	MicProfileDirectory string                     `yaml:"micProfileDirectory"`
	SamplesDirectory    string                     `yaml:"samplesDirectory"`
	Devices             map[string]*DeviceSettings `yaml:"devices"`
}

// Store holds the loaded settings and writes them back on every mutation.
// Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	data fileFormat
}

// defaults roots all storage directories next to the settings file.
func defaults(path string) fileFormat {
	base := filepath.Dir(path)
	return fileFormat{
		ProfileDirectory:    filepath.Join(base, "profiles"),
		MicProfileDirectory: filepath.Join(base, "mic-profiles"),
		SamplesDirectory:    filepath.Join(base, "samples"),
		Devices:             make(map[string]*DeviceSettings),
	}
}

// Load reads the settings file, creating an in-memory default when it does
// not exist yet. The file is only written once something changes.
func Load(path string) (*Store, error) {
	s := &Store{path: path, data: defaults(path)}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.data.Devices == nil {
		s.data.Devices = make(map[string]*DeviceSettings)
	}
	return s, nil
}

// Path returns where the store persists itself.
func (s *Store) Path() string { return s.path }

// save writes the current state. Caller holds the lock.
func (s *Store) save() error {
	raw, err := yaml.Marshal(&s.data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// EnsureDirectories creates the storage directories if missing.
func (s *Store) EnsureDirectories() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, dir := range []string{
		s.data.ProfileDirectory, s.data.MicProfileDirectory, s.data.SamplesDirectory,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ProfileDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.ProfileDirectory
}

func (s *Store) MicProfileDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.MicProfileDirectory
}

func (s *Store) SamplesDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.SamplesDirectory
}

// device returns the block for a serial, creating it on demand. Caller holds
// the lock.
func (s *Store) device(serial string) *DeviceSettings {
	d, ok := s.data.Devices[serial]
	if !ok {
		d = &DeviceSettings{}
		s.data.Devices[serial] = d
	}
	return d
}

// ProfileName returns a device's stored profile name, or "Default".
func (s *Store) ProfileName(serial string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.data.Devices[serial]; ok && d.Profile != "" {
		return d.Profile
	}
	return "Default"
}

// SetProfileName stores and persists a device's profile name.
func (s *Store) SetProfileName(serial, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device(serial).Profile = name
	return s.save()
}

// MicProfileName returns a device's stored mic profile name, or "Default".
func (s *Store) MicProfileName(serial string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.data.Devices[serial]; ok && d.MicProfile != "" {
		return d.MicProfile
	}
	return "Default"
}

// SetMicProfileName stores and persists a device's mic profile name.
func (s *Store) SetMicProfileName(serial, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device(serial).MicProfile = name
	return s.save()
}

// BleepVolume returns a device's stored bleep level, or the default.
func (s *Store) BleepVolume(serial string) int8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.data.Devices[serial]; ok && d.BleepVolume != nil {
		return *d.BleepVolume
	}
	return DefaultBleepVolume
}

// SetBleepVolume stores and persists a device's bleep level.
func (s *Store) SetBleepVolume(serial string, volume int8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.device(serial).BleepVolume = &volume
	return s.save()
}

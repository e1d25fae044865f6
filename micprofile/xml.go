package micprofile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// FileExt is the on-disk extension of persisted mic profiles.
const FileExt = ".mixMicProfile"

var (
	// ErrExists is returned when saving would overwrite without the flag set.
	ErrExists = errors.New("mic profile exists, will not overwrite")
	// ErrNotFound is returned when no configured directory contains the profile.
	ErrNotFound = errors.New("mic profile not found")
)

type xmlMicProfile struct {
	XMLName xml.Name `xml:"MicProfileTree"`

	MicType mixer.MicrophoneType `xml:"setup>type"`
	Gains   []uint16             `xml:"setup>gain"`

	Gate       Gate       `xml:"gate"`
	Compressor Compressor `xml:"compressor"`

	Equalizer     xmlEq `xml:"equalizer"`
	EqualizerMini xmlEq `xml:"equalizerMini"`

	Deess uint8 `xml:"deess"`
}

// Band values are serialized as plain lists; fixed arrays don't survive
// encoding/xml's decoder.
type xmlEq struct {
	Gains []int8    `xml:"gains>gain"`
	Freqs []float32 `xml:"freqs>freq"`
}

// WriteTo serializes the mic profile as an XML document.
func (s *Store) WriteTo(w io.Writer) error {
	doc := xmlMicProfile{
		MicType: s.MicType,
		Gains:   append([]uint16(nil), s.Gains[:]...),
		Gate:    s.Gate, Compressor: s.Compressor,
		Equalizer: xmlEq{
			Gains: append([]int8(nil), s.Equalizer.Gains[:]...),
			Freqs: append([]float32(nil), s.Equalizer.Freqs[:]...),
		},
		EqualizerMini: xmlEq{
			Gains: append([]int8(nil), s.EqualizerMini.Gains[:]...),
			Freqs: append([]float32(nil), s.EqualizerMini.Freqs[:]...),
		},
		Deess: s.Deess,
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode mic profile: %w", err)
	}
	return enc.Close()
}

// ReadFrom parses an XML mic profile document over the built-in defaults.
func ReadFrom(name string, r io.Reader) (*Store, error) {
	var doc xmlMicProfile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode mic profile: %w", err)
	}

	s := New()
	s.name = name
	s.MicType = doc.MicType
	copy(s.Gains[:], doc.Gains)
	s.Gate = doc.Gate
	s.Compressor = doc.Compressor
	copy(s.Equalizer.Gains[:], doc.Equalizer.Gains)
	copy(s.Equalizer.Freqs[:], doc.Equalizer.Freqs)
	copy(s.EqualizerMini.Gains[:], doc.EqualizerMini.Gains)
	copy(s.EqualizerMini.Freqs[:], doc.EqualizerMini.Freqs)
	s.Deess = doc.Deess
	return s, nil
}

// Load reads a named mic profile from the first directory containing it.
// The reserved default name resolves to the built-in default when no file
// shadows it.
func Load(name string, dirs ...string) (*Store, error) {
	if !profile.ValidName(name) {
		return nil, fmt.Errorf("invalid mic profile name %q", name)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name+FileExt)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("open mic profile %s: %w", path, err)
		}
		defer f.Close()
		return ReadFrom(name, f)
	}
	if name == DefaultName {
		return New(), nil
	}
	return nil, fmt.Errorf("mic profile %q: %w", name, ErrNotFound)
}

// LoadOrDefault loads a named mic profile, falling back to the built-in
// default when the name is empty or the load fails.
func LoadOrDefault(name string, dirs ...string) *Store {
	if name == "" {
		return New()
	}
	s, err := Load(name, dirs...)
	if err != nil {
		slog.Error("couldn't load mic profile, using default", "name", name, "error", err)
		return New()
	}
	return s
}

// Save writes the mic profile into dir under the given name. Refuses to
// replace an existing file unless overwrite is set.
func (s *Store) Save(dir, name string, overwrite bool) error {
	if !profile.ValidName(name) {
		return fmt.Errorf("invalid mic profile name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create mic profile directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+FileExt)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("mic profile %q: %w", name, ErrExists)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mic profile %s: %w", path, err)
	}
	defer f.Close()

	if err := s.WriteTo(f); err != nil {
		return err
	}
	if name != s.name {
		s.name = name
	}
	return nil
}

// List returns the mic profile names available across the given directories.
func List(dirs ...string) []string {
	var names []string
	seen := map[string]bool{}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || filepath.Ext(name) != FileExt {
				continue
			}
			base := name[:len(name)-len(FileExt)]
			if !seen[base] {
				seen[base] = true
				names = append(names, base)
			}
		}
	}
	return names
}

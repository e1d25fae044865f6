package profile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mixdeck/mixd/mixer"
)

// FileExt is the on-disk extension of persisted mixer profiles.
const FileExt = ".mixProfile"

// ErrExists is returned when saving would overwrite an existing profile
// without the overwrite flag.
var ErrExists = errors.New("profile exists, will not overwrite")

// ErrNotFound is returned when no configured directory contains the profile.
var ErrNotFound = errors.New("profile not found")

// The persisted document. Kept separate from Profile so transient state
// (button press bookkeeping, sample indicators) never reaches disk.
type xmlProfile struct {
	XMLName xml.Name `xml:"MixerProfileTree"`

	Volumes []xmlVolume `xml:"volumes>volume"`
	Faders  []xmlFader  `xml:"faders>fader"`
	Cough   CoughButton `xml:"cough"`

	MicFader int `xml:"micFader"`

	Router  []xmlRoute  `xml:"router>input"`
	Buttons []xmlButton `xml:"lighting>button"`

	ActiveEffectBank int            `xml:"effects>active"`
	Effects          []EffectPreset `xml:"effects>preset"`

	MegaphoneEnabled bool `xml:"toggles>megaphone"`
	RobotEnabled     bool `xml:"toggles>robot"`
	HardTuneEnabled  bool `xml:"toggles>hardTune"`
	FxEnabled        bool `xml:"toggles>fx"`

	ActiveSampleBank int             `xml:"sampler>active"`
	SampleBanks      []xmlSampleBank `xml:"sampler>bank"`
}

type xmlVolume struct {
	Channel mixer.Channel `xml:"channel,attr"`
	Value   uint8         `xml:"value,attr"`
}

type xmlFader struct {
	Slot    int                `xml:"slot,attr"`
	Channel mixer.Channel      `xml:"channel,attr"`
	Display mixer.FaderDisplay `xml:"display,attr"`
	Colours ColourPair         `xml:"colours"`
	Mute    MuteButton         `xml:"mute"`
}

type xmlRoute struct {
	Input   mixer.Input    `xml:"name,attr"`
	Outputs []mixer.Output `xml:"to"`
}

type xmlButton struct {
	Index    int            `xml:"index,attr"`
	Colours  ColourPair     `xml:"colours"`
	OffStyle ButtonOffStyle `xml:"offStyle,attr"`
}

type xmlSampleBank struct {
	Bank  int      `xml:"name,attr"`
	Files []string `xml:"pad"`
}

// WriteTo serializes the profile as an XML document.
func (p *Profile) WriteTo(w io.Writer) error {
	doc := xmlProfile{
		Cough:            p.Cough,
		MicFader:         p.MicFader,
		ActiveEffectBank: int(p.ActiveEffectBank),
		Effects:          append([]EffectPreset(nil), p.Effects[:]...),
		MegaphoneEnabled: p.MegaphoneEnabled,
		RobotEnabled:     p.RobotEnabled,
		HardTuneEnabled:  p.HardTuneEnabled,
		FxEnabled:        p.FxEnabled,
		ActiveSampleBank: int(p.ActiveSampleBank),
	}

	for _, c := range mixer.Channels() {
		doc.Volumes = append(doc.Volumes, xmlVolume{Channel: c, Value: p.Volumes[c]})
	}
	for _, f := range mixer.Faders() {
		fc := p.Faders[f]
		doc.Faders = append(doc.Faders, xmlFader{
			Slot: int(f), Channel: fc.Channel, Display: fc.Display,
			Colours: fc.Colours, Mute: fc.Mute,
		})
	}
	for _, in := range mixer.Inputs() {
		route := xmlRoute{Input: in}
		for _, out := range mixer.Outputs() {
			if p.Router[in][out] {
				route.Outputs = append(route.Outputs, out)
			}
		}
		doc.Router = append(doc.Router, route)
	}
	for b := 0; b < mixer.NumButtons; b++ {
		doc.Buttons = append(doc.Buttons, xmlButton{
			Index: b, Colours: p.Buttons[b].Colours, OffStyle: p.Buttons[b].OffStyle,
		})
	}
	for bank := 0; bank < mixer.NumSampleBanks; bank++ {
		doc.SampleBanks = append(doc.SampleBanks, xmlSampleBank{
			Bank: bank, Files: append([]string(nil), p.SampleBanks[bank].Files[:]...),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return enc.Close()
}

// ReadFrom parses an XML profile document. Fields absent from the document
// keep their defaults, so older files stay loadable.
func ReadFrom(name string, r io.Reader) (*Profile, error) {
	var doc xmlProfile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	p := New()
	p.name = name

	for _, v := range doc.Volumes {
		if v.Channel >= 0 && int(v.Channel) < mixer.NumChannels {
			p.Volumes[v.Channel] = v.Value
		}
	}
	for _, f := range doc.Faders {
		if f.Slot < 0 || f.Slot >= mixer.NumFaders {
			continue
		}
		p.Faders[f.Slot] = FaderConfig{
			Channel: f.Channel, Display: f.Display, Colours: f.Colours, Mute: f.Mute,
		}
	}
	p.Cough = doc.Cough
	p.MicFader = doc.MicFader

	if len(doc.Router) > 0 {
		p.Router = [mixer.NumInputs]mixer.RouteMap{}
		for _, route := range doc.Router {
			if route.Input < 0 || route.Input >= mixer.NumInputs {
				continue
			}
			for _, out := range route.Outputs {
				if out >= 0 && out < mixer.NumOutputs {
					p.Router[route.Input][out] = true
				}
			}
		}
	}

	for _, b := range doc.Buttons {
		if b.Index >= 0 && b.Index < mixer.NumButtons {
			p.Buttons[b.Index] = ButtonStyle{Colours: b.Colours, OffStyle: b.OffStyle}
		}
	}

	if doc.ActiveEffectBank >= 0 && doc.ActiveEffectBank < mixer.NumEffectBanks {
		p.ActiveEffectBank = mixer.EffectBank(doc.ActiveEffectBank)
	}
	for i, preset := range doc.Effects {
		if i < mixer.NumEffectBanks {
			p.Effects[i] = preset
		}
	}
	p.MegaphoneEnabled = doc.MegaphoneEnabled
	p.RobotEnabled = doc.RobotEnabled
	p.HardTuneEnabled = doc.HardTuneEnabled
	p.FxEnabled = doc.FxEnabled

	if doc.ActiveSampleBank >= 0 && doc.ActiveSampleBank < mixer.NumSampleBanks {
		p.ActiveSampleBank = mixer.SampleBank(doc.ActiveSampleBank)
	}
	for _, bank := range doc.SampleBanks {
		if bank.Bank < 0 || bank.Bank >= mixer.NumSampleBanks {
			continue
		}
		for i, file := range bank.Files {
			if i < mixer.NumSamplePads {
				p.SampleBanks[bank.Bank].Files[i] = file
			}
		}
	}

	return p, nil
}

// Load reads a named profile from the first directory containing it.
// The reserved default name resolves to the built-in default when no file
// shadows it.
func Load(name string, dirs ...string) (*Profile, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid profile name %q", name)
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name+FileExt)
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("open profile %s: %w", path, err)
		}
		defer f.Close()
		return ReadFrom(name, f)
	}
	if name == DefaultName {
		return New(), nil
	}
	return nil, fmt.Errorf("profile %q: %w", name, ErrNotFound)
}

// LoadOrDefault loads a named profile, falling back to the built-in default
// when the name is empty or the load fails. Used at device attach where a
// broken profile file must not prevent the deck from coming up.
func LoadOrDefault(name string, dirs ...string) *Profile {
	if name == "" {
		return New()
	}
	p, err := Load(name, dirs...)
	if err != nil {
		slog.Error("couldn't load profile, using default", "name", name, "error", err)
		return New()
	}
	return p
}

// Save writes the profile into dir under the given name. Refuses to replace
// an existing file unless overwrite is set.
func (p *Profile) Save(dir, name string, overwrite bool) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid profile name %q", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create profile directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+FileExt)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %q: %w", name, ErrExists)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile %s: %w", path, err)
	}
	defer f.Close()

	if err := p.WriteTo(f); err != nil {
		return err
	}

	// Keep the in-memory name in sync after save-as.
	if name != p.name {
		p.name = name
	}
	return nil
}

// List returns the profile names available across the given directories.
func List(dirs ...string) []string {
	var names []string
	seen := map[string]bool{}
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if filepath.Ext(name) != FileExt {
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

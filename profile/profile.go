// Package profile holds the in-memory mixer profile: channel volumes, fader
// assignments, mute button state, the routing table, lighting configuration
// and the effect/sample bank presets. It performs no hardware I/O; the device
// controller reads and mutates it and decides what to push to the deck.
package profile

import (
	"fmt"
	"regexp"

	"github.com/mixdeck/mixd/mixer"
)

// DefaultName is the reserved profile name resolving to the built-in default.
const DefaultName = "Default"

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

// ValidName reports whether a profile name is safe to use as a file name.
func ValidName(name string) bool {
	return name != "" && len(name) <= 64 && nameRe.MatchString(name)
}

// Colour is a six-digit RGB hex string without prefix, e.g. "00FFFF".
type Colour string

var colourRe = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate rejects anything that is not exactly six hex digits.
func (c Colour) Validate() error {
	if !colourRe.MatchString(string(c)) {
		return fmt.Errorf("invalid colour %q: want six hex digits", string(c))
	}
	return nil
}

// ColourPair is the primary and secondary colour of a button or fader.
type ColourPair struct {
	One Colour `xml:"one,attr" json:"one"`
	Two Colour `xml:"two,attr" json:"two"`
}

// ButtonOffStyle selects how an inactive button is lit.
type ButtonOffStyle int

const (
	OffStyleDimmed ButtonOffStyle = iota
	OffStyleColour2
	OffStyleDimmedColour2
)

var offStyleNames = [...]string{"Dimmed", "Colour2", "DimmedColour2"}

func (s ButtonOffStyle) String() string {
	if s < 0 || int(s) >= len(offStyleNames) {
		return fmt.Sprintf("ButtonOffStyle(%d)", int(s))
	}
	return offStyleNames[s]
}

func (s ButtonOffStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ButtonOffStyle) UnmarshalText(text []byte) error {
	for i, n := range offStyleNames {
		if n == string(text) {
			*s = ButtonOffStyle(i)
			return nil
		}
	}
	return fmt.Errorf("unknown off style %q", string(text))
}

// LightState resolves the lighting instruction for an inactive button.
func (s ButtonOffStyle) LightState() mixer.LightState {
	switch s {
	case OffStyleColour2:
		return mixer.LightColour2
	case OffStyleDimmedColour2:
		return mixer.LightDimmedColour2
	default:
		return mixer.LightDimmedColour1
	}
}

// MuteButton is the persistent state of one fader's mute button.
//
// MutedToX marks any active mute on the fader; MutedToAll additionally marks
// a full hardware mute (held, or function All). A transient mute keeps the
// hardware channel Unmuted and only suppresses one routing destination.
type MuteButton struct {
	Function       mixer.MuteFunction `xml:"function,attr" json:"function"`
	MutedToX       bool               `xml:"mutedToX,attr" json:"mutedToX"`
	MutedToAll     bool               `xml:"mutedToAll,attr" json:"mutedToAll"`
	Blink          bool               `xml:"blink,attr" json:"blink"`
	PreviousVolume uint8              `xml:"previousVolume,attr" json:"previousVolume"`
}

// CoughButton is the cough/chat mute button state. Unlike fader mute buttons
// it is singular and supports toggle semantics.
type CoughButton struct {
	MuteToggle     bool               `xml:"toggle,attr" json:"toggle"`
	Function       mixer.MuteFunction `xml:"function,attr" json:"function"`
	MutedToX       bool               `xml:"mutedToX,attr" json:"mutedToX"`
	MutedToAll     bool               `xml:"mutedToAll,attr" json:"mutedToAll"`
	Blink          bool               `xml:"blink,attr" json:"blink"`
	PreviousVolume uint8              `xml:"previousVolume,attr" json:"previousVolume"`
}

// FaderConfig is the persisted configuration of one fader slot.
type FaderConfig struct {
	Channel mixer.Channel      `xml:"channel,attr" json:"channel"`
	Display mixer.FaderDisplay `xml:"display,attr" json:"display"`
	Colours ColourPair         `xml:"colours" json:"colours"`
	Mute    MuteButton         `xml:"mute" json:"mute"`
}

// ButtonStyle is the persisted lighting configuration of one button.
type ButtonStyle struct {
	Colours  ColourPair     `xml:"colours" json:"colours"`
	OffStyle ButtonOffStyle `xml:"offStyle,attr" json:"offStyle"`
}

// SampleBankConfig maps the four pads of one sampler bank to sample files.
// Empty string means the pad is unassigned.
type SampleBankConfig struct {
	Files [mixer.NumSamplePads]string `xml:"files>file" json:"files"`
}

// HasSample reports whether a pad has an assigned sample.
func (b SampleBankConfig) HasSample(pad mixer.SamplePad) bool {
	return b.Files[pad] != ""
}

// MicFaderNone marks the mic channel as not assigned to any fader.
const MicFaderNone = -1

// Profile is the complete mixer profile. Mutated in place by the device
// controller (commands and poll loop); persisted only on explicit save.
type Profile struct {
	name string

	Volumes [mixer.NumChannels]uint8
	Faders  [mixer.NumFaders]FaderConfig
	Cough   CoughButton

	// Fader currently carrying the mic channel, MicFaderNone when unbound.
	MicFader int

	Router [mixer.NumInputs]mixer.RouteMap

	Buttons [mixer.NumButtons]ButtonStyle

	ActiveEffectBank mixer.EffectBank
	Effects          [mixer.NumEffectBanks]EffectPreset

	MegaphoneEnabled bool
	RobotEnabled     bool
	HardTuneEnabled  bool
	FxEnabled        bool

	ActiveSampleBank mixer.SampleBank
	SampleBanks      [mixer.NumSampleBanks]SampleBankConfig

	// Transient, never persisted.
	swearOn      bool
	sampleActive [mixer.NumSamplePads]bool
}

// New returns the built-in default profile.
func New() *Profile {
	p := &Profile{name: DefaultName}

	p.Faders[mixer.FaderA].Channel = mixer.ChannelMic
	p.Faders[mixer.FaderB].Channel = mixer.ChannelMusic
	p.Faders[mixer.FaderC].Channel = mixer.ChannelChat
	p.Faders[mixer.FaderD].Channel = mixer.ChannelSystem
	p.MicFader = int(mixer.FaderA)

	for f := range p.Faders {
		p.Faders[f].Display = mixer.DisplayGradientMeter
		p.Faders[f].Colours = ColourPair{One: "00FFFF", Two: "000000"}
	}
	for b := range p.Buttons {
		p.Buttons[b].Colours = ColourPair{One: "00FFFF", Two: "000000"}
		p.Buttons[b].OffStyle = OffStyleDimmed
	}

	for c := range p.Volumes {
		p.Volumes[c] = 255
	}
	p.Volumes[mixer.ChannelMic] = 192

	// Everything audible everywhere except the sampler and chat-mic feedback.
	for _, in := range mixer.Inputs() {
		p.Router[in][mixer.OutputHeadphones] = true
		p.Router[in][mixer.OutputBroadcastMix] = true
		p.Router[in][mixer.OutputLineOut] = true
	}
	p.Router[mixer.InputMic][mixer.OutputChatMic] = true
	p.Router[mixer.InputMic][mixer.OutputSampler] = true

	for i := range p.Effects {
		p.Effects[i] = defaultEffectPreset()
	}

	return p
}

// Name returns the profile's load/save name.
func (p *Profile) Name() string { return p.name }

// SetName renames the in-memory profile (used after save-as).
func (p *Profile) SetName(name string) { p.name = name }

// Volume returns the stored volume of a channel.
func (p *Profile) Volume(c mixer.Channel) uint8 { return p.Volumes[c] }

// SetVolume stores a channel volume.
func (p *Profile) SetVolume(c mixer.Channel, v uint8) { p.Volumes[c] = v }

// FaderChannel returns the channel assigned to a fader.
func (p *Profile) FaderChannel(f mixer.Fader) mixer.Channel { return p.Faders[f].Channel }

// SetFaderChannel binds a channel to a fader slot.
func (p *Profile) SetFaderChannel(f mixer.Fader, c mixer.Channel) { p.Faders[f].Channel = c }

// SwitchFaders swaps the channel assignment and mute state of two faders.
// Swapping is a relabeling: mute state and colours travel with the channel.
func (p *Profile) SwitchFaders(a, b mixer.Fader) {
	p.Faders[a].Channel, p.Faders[b].Channel = p.Faders[b].Channel, p.Faders[a].Channel
	p.Faders[a].Mute, p.Faders[b].Mute = p.Faders[b].Mute, p.Faders[a].Mute
}

// FaderFor returns the fader currently carrying a channel, or false when the
// channel is unbound.
func (p *Profile) FaderFor(c mixer.Channel) (mixer.Fader, bool) {
	for _, f := range mixer.Faders() {
		if p.Faders[f].Channel == c {
			return f, true
		}
	}
	return 0, false
}

// MuteState returns the mute button state of a fader.
func (p *Profile) MuteState(f mixer.Fader) MuteButton { return p.Faders[f].Mute }

// SetMuteOn marks a fader's mute as engaged or released. Releasing also
// clears the full-mute flag.
func (p *Profile) SetMuteOn(f mixer.Fader, on bool) {
	p.Faders[f].Mute.MutedToX = on
	if !on {
		p.Faders[f].Mute.MutedToAll = false
	}
}

// SetMuteAll marks a fader's mute as a full hardware mute.
func (p *Profile) SetMuteAll(f mixer.Fader, all bool) { p.Faders[f].Mute.MutedToAll = all }

// SetMuteBlink sets the mute button blink flag.
func (p *Profile) SetMuteBlink(f mixer.Fader, blink bool) { p.Faders[f].Mute.Blink = blink }

// SetMutePreviousVolume snapshots the channel volume to restore on unmute.
func (p *Profile) SetMutePreviousVolume(f mixer.Fader, v uint8) {
	p.Faders[f].Mute.PreviousVolume = v
}

// SetMuteFunction changes what a non-held press mutes.
func (p *Profile) SetMuteFunction(f mixer.Fader, fn mixer.MuteFunction) {
	p.Faders[f].Mute.Function = fn
}

// CoughState returns the cough button state.
func (p *Profile) CoughState() CoughButton { return p.Cough }

// SetCoughOn engages or releases the cough mute; release clears full-mute.
func (p *Profile) SetCoughOn(on bool) {
	p.Cough.MutedToX = on
	if !on {
		p.Cough.MutedToAll = false
	}
}

// SetCoughAll marks the cough mute as a full hardware mute.
func (p *Profile) SetCoughAll(all bool) { p.Cough.MutedToAll = all }

// SetCoughBlink sets the cough button blink flag.
func (p *Profile) SetCoughBlink(blink bool) { p.Cough.Blink = blink }

// SetCoughFunction changes what the cough button mutes.
func (p *Profile) SetCoughFunction(fn mixer.MuteFunction) { p.Cough.Function = fn }

// SetCoughToggle switches between toggle and press-and-hold semantics.
func (p *Profile) SetCoughToggle(toggle bool) { p.Cough.MuteToggle = toggle }

// Routing returns one input's persisted routing row.
func (p *Profile) Routing(in mixer.Input) mixer.RouteMap { return p.Router[in] }

// SetRouting flips one cell of the routing matrix.
func (p *Profile) SetRouting(in mixer.Input, out mixer.Output, enabled bool) {
	p.Router[in][out] = enabled
}

// SwearOn reports the bleep button indicator state (transient).
func (p *Profile) SwearOn() bool { return p.swearOn }

// SetSwearOn sets the bleep button indicator.
func (p *Profile) SetSwearOn(on bool) { p.swearOn = on }

// SampleActive reports whether a pad's playback indicator is lit.
func (p *Profile) SampleActive(pad mixer.SamplePad) bool { return p.sampleActive[pad] }

// SetSampleActive sets a pad's playback indicator.
func (p *Profile) SetSampleActive(pad mixer.SamplePad, active bool) {
	p.sampleActive[pad] = active
}

// CurrentSampleBank returns the active sampler bank config.
func (p *Profile) CurrentSampleBank() SampleBankConfig {
	return p.SampleBanks[p.ActiveSampleBank]
}

// LoadSampleBank switches the active sampler bank.
func (p *Profile) LoadSampleBank(bank mixer.SampleBank) { p.ActiveSampleBank = bank }

// SampleFile returns the file mapped to a pad in the active bank.
func (p *Profile) SampleFile(pad mixer.SamplePad) string {
	return p.SampleBanks[p.ActiveSampleBank].Files[pad]
}

// SetSampleFile maps a file to a pad in the given bank.
func (p *Profile) SetSampleFile(bank mixer.SampleBank, pad mixer.SamplePad, file string) {
	p.SampleBanks[bank].Files[pad] = file
}

// FaderDisplay returns a fader's display style.
func (p *Profile) FaderDisplay(f mixer.Fader) mixer.FaderDisplay { return p.Faders[f].Display }

// SetFaderDisplay sets a fader's display style.
func (p *Profile) SetFaderDisplay(f mixer.Fader, d mixer.FaderDisplay) {
	p.Faders[f].Display = d
}

// SetFaderColours sets a fader's colour pair after validation.
func (p *Profile) SetFaderColours(f mixer.Fader, top, bottom Colour) error {
	if err := top.Validate(); err != nil {
		return err
	}
	if err := bottom.Validate(); err != nil {
		return err
	}
	p.Faders[f].Colours = ColourPair{One: top, Two: bottom}
	return nil
}

// SetButtonColours sets a button's colour pair after validation.
func (p *Profile) SetButtonColours(b mixer.Button, one, two Colour) error {
	if err := one.Validate(); err != nil {
		return err
	}
	if err := two.Validate(); err != nil {
		return err
	}
	p.Buttons[b].Colours = ColourPair{One: one, Two: two}
	return nil
}

// SetButtonOffStyle sets how a button is lit when inactive.
func (p *Profile) SetButtonOffStyle(b mixer.Button, style ButtonOffStyle) {
	p.Buttons[b].OffStyle = style
}

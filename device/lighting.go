package device

import (
	"encoding/hex"

	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// buttonLightStates derives the full lighting array from current profile
// state. Recomputed and re-pushed whole; the write is idempotent.
func (c *Controller) buttonLightStates() [mixer.NumButtons]mixer.LightState {
	var states [mixer.NumButtons]mixer.LightState

	off := func(b mixer.Button) mixer.LightState {
		return c.profile.Buttons[b].OffStyle.LightState()
	}
	active := func(b mixer.Button, on, blink bool) mixer.LightState {
		switch {
		case blink:
			return mixer.LightFlashing
		case on:
			return mixer.LightOn
		default:
			return off(b)
		}
	}

	for _, f := range mixer.Faders() {
		m := c.profile.MuteState(f)
		states[f.MuteButton()] = active(f.MuteButton(), m.MutedToX, m.Blink)
	}

	cough := c.profile.CoughState()
	states[mixer.ButtonCough] = active(mixer.ButtonCough, cough.MutedToX, cough.Blink)
	states[mixer.ButtonBleep] = active(mixer.ButtonBleep, c.profile.SwearOn(), false)

	for bank := mixer.EffectBank1; bank < mixer.NumEffectBanks; bank++ {
		b := mixer.ButtonEffectSelect1 + mixer.Button(bank)
		states[b] = active(b, bank == c.profile.ActiveEffectBank, false)
	}
	states[mixer.ButtonEffectFx] = active(mixer.ButtonEffectFx, c.profile.FxEnabled, false)
	states[mixer.ButtonEffectMegaphone] = active(mixer.ButtonEffectMegaphone, c.profile.MegaphoneEnabled, false)
	states[mixer.ButtonEffectRobot] = active(mixer.ButtonEffectRobot, c.profile.RobotEnabled, false)
	states[mixer.ButtonEffectHardTune] = active(mixer.ButtonEffectHardTune, c.profile.HardTuneEnabled, false)

	for bank := mixer.SampleBankA; bank < mixer.NumSampleBanks; bank++ {
		b := mixer.ButtonSampleSelectA + mixer.Button(bank)
		states[b] = active(b, bank == c.profile.ActiveSampleBank, false)
	}
	for pad := mixer.PadTopLeft; pad < mixer.NumSamplePads; pad++ {
		states[pad.Button()] = active(pad.Button(), c.profile.SampleActive(pad), false)
	}

	return states
}

// updateButtonStates pushes the derived lighting array.
func (c *Controller) updateButtonStates() error {
	return c.session.SetButtonStates(c.buttonLightStates())
}

// colourBytes decodes a profile colour into its three RGB bytes. Colours are
// validated on the way into the profile, so a decode failure here means a
// corrupted document; fall back to black.
func colourBytes(col profile.Colour) [3]byte {
	var out [3]byte
	b, err := hex.DecodeString(string(col))
	if err != nil || len(b) != 3 {
		return out
	}
	copy(out[:], b)
	return out
}

// colourMap serializes every button's colour pair followed by every fader's,
// six bytes each, in declaration order. This is the layout SetColourMap
// expects from us.
func (c *Controller) colourMap() []byte {
	out := make([]byte, 0, (mixer.NumButtons+mixer.NumFaders)*6)
	appendPair := func(p profile.ColourPair) {
		one, two := colourBytes(p.One), colourBytes(p.Two)
		out = append(out, one[:]...)
		out = append(out, two[:]...)
	}
	for b := 0; b < mixer.NumButtons; b++ {
		appendPair(c.profile.Buttons[b].Colours)
	}
	for _, f := range mixer.Faders() {
		appendPair(c.profile.Faders[f].Colours)
	}
	return out
}

// loadColourMap pushes the full colour configuration.
func (c *Controller) loadColourMap() error {
	return c.session.SetColourMap(c.colourMap())
}

// syncSampleLighting turns a pad's active light off once the playback it
// represents has finished. Polled; lighting is only re-pushed on change.
func (c *Controller) syncSampleLighting() error {
	changed := false
	for pad := mixer.PadTopLeft; pad < mixer.NumSamplePads; pad++ {
		if c.profile.SampleActive(pad) && !c.audio.Playing(pad) {
			c.profile.SetSampleActive(pad, false)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return c.updateButtonStates()
}

package device

import (
	"fmt"

	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// Direct command surface. Every method validates first (no state mutated on
// bad input), then applies to the store, then pushes the minimal affected
// keys to the hardware. Hardware errors propagate to the caller; the store
// is not rolled back (the next full profile apply resyncs).

// SetFader reassigns a fader's channel. A channel already bound elsewhere is
// swapped (a relabeling: mute state travels with the channel); binding over a
// transient-muted channel first synthesizes a release tap so mute state never
// outlives its fader binding.
func (c *Controller) SetFader(f mixer.Fader, channel mixer.Channel) error {
	if f < 0 || f >= mixer.NumFaders {
		return fmt.Errorf("unknown fader %d", f)
	}

	existing := c.profile.FaderChannel(f)
	if channel == existing {
		if channel == mixer.ChannelMic {
			c.profile.MicFader = int(f)
		}
		return c.session.SetFader(f, channel)
	}

	// Is the new channel already carried by another fader?
	var other mixer.Fader
	found := false
	for _, fn := range mixer.Faders() {
		if fn != f && c.profile.FaderChannel(fn) == channel {
			other, found = fn, true
		}
	}

	if !found {
		// The outgoing channel loses its fader: unwind any active mute
		// first, it cannot be tracked once unbound.
		if c.profile.MuteState(f).MutedToX {
			if err := c.handleFaderMute(f, false); err != nil {
				return err
			}
		}
		if existing == mixer.ChannelMic {
			c.profile.MicFader = profile.MicFaderNone
		}
		if channel == mixer.ChannelMic {
			c.profile.MicFader = int(f)
		}
		c.profile.SetFaderChannel(f, channel)
		return c.session.SetFader(f, channel)
	}

	c.profile.SwitchFaders(f, other)
	if channel == mixer.ChannelMic {
		c.profile.MicFader = int(f)
	}
	if existing == mixer.ChannelMic {
		c.profile.MicFader = int(other)
	}
	if err := c.session.SetFader(f, channel); err != nil {
		return err
	}
	if err := c.session.SetFader(other, existing); err != nil {
		return err
	}
	return c.updateButtonStates()
}

// SetFaderMuteFunction changes what a fader's plain mute press silences. An
// active mute under the old function is released first.
func (c *Controller) SetFaderMuteFunction(f mixer.Fader, fn mixer.MuteFunction) error {
	if c.profile.MuteState(f).Function == fn {
		return nil
	}
	if err := c.unmuteIfMuted(f); err != nil {
		return err
	}
	c.profile.SetMuteFunction(f, fn)
	return nil
}

// SetVolume pushes and stores a channel volume.
func (c *Controller) SetVolume(channel mixer.Channel, volume uint8) error {
	if err := c.session.SetVolume(channel, volume); err != nil {
		return err
	}
	c.profile.SetVolume(channel, volume)
	return nil
}

// SetCoughMuteFunction changes what the cough button silences.
func (c *Controller) SetCoughMuteFunction(fn mixer.MuteFunction) error {
	if c.profile.CoughState().Function == fn {
		return nil
	}
	if err := c.unmuteCoughIfMuted(); err != nil {
		return err
	}
	c.profile.SetCoughFunction(fn)
	return nil
}

// SetCoughIsHold switches the cough button between press-and-hold and toggle
// semantics.
func (c *Controller) SetCoughIsHold(hold bool) error {
	if err := c.unmuteCoughIfMuted(); err != nil {
		return err
	}
	c.profile.SetCoughToggle(!hold)
	return nil
}

// SetBleepVolume sets the swear-button bleep level in dB.
func (c *Controller) SetBleepVolume(volume int8) error {
	if volume < -34 || volume > 0 {
		return fmt.Errorf("bleep volume %d out of range -34..0", volume)
	}
	if err := c.settings.SetBleepVolume(c.serial, volume); err != nil {
		return err
	}
	return c.session.SetEffectValues([]EffectValue{
		{Key: mixer.EffectBleepLevel, Value: int32(volume)},
	})
}

// SetMicrophoneType selects the live microphone input.
func (c *Controller) SetMicrophoneType(t mixer.MicrophoneType) error {
	if t < 0 || t >= mixer.NumMicTypes {
		return fmt.Errorf("unknown microphone type %d", t)
	}
	c.mic.SetMicType(t)
	return c.applyMicGain()
}

// SetMicrophoneGain sets a type's gain and makes that type live.
func (c *Controller) SetMicrophoneGain(t mixer.MicrophoneType, gain uint16) error {
	if t < 0 || t >= mixer.NumMicTypes {
		return fmt.Errorf("unknown microphone type %d", t)
	}
	if err := c.mic.SetGain(t, gain); err != nil {
		return err
	}
	c.mic.SetMicType(t)
	return c.applyMicGain()
}

// SetRouter flips one routing cell and rewrites the affected input's row.
func (c *Controller) SetRouter(in mixer.Input, out mixer.Output, enabled bool) error {
	if in < 0 || in >= mixer.NumInputs || out < 0 || out >= mixer.NumOutputs {
		return fmt.Errorf("unknown routing cell %d/%d", in, out)
	}
	c.profile.SetRouting(in, out, enabled)
	return c.applyRouting(in)
}

// pushEffect re-pushes one effect key's current value.
func (c *Controller) pushEffect(key mixer.EffectKey) error {
	return c.applyEffects(mixer.NewKeySet(key))
}

// pushParamAndEffect re-pushes a mic param together with its effect-table
// twin. The gate and compressor exist in both tables.
func (c *Controller) pushParamAndEffect(param mixer.MicParamKey, key mixer.EffectKey) error {
	if err := c.applyMicParams([]mixer.MicParamKey{param}); err != nil {
		return err
	}
	return c.pushEffect(key)
}

// SetEqGain sets one full-equalizer band's gain.
func (c *Controller) SetEqGain(band micprofile.EqBand, gain int8) error {
	key, err := c.mic.SetEqGain(band, gain)
	if err != nil {
		return err
	}
	return c.pushEffect(key)
}

// SetEqFreq sets one full-equalizer band's centre frequency.
func (c *Controller) SetEqFreq(band micprofile.EqBand, hz float32) error {
	key, err := c.mic.SetEqFreq(band, hz)
	if err != nil {
		return err
	}
	return c.pushEffect(key)
}

// SetEqMiniGain sets one mini-equalizer band's gain.
func (c *Controller) SetEqMiniGain(band micprofile.MiniEqBand, gain int8) error {
	key, err := c.mic.SetMiniEqGain(band, gain)
	if err != nil {
		return err
	}
	return c.applyMicParams([]mixer.MicParamKey{key})
}

// SetEqMiniFreq sets one mini-equalizer band's centre frequency.
func (c *Controller) SetEqMiniFreq(band micprofile.MiniEqBand, hz float32) error {
	key, err := c.mic.SetMiniEqFreq(band, hz)
	if err != nil {
		return err
	}
	return c.applyMicParams([]mixer.MicParamKey{key})
}

// SetGateThreshold sets the noise gate threshold in dB.
func (c *Controller) SetGateThreshold(v int8) error {
	if _, err := c.mic.SetGateThreshold(v); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamGateThreshold, mixer.EffectGateThreshold)
}

// SetGateAttenuation sets the closed-gate attenuation percentage.
func (c *Controller) SetGateAttenuation(percent uint8) error {
	if _, err := c.mic.SetGateAttenuation(percent); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamGateAttenuation, mixer.EffectGateAttenuation)
}

// SetGateAttack sets the gate attack selector index.
func (c *Controller) SetGateAttack(idx uint8) error {
	if _, err := c.mic.SetGateAttack(idx); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamGateAttack, mixer.EffectGateAttack)
}

// SetGateRelease sets the gate release selector index.
func (c *Controller) SetGateRelease(idx uint8) error {
	if _, err := c.mic.SetGateRelease(idx); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamGateRelease, mixer.EffectGateRelease)
}

// SetGateActive switches the gate on or off. The enable flag only exists in
// the effect table.
func (c *Controller) SetGateActive(active bool) error {
	key := c.mic.SetGateEnabled(active)
	return c.pushEffect(key)
}

// SetCompressorThreshold sets the compressor threshold in dB.
func (c *Controller) SetCompressorThreshold(v int8) error {
	if _, err := c.mic.SetCompressorThreshold(v); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamCompressorThreshold, mixer.EffectCompressorThreshold)
}

// SetCompressorRatio sets the ratio selector index.
func (c *Controller) SetCompressorRatio(idx uint8) error {
	if _, err := c.mic.SetCompressorRatio(idx); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamCompressorRatio, mixer.EffectCompressorRatio)
}

// SetCompressorAttack sets the attack selector index.
func (c *Controller) SetCompressorAttack(idx uint8) error {
	if _, err := c.mic.SetCompressorAttack(idx); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamCompressorAttack, mixer.EffectCompressorAttack)
}

// SetCompressorRelease sets the release selector index.
func (c *Controller) SetCompressorRelease(idx uint8) error {
	if _, err := c.mic.SetCompressorRelease(idx); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamCompressorRelease, mixer.EffectCompressorRelease)
}

// SetCompressorMakeupGain sets the makeup gain in dB.
func (c *Controller) SetCompressorMakeupGain(v uint8) error {
	if _, err := c.mic.SetCompressorMakeupGain(v); err != nil {
		return err
	}
	return c.pushParamAndEffect(mixer.ParamCompressorMakeUpGain, mixer.EffectCompressorMakeUpGain)
}

// SetDeess sets the de-esser strength percentage.
func (c *Controller) SetDeess(percent uint8) error {
	key, err := c.mic.SetDeess(percent)
	if err != nil {
		return err
	}
	return c.pushEffect(key)
}

// SetFaderDisplayStyle changes one fader's scribble-strip rendering.
func (c *Controller) SetFaderDisplayStyle(f mixer.Fader, d mixer.FaderDisplay) error {
	c.profile.SetFaderDisplay(f, d)
	return c.session.SetFaderDisplayMode(f, d.Gradient(), d.Meter())
}

// SetAllFaderDisplayStyle changes every fader's rendering in one colour-map
// reload.
func (c *Controller) SetAllFaderDisplayStyle(d mixer.FaderDisplay) error {
	for _, f := range mixer.Faders() {
		c.profile.SetFaderDisplay(f, d)
		if err := c.session.SetFaderDisplayMode(f, d.Gradient(), d.Meter()); err != nil {
			return err
		}
	}
	return c.loadColourMap()
}

// SetFaderColours sets one fader's colour pair.
func (c *Controller) SetFaderColours(f mixer.Fader, top, bottom profile.Colour) error {
	if err := c.profile.SetFaderColours(f, top, bottom); err != nil {
		return err
	}
	return c.loadColourMap()
}

// SetAllFaderColours sets every fader's colour pair in one reload.
func (c *Controller) SetAllFaderColours(top, bottom profile.Colour) error {
	for _, f := range mixer.Faders() {
		if err := c.profile.SetFaderColours(f, top, bottom); err != nil {
			return err
		}
	}
	return c.loadColourMap()
}

// SetButtonColours sets one button's colour pair.
func (c *Controller) SetButtonColours(b mixer.Button, one, two profile.Colour) error {
	if err := c.profile.SetButtonColours(b, one, two); err != nil {
		return err
	}
	if err := c.loadColourMap(); err != nil {
		return err
	}
	return c.updateButtonStates()
}

// SetButtonOffStyle sets how a button is lit when inactive.
func (c *Controller) SetButtonOffStyle(b mixer.Button, style profile.ButtonOffStyle) error {
	c.profile.SetButtonOffStyle(b, style)
	if err := c.loadColourMap(); err != nil {
		return err
	}
	return c.updateButtonStates()
}

// LoadProfile replaces the in-memory mixer profile wholesale and pushes it.
// A failed load leaves the current profile untouched.
func (c *Controller) LoadProfile(name string) error {
	loaded, err := profile.Load(name, c.settings.ProfileDirectory())
	if err != nil {
		return err
	}
	c.profile = loaded
	if err := c.applyProfile(); err != nil {
		return err
	}
	return c.settings.SetProfileName(c.serial, loaded.Name())
}

// SaveProfile overwrites the profile under its current name.
func (c *Controller) SaveProfile() error {
	name := c.settings.ProfileName(c.serial)
	return c.profile.Save(c.settings.ProfileDirectory(), name, true)
}

// SaveProfileAs writes the profile under a new name, refusing to clobber an
// existing one, and adopts the new name.
func (c *Controller) SaveProfileAs(name string) error {
	if err := c.profile.Save(c.settings.ProfileDirectory(), name, false); err != nil {
		return err
	}
	return c.settings.SetProfileName(c.serial, name)
}

// LoadMicProfile replaces the in-memory mic profile wholesale and pushes it.
func (c *Controller) LoadMicProfile(name string) error {
	loaded, err := micprofile.Load(name, c.settings.MicProfileDirectory())
	if err != nil {
		return err
	}
	c.mic = loaded
	if err := c.applyMicProfile(); err != nil {
		return err
	}
	return c.settings.SetMicProfileName(c.serial, loaded.Name())
}

// SaveMicProfile overwrites the mic profile under its current name.
func (c *Controller) SaveMicProfile() error {
	name := c.settings.MicProfileName(c.serial)
	return c.mic.Save(c.settings.MicProfileDirectory(), name, true)
}

// SaveMicProfileAs writes the mic profile under a new name and adopts it.
func (c *Controller) SaveMicProfileAs(name string) error {
	if err := c.mic.Save(c.settings.MicProfileDirectory(), name, false); err != nil {
		return err
	}
	return c.settings.SetMicProfileName(c.serial, name)
}

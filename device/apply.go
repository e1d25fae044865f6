package device

import (
	"log/slog"

	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
)

func (c *Controller) bleepVolume() int8 {
	return c.settings.BleepVolume(c.serial)
}

// applyEffects pushes the current values of a set of effect keys. Callers
// pass the minimal keyset their change affected; only profile load and bank
// switches push wide sets.
func (c *Controller) applyEffects(keys mixer.KeySet) error {
	bleep := c.bleepVolume()
	values := make([]EffectValue, 0, len(keys))
	for _, k := range keys.Keys() {
		values = append(values, EffectValue{Key: k, Value: c.mic.EffectValue(k, c.profile, bleep)})
	}
	return c.session.SetEffectValues(values)
}

// applyMicParams pushes the current encodings of a set of mic param keys.
func (c *Controller) applyMicParams(keys []mixer.MicParamKey) error {
	bleep := c.bleepVolume()
	params := make([]MicParam, 0, len(keys))
	for _, k := range keys {
		params = append(params, MicParam{Key: k, Value: c.mic.ParamValue(k, bleep)})
	}
	return c.session.SetMicParams(params)
}

// applyMicGain pushes the active microphone type's gain. Only the selected
// type's gain is live on the hardware.
func (c *Controller) applyMicGain() error {
	return c.session.SetMicrophoneGain(c.mic.MicType, c.mic.Gain(c.mic.MicType))
}

// micParamKeys is every mic param key except the inactive gain slots: the
// three per-type gains collapse to the one key the selected type owns.
func (c *Controller) micParamKeys() []mixer.MicParamKey {
	keys := make([]mixer.MicParamKey, 0, mixer.NumMicParamKeys-2)
	gain := c.mic.MicType.GainParam()
	for k := mixer.MicParamKey(0); k < mixer.NumMicParamKeys; k++ {
		switch k {
		case mixer.ParamDynamicGain, mixer.ParamCondenserGain, mixer.ParamJackGain:
			if k != gain {
				continue
			}
		}
		keys = append(keys, k)
	}
	return keys
}

// loadEffects re-syncs the four encoder positions from the active bank.
func (c *Controller) loadEffects() error {
	for _, enc := range []struct {
		e mixer.Encoder
		v int8
	}{
		{mixer.EncoderPitch, c.profile.PitchValue()},
		{mixer.EncoderGender, c.profile.GenderValue()},
		{mixer.EncoderReverb, c.profile.ReverbValue()},
		{mixer.EncoderEcho, c.profile.EchoValue()},
	} {
		if err := c.session.SetEncoderValue(enc.e, uint8(enc.v)); err != nil {
			return err
		}
	}
	return nil
}

// setPitchMode reconfigures the pitch encoder's travel: hard-tune pitch steps
// in semitones with a narrow or wide window, otherwise free travel.
func (c *Controller) setPitchMode() error {
	if c.profile.HardTunePitchEnabled() {
		if c.profile.PitchNarrow() {
			return c.session.SetEncoderMode(mixer.EncoderPitch, 3, 1)
		}
		return c.session.SetEncoderMode(mixer.EncoderPitch, 3, 2)
	}
	return c.session.SetEncoderMode(mixer.EncoderPitch, 1, 4)
}

// loadEffectBank activates an effect bank: every parameter family the bank
// carries is re-pushed, the encoders re-synced and the pitch mode recomputed.
func (c *Controller) loadEffectBank(bank mixer.EffectBank) error {
	slog.Debug("loading effect bank", "bank", bank)
	c.profile.LoadEffectBank(bank)

	if err := c.loadEffects(); err != nil {
		return err
	}
	if err := c.setPitchMode(); err != nil {
		return err
	}

	keys := micprofile.ReverbKeys()
	keys.Add(micprofile.EchoKeys())
	keys.Add(micprofile.PitchKeys())
	keys.Add(micprofile.GenderKeys())
	keys.Add(micprofile.MegaphoneKeys())
	keys.Add(micprofile.RobotKeys())
	keys.Add(micprofile.HardTuneKeys())
	return c.applyEffects(keys)
}

func (c *Controller) toggleMegaphone() error {
	c.profile.ToggleMegaphone()
	return c.applyEffects(mixer.NewKeySet(mixer.EffectMegaphoneEnabled))
}

func (c *Controller) toggleRobot() error {
	c.profile.ToggleRobot()
	return c.applyEffects(mixer.NewKeySet(mixer.EffectRobotEnabled))
}

func (c *Controller) toggleHardTune() error {
	c.profile.ToggleHardTune()
	// Hard tune changes the pitch encoder's unit system.
	if err := c.setPitchMode(); err != nil {
		return err
	}
	return c.applyEffects(mixer.NewKeySet(mixer.EffectHardTuneEnabled))
}

func (c *Controller) toggleFx() error {
	c.profile.ToggleFx()
	return c.applyEffects(mixer.NewKeySet(
		mixer.EffectEncoder1Enabled, mixer.EffectEncoder2Enabled,
		mixer.EffectEncoder3Enabled, mixer.EffectEncoder4Enabled,
		mixer.EffectMegaphoneEnabled, mixer.EffectRobotEnabled,
		mixer.EffectHardTuneEnabled,
	))
}

// applyMuteFromProfile pushes a loaded profile's mute state for one fader
// without running the mute transition machinery.
func (c *Controller) applyMuteFromProfile(f mixer.Fader) error {
	channel := c.profile.FaderChannel(f)
	m := c.profile.MuteState(f)
	if fullMute(m.MutedToX, m.MutedToAll, m.Function) {
		return c.session.SetChannelState(channel, mixer.Muted)
	}
	// Transient suppression is the router's job; the channel itself is live.
	return c.session.SetChannelState(channel, mixer.Unmuted)
}

// applyCoughFromProfile reconciles a loaded profile's cough state. A
// hold-mode cough cannot be "still pressed" across a profile load, so stale
// engaged state is cleared instead of applied.
func (c *Controller) applyCoughFromProfile() error {
	cough := c.profile.CoughState()
	if !cough.MuteToggle && cough.MutedToX {
		c.profile.SetCoughOn(false)
		c.profile.SetCoughBlink(false)
		return nil
	}
	if fullMute(cough.MutedToX, cough.MutedToAll, cough.Function) {
		return c.session.SetChannelState(mixer.ChannelMic, mixer.Muted)
	}
	return nil
}

// applyProfile pushes the whole mixer profile to the hardware: faders, mute
// states, lighting, volumes and the full routing matrix. Used at attach and
// on profile load.
func (c *Controller) applyProfile() error {
	slog.Debug("applying profile", "name", c.profile.Name())

	for _, f := range mixer.Faders() {
		if err := c.session.SetFader(f, c.profile.FaderChannel(f)); err != nil {
			return err
		}
		if err := c.applyMuteFromProfile(f); err != nil {
			return err
		}
	}
	if err := c.applyCoughFromProfile(); err != nil {
		return err
	}
	if err := c.loadColourMap(); err != nil {
		return err
	}
	for _, f := range mixer.Faders() {
		d := c.profile.FaderDisplay(f)
		if err := c.session.SetFaderDisplayMode(f, d.Gradient(), d.Meter()); err != nil {
			return err
		}
	}
	for _, ch := range mixer.Channels() {
		if err := c.session.SetVolume(ch, c.profile.Volume(ch)); err != nil {
			return err
		}
	}
	if err := c.updateButtonStates(); err != nil {
		return err
	}
	return c.applyAllRouting()
}

// applyMicProfile pushes the whole mic profile: gain, every live mic param,
// the full effect table, encoder positions and pitch mode. Used at attach and
// on mic profile load.
func (c *Controller) applyMicProfile() error {
	slog.Debug("applying mic profile", "name", c.mic.Name())

	if err := c.applyMicGain(); err != nil {
		return err
	}
	if err := c.applyMicParams(c.micParamKeys()); err != nil {
		return err
	}
	keys := micprofile.CommonKeys()
	keys.Add(micprofile.FullKeys())
	if err := c.applyEffects(keys); err != nil {
		return err
	}
	if err := c.loadEffects(); err != nil {
		return err
	}
	return c.setPitchMode()
}

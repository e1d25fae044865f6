package device

import (
	"log/slog"
	"time"

	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// HoldThreshold is how long a button must stay down before the hold handler
// fires. Fires at most once per press cycle.
const HoldThreshold = 500 * time.Millisecond

// Per-button press bookkeeping, created on press and cleared on release.
type pressState struct {
	pressTime   time.Time
	holdHandled bool
}

// Controller owns one attached deck: the session, the loaded profiles and
// the poll bookkeeping. It is not safe for concurrent use; the Handle
// serializes poll ticks and commands onto it.
type Controller struct {
	session  Session
	serial   string
	settings Settings

	profile *profile.Profile
	mic     *micprofile.Store

	audio Player

	lastButtons  [mixer.NumButtons]bool
	buttonStates [mixer.NumButtons]pressState

	kernelDriverAttached bool

	// Injectable clock for hold-threshold tests.
	now func() time.Time
}

// New builds a controller for an attached deck, loads the named profiles
// (falling back to built-in defaults) and pushes the full state to the
// hardware.
func New(session Session, serial string, settings Settings, audio Player) (*Controller, error) {
	profileName := settings.ProfileName(serial)
	micName := settings.MicProfileName(serial)
	slog.Info("loading profiles", "serial", serial, "profile", profileName, "micProfile", micName)

	c := &Controller{
		session:  session,
		serial:   serial,
		settings: settings,
		profile:  profile.LoadOrDefault(profileName, settings.ProfileDirectory()),
		mic:      micprofile.LoadOrDefault(micName, settings.MicProfileDirectory()),
		audio:    audio,
		now:      time.Now,
	}

	if err := c.applyProfile(); err != nil {
		return nil, err
	}
	if err := c.applyMicProfile(); err != nil {
		return nil, err
	}
	return c, nil
}

// Serial returns the deck's serial number.
func (c *Controller) Serial() string { return c.serial }

// Profile returns the loaded mixer profile.
func (c *Controller) Profile() *profile.Profile { return c.profile }

// MicProfile returns the loaded mic profile.
func (c *Controller) MicProfile() *micprofile.Store { return c.mic }

// reactive runs a poll-triggered handler: its error is logged and swallowed
// so one bad press never halts the poll loop. Command paths call handlers
// directly and propagate instead.
func (c *Controller) reactive(what string, fn func() error) {
	if err := fn(); err != nil {
		slog.Error("reactive handler failed", "handler", what, "error", err)
	}
}

// PollTick runs one poll cycle: lighting resync for finished samples,
// snapshot read, volume and encoder diffing, and button classification.
// A failed snapshot read skips the tick body; transient read failures are
// expected and not fatal.
func (c *Controller) PollTick() error {
	if attached, err := c.session.KernelDriverAttached(); err == nil {
		c.kernelDriverAttached = attached
	}

	if c.audio != nil {
		c.audio.Reap()
		c.reactive("sample lighting", c.syncSampleLighting)
	}

	snapshot, err := c.session.ReadInputSnapshot()
	if err != nil {
		return nil
	}

	c.updateVolumes(snapshot.Volumes)
	c.reactive("encoders", func() error { return c.updateEncoders(snapshot.Encoders) })

	for b := 0; b < mixer.NumButtons; b++ {
		if snapshot.Pressed[b] && !c.lastButtons[b] {
			c.buttonStates[b] = pressState{pressTime: c.now()}
			c.reactive("button down", func() error { return c.onButtonDown(mixer.Button(b)) })
		}
	}
	for b := 0; b < mixer.NumButtons; b++ {
		if !snapshot.Pressed[b] && c.lastButtons[b] {
			state := c.buttonStates[b]
			c.reactive("button up", func() error { return c.onButtonUp(mixer.Button(b), state) })
			c.buttonStates[b] = pressState{}
		}
	}
	for b := 0; b < mixer.NumButtons; b++ {
		if snapshot.Pressed[b] && !c.buttonStates[b].holdHandled &&
			c.now().Sub(c.buttonStates[b].pressTime) > HoldThreshold {
			c.reactive("button hold", func() error { return c.onButtonHold(mixer.Button(b)) })
			c.buttonStates[b].holdHandled = true
		}
	}

	c.lastButtons = snapshot.Pressed
	return nil
}

// Hardware is authoritative for physical fader position: any mismatch means
// a human moved the fader.
func (c *Controller) updateVolumes(volumes [mixer.NumFaders]uint8) {
	for _, f := range mixer.Faders() {
		channel := c.profile.FaderChannel(f)
		old := c.profile.Volume(channel)
		if volumes[f] != old {
			slog.Debug("fader moved", "channel", channel, "from", old, "to", volumes[f])
			c.profile.SetVolume(channel, volumes[f])
		}
	}
}

// The pitch encoder reports knob detents, not profile units: with hard-tune
// pitch the profile stores semitones (12 per detent), with narrow style half
// detents.
func (c *Controller) updateEncoders(encoders [mixer.NumEncoders]int8) error {
	pitch := encoders[mixer.EncoderPitch]
	if c.profile.HardTunePitchEnabled() {
		pitch *= 12
	} else if c.profile.PitchNarrow() {
		pitch /= 2
	}
	if pitch != c.profile.PitchValue() {
		c.profile.SetPitchValue(pitch)
		if err := c.applyEffects(mixer.NewKeySet(mixer.EffectPitchAmount)); err != nil {
			return err
		}
	}

	if v := encoders[mixer.EncoderGender]; v != c.profile.GenderValue() {
		c.profile.SetGenderValue(v)
		if err := c.applyEffects(mixer.NewKeySet(mixer.EffectGenderAmount)); err != nil {
			return err
		}
	}
	if v := encoders[mixer.EncoderReverb]; v != c.profile.ReverbValue() {
		c.profile.SetReverbValue(v)
		if err := c.applyEffects(mixer.NewKeySet(mixer.EffectReverbAmount)); err != nil {
			return err
		}
	}
	if v := encoders[mixer.EncoderEcho]; v != c.profile.EchoValue() {
		c.profile.SetEchoValue(v)
		if err := c.applyEffects(mixer.NewKeySet(mixer.EffectEchoAmount)); err != nil {
			return err
		}
	}
	return nil
}

// Only two buttons act on press: the cough mute and the bleep indicator.
func (c *Controller) onButtonDown(button mixer.Button) error {
	slog.Debug("button down", "button", button)

	switch button {
	case mixer.ButtonCough:
		if err := c.handleCoughMute(coughPress); err != nil {
			return err
		}
	case mixer.ButtonBleep:
		c.profile.SetSwearOn(true)
	}
	return c.updateButtonStates()
}

func (c *Controller) onButtonHold(button mixer.Button) error {
	slog.Debug("button hold", "button", button)

	switch button {
	case mixer.ButtonFader1Mute, mixer.ButtonFader2Mute,
		mixer.ButtonFader3Mute, mixer.ButtonFader4Mute:
		f := mixer.Fader(button - mixer.ButtonFader1Mute)
		if err := c.handleFaderMute(f, true); err != nil {
			return err
		}
	case mixer.ButtonCough:
		if err := c.handleCoughMute(coughHeld); err != nil {
			return err
		}
	}
	return c.updateButtonStates()
}

func (c *Controller) onButtonUp(button mixer.Button, state pressState) error {
	slog.Debug("button up", "button", button, "holdHandled", state.holdHandled)

	switch button {
	case mixer.ButtonFader1Mute, mixer.ButtonFader2Mute,
		mixer.ButtonFader3Mute, mixer.ButtonFader4Mute:
		if !state.holdHandled {
			f := mixer.Fader(button - mixer.ButtonFader1Mute)
			if err := c.handleFaderMute(f, false); err != nil {
				return err
			}
		}

	case mixer.ButtonCough:
		ev := coughRelease
		ev.heldCalled = state.holdHandled
		if err := c.handleCoughMute(ev); err != nil {
			return err
		}

	case mixer.ButtonBleep:
		c.profile.SetSwearOn(false)

	case mixer.ButtonEffectSelect1, mixer.ButtonEffectSelect2,
		mixer.ButtonEffectSelect3, mixer.ButtonEffectSelect4,
		mixer.ButtonEffectSelect5, mixer.ButtonEffectSelect6:
		bank := mixer.EffectBank(button - mixer.ButtonEffectSelect1)
		if err := c.loadEffectBank(bank); err != nil {
			return err
		}

	case mixer.ButtonEffectMegaphone:
		if err := c.toggleMegaphone(); err != nil {
			return err
		}
	case mixer.ButtonEffectRobot:
		if err := c.toggleRobot(); err != nil {
			return err
		}
	case mixer.ButtonEffectHardTune:
		if err := c.toggleHardTune(); err != nil {
			return err
		}
	case mixer.ButtonEffectFx:
		if err := c.toggleFx(); err != nil {
			return err
		}

	case mixer.ButtonSampleSelectA, mixer.ButtonSampleSelectB, mixer.ButtonSampleSelectC:
		bank := mixer.SampleBank(button - mixer.ButtonSampleSelectA)
		c.profile.LoadSampleBank(bank)
		if err := c.loadColourMap(); err != nil {
			return err
		}

	case mixer.ButtonSampleTopLeft, mixer.ButtonSampleTopRight,
		mixer.ButtonSampleBottomLeft, mixer.ButtonSampleBottomRight:
		pad := mixer.SamplePad(button - mixer.ButtonSampleTopLeft)
		if err := c.handleSamplePad(pad); err != nil {
			return err
		}
	}
	return c.updateButtonStates()
}

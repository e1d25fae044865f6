package device

import (
	"log/slog"

	"github.com/mixdeck/mixd/mixer"
)

// coughEvent is one classified cough-button transition. heldCalled is only
// meaningful on release: it records whether the hold handler already fired
// during this press cycle.
type coughEvent struct {
	press      bool
	release    bool
	held       bool
	heldCalled bool
}

var (
	coughPress   = coughEvent{press: true}
	coughHeld    = coughEvent{held: true}
	coughRelease = coughEvent{release: true}
)

// fullMute reports whether a mute state amounts to a hardware channel mute
// rather than a transient routing suppression.
func fullMute(mutedToX, mutedToAll bool, fn mixer.MuteFunction) bool {
	return mutedToAll || (mutedToX && fn == mixer.MuteAll)
}

// effectiveChannelState is the single arbiter over every mute source that can
// claim a channel: the fader carrying it and, for the mic, the cough button.
// Release paths clear their own source's flags and then push whatever this
// resolves to, so two sources muting the same channel never fight.
func (c *Controller) effectiveChannelState(channel mixer.Channel) mixer.ChannelState {
	if f, ok := c.profile.FaderFor(channel); ok {
		m := c.profile.MuteState(f)
		if fullMute(m.MutedToX, m.MutedToAll, m.Function) {
			return mixer.Muted
		}
	}
	if channel == mixer.ChannelMic {
		cough := c.profile.CoughState()
		if fullMute(cough.MutedToX, cough.MutedToAll, cough.Function) {
			return mixer.Muted
		}
	}
	return mixer.Unmuted
}

// syncChannelState pushes the resolved state for a channel, used after a mute
// source released its claim.
func (c *Controller) syncChannelState(channel mixer.Channel) error {
	return c.session.SetChannelState(channel, c.effectiveChannelState(channel))
}

// handleFaderMute drives one fader mute transition. held engages a full mute
// regardless of the configured function; a plain press either engages the
// configured mute or releases whatever mute is active.
func (c *Controller) handleFaderMute(f mixer.Fader, held bool) error {
	channel := c.profile.FaderChannel(f)
	mute := c.profile.MuteState(f)
	volume := c.profile.Volume(channel)

	slog.Debug("fader mute", "fader", f, "channel", channel, "held", held,
		"mutedToX", mute.MutedToX, "mutedToAll", mute.MutedToAll)

	// Engage a full mute: hold, or press with the All function.
	if held || (!mute.MutedToX && mute.Function == mixer.MuteAll) {
		if held && mute.MutedToAll {
			// Repeated hold ticks must not re-snapshot the (now zero) volume.
			return nil
		}
		c.profile.SetMutePreviousVolume(f, volume)
		if err := c.session.SetVolume(channel, 0); err != nil {
			return err
		}
		if err := c.session.SetChannelState(channel, mixer.Muted); err != nil {
			return err
		}
		c.profile.SetMuteOn(f, true)
		c.profile.SetMuteBlink(f, held)
		if held {
			c.profile.SetMuteAll(f, true)
		}
		c.profile.SetVolume(channel, 0)
		return nil
	}

	// Release an active mute.
	if mute.MutedToX {
		c.profile.SetMuteOn(f, false)
		c.profile.SetMuteBlink(f, false)

		if fullMute(mute.MutedToX, mute.MutedToAll, mute.Function) {
			prev := mute.PreviousVolume
			if err := c.session.SetVolume(channel, prev); err != nil {
				return err
			}
			c.profile.SetVolume(channel, prev)
			return c.syncChannelState(channel)
		}
		// Transient mute: restore the suppressed routing destination.
		if in, ok := mixer.InputForChannel(channel); ok {
			return c.applyRouting(in)
		}
		return nil
	}

	// Engage a transient mute: suppress one routing destination, keep the
	// hardware channel live.
	c.profile.SetMuteOn(f, true)
	if in, ok := mixer.InputForChannel(channel); ok {
		return c.applyRouting(in)
	}
	return nil
}

// handleCoughMute drives the cough button state machine. In hold mode the mic
// is muted for exactly the duration of the press; in toggle mode a press
// flips the configured mute and a long hold escalates to a full mute.
func (c *Controller) handleCoughMute(ev coughEvent) error {
	cough := c.profile.CoughState()

	slog.Debug("cough mute", "press", ev.press, "release", ev.release,
		"held", ev.held, "heldCalled", ev.heldCalled,
		"mutedToX", cough.MutedToX, "mutedToAll", cough.MutedToAll)

	switch {
	case ev.press:
		// Toggle mode acts on release.
		if cough.MuteToggle {
			return nil
		}
		c.profile.SetCoughOn(true)
		if cough.Function == mixer.MuteAll {
			return c.session.SetChannelState(mixer.ChannelMic, mixer.Muted)
		}
		return c.applyRouting(mixer.InputMic)

	case ev.held:
		// Hold escalation only exists in toggle mode; hold mode already
		// muted on press.
		if !cough.MuteToggle {
			return nil
		}
		c.profile.SetCoughOn(true)
		c.profile.SetCoughAll(true)
		c.profile.SetCoughBlink(true)
		if err := c.session.SetChannelState(mixer.ChannelMic, mixer.Muted); err != nil {
			return err
		}
		// A prior transient mute may have suppressed a routing destination.
		return c.applyRouting(mixer.InputMic)

	case ev.release:
		if cough.MuteToggle {
			if ev.heldCalled {
				return nil
			}
			if cough.MutedToX || cough.MutedToAll {
				c.profile.SetCoughOn(false)
				c.profile.SetCoughBlink(false)
				if fullMute(cough.MutedToX, cough.MutedToAll, cough.Function) {
					if err := c.syncChannelState(mixer.ChannelMic); err != nil {
						return err
					}
				}
				if cough.MutedToX && cough.Function != mixer.MuteAll {
					return c.applyRouting(mixer.InputMic)
				}
				return nil
			}
			c.profile.SetCoughOn(true)
			if cough.Function == mixer.MuteAll {
				return c.session.SetChannelState(mixer.ChannelMic, mixer.Muted)
			}
			return c.applyRouting(mixer.InputMic)
		}

		// Hold mode: releasing the button always unmutes.
		c.profile.SetCoughOn(false)
		c.profile.SetCoughBlink(false)
		if cough.Function == mixer.MuteAll {
			return c.syncChannelState(mixer.ChannelMic)
		}
		return c.applyRouting(mixer.InputMic)
	}
	return nil
}

// unmuteIfMuted releases a fader's active mute, used before its mute
// function changes so the old function's effect never leaks into the new one.
func (c *Controller) unmuteIfMuted(f mixer.Fader) error {
	m := c.profile.MuteState(f)
	if m.MutedToX || m.MutedToAll {
		return c.handleFaderMute(f, false)
	}
	return nil
}

// unmuteCoughIfMuted is the cough-side equivalent, synthesizing a release.
func (c *Controller) unmuteCoughIfMuted() error {
	cough := c.profile.CoughState()
	if !cough.MutedToX && !cough.MutedToAll {
		return nil
	}
	// A plain synthetic release flips the mute off in both modes.
	return c.handleCoughMute(coughRelease)
}

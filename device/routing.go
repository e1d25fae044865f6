package device

import (
	"log/slog"

	"github.com/mixdeck/mixd/mixer"
)

// transientOverlay suppresses one routing destination for an active partial
// mute. Full mutes are handled at the channel-state level and leave the
// routing row untouched.
func transientOverlay(row *mixer.RouteMap, mutedToX, mutedToAll bool, fn mixer.MuteFunction) {
	if !mutedToX || mutedToAll || fn == mixer.MuteAll {
		return
	}
	switch fn {
	case mixer.MuteToStream:
		row[mixer.OutputBroadcastMix] = false
	case mixer.MuteToVoiceChat:
		row[mixer.OutputChatMic] = false
	case mixer.MuteToPhones:
		row[mixer.OutputHeadphones] = false
	case mixer.MuteToLineOut:
		row[mixer.OutputLineOut] = false
	}
}

// effectiveRouting is an input's persisted routing row with transient mute
// suppression applied: the fader carrying the input's channel, and for the
// mic the cough button as well.
func (c *Controller) effectiveRouting(in mixer.Input) mixer.RouteMap {
	row := c.profile.Routing(in)

	channel := in.Channel()
	for _, f := range mixer.Faders() {
		if c.profile.FaderChannel(f) == channel {
			m := c.profile.MuteState(f)
			transientOverlay(&row, m.MutedToX, m.MutedToAll, m.Function)
		}
	}
	if in == mixer.InputMic {
		cough := c.profile.CoughState()
		transientOverlay(&row, cough.MutedToX, cough.MutedToAll, cough.Function)
	}
	return row
}

// applyRouting recomputes one input's effective routing and writes both
// stereo sides. Each enabled destination gets a constant gain byte; the
// hard-tune slot is mono and carries its own signal-level codes.
func (c *Controller) applyRouting(in mixer.Input) error {
	row := c.effectiveRouting(in)
	slog.Debug("applying routing", "input", in, "row", row)

	var left, right [mixer.NumRouteSlots]byte
	for _, out := range mixer.Outputs() {
		if !row[out] {
			continue
		}
		l, r := out.Slots()
		left[l] = mixer.RouteGainOn
		right[r] = mixer.RouteGainOn
	}

	if c.profile.HardTuneSourceAll() {
		switch in {
		case mixer.InputMusic, mixer.InputGame, mixer.InputLineIn, mixer.InputSystem:
			left[mixer.HardTuneSlot] = mixer.RouteGainHardTuneAll
			right[mixer.HardTuneSlot] = mixer.RouteGainHardTuneAll
		}
	} else if src, ok := c.profile.ActiveHardTuneSource().Input(); ok && src == in {
		left[mixer.HardTuneSlot] = mixer.RouteGainHardTuneOne
		right[mixer.HardTuneSlot] = mixer.RouteGainHardTuneOne
	}

	leftIn, rightIn := in.Sides()
	if err := c.session.SetRouting(leftIn, left); err != nil {
		return err
	}
	return c.session.SetRouting(rightIn, right)
}

// applyAllRouting rewrites every input's routing, used on profile load.
func (c *Controller) applyAllRouting() error {
	for _, in := range mixer.Inputs() {
		if err := c.applyRouting(in); err != nil {
			return err
		}
	}
	return nil
}

package device

import (
	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// FaderStatus is one fader's reportable state.
type FaderStatus struct {
	Channel mixer.Channel      `json:"channel"`
	Display mixer.FaderDisplay `json:"display"`
	Mute    profile.MuteButton `json:"mute"`
}

// MicStatus is the reportable microphone configuration.
type MicStatus struct {
	Profile string                `json:"profile"`
	Type    mixer.MicrophoneType  `json:"type"`
	Gain    uint16                `json:"gain"`
	Gate    micprofile.Gate       `json:"gate"`
	Comp    micprofile.Compressor `json:"compressor"`
	Deess   uint8                 `json:"deess"`
	Gains   map[string]uint16     `json:"gains"`
}

// Status is a point-in-time snapshot of everything a client can observe
// about one deck. Taken on the queue worker, so it is internally consistent.
type Status struct {
	Serial  string `json:"serial"`
	Profile string `json:"profile"`

	KernelDriverAttached bool `json:"kernelDriverAttached"`

	Volumes map[string]uint8           `json:"volumes"`
	Faders  map[string]FaderStatus     `json:"faders"`
	Cough   profile.CoughButton        `json:"cough"`
	Router  map[string]map[string]bool `json:"router"`

	ActiveEffectBank string `json:"activeEffectBank"`
	ActiveSampleBank string `json:"activeSampleBank"`

	MegaphoneEnabled bool `json:"megaphoneEnabled"`
	RobotEnabled     bool `json:"robotEnabled"`
	HardTuneEnabled  bool `json:"hardTuneEnabled"`
	FxEnabled        bool `json:"fxEnabled"`

	BleepVolume int8 `json:"bleepVolume"`

	Mic MicStatus `json:"mic"`
}

// Status builds the snapshot. Must run on the queue worker.
func (c *Controller) Status() Status {
	s := Status{
		Serial:               c.serial,
		Profile:              c.profile.Name(),
		KernelDriverAttached: c.kernelDriverAttached,
		Volumes:              make(map[string]uint8, mixer.NumChannels),
		Faders:               make(map[string]FaderStatus, mixer.NumFaders),
		Cough:                c.profile.CoughState(),
		Router:               make(map[string]map[string]bool, mixer.NumInputs),
		ActiveEffectBank:     c.profile.ActiveEffectBank.String(),
		ActiveSampleBank:     c.profile.ActiveSampleBank.String(),
		MegaphoneEnabled:     c.profile.MegaphoneEnabled,
		RobotEnabled:         c.profile.RobotEnabled,
		HardTuneEnabled:      c.profile.HardTuneEnabled,
		FxEnabled:            c.profile.FxEnabled,
		BleepVolume:          c.bleepVolume(),
	}

	for _, ch := range mixer.Channels() {
		s.Volumes[ch.String()] = c.profile.Volume(ch)
	}
	for _, f := range mixer.Faders() {
		s.Faders[f.String()] = FaderStatus{
			Channel: c.profile.FaderChannel(f),
			Display: c.profile.FaderDisplay(f),
			Mute:    c.profile.MuteState(f),
		}
	}
	for _, in := range mixer.Inputs() {
		row := make(map[string]bool, mixer.NumOutputs)
		routing := c.profile.Routing(in)
		for _, out := range mixer.Outputs() {
			row[out.String()] = routing[out]
		}
		s.Router[in.String()] = row
	}

	s.Mic = MicStatus{
		Profile: c.mic.Name(),
		Type:    c.mic.MicType,
		Gain:    c.mic.Gain(c.mic.MicType),
		Gate:    c.mic.Gate,
		Comp:    c.mic.Compressor,
		Deess:   c.mic.Deess,
		Gains: map[string]uint16{
			mixer.MicDynamic.String():   c.mic.Gain(mixer.MicDynamic),
			mixer.MicCondenser.String(): c.mic.Gain(mixer.MicCondenser),
			mixer.MicJack.String():      c.mic.Gain(mixer.MicJack),
		},
	}
	return s
}

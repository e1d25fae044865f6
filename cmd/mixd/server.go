package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mixdeck/mixd/device"
	"github.com/mixdeck/mixd/micprofile"
	"github.com/mixdeck/mixd/mixer"
	"github.com/mixdeck/mixd/profile"
)

// buttonNames maps wire names back to buttons for the colour endpoints.
var buttonNames = func() map[string]mixer.Button {
	m := make(map[string]mixer.Button, mixer.NumButtons)
	for b := mixer.Button(0); b < mixer.NumButtons; b++ {
		m[b.String()] = b
	}
	return m
}()

// newRouter builds the HTTP front end. decks resolves the currently
// attached deck; every mutation goes through its handle, so commands
// interleave safely with the poll loop.
func newRouter(decks func() *device.Handle) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.Use(func(c *gin.Context) {
		h := decks()
		if h == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "no deck attached"})
			return
		}
		c.Set("deck", h)
	})

	api.GET("/status", func(c *gin.Context) {
		status, err := deck(c).Status()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	})

	api.POST("/volume/:channel", func(c *gin.Context) {
		channel, ok := parseChannel(c)
		if !ok {
			return
		}
		var body struct {
			Volume uint8 `json:"volume"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetVolume(channel, body.Volume)
		})
	})

	api.POST("/fader/:fader/channel", func(c *gin.Context) {
		f, ok := parseFader(c)
		if !ok {
			return
		}
		var body struct {
			Channel mixer.Channel `json:"channel"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetFader(f, body.Channel)
		})
	})

	api.POST("/fader/:fader/mute-function", func(c *gin.Context) {
		f, ok := parseFader(c)
		if !ok {
			return
		}
		var body struct {
			Function mixer.MuteFunction `json:"function"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetFaderMuteFunction(f, body.Function)
		})
	})

	api.POST("/fader/:fader/display", func(c *gin.Context) {
		f, ok := parseFader(c)
		if !ok {
			return
		}
		var body struct {
			Style mixer.FaderDisplay `json:"style"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetFaderDisplayStyle(f, body.Style)
		})
	})

	api.POST("/fader/display", func(c *gin.Context) {
		var body struct {
			Style mixer.FaderDisplay `json:"style"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetAllFaderDisplayStyle(body.Style)
		})
	})

	api.POST("/fader/:fader/colours", func(c *gin.Context) {
		f, ok := parseFader(c)
		if !ok {
			return
		}
		var body struct {
			Top    profile.Colour `json:"top"`
			Bottom profile.Colour `json:"bottom"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetFaderColours(f, body.Top, body.Bottom)
		})
	})

	api.POST("/fader/colours", func(c *gin.Context) {
		var body struct {
			Top    profile.Colour `json:"top"`
			Bottom profile.Colour `json:"bottom"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetAllFaderColours(body.Top, body.Bottom)
		})
	})

	api.POST("/button/:button/colours", func(c *gin.Context) {
		b, ok := parseButton(c)
		if !ok {
			return
		}
		var body struct {
			Colour1 profile.Colour `json:"colour1"`
			Colour2 profile.Colour `json:"colour2"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetButtonColours(b, body.Colour1, body.Colour2)
		})
	})

	api.POST("/button/:button/off-style", func(c *gin.Context) {
		b, ok := parseButton(c)
		if !ok {
			return
		}
		var body struct {
			Style profile.ButtonOffStyle `json:"style"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetButtonOffStyle(b, body.Style)
		})
	})

	api.POST("/cough/mute-function", func(c *gin.Context) {
		var body struct {
			Function mixer.MuteFunction `json:"function"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetCoughMuteFunction(body.Function)
		})
	})

	api.POST("/cough/hold", func(c *gin.Context) {
		var body struct {
			Hold bool `json:"hold"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetCoughIsHold(body.Hold)
		})
	})

	api.POST("/bleep/volume", func(c *gin.Context) {
		var body struct {
			Volume int8 `json:"volume"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetBleepVolume(body.Volume)
		})
	})

	api.POST("/router/:input/:output", func(c *gin.Context) {
		var in mixer.Input
		if err := in.UnmarshalText([]byte(c.Param("input"))); err != nil {
			badRequest(c, err)
			return
		}
		var out mixer.Output
		if err := out.UnmarshalText([]byte(c.Param("output"))); err != nil {
			badRequest(c, err)
			return
		}
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetRouter(in, out, body.Enabled)
		})
	})

	mic := api.Group("/mic")
	mic.POST("/type", func(c *gin.Context) {
		var body struct {
			Type mixer.MicrophoneType `json:"type"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetMicrophoneType(body.Type)
		})
	})

	mic.POST("/gain", func(c *gin.Context) {
		var body struct {
			Type mixer.MicrophoneType `json:"type"`
			Gain uint16               `json:"gain"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetMicrophoneGain(body.Type, body.Gain)
		})
	})

	mic.POST("/eq/:band/gain", func(c *gin.Context) {
		band, ok := parseEqBand(c)
		if !ok {
			return
		}
		var body struct {
			Value int8 `json:"value"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetEqGain(band, body.Value)
		})
	})

	mic.POST("/eq/:band/frequency", func(c *gin.Context) {
		band, ok := parseEqBand(c)
		if !ok {
			return
		}
		var body struct {
			Value float32 `json:"value"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetEqFreq(band, body.Value)
		})
	})

	mic.POST("/eq-mini/:band/gain", func(c *gin.Context) {
		band, ok := parseMiniEqBand(c)
		if !ok {
			return
		}
		var body struct {
			Value int8 `json:"value"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetEqMiniGain(band, body.Value)
		})
	})

	mic.POST("/eq-mini/:band/frequency", func(c *gin.Context) {
		band, ok := parseMiniEqBand(c)
		if !ok {
			return
		}
		var body struct {
			Value float32 `json:"value"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetEqMiniFreq(band, body.Value)
		})
	})

	// Gate and compressor take partial updates; absent fields are untouched.
	mic.POST("/gate", func(c *gin.Context) {
		var body struct {
			Threshold   *int8  `json:"threshold"`
			Attenuation *uint8 `json:"attenuation"`
			Attack      *uint8 `json:"attack"`
			Release     *uint8 `json:"release"`
			Active      *bool  `json:"active"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			if body.Threshold != nil {
				if err := ctrl.SetGateThreshold(*body.Threshold); err != nil {
					return err
				}
			}
			if body.Attenuation != nil {
				if err := ctrl.SetGateAttenuation(*body.Attenuation); err != nil {
					return err
				}
			}
			if body.Attack != nil {
				if err := ctrl.SetGateAttack(*body.Attack); err != nil {
					return err
				}
			}
			if body.Release != nil {
				if err := ctrl.SetGateRelease(*body.Release); err != nil {
					return err
				}
			}
			if body.Active != nil {
				if err := ctrl.SetGateActive(*body.Active); err != nil {
					return err
				}
			}
			return nil
		})
	})

	mic.POST("/compressor", func(c *gin.Context) {
		var body struct {
			Threshold  *int8  `json:"threshold"`
			Ratio      *uint8 `json:"ratio"`
			Attack     *uint8 `json:"attack"`
			Release    *uint8 `json:"release"`
			MakeupGain *uint8 `json:"makeupGain"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			if body.Threshold != nil {
				if err := ctrl.SetCompressorThreshold(*body.Threshold); err != nil {
					return err
				}
			}
			if body.Ratio != nil {
				if err := ctrl.SetCompressorRatio(*body.Ratio); err != nil {
					return err
				}
			}
			if body.Attack != nil {
				if err := ctrl.SetCompressorAttack(*body.Attack); err != nil {
					return err
				}
			}
			if body.Release != nil {
				if err := ctrl.SetCompressorRelease(*body.Release); err != nil {
					return err
				}
			}
			if body.MakeupGain != nil {
				if err := ctrl.SetCompressorMakeupGain(*body.MakeupGain); err != nil {
					return err
				}
			}
			return nil
		})
	})

	mic.POST("/deess", func(c *gin.Context) {
		var body struct {
			Percent uint8 `json:"percent"`
		}
		if !bind(c, &body) {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SetDeess(body.Percent)
		})
	})

	profiles := api.Group("/profiles")
	profiles.POST("/load", func(c *gin.Context) {
		name, ok := bindName(c)
		if !ok {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.LoadProfile(name)
		})
	})
	profiles.POST("/save", func(c *gin.Context) {
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SaveProfile()
		})
	})
	profiles.POST("/save-as", func(c *gin.Context) {
		name, ok := bindName(c)
		if !ok {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SaveProfileAs(name)
		})
	})

	micProfiles := api.Group("/mic-profiles")
	micProfiles.POST("/load", func(c *gin.Context) {
		name, ok := bindName(c)
		if !ok {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.LoadMicProfile(name)
		})
	})
	micProfiles.POST("/save", func(c *gin.Context) {
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SaveMicProfile()
		})
	})
	micProfiles.POST("/save-as", func(c *gin.Context) {
		name, ok := bindName(c)
		if !ok {
			return
		}
		run(c, deck(c), func(ctrl *device.Controller) error {
			return ctrl.SaveMicProfileAs(name)
		})
	})

	return r
}

// deck returns the handle resolved by the group middleware.
func deck(c *gin.Context) *device.Handle {
	return c.MustGet("deck").(*device.Handle)
}

// run executes a command on the controller queue and maps its error onto an
// HTTP status. Validation failures are the caller's fault; missing and
// conflicting profiles get their own codes.
func run(c *gin.Context, h *device.Handle, fn func(*device.Controller) error) {
	err := h.Run(fn)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, profile.ErrNotFound), errors.Is(err, micprofile.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, profile.ErrExists), errors.Is(err, micprofile.ErrExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func bind(c *gin.Context, body any) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func bindName(c *gin.Context) (string, bool) {
	var body struct {
		Name string `json:"name"`
	}
	if !bind(c, &body) {
		return "", false
	}
	if body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return "", false
	}
	return body.Name, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func parseChannel(c *gin.Context) (mixer.Channel, bool) {
	var ch mixer.Channel
	if err := ch.UnmarshalText([]byte(c.Param("channel"))); err != nil {
		badRequest(c, err)
		return 0, false
	}
	return ch, true
}

func parseFader(c *gin.Context) (mixer.Fader, bool) {
	switch strings.ToUpper(c.Param("fader")) {
	case "A":
		return mixer.FaderA, true
	case "B":
		return mixer.FaderB, true
	case "C":
		return mixer.FaderC, true
	case "D":
		return mixer.FaderD, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "fader must be A, B, C or D"})
	return 0, false
}

func parseButton(c *gin.Context) (mixer.Button, bool) {
	b, ok := buttonNames[c.Param("button")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown button " + c.Param("button")})
		return 0, false
	}
	return b, true
}

func parseEqBand(c *gin.Context) (micprofile.EqBand, bool) {
	for b := micprofile.EqBand(0); b < micprofile.NumEqBands; b++ {
		if b.String() == c.Param("band") {
			return b, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "unknown equalizer band " + c.Param("band")})
	return 0, false
}

func parseMiniEqBand(c *gin.Context) (micprofile.MiniEqBand, bool) {
	for b := micprofile.MiniEqBand(0); b < micprofile.NumMiniEqBands; b++ {
		if b.String() == c.Param("band") {
			return b, true
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "unknown equalizer band " + c.Param("band")})
	return 0, false
}

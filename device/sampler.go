package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mixdeck/mixd/mixer"
)

// ErrNoAudio is returned when a sampler pad fires with no playback
// subsystem attached.
var ErrNoAudio = errors.New("sample playback unavailable")

// recordedPrefix marks samples captured from the deck itself; they live in a
// subdirectory of the sample store.
const (
	recordedPrefix = "Recording_"
	recordedSubdir = "Recorded"
)

// samplePath resolves a mapped sample file name inside the configured
// samples directory.
func (c *Controller) samplePath(file string) string {
	if strings.HasPrefix(file, recordedPrefix) {
		return filepath.Join(c.settings.SamplesDirectory(), recordedSubdir, file)
	}
	return filepath.Join(c.settings.SamplesDirectory(), file)
}

// handleSamplePad triggers playback of the sample mapped to a pad in the
// active bank. An unmapped pad is a no-op; a mapped pad with a missing file
// or no playback subsystem is an error.
func (c *Controller) handleSamplePad(pad mixer.SamplePad) error {
	file := c.profile.SampleFile(pad)
	if file == "" {
		return nil
	}
	if c.audio == nil {
		return ErrNoAudio
	}

	path := c.samplePath(file)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("sample %s: %w", file, err)
	}
	if err := c.audio.Play(pad, path); err != nil {
		return fmt.Errorf("play sample %s: %w", file, err)
	}
	c.profile.SetSampleActive(pad, true)
	return nil
}

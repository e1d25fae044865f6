// Package audio plays sampler pad files through the system audio output.
// Samples are decoded with faiface/beep (wav and mp3), resampled to the
// output rate when needed, and tracked per pad so the poll loop can mirror
// playback state onto the pad lighting.
package audio

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/google/uuid"

	"github.com/mixdeck/mixd/mixer"
)

// SampleRate is the output rate; decoded samples at other rates are
// resampled onto it.
const SampleRate = beep.SampleRate(44100)

// playback is one running sample. done is closed by the speaker goroutine
// when the streamer drains, so the streamer may only be closed afterwards.
type playback struct {
	id       uuid.UUID
	file     string
	streamer beep.StreamSeekCloser
	done     chan struct{}
}

func (p *playback) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Player decodes and plays sample files, one playback slot per pad.
// Triggering a pad that is already playing starts a new playback; the old
// one keeps draining and is reaped once it finishes.
type Player struct {
	mu      sync.Mutex
	active  map[mixer.SamplePad]*playback
	orphans []*playback

	// play hands a streamer to the output. Tests substitute this to keep
	// the speaker out of the loop.
	play func(beep.Streamer)
}

// NewPlayer initialises the speaker output and returns a ready player.
func NewPlayer() (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Player{
		active: make(map[mixer.SamplePad]*playback),
		play:   func(s beep.Streamer) { speaker.Play(s) },
	}, nil
}

// decode opens a sample file and picks the decoder from the extension.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}
	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		err = fmt.Errorf("unsupported sample format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return stream, format, nil
}

// Play starts playback of a sample file on a pad.
func (p *Player) Play(pad mixer.SamplePad, path string) error {
	stream, format, err := decode(path)
	if err != nil {
		return fmt.Errorf("sample %s: %w", filepath.Base(path), err)
	}

	var out beep.Streamer = stream
	if format.SampleRate != SampleRate {
		out = beep.Resample(4, format.SampleRate, SampleRate, stream)
	}

	pb := &playback{
		id:       uuid.New(),
		file:     path,
		streamer: stream,
		done:     make(chan struct{}),
	}

	p.mu.Lock()
	if old := p.active[pad]; old != nil {
		p.orphans = append(p.orphans, old)
	}
	p.active[pad] = pb
	p.mu.Unlock()

	p.play(beep.Seq(out, beep.Callback(func() { close(pb.done) })))
	slog.Debug("sample playback started",
		"pad", pad, "file", filepath.Base(path), "playback", pb.id)
	return nil
}

// Playing reports whether a pad's most recent playback is still running.
func (p *Player) Playing(pad mixer.SamplePad) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.active[pad]
	return pb != nil && !pb.finished()
}

// Reap closes and drops every finished playback. Called once per poll tick.
func (p *Player) Reap() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pad, pb := range p.active {
		if pb.finished() {
			pb.streamer.Close()
			delete(p.active, pad)
		}
	}

	kept := p.orphans[:0]
	for _, pb := range p.orphans {
		if pb.finished() {
			pb.streamer.Close()
			continue
		}
		kept = append(kept, pb)
	}
	p.orphans = kept
}

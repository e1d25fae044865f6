// mixd is the deck control daemon: it loads the stored profiles, drives the
// hardware poll loop and exposes the command surface over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/mixdeck/mixd/audio"
	"github.com/mixdeck/mixd/device"
	"github.com/mixdeck/mixd/settings"
)

func defaultSettingsPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mixd", "settings.yml")
	}
	return "settings.yml"
}

func main() {
	var (
		settingsPath = pflag.String("settings", defaultSettingsPath(), "daemon settings file")
		listen       = pflag.String("listen", "127.0.0.1:14564", "HTTP listen address")
		pollEvery    = pflag.Duration("poll-interval", 20*time.Millisecond, "hardware poll interval")
		serial       = pflag.String("serial", "SIM000001", "serial of the simulated deck")
		noAudio      = pflag.Bool("no-audio", false, "disable sampler playback")
		debug        = pflag.Bool("debug", false, "debug logging")
	)
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := runDaemon(*settingsPath, *listen, *serial, *pollEvery, *noAudio); err != nil {
		slog.Error("mixd failed", "error", err)
		os.Exit(1)
	}
}

// deckHolder tracks the currently attached deck's handle.
type deckHolder struct {
	mu sync.Mutex
	h  *device.Handle
}

func (d *deckHolder) get() *device.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.h
}

func (d *deckHolder) set(h *device.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.h = h
}

// swap clears and returns the handle so it can be closed outside the lock.
func (d *deckHolder) swap() *device.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.h
	d.h = nil
	return h
}

func runDaemon(settingsPath, listen, serial string, pollEvery time.Duration, noAudio bool) error {
	store, err := settings.Load(settingsPath)
	if err != nil {
		return err
	}
	if err := store.EnsureDirectories(); err != nil {
		return fmt.Errorf("create storage directories: %w", err)
	}

	var player device.Player
	if !noAudio {
		p, err := audio.NewPlayer()
		if err != nil {
			slog.Warn("audio output unavailable, sampler disabled", "error", err)
		} else {
			player = p
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The USB transport plugs in here; without hardware the daemon runs
	// against an in-memory deck that is always attached.
	decks := &deckHolder{}
	monitor := device.NewMonitor(
		func() ([]string, error) { return []string{serial}, nil },
		func(s string) {
			ctrl, err := device.New(newSimulatedSession(), s, store, player)
			if err != nil {
				slog.Error("deck initialisation failed", "serial", s, "error", err)
				return
			}
			decks.set(device.NewHandle(ctrl))
		},
		func(s string) {
			if h := decks.swap(); h != nil {
				h.Close()
			}
		})
	if err := monitor.Start(ctx); err != nil {
		return err
	}
	defer monitor.Stop()
	defer func() {
		if h := decks.swap(); h != nil {
			h.Close()
		}
	}()

	go func() {
		t := time.NewTicker(pollEvery)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if h := decks.get(); h != nil {
					if err := h.PollTick(); err != nil {
						slog.Debug("poll tick dropped", "error", err)
					}
				}
			}
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: listen, Handler: newRouter(decks.get)}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	slog.Info("mixd listening", "addr", listen, "settings", store.Path())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

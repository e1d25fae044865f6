package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Discoverer lists the serials of currently attached decks. Implemented by
// the transport; the simulated transport reports a fixed deck.
type Discoverer func() ([]string, error)

// Monitor polls a Discoverer for deck attach and detach events. Polling is
// adaptive: it backs off while nothing changes and snaps back to the base
// interval as soon as a deck appears or disappears.
type Monitor struct {
	discover Discoverer
	onAttach func(serial string)
	onDetach func(serial string)

	mu           sync.Mutex
	running      bool
	baseInterval time.Duration
	maxInterval  time.Duration
	interval     time.Duration
	noChange     int
	known        map[string]bool

	avgCheck  time.Duration
	maxCheck  time.Duration
	numChecks int64
}

// NewMonitor builds a monitor. Callbacks run on the monitor goroutine and
// must not block for long; they may not call back into the monitor.
func NewMonitor(discover Discoverer, onAttach, onDetach func(serial string)) *Monitor {
	return &Monitor{
		discover:     discover,
		onAttach:     onAttach,
		onDetach:     onDetach,
		baseInterval: 50 * time.Millisecond,
		maxInterval:  time.Second,
		interval:     50 * time.Millisecond,
		known:        make(map[string]bool),
	}
}

// Start runs one synchronous check, so decks attached at startup are
// reported before Start returns, then polls until the context is cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	m.check()
	go m.loop(ctx)
	return nil
}

// Stop halts polling. Idempotent.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

// Running reports whether the monitor is polling.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Interval returns the current adaptive polling interval.
func (m *Monitor) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Stats returns discovery timing statistics.
func (m *Monitor) Stats() (avg, max time.Duration, checks int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.avgCheck, m.maxCheck, m.numChecks
}

// ForceCheck triggers an immediate check outside the polling schedule.
func (m *Monitor) ForceCheck() {
	if m.Running() {
		m.check()
	}
}

func (m *Monitor) loop(ctx context.Context) {
	current := m.Interval()
	ticker := time.NewTicker(current)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Stop()
			return
		case <-ticker.C:
			if !m.Running() {
				return
			}
			m.check()
			if next := m.Interval(); next != current {
				ticker.Reset(next)
				current = next
			}
		}
	}
}

// check diffs the discovered serial set against the known one and fires the
// callbacks for every difference.
func (m *Monitor) check() {
	start := time.Now()
	serials, err := m.discover()
	m.recordCheck(time.Since(start))
	if err != nil {
		slog.Error("deck discovery failed", "error", err)
		return
	}

	present := make(map[string]bool, len(serials))
	for _, s := range serials {
		present[s] = true
	}

	var attached, detached []string
	m.mu.Lock()
	for s := range present {
		if !m.known[s] {
			attached = append(attached, s)
		}
	}
	for s := range m.known {
		if !present[s] {
			detached = append(detached, s)
		}
	}
	m.known = present

	if len(attached) == 0 && len(detached) == 0 {
		m.slowDown()
		m.mu.Unlock()
		return
	}
	m.speedUp()
	m.mu.Unlock()

	for _, s := range detached {
		slog.Info("deck detached", "serial", s)
		if m.onDetach != nil {
			m.onDetach(s)
		}
	}
	for _, s := range attached {
		slog.Info("deck attached", "serial", s)
		if m.onAttach != nil {
			m.onAttach(s)
		}
	}
}

func (m *Monitor) recordCheck(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.numChecks++
	if m.numChecks == 1 {
		m.avgCheck = elapsed
	} else {
		// Exponential moving average, weighted towards recent checks.
		m.avgCheck = time.Duration(float64(m.avgCheck)*0.9 + float64(elapsed)*0.1)
	}
	if elapsed > m.maxCheck {
		m.maxCheck = elapsed
	}
}

// slowDown backs the interval off after ten quiet checks. Caller holds the
// lock.
func (m *Monitor) slowDown() {
	m.noChange++
	if m.noChange <= 10 {
		return
	}
	next := time.Duration(float64(m.interval) * 1.5)
	if next > m.maxInterval {
		next = m.maxInterval
	}
	m.interval = next
}

// speedUp resets to the base interval on any change. Caller holds the lock.
func (m *Monitor) speedUp() {
	m.noChange = 0
	m.interval = m.baseInterval
}

package device

import (
	"context"
	"errors"
	"testing"
	"time"
)

// scriptedDiscoverer returns a settable serial list.
type scriptedDiscoverer struct {
	serials []string
	err     error
}

func (d *scriptedDiscoverer) discover() ([]string, error) { return d.serials, d.err }

func newTestMonitor(d *scriptedDiscoverer) (*Monitor, *[]string) {
	var events []string
	m := NewMonitor(d.discover,
		func(s string) { events = append(events, "attach "+s) },
		func(s string) { events = append(events, "detach "+s) })
	return m, &events
}

func TestMonitorReportsInitialDecks(t *testing.T) {
	d := &scriptedDiscoverer{serials: []string{"S1"}}
	m, events := newTestMonitor(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer m.Stop()

	// Start checks synchronously, so the initial deck is already reported.
	if len(*events) != 1 || (*events)[0] != "attach S1" {
		t.Fatalf("events after start: %v", *events)
	}
	if err := m.Start(ctx); err == nil {
		t.Fatal("second start should fail")
	}
}

func TestMonitorAttachDetachCycle(t *testing.T) {
	d := &scriptedDiscoverer{}
	m, events := newTestMonitor(d)
	m.running = true

	m.ForceCheck()
	if len(*events) != 0 {
		t.Fatalf("no decks, no events: %v", *events)
	}

	d.serials = []string{"S1", "S2"}
	m.ForceCheck()
	if len(*events) != 2 {
		t.Fatalf("want 2 attach events got %v", *events)
	}

	// Same set again is quiet.
	m.ForceCheck()
	if len(*events) != 2 {
		t.Fatalf("unchanged set fired events: %v", *events)
	}

	d.serials = []string{"S2"}
	m.ForceCheck()
	if got := (*events)[len(*events)-1]; got != "detach S1" {
		t.Fatalf("want detach S1 got %q", got)
	}
}

func TestMonitorAdaptiveInterval(t *testing.T) {
	d := &scriptedDiscoverer{serials: []string{"S1"}}
	m, _ := newTestMonitor(d)
	m.running = true

	m.ForceCheck()
	base := m.Interval()

	// Quiet checks back the interval off once past the threshold.
	for i := 0; i < 20; i++ {
		m.ForceCheck()
	}
	if m.Interval() <= base {
		t.Fatalf("interval should back off: %v", m.Interval())
	}
	if m.Interval() > m.maxInterval {
		t.Fatalf("interval exceeds cap: %v", m.Interval())
	}

	// A change snaps back to the base interval.
	d.serials = nil
	m.ForceCheck()
	if m.Interval() != base {
		t.Fatalf("interval after change: want %v got %v", base, m.Interval())
	}
}

func TestMonitorDiscoveryErrorKeepsState(t *testing.T) {
	d := &scriptedDiscoverer{serials: []string{"S1"}}
	m, events := newTestMonitor(d)
	m.running = true
	m.ForceCheck()

	// A failed scan must not fabricate detach events.
	d.err = errors.New("bus gone")
	m.ForceCheck()
	if len(*events) != 1 {
		t.Fatalf("error scan fired events: %v", *events)
	}

	d.err = nil
	m.ForceCheck()
	if len(*events) != 1 {
		t.Fatalf("recovery with same set fired events: %v", *events)
	}

	if _, _, checks := m.Stats(); checks != 4 {
		t.Fatalf("checks: want 4 got %d", checks)
	}
}

func TestMonitorStopsOnContextCancel(t *testing.T) {
	d := &scriptedDiscoverer{}
	m, _ := newTestMonitor(d)
	m.baseInterval = time.Millisecond
	m.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for m.Running() {
		if time.Now().After(deadline) {
			t.Fatal("monitor did not stop after cancel")
		}
		time.Sleep(time.Millisecond)
	}
}

package device

import (
	"context"

	"github.com/mixdeck/mixd/queue"
)

// Handle is the ownership boundary around one controller: it owns the
// serialization queue, and every external caller (poll ticker, HTTP front
// end) goes through it. The controller itself is never shared.
type Handle struct {
	queue *queue.Queue
	ctrl  *Controller
}

// NewHandle wraps a controller and starts its queue worker.
func NewHandle(ctrl *Controller) *Handle {
	q := queue.New(32)
	q.Start()
	return &Handle{queue: q, ctrl: ctrl}
}

// Serial returns the owned deck's serial number. Immutable, safe without
// the queue.
func (h *Handle) Serial() string { return h.ctrl.Serial() }

// PollTick enqueues one poll cycle. Fire-and-forget; a tick that cannot be
// queued (shutdown) is dropped.
func (h *Handle) PollTick() error {
	return h.queue.Enqueue(queue.Func(func(context.Context) error {
		return h.ctrl.PollTick()
	}))
}

// Run executes a command against the controller on the queue worker and
// returns its error. This is the only way external callers may touch the
// controller.
func (h *Handle) Run(fn func(*Controller) error) error {
	return h.queue.RunSync(func(context.Context) error {
		return fn(h.ctrl)
	})
}

// Status snapshots the controller state for reporting.
func (h *Handle) Status() (Status, error) {
	var s Status
	err := h.Run(func(c *Controller) error {
		s = c.Status()
		return nil
	})
	return s, err
}

// Close stops the queue worker. Pending ops are drained best-effort.
func (h *Handle) Close() {
	h.queue.Close()
}

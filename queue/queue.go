// Package queue serializes all device and profile mutation onto a single
// worker goroutine. Poll ticks and client commands are both queued, so the
// controller state never needs a lock.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Op is one serialized mutation. It should be quick and non-blocking; any
// heavy work should be prepared in advance. It receives a context that is
// canceled on shutdown.
type Op interface {
	Apply(ctx context.Context) error
}

// Func adapts a function into an Op.
type Func func(ctx context.Context) error

func (f Func) Apply(ctx context.Context) error { return f(ctx) }

// Errors returned by Enqueue/RunSync when the worker is gone.
var (
	ErrNotStarted = errors.New("queue not initialized")
	ErrClosed     = errors.New("queue closed")
)

// Queue runs ops in submission order on one goroutine. Enqueue is
// fire-and-forget with the error logged; RunSync delivers the op's error to
// the caller.
type Queue struct {
	ch      chan tracedOp
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// Each queued op carries an id so a failure in the log can be matched to the
// submission site.
type tracedOp struct {
	id string
	op Op
}

// New creates a queue with a fixed buffer.
func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 32
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{ch: make(chan tracedOp, buffer), ctx: ctx, cancel: cancel}
}

// Start begins the worker goroutine. Safe to call multiple times.
func (q *Queue) Start() {
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-q.ctx.Done():
				// Drain outstanding ops best-effort with a short deadline.
				drainUntil := time.After(10 * time.Millisecond)
				for {
					select {
					case t := <-q.ch:
						q.apply(t)
					case <-drainUntil:
						return
					default:
						return
					}
				}
			case t := <-q.ch:
				q.apply(t)
			}
		}
	}()
}

func (q *Queue) apply(t tracedOp) {
	if t.op == nil {
		return
	}
	if err := t.op.Apply(q.ctx); err != nil {
		slog.Error("queued op failed", "op", t.id, "error", err)
	}
}

// Enqueue adds an operation to the queue. Its error, if any, is logged by the
// worker rather than returned.
func (q *Queue) Enqueue(op Op) error {
	if q == nil || q.ch == nil {
		return ErrNotStarted
	}
	select {
	case <-q.ctx.Done():
		return ErrClosed
	default:
	}
	t := tracedOp{id: uuid.NewString(), op: op}
	select {
	case q.ch <- t:
		return nil
	case <-q.ctx.Done():
		return ErrClosed
	}
}

// RunSync enqueues an operation and waits for it to complete, returning its
// error. Used by command paths that need immediate success or failure while
// still serializing with the poll loop.
func (q *Queue) RunSync(fn Func) error {
	if q == nil || q.ch == nil {
		return ErrNotStarted
	}
	done := make(chan error, 1)
	err := q.Enqueue(Func(func(ctx context.Context) error {
		err := fn(ctx)
		// Non-blocking send in case the caller gave up.
		select {
		case done <- err:
		default:
		}
		// The caller owns this error; don't double-report it in the log.
		return nil
	}))
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-q.ctx.Done():
		return context.Canceled
	}
}

// Close stops the worker and waits for it to finish.
func (q *Queue) Close() {
	if q == nil {
		return
	}
	q.cancel()
	q.wg.Wait()
}

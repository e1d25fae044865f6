package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueue_Enqueue_And_Close(t *testing.T) {
	q := New(8)
	q.Start()
	defer q.Close()

	var count int64
	for i := 0; i < 10; i++ {
		if err := q.Enqueue(Func(func(ctx context.Context) error {
			atomic.AddInt64(&count, 1)
			return nil
		})); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	time.Sleep(50 * time.Millisecond)

	if c := atomic.LoadInt64(&count); c < 10 {
		t.Fatalf("want >=10 ops applied, got %d", c)
	}
}

func TestQueue_RunSync_ReturnsError(t *testing.T) {
	q := New(8)
	q.Start()
	defer q.Close()

	boom := errors.New("boom")
	if err := q.RunSync(func(ctx context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("want boom got %v", err)
	}
	if err := q.RunSync(func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("want nil got %v", err)
	}
}

func TestQueue_RunSync_SerializesWithEnqueued(t *testing.T) {
	q := New(8)
	q.Start()
	defer q.Close()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		if err := q.Enqueue(Func(func(ctx context.Context) error {
			order = append(order, i)
			return nil
		})); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	// RunSync must observe every previously enqueued op.
	if err := q.RunSync(func(ctx context.Context) error {
		order = append(order, 99)
		return nil
	}); err != nil {
		t.Fatalf("runsync: %v", err)
	}

	if len(order) != 6 || order[5] != 99 {
		t.Fatalf("want 5 ops then sync marker, got %v", order)
	}
	for i := 0; i < 5; i++ {
		if order[i] != i {
			t.Fatalf("ops out of order: %v", order)
		}
	}
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	q := New(1)
	q.Start()
	q.Close()

	err := q.Enqueue(Func(func(ctx context.Context) error { return nil }))
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("want ErrClosed got %v", err)
	}
}

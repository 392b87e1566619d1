package looper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/warpdl/warphud/pkg/logger"
)

// ErrStopped is returned by Call when the looper has exited.
var ErrStopped = errors.New("looper stopped")

// Task is a handle to a posted function.
type Task struct {
	fn       func()
	canceled atomic.Bool
	started  atomic.Bool
}

// Cancel prevents the task from running. It reports false if the task had
// already started.
func (t *Task) Cancel() bool {
	t.canceled.Store(true)
	return !t.started.Load()
}

// Looper runs posted tasks on its own goroutine until ctx is canceled.
// The queue is unbounded, so Post never blocks, including when called from
// a task running on the looper.
type Looper struct {
	log logger.Logger

	mu    sync.Mutex
	queue []*Task
	wake  chan struct{}
	done  chan struct{}
}

func New(ctx context.Context, l logger.Logger) *Looper {
	if l == nil {
		l = logger.NewNopLogger()
	}
	lp := &Looper{
		log:  l,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go lp.run(ctx)
	return lp
}

// Post queues fn and returns its handle.
func (l *Looper) Post(fn func()) *Task {
	t := &Task{fn: fn}
	l.mu.Lock()
	l.queue = append(l.queue, t)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Call posts fn and waits for it to finish.
func (l *Looper) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	t := l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		t.Cancel()
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	}
}

// Done is closed once the looper goroutine has exited.
func (l *Looper) Done() <-chan struct{} {
	return l.done
}

func (l *Looper) take() []*Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Looper) run(ctx context.Context) {
	defer close(l.done)
	for {
		for _, t := range l.take() {
			if ctx.Err() != nil {
				return
			}
			l.exec(t)
		}
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}
	}
}

func (l *Looper) exec(t *Task) {
	t.started.Store(true)
	if t.canceled.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("looper: task panicked: %v", r)
		}
	}()
	t.fn()
}

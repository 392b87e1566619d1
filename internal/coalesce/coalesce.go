// Package coalesce collapses bursts of change notifications into a single
// task on a looper.
package coalesce

import (
	"sync"

	"github.com/warpdl/warphud/internal/looper"
)

// Coalescer keeps at most one queued run of fn. Trigger may be called from
// any goroutine.
type Coalescer struct {
	loop *looper.Looper
	fn   func()

	mu      sync.Mutex
	pending *looper.Task
}

func New(loop *looper.Looper, fn func()) *Coalescer {
	return &Coalescer{loop: loop, fn: fn}
}

// Trigger cancels the queued run, if any, and queues a fresh one behind
// everything already posted.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Cancel()
	}
	c.pending = c.loop.Post(c.fn)
}

package hud

import (
	"sync"

	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/pkg/logger"
)

// Messenger delivers commands to a Link from a single goroutine, in the
// order Send was called. Send never blocks on the network.
type Messenger struct {
	link Link
	log  logger.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*common.Command
	closed  bool
	aborted bool

	done chan struct{}
}

func NewMessenger(link Link, l logger.Logger) *Messenger {
	m := &Messenger{
		link: link,
		log:  l,
		done: make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	go m.run()
	return m
}

// Send queues cmd. Commands sent after Close or Abort are dropped.
func (m *Messenger) Send(cmd *common.Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.queue = append(m.queue, cmd)
	m.cond.Signal()
}

// Close lets queued commands drain and then closes the Link.
func (m *Messenger) Close() {
	m.mu.Lock()
	m.closed = true
	m.cond.Broadcast()
	m.mu.Unlock()
}

// Abort drops anything still queued and closes the Link immediately.
func (m *Messenger) Abort() {
	m.mu.Lock()
	if m.aborted {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.aborted = true
	m.queue = nil
	m.cond.Broadcast()
	m.mu.Unlock()
	_ = m.link.Close()
}

// Done is closed after the worker has exited and the Link is closed.
func (m *Messenger) Done() <-chan struct{} {
	return m.done
}

func (m *Messenger) next() (*common.Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.queue) == 0 && !m.closed {
		m.cond.Wait()
	}
	if m.aborted || len(m.queue) == 0 {
		return nil, false
	}
	cmd := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	return cmd, true
}

func (m *Messenger) run() {
	defer close(m.done)
	for {
		cmd, ok := m.next()
		if !ok {
			break
		}
		if err := m.link.Send(cmd); err != nil {
			m.log.Warning("hud: dropping %s for %q: %v", cmd.Type, cmd.Token, err)
		}
	}
	m.mu.Lock()
	aborted := m.aborted
	m.mu.Unlock()
	if aborted {
		return
	}
	if err := m.link.Close(); err != nil {
		m.log.Warning("hud: closing renderer link: %v", err)
	}
}

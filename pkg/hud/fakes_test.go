package hud

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/warpdl/warphud/common"
)

const waitTimeout = 2 * time.Second

type fakeLink struct {
	mu      sync.Mutex
	sent    []*common.Command
	sendErr error
	closes  int

	notify    chan *common.Command
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		notify: make(chan *common.Command, 256),
		done:   make(chan struct{}),
	}
}

func (l *fakeLink) Send(cmd *common.Command) error {
	l.mu.Lock()
	l.sent = append(l.sent, cmd)
	err := l.sendErr
	l.mu.Unlock()
	l.notify <- cmd
	return err
}

func (l *fakeLink) Done() <-chan struct{} { return l.done }

func (l *fakeLink) Close() error {
	l.mu.Lock()
	l.closes++
	l.mu.Unlock()
	l.sever()
	return nil
}

// sever simulates the renderer going away.
func (l *fakeLink) sever() {
	l.closeOnce.Do(func() { close(l.done) })
}

func (l *fakeLink) closeCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closes
}

func (l *fakeLink) next(t *testing.T) *common.Command {
	t.Helper()
	select {
	case cmd := <-l.notify:
		return cmd
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a command")
		return nil
	}
}

func (l *fakeLink) expectNone(t *testing.T) {
	t.Helper()
	select {
	case cmd := <-l.notify:
		t.Fatalf("unexpected command %s %q", cmd.Type, cmd.Token)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeConnector struct {
	mu      sync.Mutex
	calls   int
	err     error
	release chan struct{}
	links   chan *fakeLink
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{links: make(chan *fakeLink, 16)}
}

// hold makes the next Connect calls block until the returned func is called.
func (c *fakeConnector) hold() func() {
	ch := make(chan struct{})
	c.mu.Lock()
	c.release = ch
	c.mu.Unlock()
	return func() { close(ch) }
}

func (c *fakeConnector) Connect(ctx context.Context) (Link, error) {
	c.mu.Lock()
	c.calls++
	release, err := c.release, c.err
	c.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	l := newFakeLink()
	c.links <- l
	return l, nil
}

func (c *fakeConnector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *fakeConnector) nextLink(t *testing.T) *fakeLink {
	t.Helper()
	select {
	case l := <-c.links:
		return l
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for a connection")
		return nil
	}
}

func waitState(t *testing.T, m *Manager, want State) {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		if m.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state = %s, want %s", m.State(), want)
}

var errDial = errors.New("dial refused")

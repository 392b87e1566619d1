package hud

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/warpdl/warphud/common"
	"github.com/warpdl/warphud/pkg/logger"
)

// State is the Manager's view of its renderer connection.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// action runs with Manager.mu held and returns work to do once it is
// released, so that entry sampling never happens under the lock.
type action func() func()

func nothing() {}

// pendingAction is an action deferred until the connection is up.
type pendingAction struct {
	token Token
	run   action
}

type task struct {
	entry    Entry
	periodic bool
	ctx      context.Context
	cancel   context.CancelFunc
	// gate serializes ticks of one token across reschedules.
	gate *sync.Mutex
	// exited is closed once the task will sample no more.
	exited chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// Manager schedules entries and owns the connection to the renderer. The
// connection is opened on the first action that needs it and closed when
// the last entry is removed.
type Manager struct {
	connector Connector
	clock     clockwork.Clock
	log       logger.Logger

	mu        sync.Mutex
	state     State
	messenger *Messenger
	// last is the most recently retired messenger, kept for Shutdown.
	last    *Messenger
	linkGen uint64
	pending []pendingAction
	tasks   map[Token]*task
}

func NewManager(c Connector, opts ...Option) *Manager {
	m := &Manager{
		connector: c,
		clock:     clockwork.NewRealClock(),
		log:       logger.NewNopLogger(),
		tasks:     make(map[Token]*task),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add starts pushing e to the renderer. Adding an entry that is already
// scheduled restarts its schedule.
func (m *Manager) Add(e Entry) {
	m.mu.Lock()
	after := m.runOrQueue(e.Token(), func() func() { return m.schedule(e) })
	m.mu.Unlock()
	after()
}

// RequestImmediateUpdate samples e now and restarts its period from here.
func (m *Manager) RequestImmediateUpdate(e Entry) {
	m.Add(e)
}

// ToggleVisibility flips the overlay between shown and hidden.
func (m *Manager) ToggleVisibility() {
	m.mu.Lock()
	after := m.runOrQueue("", func() func() {
		return func() { m.send(&common.Command{Type: common.TOGGLE_VISIBILITY}) }
	})
	m.mu.Unlock()
	after()
}

// Remove stops e and takes it off the overlay. Removing the last entry
// closes the connection.
func (m *Manager) Remove(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(e.Token())
}

// RemoveAll removes every entry, queued or scheduled.
func (m *Manager) RemoveAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token := range m.tasks {
		m.remove(token)
	}
	m.pending = m.pending[:0:0]
	if m.state == Connected {
		m.disconnect()
	}
}

// Shutdown removes everything and waits, until ctx ends, for every entry
// to stop sampling and for the final commands to be written.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	running := make([]<-chan struct{}, 0, len(m.tasks))
	for _, t := range m.tasks {
		running = append(running, t.exited)
	}
	m.mu.Unlock()

	m.RemoveAll()
	for _, exited := range running {
		select {
		case <-exited:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	last := m.last
	m.mu.Unlock()
	if last == nil {
		return nil
	}
	select {
	case <-last.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) IsConnected() bool {
	return m.State() == Connected
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) runOrQueue(token Token, a action) func() {
	switch m.state {
	case Connected:
		return a()
	case Disconnected:
		m.state = Connecting
		go m.connect()
	}
	// Connecting: a dial is already in flight.
	m.pending = append(m.pending, pendingAction{token: token, run: a})
	return nothing
}

func (m *Manager) connect() {
	link, err := m.connector.Connect(context.Background())

	m.mu.Lock()
	if err != nil {
		m.log.Error("hud: connecting to renderer: %v", err)
		m.state = Disconnected
		m.pending = nil
		m.mu.Unlock()
		return
	}
	m.linkGen++
	m.messenger = NewMessenger(link, m.log)
	m.state = Connected
	go m.watch(link, m.linkGen)

	pending := m.pending
	m.pending = nil
	afters := make([]func(), 0, len(pending))
	for _, a := range pending {
		afters = append(afters, a.run())
	}
	// Everything queued was removed while the dial was in flight.
	if len(pending) == 0 && len(m.tasks) == 0 {
		m.disconnect()
	}
	m.mu.Unlock()

	// Callers see Connected before the replayed samples run, so an action
	// issued now may reach the renderer ahead of them. Order per token still
	// holds: a newer action for the same token replaces its task, and the
	// replayed tick of the replaced task sends nothing.
	for _, f := range afters {
		f()
	}
}

// send queues cmd on the current connection, if there is one.
func (m *Manager) send(cmd *common.Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messenger != nil {
		m.messenger.Send(cmd)
	}
}

// watch resets everything when the renderer goes away without the Manager
// having asked for it.
func (m *Manager) watch(link Link, gen uint64) {
	<-link.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.linkGen != gen || m.state != Connected {
		return
	}
	m.log.Warning("hud: renderer connection lost, dropping %d entries", len(m.tasks))
	for token, t := range m.tasks {
		t.cancel()
		delete(m.tasks, token)
	}
	m.pending = nil
	m.messenger.Abort()
	m.last = m.messenger
	m.messenger = nil
	m.state = Disconnected
}

func (m *Manager) disconnect() {
	m.messenger.Close()
	m.last = m.messenger
	m.messenger = nil
	m.linkGen++
	m.state = Disconnected
}

func (m *Manager) remove(token Token) {
	kept := m.pending[:0]
	for _, a := range m.pending {
		if a.token != token || token == "" {
			kept = append(kept, a)
		}
	}
	m.pending = kept

	t, tracked := m.tasks[token]
	if tracked {
		t.cancel()
		delete(m.tasks, token)
	}
	// Only dropping the last tracked entry closes the connection; removing
	// an unknown entry leaves it alone.
	if m.state != Connected || !tracked {
		return
	}
	m.messenger.Send(&common.Command{Type: common.REMOVE_HUD, Token: string(token)})
	if len(m.tasks) == 0 {
		m.disconnect()
	}
}

// schedule installs a fresh task for e, replacing any previous one. Called
// with mu held while Connected; the returned func takes the first sample.
func (m *Manager) schedule(e Entry) func() {
	token := e.Token()
	gate := &sync.Mutex{}
	if old, ok := m.tasks[token]; ok {
		old.cancel()
		gate = old.gate
	}
	ctx, cancel := context.WithCancel(context.Background())
	period := e.UpdatePeriod()
	t := &task{
		entry:    e,
		periodic: period != NoPeriodicUpdate,
		ctx:      ctx,
		cancel:   cancel,
		gate:     gate,
		exited:   make(chan struct{}),
	}
	m.tasks[token] = t

	return func() {
		m.tick(t)
		if !t.periodic {
			close(t.exited)
			return
		}
		go m.repeat(t, effectivePeriod(period))
	}
}

// repeat ticks once per period, measured from the end of the previous tick.
func (m *Manager) repeat(t *task, period time.Duration) {
	defer close(t.exited)
	for {
		timer := m.clock.NewTimer(period)
		select {
		case <-t.ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
		m.tick(t)
	}
}

func (m *Manager) tick(t *task) {
	t.gate.Lock()
	defer t.gate.Unlock()
	if t.ctx.Err() != nil {
		return
	}
	payload, changed := m.sample(t.entry)
	if !changed {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ctx.Err() != nil || m.messenger == nil {
		return
	}
	m.messenger.Send(&common.Command{
		Type:    common.UPDATE_HUD,
		Token:   string(t.entry.Token()),
		Payload: payload,
	})
}

func (m *Manager) sample(e Entry) (p Payload, changed bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("hud: entry %q panicked during update: %v", e.Token(), r)
			p, changed = nil, false
		}
	}()
	return e.Update()
}

// Package hud is the client side of warphud. Applications register entries
// with a Manager, which keeps one lazily opened connection to the renderer
// and pushes each entry's payload on its own schedule.
package hud

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// MinimumUpdatePeriod is the lower bound on an entry's refresh interval.
	MinimumUpdatePeriod = 100 * time.Millisecond
	// NoPeriodicUpdate makes an entry update only when it is added or
	// RequestImmediateUpdate is called.
	NoPeriodicUpdate time.Duration = -1
	// DefaultUpdatePeriod is what Base reports.
	DefaultUpdatePeriod = time.Second
)

// Token identifies one entry across the process boundary.
type Token string

// NewToken mints a fresh random token.
func NewToken() Token {
	return Token(uuid.NewString())
}

// Payload is the opaque content the renderer draws for an entry.
type Payload []byte

// Entry is a single piece of overlay content owned by the application.
//
// Update is called from a timer goroutine; it returns false when nothing
// changed since the previous call, in which case nothing is sent.
type Entry interface {
	Token() Token
	UpdatePeriod() time.Duration
	Update() (Payload, bool)
}

// Base supplies the Token and a default period. Embed it by value and use
// the embedding type through a pointer.
type Base struct {
	once  sync.Once
	token Token
}

func (b *Base) Token() Token {
	b.once.Do(func() { b.token = NewToken() })
	return b.token
}

func (b *Base) UpdatePeriod() time.Duration {
	return DefaultUpdatePeriod
}

// effectivePeriod clamps p to MinimumUpdatePeriod. NoPeriodicUpdate is
// handled by the caller.
func effectivePeriod(p time.Duration) time.Duration {
	if p < MinimumUpdatePeriod {
		return MinimumUpdatePeriod
	}
	return p
}

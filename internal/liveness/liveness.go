// Package liveness reports when a client process goes away. A Peer stands
// for one client connection; the connection's owner calls Lose when the
// connection ends, and every watch registered on it fires once.
package liveness

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrLost is returned by Watch for a peer that is already gone.
var ErrLost = errors.New("peer already lost")

var peerSeq atomic.Uint64

// Peer is the identity of one connected client.
type Peer struct {
	id   uint64
	name string

	mu      sync.Mutex
	lost    bool
	nextID  uint64
	watches map[uint64]func()
}

func NewPeer(name string) *Peer {
	return &Peer{
		id:      peerSeq.Add(1),
		name:    name,
		watches: make(map[uint64]func()),
	}
}

func (p *Peer) String() string {
	return fmt.Sprintf("peer#%d(%s)", p.id, p.name)
}

func (p *Peer) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.lost
}

// Lose marks the peer gone and runs every outstanding watch on the calling
// goroutine. Later calls do nothing.
func (p *Peer) Lose() {
	p.mu.Lock()
	if p.lost {
		p.mu.Unlock()
		return
	}
	p.lost = true
	fns := make([]func(), 0, len(p.watches))
	for id, fn := range p.watches {
		fns = append(fns, fn)
		delete(p.watches, id)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Handle identifies one watch.
type Handle struct {
	peer *Peer
	id   uint64
}

// Watch arranges for onLost to run once when p is lost.
func Watch(p *Peer, onLost func()) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lost {
		return Handle{}, ErrLost
	}
	p.nextID++
	p.watches[p.nextID] = onLost
	return Handle{peer: p, id: p.nextID}, nil
}

// Unwatch cancels a watch. It reports whether the watch was still pending.
func Unwatch(h Handle) bool {
	if h.peer == nil {
		return false
	}
	h.peer.mu.Lock()
	defer h.peer.mu.Unlock()
	if _, ok := h.peer.watches[h.id]; !ok {
		return false
	}
	delete(h.peer.watches, h.id)
	return true
}

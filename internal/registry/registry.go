// Package registry holds the renderer's view of every live entry: its last
// payload, the client that owns it, and the overlay visibility flag.
//
// All state lives on a looper goroutine. The exported mutators post onto it
// and return immediately; Payloads and Visible are meant for the render pass,
// which runs on the same looper.
package registry

import (
	"context"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/warpdl/warphud/internal/liveness"
	"github.com/warpdl/warphud/internal/looper"
	"github.com/warpdl/warphud/internal/overlay"
	"github.com/warpdl/warphud/pkg/logger"
)

type record struct {
	payload overlay.Payload
	peer    *liveness.Peer
	watch   liveness.Handle
}

// Entry is one row of a Snapshot.
type Entry struct {
	Token   string `json:"token"`
	Payload []byte `json:"payload"`
	Peer    string `json:"peer"`
}

// Snapshot is a copy of the registry taken on the looper.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Visible bool    `json:"visible"`
}

type Registry struct {
	loop    *looper.Looper
	log     logger.Logger
	changed func()

	// entries keeps first-registration order; Set on an existing key does
	// not move it.
	entries *orderedmap.OrderedMap[string, *record]
	visible bool
}

func New(loop *looper.Looper, l logger.Logger) *Registry {
	return &Registry{
		loop:    loop,
		log:     l,
		changed: func() {},
		entries: orderedmap.New[string, *record](),
		visible: true,
	}
}

// OnChange sets the function run on the looper after every handled command.
// It must be called before the registry is used.
func (r *Registry) OnChange(fn func()) {
	r.changed = fn
}

// Update stores payload for token on behalf of peer.
func (r *Registry) Update(peer *liveness.Peer, token string, payload []byte) {
	r.loop.Post(func() {
		r.update(peer, token, overlay.Payload(payload))
		r.changed()
	})
}

// Remove forgets token on behalf of peer. Unknown tokens are ignored, and
// so is a remove from a peer that no longer owns token: connections are
// read concurrently, so a stale REMOVE_HUD from a closed connection can
// arrive after the same token was re-registered on a new one.
func (r *Registry) Remove(peer *liveness.Peer, token string) {
	r.loop.Post(func() {
		if rec, ok := r.entries.Get(token); ok && rec.peer != peer {
			r.log.Warning("registry: ignoring remove for %s from %s, owned by %s", token, peer, rec.peer)
		} else {
			r.remove(token)
		}
		r.changed()
	})
}

// Toggle flips overlay visibility.
func (r *Registry) Toggle() {
	r.loop.Post(func() {
		r.visible = !r.visible
		r.changed()
	})
}

// lost is the liveness callback for token's owner. It runs on the
// connection goroutine and hands off to the looper.
func (r *Registry) lost(token string, peer *liveness.Peer) {
	r.loop.Post(func() {
		if rec, ok := r.entries.Get(token); ok && rec.peer == peer {
			r.log.Info("registry: %s died, dropping %s", peer, token)
			r.entries.Delete(token)
		}
		r.changed()
	})
}

func (r *Registry) update(peer *liveness.Peer, token string, payload overlay.Payload) {
	if !peer.Alive() {
		r.log.Warning("registry: ignoring update for %s from departed %s", token, peer)
		return
	}
	rec, ok := r.entries.Get(token)
	if ok && rec.peer == peer {
		rec.payload = payload
		return
	}
	h, err := liveness.Watch(peer, func() { r.lost(token, peer) })
	if err != nil {
		r.log.Warning("registry: ignoring update for %s: %v", token, err)
		return
	}
	if ok {
		// Same token, new connection: the client reconnected.
		liveness.Unwatch(rec.watch)
		rec.peer, rec.watch, rec.payload = peer, h, payload
		return
	}
	r.entries.Set(token, &record{payload: payload, peer: peer, watch: h})
}

func (r *Registry) remove(token string) {
	rec, ok := r.entries.Get(token)
	if !ok {
		return
	}
	liveness.Unwatch(rec.watch)
	r.entries.Delete(token)
}

// Payloads returns payloads in first-registration order. Looper only.
func (r *Registry) Payloads() []overlay.Payload {
	out := make([]overlay.Payload, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.payload)
	}
	return out
}

// Visible reports the visibility flag. Looper only.
func (r *Registry) Visible() bool {
	return r.visible
}

// Snapshot copies the registry from any goroutine.
func (r *Registry) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := r.loop.Call(ctx, func() {
		s.Visible = r.visible
		s.Entries = make([]Entry, 0, r.entries.Len())
		for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
			s.Entries = append(s.Entries, Entry{
				Token:   pair.Key,
				Payload: append([]byte(nil), pair.Value.payload...),
				Peer:    pair.Value.peer.String(),
			})
		}
	})
	return s, err
}

var _ overlay.Source = (*Registry)(nil)

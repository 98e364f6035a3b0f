// Package observe is the change-subscription mechanism shared by the
// session and social stores. Views re-query the store after a change.
package observe

import (
	"slices"
	"sync"
)

type Store string

const (
	StoreSession Store = "session"
	StoreSocial  Store = "social"
)

type Change struct {
	Store   Store  `json:"store"`
	Op      string `json:"op"`
	Version uint64 `json:"version"`
}

type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

// Subscribe registers fn and returns a function that removes it. Cancel is
// safe to call more than once.
func (h *Hub) Subscribe(fn func(Change)) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(Change))
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish calls every subscriber synchronously in subscription order.
func (h *Hub) Publish(c Change) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Change), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, h.subs[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

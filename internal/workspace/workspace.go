// Package workspace gives every visitor its own session store, social
// store and view router, keyed by a signed cookie.
package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"DispoCeSoir/internal/seed"
	"DispoCeSoir/internal/session"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/viewrouter"
)

type Workspace struct {
	ID        string
	CreatedAt time.Time

	Session *session.Store
	Social  *social.Store
	Router  *viewrouter.Router
}

func (w *Workspace) Route() viewrouter.Route {
	return viewrouter.Resolve(w.Session, w.Router)
}

// Factory builds seeded workspaces.
type Factory struct {
	Seed     *seed.Data
	Provider session.Provider
	Logger   *slog.Logger
}

func (f Factory) New(id string, now time.Time) *Workspace {
	if f.Seed == nil {
		panic("workspace: factory without seed data")
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	provider := f.Provider
	if provider == nil {
		provider = session.MockProvider{Defaults: f.Seed.Defaults()}
	}
	logger = logger.With("workspace_id", id)
	return &Workspace{
		ID:        id,
		CreatedAt: now,
		Session:   session.New(provider, logger),
		Social:    social.New(f.Seed.Social(now), social.WithLogger(logger)),
		Router:    &viewrouter.Router{},
	}
}

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

type Registry struct {
	factory Factory
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type RegistryOpts struct {
	Factory Factory
	TTL     time.Duration
	Now     func() time.Time
	NewID   func() string
	Logger  *slog.Logger
}

func NewRegistry(opts RegistryOpts) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Factory.Logger == nil {
		opts.Factory.Logger = opts.Logger
	}
	return &Registry{
		factory: opts.Factory,
		ttl:     opts.TTL,
		now:     opts.Now,
		newID:   opts.NewID,
		logger:  opts.Logger,
		entries: make(map[string]*entry),
	}
}

func (r *Registry) TTL() time.Duration { return r.ttl }

func (r *Registry) Create() *Workspace {
	now := r.now()
	ws := r.factory.New(r.newID(), now)

	r.mu.Lock()
	r.entries[ws.ID] = &entry{ws: ws, lastSeen: now}
	n := len(r.entries)
	r.mu.Unlock()

	r.logger.Debug("workspace: created", "workspace_id", ws.ID, "active", n)
	return ws
}

// Get returns a live workspace and extends its lifetime.
func (r *Registry) Get(id string) (*Workspace, bool) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	if now.Sub(e.lastSeen) > r.ttl {
		delete(r.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return e.ws, true
}

// Remove forgets id. It reports whether a workspace was dropped.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops workspaces idle for longer than the TTL.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	removed := 0
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.entries, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.Info("workspace: swept idle workspaces", "removed", removed)
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(r.now())
		}
	}
}

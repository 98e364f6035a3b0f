// Package session holds at most one active identity per visitor.
package session

import (
	"context"
	"log/slog"
	"sync"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/observe"
)

type Store struct {
	provider Provider
	logger   *slog.Logger

	// pubMu is taken before mu and held through Publish so subscribers see
	// changes in version order.
	pubMu   sync.Mutex
	mu      sync.RWMutex
	current *domain.Identity
	version uint64

	hub observe.Hub
}

func New(provider Provider, logger *slog.Logger) *Store {
	if provider == nil {
		panic("session: nil provider")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{provider: provider, logger: logger}
}

// SignIn reports false without touching the active identity when email or
// password is empty. The error is reserved for provider failures.
func (s *Store) SignIn(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return false, err
	}
	s.set(&id, "sign_in")
	s.logger.Debug("session: signed in", "email", email)
	return true, nil
}

func (s *Store) SignUp(ctx context.Context, name, email, password string) (bool, error) {
	if name == "" || email == "" || password == "" {
		return false, nil
	}
	id, err := s.provider.SignUp(ctx, name, email, password)
	if err != nil {
		return false, err
	}
	s.set(&id, "sign_up")
	s.logger.Debug("session: signed up", "email", email)
	return true, nil
}

func (s *Store) SignOut() {
	s.set(nil, "sign_out")
}

// UpdateProfile merges patch over the active identity. No-op when signed
// out.
func (s *Store) UpdateProfile(patch domain.IdentityPatch) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	next := patch.Apply(*s.current)
	s.current = &next
	s.version++
	c := observe.Change{Store: observe.StoreSession, Op: "update_profile", Version: s.version}
	s.mu.Unlock()

	s.hub.Publish(c)
}

// Current returns a copy of the active identity.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

func (s *Store) Active() bool {
	_, ok := s.Current()
	return ok
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Subscribe(fn func(observe.Change)) (cancel func()) {
	return s.hub.Subscribe(fn)
}

func (s *Store) set(id *domain.Identity, op string) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.current = id
	s.version++
	c := observe.Change{Store: observe.StoreSession, Op: op, Version: s.version}
	s.mu.Unlock()

	s.hub.Publish(c)
}

// Package social owns the friends, notifications and events collections of
// one visitor plus the availability flag and friend search query.
//
// Collections are copy-on-write: every mutation installs fresh slices and
// never touches slices handed out by an earlier Snapshot.
package social

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/observe"
)

type Snapshot struct {
	Version       uint64
	Available     bool
	SearchQuery   string
	Friends       []domain.Friend
	Notifications []domain.Notification
	Events        []domain.Event
}

// FilteredFriends applies the stored search query.
func (s Snapshot) FilteredFriends() []domain.Friend {
	return FilterFriends(s.Friends, s.SearchQuery)
}

type Seed struct {
	Friends       []domain.Friend
	Notifications []domain.Notification
	Events        []domain.Event
}

type Store struct {
	newID  func() string
	logger *slog.Logger

	// pubMu is taken before mu and held through Publish so subscribers see
	// changes in version order.
	pubMu sync.Mutex
	mu    sync.RWMutex
	snap  Snapshot

	hub observe.Hub
}

type Option func(*Store)

// WithIDSource replaces the event identifier source (uuid by default).
func WithIDSource(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func New(seed Seed, opts ...Option) *Store {
	s := &Store{
		newID:  uuid.NewString,
		logger: slog.Default(),
		snap: Snapshot{
			Friends:       slices.Clone(seed.Friends),
			Notifications: slices.Clone(seed.Notifications),
			Events:        cloneEvents(seed.Events),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		panic("social: nil id source")
	}
	return s
}

// Snapshot returns a deep copy of the current state. Writing to it never
// reaches the store or any other snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	snap.Friends = slices.Clone(snap.Friends)
	snap.Notifications = slices.Clone(snap.Notifications)
	snap.Events = cloneEvents(snap.Events)
	return snap
}

func (s *Store) Subscribe(fn func(observe.Change)) (cancel func()) {
	return s.hub.Subscribe(fn)
}

// SetAvailability only flips the flag; friends are not notified.
func (s *Store) SetAvailability(available bool) {
	s.mutate("set_availability", func(n *Snapshot) {
		n.Available = available
	})
}

// ToggleAvailability flips the flag and returns the new value.
func (s *Store) ToggleAvailability() bool {
	var available bool
	s.mutate("set_availability", func(n *Snapshot) {
		n.Available = !n.Available
		available = n.Available
	})
	return available
}

// AddFriend appends f without checking identifier uniqueness.
func (s *Store) AddFriend(f domain.Friend) {
	s.mutate("add_friend", func(n *Snapshot) {
		n.Friends = append(slices.Clone(n.Friends), f)
	})
}

// ReplaceFriends installs friends as the whole collection.
func (s *Store) ReplaceFriends(friends []domain.Friend) {
	s.mutate("replace_friends", func(n *Snapshot) {
		n.Friends = slices.Clone(friends)
		if n.Friends == nil {
			n.Friends = []domain.Friend{}
		}
	})
}

// SetSearchQuery stores q verbatim; folding happens at read time.
func (s *Store) SetSearchQuery(q string) {
	s.mutate("set_search_query", func(n *Snapshot) {
		n.SearchQuery = q
	})
}

// MarkNotificationRead sets Read on the matching notification. Unknown ids
// are ignored.
func (s *Store) MarkNotificationRead(id string) {
	s.mutate("mark_notification_read", func(n *Snapshot) {
		out := slices.Clone(n.Notifications)
		for i := range out {
			if out[i].ID == id {
				out[i].Read = true
			}
		}
		n.Notifications = out
	})
}

func (s *Store) MarkAllNotificationsRead() {
	s.mutate("mark_all_notifications_read", func(n *Snapshot) {
		out := slices.Clone(n.Notifications)
		for i := range out {
			out[i].Read = true
		}
		n.Notifications = out
	})
}

// CreateEvent assigns a fresh identifier to draft and appends it. The draft
// is not validated.
func (s *Store) CreateEvent(draft domain.EventDraft) domain.Event {
	var created domain.Event
	s.mutate("create_event", func(n *Snapshot) {
		created = draft.WithID(s.newID())
		n.Events = append(cloneEvents(n.Events), created)
	})
	s.logger.Debug("social: event created", "id", created.ID, "title", created.Title)
	return created.Clone()
}

func (s *Store) mutate(op string, fn func(*Snapshot)) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	next := s.snap
	fn(&next)
	next.Version++
	s.snap = next
	c := observe.Change{Store: observe.StoreSocial, Op: op, Version: next.Version}
	s.mu.Unlock()

	s.hub.Publish(c)
}

func cloneEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

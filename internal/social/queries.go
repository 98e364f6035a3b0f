package social

import (
	"strings"

	"DispoCeSoir/internal/domain"
)

// FilterFriends keeps friends whose name contains q, ignoring case. An
// empty query keeps everyone.
func FilterFriends(friends []domain.Friend, q string) []domain.Friend {
	needle := strings.ToLower(q)
	out := make([]domain.Friend, 0, len(friends))
	for _, f := range friends {
		if strings.Contains(strings.ToLower(f.Name), needle) {
			out = append(out, f)
		}
	}
	return out
}

func AvailableFriends(friends []domain.Friend) []domain.Friend {
	var out []domain.Friend
	for _, f := range friends {
		if f.Available {
			out = append(out, f)
		}
	}
	return out
}

func CountAvailable(friends []domain.Friend) int {
	return len(AvailableFriends(friends))
}

func CountOnline(friends []domain.Friend) int {
	n := 0
	for _, f := range friends {
		if f.Online() {
			n++
		}
	}
	return n
}

func CountUnread(notifications []domain.Notification) int {
	n := 0
	for _, x := range notifications {
		if !x.Read {
			n++
		}
	}
	return n
}

func CountByKind(notifications []domain.Notification, kind domain.NotificationKind) int {
	n := 0
	for _, x := range notifications {
		if x.Kind == kind {
			n++
		}
	}
	return n
}

// UpcomingEvents returns at most n events in collection order.
func UpcomingEvents(events []domain.Event, n int) []domain.Event {
	if n < 0 {
		n = 0
	}
	if len(events) < n {
		n = len(events)
	}
	return events[:n:n]
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

type NotificationKind string

const (
	NotificationFriendRequest NotificationKind = "friend_request"
	NotificationAvailability  NotificationKind = "availability"
	NotificationEventInvite   NotificationKind = "event_invite"
)

func NotificationKinds() []NotificationKind {
	return []NotificationKind{NotificationFriendRequest, NotificationAvailability, NotificationEventInvite}
}

func ParseNotificationKind(s string) (NotificationKind, error) {
	switch k := NotificationKind(strings.TrimSpace(s)); k {
	case NotificationFriendRequest, NotificationAvailability, NotificationEventInvite:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown notification kind %q", ErrValidation, s)
	}
}

type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"type"`
	Message   string           `json:"message"`
	From      string           `json:"from"`
	CreatedAt time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

package userui

import (
	"fmt"
	"strings"
	"time"

	"DispoCeSoir/internal/domain"
)

// relativeTime renders how long ago t was: minutes under an hour, hours under
// a day, then the calendar date.
func relativeTime(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}
	switch {
	case d < time.Hour:
		return fmt.Sprintf("Il y a %d min", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("Il y a %dh", int(d/time.Hour))
	default:
		return t.Format("02/01/2006")
	}
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		for _, r := range part {
			b.WriteRune(r)
			break
		}
	}
	return b.String()
}

func notificationIcon(kind domain.NotificationKind) string {
	switch kind {
	case domain.NotificationFriendRequest:
		return "👋"
	case domain.NotificationAvailability:
		return "🔔"
	case domain.NotificationEventInvite:
		return "📅"
	default:
		return "💬"
	}
}

func toNotificationRows(now time.Time, list []domain.Notification) []notificationRow {
	out := make([]notificationRow, 0, len(list))
	for _, n := range list {
		out = append(out, notificationRow{
			ID:      n.ID,
			Kind:    string(n.Kind),
			Icon:    notificationIcon(n.Kind),
			Message: n.Message,
			When:    relativeTime(now, n.CreatedAt),
			Read:    n.Read,
		})
	}
	return out
}

const shownParticipants = 4

// toEventCard sizes vote bars by Share, so the leading location fills its
// bar. Percent is the location's part of all votes cast.
func toEventCard(e domain.Event) eventCard {
	card := eventCard{
		ID:           e.ID,
		Title:        e.Title,
		Location:     e.Location,
		Time:         e.Time,
		Organizer:    e.Organizer,
		Participants: len(e.Participants),
	}
	for i, p := range e.Participants {
		if i == shownParticipants {
			card.MoreCount = len(e.Participants) - shownParticipants
			break
		}
		card.Initials = append(card.Initials, initials(p))
	}

	total := 0
	for _, t := range e.Votes {
		total += t.Count
	}
	top := e.Votes.Max()
	for _, t := range e.Votes {
		row := voteRow{
			Location: t.Location,
			Count:    t.Count,
			Width:    int(e.Votes.Share(t.Location) * 100),
			Leader:   top > 0 && t.Count == top,
		}
		if total > 0 {
			row.Percent = (t.Count*100 + total/2) / total
		}
		card.Votes = append(card.Votes, row)
	}
	return card
}

func toEventCards(events []domain.Event) []eventCard {
	out := make([]eventCard, 0, len(events))
	for _, e := range events {
		out = append(out, toEventCard(e))
	}
	return out
}

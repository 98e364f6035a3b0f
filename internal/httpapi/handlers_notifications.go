package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/workspace"
)

type notificationsResponse struct {
	Unread        int                   `json:"unread"`
	Notifications []domain.Notification `json:"notifications"`
}

func (a *api) handleNotificationsList(w http.ResponseWriter, r *http.Request) {
	snap := workspace.MustFromContext(r.Context()).Social.Snapshot()

	list := snap.Notifications
	if raw := r.URL.Query().Get("type"); raw != "" {
		kind, err := domain.ParseNotificationKind(raw)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		filtered := make([]domain.Notification, 0, len(list))
		for _, n := range list {
			if n.Kind == kind {
				filtered = append(filtered, n)
			}
		}
		list = filtered
	}
	if list == nil {
		list = []domain.Notification{}
	}

	WriteJSON(w, http.StatusOK, notificationsResponse{
		Unread:        social.CountUnread(snap.Notifications),
		Notifications: list,
	})
}

// handleNotificationRead answers 204 for unknown ids as well.
func (a *api) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	ws.Social.MarkNotificationRead(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	workspace.MustFromContext(r.Context()).Social.MarkAllNotificationsRead()
	w.WriteHeader(http.StatusNoContent)
}

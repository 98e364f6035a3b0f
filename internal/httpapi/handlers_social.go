package httpapi

import (
	"net/http"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/viewrouter"
	"DispoCeSoir/internal/workspace"
)

const upcomingEventsOnHome = 2

type socialCounts struct {
	Friends         int `json:"friends"`
	Available       int `json:"available"`
	Online          int `json:"online"`
	Unread          int `json:"unread"`
	FriendRequests  int `json:"friend_requests"`
	AvailabilityUps int `json:"availability_updates"`
	EventInvites    int `json:"event_invites"`
	Events          int `json:"events"`
}

type socialSummaryResponse struct {
	Version     uint64          `json:"version"`
	Available   bool            `json:"available"`
	SearchQuery string          `json:"search_query"`
	Counts      socialCounts    `json:"counts"`
	Upcoming    []eventResponse `json:"upcoming"`
}

func (a *api) handleSocialSummary(w http.ResponseWriter, r *http.Request) {
	snap := workspace.MustFromContext(r.Context()).Social.Snapshot()

	upcoming := social.UpcomingEvents(snap.Events, upcomingEventsOnHome)
	resp := socialSummaryResponse{
		Version:     snap.Version,
		Available:   snap.Available,
		SearchQuery: snap.SearchQuery,
		Counts: socialCounts{
			Friends:         len(snap.Friends),
			Available:       social.CountAvailable(snap.Friends),
			Online:          social.CountOnline(snap.Friends),
			Unread:          social.CountUnread(snap.Notifications),
			FriendRequests:  social.CountByKind(snap.Notifications, domain.NotificationFriendRequest),
			AvailabilityUps: social.CountByKind(snap.Notifications, domain.NotificationAvailability),
			EventInvites:    social.CountByKind(snap.Notifications, domain.NotificationEventInvite),
			Events:          len(snap.Events),
		},
		Upcoming: make([]eventResponse, 0, len(upcoming)),
	}
	for _, e := range upcoming {
		resp.Upcoming = append(resp.Upcoming, toEventResponse(e))
	}
	WriteJSON(w, http.StatusOK, resp)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (a *api) handleAvailabilitySet(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var req availabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if req.Available == nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"available": "required"}))
		return
	}

	ws.Social.SetAvailability(*req.Available)
	WriteJSON(w, http.StatusOK, map[string]bool{"available": ws.Social.Snapshot().Available})
}

type viewResponse struct {
	View  string `json:"view"`
	Label string `json:"label"`
}

func toViewResponse(v viewrouter.View) viewResponse {
	resp := viewResponse{View: string(v)}
	for _, item := range viewrouter.Views() {
		if item.View == v {
			resp.Label = item.Label
		}
	}
	return resp
}

func (a *api) handleViewGet(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	WriteJSON(w, http.StatusOK, toViewResponse(ws.Router.Current()))
}

type viewRequest struct {
	View string `json:"view"`
}

// handleViewSelect never fails on an unknown tag; the router falls back to
// the home view and the response says so.
func (a *api) handleViewSelect(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var req viewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	WriteJSON(w, http.StatusOK, toViewResponse(ws.Router.Select(req.View)))
}

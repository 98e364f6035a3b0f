package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/workspace"
)

type friendsResponse struct {
	Query   string          `json:"query"`
	Total   int             `json:"total"`
	Friends []domain.Friend `json:"friends"`
}

// handleFriendsList applies the stored search query. available=true narrows
// the result to friends who are free tonight.
func (a *api) handleFriendsList(w http.ResponseWriter, r *http.Request) {
	snap := workspace.MustFromContext(r.Context()).Social.Snapshot()

	friends := snap.FilteredFriends()
	if raw := r.URL.Query().Get("available"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"available": "must be a boolean"}))
			return
		}
		if only {
			friends = social.AvailableFriends(friends)
		}
	}
	if friends == nil {
		friends = []domain.Friend{}
	}

	WriteJSON(w, http.StatusOK, friendsResponse{
		Query:   snap.SearchQuery,
		Total:   len(snap.Friends),
		Friends: friends,
	})
}

func (a *api) handleFriendsAdd(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var f domain.Friend
	if err := decodeJSON(w, r, &f); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if strings.TrimSpace(f.Name) == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"name": "required"}))
		return
	}
	if f.ID == "" {
		f.ID = a.newID()
	}

	ws.Social.AddFriend(f)
	WriteJSON(w, http.StatusCreated, f)
}

type replaceFriendsRequest struct {
	Friends []domain.Friend `json:"friends"`
}

// handleFriendsReplace installs the posted list as the whole friends
// collection. Friends without an id get a fresh one.
func (a *api) handleFriendsReplace(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var req replaceFriendsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	fields := map[string]string{}
	for i := range req.Friends {
		if strings.TrimSpace(req.Friends[i].Name) == "" {
			fields["friends["+strconv.Itoa(i)+"].name"] = "required"
		}
		if req.Friends[i].ID == "" {
			req.Friends[i].ID = a.newID()
		}
	}
	if len(fields) > 0 {
		WriteDomainError(w, domain.NewValidationError(fields))
		return
	}

	ws.Social.ReplaceFriends(req.Friends)
	snap := ws.Social.Snapshot()
	WriteJSON(w, http.StatusOK, friendsResponse{
		Query:   snap.SearchQuery,
		Total:   len(snap.Friends),
		Friends: snap.FilteredFriends(),
	})
}

type searchRequest struct {
	Query string `json:"query"`
}

func (a *api) handleFriendsSearch(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	// An empty body clears the query.
	var req searchRequest
	if _, err := decodeJSONAllowEmpty(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	ws.Social.SetSearchQuery(req.Query)
	snap := ws.Social.Snapshot()
	friends := snap.FilteredFriends()
	if friends == nil {
		friends = []domain.Friend{}
	}
	WriteJSON(w, http.StatusOK, friendsResponse{
		Query:   snap.SearchQuery,
		Total:   len(snap.Friends),
		Friends: friends,
	})
}

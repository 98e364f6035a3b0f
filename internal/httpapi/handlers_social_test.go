package httpapi

import (
	"net/http"
	"testing"

	"DispoCeSoir/internal/domain"
)

func TestSocialSummaryCounts(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	rr := env.do(http.MethodGet, "/v1/social", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	resp := decodeBody[socialSummaryResponse](t, rr)
	if resp.Counts.Friends != 4 || resp.Counts.Unread != 2 || resp.Counts.Events != 2 {
		t.Fatalf("counts = %#v", resp.Counts)
	}
	if resp.Counts.FriendRequests+resp.Counts.AvailabilityUps+resp.Counts.EventInvites != 3 {
		t.Fatalf("kind counts do not add up: %#v", resp.Counts)
	}
	if resp.Available {
		t.Fatalf("availability should start false")
	}
	if len(resp.Upcoming) != 2 {
		t.Fatalf("upcoming = %d", len(resp.Upcoming))
	}
}

func TestAvailabilityToggle(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	rr := env.do(http.MethodPut, "/v1/availability", `{"available":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if got := decodeBody[map[string]bool](t, rr); !got["available"] {
		t.Fatalf("available = %v", got)
	}

	rr = env.do(http.MethodPut, "/v1/availability", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing flag accepted: %d", rr.Code)
	}
}

func TestViewSelectFallsBackToHome(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	tests := []struct {
		tag, want, label string
	}{
		{"friends", "friends", "Amis"},
		{"events", "events", "Sorties"},
		{"settings", "home", "Accueil"},
		{"", "home", "Accueil"},
	}
	for _, tt := range tests {
		rr := env.do(http.MethodPut, "/v1/view", `{"view":"`+tt.tag+`"}`)
		got := decodeBody[viewResponse](t, rr)
		if got.View != tt.want || got.Label != tt.label {
			t.Fatalf("Select(%q) = %#v", tt.tag, got)
		}
	}

	env.do(http.MethodPut, "/v1/view", `{"view":"profile"}`)
	if got := decodeBody[viewResponse](t, env.do(http.MethodGet, "/v1/view", "")); got.View != "profile" {
		t.Fatalf("current view = %#v", got)
	}
}

func TestFriendsSearchAndAdd(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	rr := env.do(http.MethodPut, "/v1/friends/search", `{"query":"MAR"}`)
	resp := decodeBody[friendsResponse](t, rr)
	if resp.Query != "MAR" || len(resp.Friends) != 1 || resp.Friends[0].Name != "Marie Martin" {
		t.Fatalf("search = %#v", resp)
	}
	if resp.Total != 4 {
		t.Fatalf("total = %d", resp.Total)
	}

	rr = env.do(http.MethodPost, "/v1/friends", `{"name":"Marc Petit","is_available":true,"last_seen":"En ligne","status":"Partant"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status %d: %s", rr.Code, rr.Body.String())
	}
	added := decodeBody[domain.Friend](t, rr)
	if added.ID != "id-1" {
		t.Fatalf("generated id = %q", added.ID)
	}

	resp = decodeBody[friendsResponse](t, env.do(http.MethodGet, "/v1/friends", ""))
	if len(resp.Friends) != 2 || resp.Friends[1].Name != "Marc Petit" {
		t.Fatalf("filtered list = %#v", resp.Friends)
	}

	resp = decodeBody[friendsResponse](t, env.do(http.MethodPut, "/v1/friends/search", ""))
	if resp.Query != "" || len(resp.Friends) != 5 {
		t.Fatalf("empty body should clear the query: %#v", resp)
	}
	resp = decodeBody[friendsResponse](t, env.do(http.MethodGet, "/v1/friends?available=true", ""))
	if len(resp.Friends) != 4 {
		t.Fatalf("available friends = %d", len(resp.Friends))
	}
	for _, f := range resp.Friends {
		if !f.Available {
			t.Fatalf("unavailable friend in result: %#v", f)
		}
	}

	if rr := env.do(http.MethodPost, "/v1/friends", `{"name":""}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("nameless friend accepted: %d", rr.Code)
	}
	if rr := env.do(http.MethodGet, "/v1/friends?available=maybe", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad filter accepted: %d", rr.Code)
	}
}

func TestNotificationsReadFlow(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	list := decodeBody[notificationsResponse](t, env.do(http.MethodGet, "/v1/notifications", ""))
	if list.Unread != 2 || len(list.Notifications) != 3 {
		t.Fatalf("list = %#v", list)
	}

	var unreadID string
	for _, n := range list.Notifications {
		if !n.Read {
			unreadID = n.ID
			break
		}
	}

	if rr := env.do(http.MethodPost, "/v1/notifications/"+unreadID+"/read", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("read status %d", rr.Code)
	}
	if rr := env.do(http.MethodPost, "/v1/notifications/does-not-exist/read", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("unknown id status %d", rr.Code)
	}
	list = decodeBody[notificationsResponse](t, env.do(http.MethodGet, "/v1/notifications", ""))
	if list.Unread != 1 {
		t.Fatalf("unread after mark = %d", list.Unread)
	}

	if rr := env.do(http.MethodPost, "/v1/notifications/read-all", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("read-all status %d", rr.Code)
	}
	list = decodeBody[notificationsResponse](t, env.do(http.MethodGet, "/v1/notifications", ""))
	if list.Unread != 0 || len(list.Notifications) != 3 {
		t.Fatalf("after read-all = %#v", list)
	}

	if rr := env.do(http.MethodGet, "/v1/notifications?type=birthday", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown type accepted: %d", rr.Code)
	}
	byKind := decodeBody[notificationsResponse](t, env.do(http.MethodGet, "/v1/notifications?type=friend_request", ""))
	for _, n := range byKind.Notifications {
		if n.Kind != domain.NotificationFriendRequest {
			t.Fatalf("filter leaked %q", n.Kind)
		}
	}
}

func TestFriendsReplace(t *testing.T) {
	env := newTestEnv(t)
	env.signIn()

	rr := env.do(http.MethodPut, "/v1/friends", `{"friends":[{"id":"7","name":"Léa Roux","is_available":true},{"name":"Hugo Blanc"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("replace status %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[friendsResponse](t, rr)
	if resp.Total != 2 || resp.Friends[0].ID != "7" || resp.Friends[1].ID != "id-1" {
		t.Fatalf("replaced list = %#v", resp)
	}

	resp = decodeBody[friendsResponse](t, env.do(http.MethodGet, "/v1/friends?available=true", ""))
	if len(resp.Friends) != 1 || resp.Friends[0].Name != "Léa Roux" {
		t.Fatalf("available after replace = %#v", resp.Friends)
	}

	rr = env.do(http.MethodPut, "/v1/friends", `{"friends":[{"name":" "}]}`)
	if rr.Code != http.StatusBadRequest || errorCode(t, rr) != "validation_error" {
		t.Fatalf("blank name accepted: %d", rr.Code)
	}
	if got := decodeBody[friendsResponse](t, env.do(http.MethodGet, "/v1/friends", "")); got.Total != 2 {
		t.Fatalf("rejected replace changed the list: %#v", got)
	}

	rr = env.do(http.MethodPut, "/v1/friends", `{"friends":[]}`)
	if got := decodeBody[friendsResponse](t, rr); got.Total != 0 || got.Friends == nil {
		t.Fatalf("empty replace = %#v", got)
	}
}

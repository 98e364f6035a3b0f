package userui

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"DispoCeSoir/internal/auth"
	"DispoCeSoir/internal/seed"
	"DispoCeSoir/internal/viewrouter"
	"DispoCeSoir/internal/workspace"
)

var testNow = time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

type browser struct {
	t       *testing.T
	handler http.Handler
	reg     *workspace.Registry
	cookie  *http.Cookie
}

func newBrowser(t *testing.T) *browser {
	t.Helper()
	data, err := seed.Default()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := workspace.NewRegistry(workspace.RegistryOpts{
		Factory: workspace.Factory{Seed: data},
		Now:     func() time.Time { return testNow },
		Logger:  logger,
	})
	binder := &workspace.Binder{Registry: reg, Codec: auth.NewCookieCodec(nil)}

	n := 0
	r := chi.NewRouter()
	r.Use(binder.Middleware)
	r.Mount("/app", New(Opts{
		Logger: logger,
		Now:    func() time.Time { return testNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		},
	}))
	return &browser{t: t, handler: r, reg: reg}
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rr := httptest.NewRecorder()
	b.handler.ServeHTTP(rr, req)
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.WorkspaceCookieName {
			b.cookie = c
		}
	}
	return rr
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.send(req)
}

func (b *browser) workspace() *workspace.Workspace {
	b.t.Helper()
	ws, ok := b.reg.Get(b.cookie.Value)
	if !ok {
		b.t.Fatalf("workspace %q not found", b.cookie.Value)
	}
	return ws
}

func (b *browser) signIn() {
	b.t.Helper()
	rr := b.post("/app/sign-in", url.Values{"email": {"jean@example.com"}, "password": {"pw"}})
	if rr.Code != http.StatusFound {
		b.t.Fatalf("sign in status %d", rr.Code)
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rr.Code != http.StatusFound {
		t.Fatalf("status %d, want redirect", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != want {
		t.Fatalf("Location = %q, want %q", got, want)
	}
}

func TestIndexShowsAuthScreenWithoutIdentity(t *testing.T) {
	b := newBrowser(t)

	rr := b.get("/app/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `action="/app/sign-in"`) {
		t.Fatalf("sign-in form missing")
	}

	rr = b.get("/app/?mode=signup")
	if !strings.Contains(rr.Body.String(), `action="/app/sign-up"`) {
		t.Fatalf("sign-up form missing")
	}
}

func TestSignInEmptyFieldsRendersError(t *testing.T) {
	b := newBrowser(t)
	rr := b.post("/app/sign-in", url.Values{"email": {"jean@example.com"}, "password": {""}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "mot de passe sont requis") {
		t.Fatalf("error message missing")
	}
	if b.workspace().Session.Active() {
		t.Fatalf("identity set after failed sign in")
	}
}

func TestSignInThenHome(t *testing.T) {
	b := newBrowser(t)
	rr := b.post("/app/sign-in", url.Values{"email": {"jean@example.com"}, "password": {"pw"}})
	assertRedirect(t, rr, "/app/?notice=signed_in")

	rr = b.get("/app/?notice=signed_in")
	body := rr.Body.String()
	for _, want := range []string{"Salut Jean !", "Bon retour parmi nous !", "Amis disponibles (3)", "Sorties prévues"} {
		if !strings.Contains(body, want) {
			t.Fatalf("home page missing %q", want)
		}
	}
	if !strings.Contains(body, `<span class="badge">2</span>`) {
		t.Fatalf("unread badge missing")
	}
}

func TestSignUpUsesSubmittedName(t *testing.T) {
	b := newBrowser(t)
	rr := b.post("/app/sign-up", url.Values{"name": {"Alice Durand"}, "email": {"alice@example.com"}, "password": {"pw"}})
	assertRedirect(t, rr, "/app/?notice=signed_up")
	if id, _ := b.workspace().Session.Current(); id.Name != "Alice Durand" {
		t.Fatalf("name = %q", id.Name)
	}
}

func TestShellActionsRequireIdentity(t *testing.T) {
	b := newBrowser(t)
	b.get("/app/")
	rr := b.post("/app/availability", nil)
	assertRedirect(t, rr, "/app/")
	if b.workspace().Social.Snapshot().Available {
		t.Fatalf("availability toggled while signed out")
	}
}

func TestNavigationSelectsView(t *testing.T) {
	b := newBrowser(t)
	b.signIn()

	tests := []struct {
		tag  string
		want viewrouter.View
		text string
	}{
		{"friends", viewrouter.ViewFriends, "Mes Amis"},
		{"events", viewrouter.ViewEvents, "Votes pour le lieu"},
		{"notifications", viewrouter.ViewNotifications, "Toutes les notifications"},
		{"profile", viewrouter.ViewProfile, "Mon Profil"},
		{"bogus", viewrouter.ViewHome, "Votre disponibilité"},
	}
	for _, tt := range tests {
		assertRedirect(t, b.post("/app/view", url.Values{"view": {tt.tag}}), "/app/")
		if got := b.workspace().Router.Current(); got != tt.want {
			t.Fatalf("view after %q = %q", tt.tag, got)
		}
		if body := b.get("/app/").Body.String(); !strings.Contains(body, tt.text) {
			t.Fatalf("view %q missing %q", tt.want, tt.text)
		}
	}
}

func TestAvailabilityToggle(t *testing.T) {
	b := newBrowser(t)
	b.signIn()

	assertRedirect(t, b.post("/app/availability", nil), "/app/?notice=available_on")
	if !b.workspace().Social.Snapshot().Available {
		t.Fatalf("expected available")
	}
	assertRedirect(t, b.post("/app/availability", nil), "/app/?notice=available_off")
	if b.workspace().Social.Snapshot().Available {
		t.Fatalf("expected unavailable")
	}
}

func TestFriendSearchAndAdd(t *testing.T) {
	b := newBrowser(t)
	b.signIn()
	b.post("/app/view", url.Values{"view": {"friends"}})

	b.post("/app/friends/search", url.Values{"q": {"sophie"}})
	body := b.get("/app/").Body.String()
	if !strings.Contains(body, "Sophie Laurent") || strings.Contains(body, "Pierre Durand") {
		t.Fatalf("search not applied")
	}

	assertRedirect(t, b.post("/app/friends", url.Values{"name": {""}}), "/app/?error=name_required")
	assertRedirect(t, b.post("/app/friends", url.Values{"name": {"Sophie Martin"}}), "/app/?notice=friend_added")

	friends := b.workspace().Social.Snapshot().Friends
	last := friends[len(friends)-1]
	if last.ID != "new-1" || last.Name != "Sophie Martin" || last.Available {
		t.Fatalf("added friend = %#v", last)
	}
}

func TestNotificationsMarkRead(t *testing.T) {
	b := newBrowser(t)
	b.signIn()
	b.post("/app/view", url.Values{"view": {"notifications"}})

	body := b.get("/app/").Body.String()
	for _, want := range []string{"Il y a 5 min", "Il y a 30 min", "Il y a 2h"} {
		if !strings.Contains(body, want) {
			t.Fatalf("notifications page missing %q", want)
		}
	}

	b.post("/app/notifications/read", url.Values{"id": {"1"}})
	snap := b.workspace().Social.Snapshot()
	if !snap.Notifications[0].Read || snap.Notifications[1].Read {
		t.Fatalf("read flags = %v %v", snap.Notifications[0].Read, snap.Notifications[1].Read)
	}

	assertRedirect(t, b.post("/app/notifications/read-all", nil), "/app/?notice=all_read")
	for _, n := range b.workspace().Social.Snapshot().Notifications {
		if !n.Read {
			t.Fatalf("notification %s still unread", n.ID)
		}
	}
}

func TestCreateEvent(t *testing.T) {
	b := newBrowser(t)
	b.signIn()

	assertRedirect(t, b.post("/app/events", url.Values{"title": {"Karaoké"}}), "/app/?error=event_fields_required")
	assertRedirect(t, b.post("/app/events", url.Values{
		"title":    {"Karaoké"},
		"location": {"Le Micro"},
		"time":     {"22:00"},
	}), "/app/?notice=event_created")

	events := b.workspace().Social.Snapshot().Events
	if len(events) != 3 {
		t.Fatalf("events = %d", len(events))
	}
	e := events[2]
	if e.Organizer != "Jean Dupont" || len(e.Participants) != 1 || e.Participants[0] != "Jean Dupont" {
		t.Fatalf("created event = %#v", e)
	}
	if n, ok := e.Votes.Count("Le Micro"); !ok || n != 1 {
		t.Fatalf("initial vote = %d, %v", n, ok)
	}
}

func TestProfileUpdateAndSignOut(t *testing.T) {
	b := newBrowser(t)
	b.signIn()

	assertRedirect(t, b.post("/app/profile", url.Values{"name": {" "}}), "/app/?error=name_required")
	assertRedirect(t, b.post("/app/profile", url.Values{"name": {"Jean D."}, "bio": {"Cinéphile"}}), "/app/?notice=profile_saved")
	id, _ := b.workspace().Session.Current()
	if id.Name != "Jean D." || id.Bio != "Cinéphile" || id.Email != "jean@example.com" {
		t.Fatalf("identity = %#v", id)
	}

	assertRedirect(t, b.post("/app/sign-out", nil), "/app/?notice=signed_out")
	if b.workspace().Session.Active() {
		t.Fatalf("still signed in")
	}
}

func TestStaticAssets(t *testing.T) {
	b := newBrowser(t)
	rr := b.get("/app/static/app.css")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), ".topbar") {
		t.Fatalf("app.css: %d", rr.Code)
	}
	if rr := b.get("/app/static/live.js"); rr.Code != http.StatusOK {
		t.Fatalf("live.js: %d", rr.Code)
	}
}

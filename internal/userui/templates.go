package userui

import (
	"fmt"
	"html/template"
	"net/http"

	"DispoCeSoir/internal/domain"
)

type templates struct {
	auth          *template.Template
	home          *template.Template
	friends       *template.Template
	events        *template.Template
	notifications *template.Template
	profile       *template.Template
	errorT        *template.Template
}

type viewData struct {
	Title  string
	Error  string
	Notice string
}

type authViewData struct {
	Title  string
	SignUp bool
	Name   string
	Email  string
	Error  string
	Notice string
}

type navLink struct {
	View   string
	Label  string
	Active bool
	Badge  int
}

// shellViewData feeds layout.html and every shell page. Each page reads the
// fields it needs.
type shellViewData struct {
	Title     string
	Identity  domain.Identity
	FirstName string
	Nav       []navLink
	Error     string
	Notice    string

	Available bool

	AvailableFriends []domain.Friend
	Upcoming         []eventCard

	Query          string
	Friends        []domain.Friend
	FriendsTotal   int
	FriendsFree    int
	FriendsOnline  int
	Notifications  []notificationRow
	Unread         int
	FriendRequests int
	AvailUpdates   int
	EventInvites   int

	Events []eventCard
}

type notificationRow struct {
	ID      string
	Kind    string
	Icon    string
	Message string
	When    string
	Read    bool
}

type eventCard struct {
	ID           string
	Title        string
	Location     string
	Time         string
	Organizer    string
	Participants int
	Initials     []string
	MoreCount    int
	Votes        []voteRow
}

type voteRow struct {
	Location string
	Count    int
	Width    int
	Percent  int
	Leader   bool
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		t, err := template.New("base").ParseFS(assets, files...)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	shell := func(page string) (*template.Template, error) {
		t, err := parse("templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		return t, nil
	}

	authT, err := parse("templates/auth.html")
	if err != nil {
		return nil, fmt.Errorf("parse auth: %w", err)
	}
	errorT, err := parse("templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	out := &templates{auth: authT, errorT: errorT}
	for page, dst := range map[string]**template.Template{
		"home.html":          &out.home,
		"friends.html":       &out.friends,
		"events.html":        &out.events,
		"notifications.html": &out.notifications,
		"profile.html":       &out.profile,
	} {
		t, err := shell(page)
		if err != nil {
			return nil, err
		}
		*dst = t
	}
	return out, nil
}

func render(w http.ResponseWriter, t *template.Template, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, name, data)
}

func (t *templates) renderAuth(w http.ResponseWriter, status int, data any) {
	render(w, t.auth, "auth.html", status, data)
}

func (t *templates) renderHome(w http.ResponseWriter, status int, data any) {
	render(w, t.home, "home.html", status, data)
}

func (t *templates) renderFriends(w http.ResponseWriter, status int, data any) {
	render(w, t.friends, "friends.html", status, data)
}

func (t *templates) renderEvents(w http.ResponseWriter, status int, data any) {
	render(w, t.events, "events.html", status, data)
}

func (t *templates) renderNotifications(w http.ResponseWriter, status int, data any) {
	render(w, t.notifications, "notifications.html", status, data)
}

func (t *templates) renderProfile(w http.ResponseWriter, status int, data any) {
	render(w, t.profile, "profile.html", status, data)
}

func (t *templates) renderErrorPage(w http.ResponseWriter, status int, data any) {
	render(w, t.errorT, "error.html", status, data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, title, msg string) {
	t.renderErrorPage(w, status, viewData{Title: title, Error: msg})
}

// Package viewrouter selects what a visitor sees: the sign-in flow when no
// identity is active, otherwise the shell showing the current view.
package viewrouter

import "sync"

type Screen int

const (
	ScreenAuth Screen = iota
	ScreenShell
)

func (s Screen) String() string {
	switch s {
	case ScreenShell:
		return "shell"
	default:
		return "auth"
	}
}

func Gate(hasIdentity bool) Screen {
	if hasIdentity {
		return ScreenShell
	}
	return ScreenAuth
}

type View string

const (
	ViewHome          View = "home"
	ViewFriends       View = "friends"
	ViewEvents        View = "events"
	ViewNotifications View = "notifications"
	ViewProfile       View = "profile"
)

// ParseView maps anything outside the closed set to ViewHome.
func ParseView(tag string) View {
	switch v := View(tag); v {
	case ViewHome, ViewFriends, ViewEvents, ViewNotifications, ViewProfile:
		return v
	default:
		return ViewHome
	}
}

type NavItem struct {
	View  View
	Label string
}

// Views lists the shell views in navigation order.
func Views() []NavItem {
	return []NavItem{
		{View: ViewHome, Label: "Accueil"},
		{View: ViewFriends, Label: "Amis"},
		{View: ViewEvents, Label: "Sorties"},
		{View: ViewNotifications, Label: "Notifications"},
		{View: ViewProfile, Label: "Profil"},
	}
}

// Router holds the current shell view. The zero value shows ViewHome.
type Router struct {
	mu      sync.RWMutex
	current View
}

func (r *Router) Current() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == "" {
		return ViewHome
	}
	return r.current
}

// Select switches to tag and returns the view actually selected.
func (r *Router) Select(tag string) View {
	v := ParseView(tag)
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
	return v
}

type Route struct {
	Screen Screen
	View   View
}

// SessionState is the part of the session store the gate reads.
type SessionState interface {
	Active() bool
}

func Resolve(sess SessionState, r *Router) Route {
	if sess == nil || r == nil {
		panic("viewrouter: Resolve needs a session and a router")
	}
	screen := Gate(sess.Active())
	if screen == ScreenAuth {
		return Route{Screen: ScreenAuth}
	}
	return Route{Screen: ScreenShell, View: r.Current()}
}

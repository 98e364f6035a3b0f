package userui

import (
	"net/http"
	"net/url"
	"strings"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/social"
	"DispoCeSoir/internal/viewrouter"
	"DispoCeSoir/internal/workspace"
)

const (
	appTitle           = "DispoCeSoir"
	upcomingOnHome     = 2
	newFriendLastSeen  = "Invitation envoyée"
	newEventFirstVotes = 1
)

func (a *app) handleIndex(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	q := r.URL.Query()
	notice := mapNoticeCode(strings.TrimSpace(q.Get("notice")))
	errMsg := mapErrorCode(strings.TrimSpace(q.Get("error")))

	route := ws.Route()
	if route.Screen == viewrouter.ScreenAuth {
		a.templates.renderAuth(w, http.StatusOK, authViewData{
			Title:  appTitle,
			SignUp: q.Get("mode") == "signup",
			Error:  errMsg,
			Notice: notice,
		})
		return
	}

	data := a.shellData(ws, route.View)
	data.Notice = notice
	data.Error = errMsg

	switch route.View {
	case viewrouter.ViewFriends:
		a.templates.renderFriends(w, http.StatusOK, data)
	case viewrouter.ViewEvents:
		a.templates.renderEvents(w, http.StatusOK, data)
	case viewrouter.ViewNotifications:
		a.templates.renderNotifications(w, http.StatusOK, data)
	case viewrouter.ViewProfile:
		a.templates.renderProfile(w, http.StatusOK, data)
	default:
		a.templates.renderHome(w, http.StatusOK, data)
	}
}

func (a *app) shellData(ws *workspace.Workspace, current viewrouter.View) shellViewData {
	id, _ := ws.Session.Current()
	snap := ws.Social.Snapshot()
	unread := social.CountUnread(snap.Notifications)

	data := shellViewData{
		Title:     appTitle,
		Identity:  id,
		FirstName: firstName(id.Name),
		Available: snap.Available,
		Unread:    unread,
	}
	for _, item := range viewrouter.Views() {
		link := navLink{View: string(item.View), Label: item.Label, Active: item.View == current}
		if item.View == viewrouter.ViewNotifications {
			link.Badge = unread
		}
		data.Nav = append(data.Nav, link)
	}

	switch current {
	case viewrouter.ViewFriends:
		data.Query = snap.SearchQuery
		data.Friends = snap.FilteredFriends()
		data.FriendsTotal = len(snap.Friends)
		data.FriendsFree = social.CountAvailable(snap.Friends)
		data.FriendsOnline = social.CountOnline(snap.Friends)
	case viewrouter.ViewEvents:
		data.Events = toEventCards(snap.Events)
	case viewrouter.ViewNotifications:
		data.Notifications = toNotificationRows(a.now(), snap.Notifications)
		data.FriendRequests = social.CountByKind(snap.Notifications, domain.NotificationFriendRequest)
		data.AvailUpdates = social.CountByKind(snap.Notifications, domain.NotificationAvailability)
		data.EventInvites = social.CountByKind(snap.Notifications, domain.NotificationEventInvite)
	case viewrouter.ViewProfile:
		data.FriendsTotal = len(snap.Friends)
		data.Events = toEventCards(snap.Events)
	default:
		data.AvailableFriends = social.AvailableFriends(snap.Friends)
		data.Upcoming = toEventCards(social.UpcomingEvents(snap.Events, upcomingOnHome))
	}
	return data
}

func (a *app) handleSignInPost(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		a.templates.renderAuth(w, http.StatusBadRequest, authViewData{Title: appTitle, Error: mapErrorCode("invalid_form")})
		return
	}

	email := r.FormValue("email")
	ok, err := ws.Session.SignIn(r.Context(), email, r.FormValue("password"))
	if err != nil {
		a.logger.Error("userui: sign in failed", "err", err, "workspace_id", ws.ID)
		a.templates.renderAuth(w, http.StatusInternalServerError, authViewData{Title: appTitle, Email: email, Error: mapErrorCode("auth_failed")})
		return
	}
	if !ok {
		a.templates.renderAuth(w, http.StatusBadRequest, authViewData{Title: appTitle, Email: email, Error: mapErrorCode("credentials_required")})
		return
	}
	redirectHome(w, r, "signed_in", "")
}

func (a *app) handleSignUpPost(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		a.templates.renderAuth(w, http.StatusBadRequest, authViewData{Title: appTitle, SignUp: true, Error: mapErrorCode("invalid_form")})
		return
	}

	name := r.FormValue("name")
	email := r.FormValue("email")
	ok, err := ws.Session.SignUp(r.Context(), name, email, r.FormValue("password"))
	if err != nil {
		a.logger.Error("userui: sign up failed", "err", err, "workspace_id", ws.ID)
		a.templates.renderAuth(w, http.StatusInternalServerError, authViewData{Title: appTitle, SignUp: true, Name: name, Email: email, Error: mapErrorCode("auth_failed")})
		return
	}
	if !ok {
		a.templates.renderAuth(w, http.StatusBadRequest, authViewData{Title: appTitle, SignUp: true, Name: name, Email: email, Error: mapErrorCode("signup_fields_required")})
		return
	}
	redirectHome(w, r, "signed_up", "")
}

func (a *app) handleSignOutPost(w http.ResponseWriter, r *http.Request) {
	workspace.MustFromContext(r.Context()).Session.SignOut()
	redirectHome(w, r, "signed_out", "")
}

func (a *app) handleViewPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}
	workspace.MustFromContext(r.Context()).Router.Select(r.FormValue("view"))
	redirectHome(w, r, "", "")
}

func (a *app) handleAvailabilityPost(w http.ResponseWriter, r *http.Request) {
	if workspace.MustFromContext(r.Context()).Social.ToggleAvailability() {
		redirectHome(w, r, "available_on", "")
		return
	}
	redirectHome(w, r, "available_off", "")
}

func (a *app) handleFriendSearchPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}
	workspace.MustFromContext(r.Context()).Social.SetSearchQuery(r.FormValue("q"))
	redirectHome(w, r, "", "")
}

func (a *app) handleFriendAddPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		redirectHome(w, r, "", "name_required")
		return
	}
	workspace.MustFromContext(r.Context()).Social.AddFriend(domain.Friend{
		ID:       a.newID(),
		Name:     name,
		LastSeen: newFriendLastSeen,
	})
	redirectHome(w, r, "friend_added", "")
}

func (a *app) handleNotificationReadPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}
	workspace.MustFromContext(r.Context()).Social.MarkNotificationRead(r.FormValue("id"))
	redirectHome(w, r, "", "")
}

func (a *app) handleNotificationsReadAllPost(w http.ResponseWriter, r *http.Request) {
	workspace.MustFromContext(r.Context()).Social.MarkAllNotificationsRead()
	redirectHome(w, r, "all_read", "")
}

// handleEventCreatePost seeds the new outing with its organizer as the only
// participant and one vote for the proposed location.
func (a *app) handleEventCreatePost(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	location := strings.TrimSpace(r.FormValue("location"))
	at := strings.TrimSpace(r.FormValue("time"))
	if title == "" || location == "" || at == "" {
		redirectHome(w, r, "", "event_fields_required")
		return
	}

	id, _ := ws.Session.Current()
	ws.Social.CreateEvent(domain.EventDraft{
		Title:        title,
		Location:     location,
		Time:         at,
		Organizer:    id.Name,
		Participants: []string{id.Name},
		Votes:        domain.Votes{}.Set(location, newEventFirstVotes),
	})
	redirectHome(w, r, "event_created", "")
}

func (a *app) handleProfilePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectHome(w, r, "", "invalid_form")
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		redirectHome(w, r, "", "name_required")
		return
	}
	bio := strings.TrimSpace(r.FormValue("bio"))
	workspace.MustFromContext(r.Context()).Session.UpdateProfile(domain.IdentityPatch{Name: &name, Bio: &bio})
	redirectHome(w, r, "profile_saved", "")
}

func redirectHome(w http.ResponseWriter, r *http.Request, notice, errCode string) {
	values := url.Values{}
	if notice != "" {
		values.Set("notice", notice)
	}
	if errCode != "" {
		values.Set("error", errCode)
	}

	target := "/app/"
	if len(values) > 0 {
		target = target + "?" + values.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func mapNoticeCode(code string) string {
	switch code {
	case "signed_in":
		return "Bon retour parmi nous !"
	case "signed_up":
		return "Bienvenue sur DispoCeSoir !"
	case "signed_out":
		return "À bientôt !"
	case "available_on":
		return "Vos amis voient que vous êtes libre ce soir."
	case "available_off":
		return "Vous n'êtes plus affiché comme disponible."
	case "friend_added":
		return "Ami ajouté."
	case "all_read":
		return "Toutes les notifications sont lues."
	case "event_created":
		return "Sortie créée."
	case "profile_saved":
		return "Profil mis à jour."
	default:
		return ""
	}
}

func mapErrorCode(code string) string {
	switch code {
	case "invalid_form":
		return "Formulaire invalide."
	case "credentials_required":
		return "L'email et le mot de passe sont requis."
	case "signup_fields_required":
		return "Le nom, l'email et le mot de passe sont requis."
	case "auth_failed":
		return "Connexion impossible pour le moment."
	case "name_required":
		return "Le nom est requis."
	case "event_fields_required":
		return "Le titre, le lieu et l'heure sont requis."
	default:
		return ""
	}
}

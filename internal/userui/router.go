package userui

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"DispoCeSoir/internal/workspace"
)

type Opts struct {
	Logger *slog.Logger

	Now   func() time.Time
	NewID func() string
}

// New returns the HTML screens. Routes are relative: mount the handler at
// /app behind workspace.Binder.
func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	app := &app{
		logger: logger,
		now:    opts.Now,
		newID:  opts.NewID,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("userui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("userui: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/app/static/", http.FileServer(http.FS(staticFS)))

	r := chi.NewRouter()
	r.Get("/", app.handleIndex)
	r.Post("/sign-in", app.handleSignInPost)
	r.Post("/sign-up", app.handleSignUpPost)
	r.Post("/sign-out", app.handleSignOutPost)
	r.Handle("/static/*", static)

	r.Group(func(r chi.Router) {
		r.Use(app.requireIdentity)
		r.Post("/view", app.handleViewPost)
		r.Post("/availability", app.handleAvailabilityPost)
		r.Post("/friends/search", app.handleFriendSearchPost)
		r.Post("/friends", app.handleFriendAddPost)
		r.Post("/notifications/read", app.handleNotificationReadPost)
		r.Post("/notifications/read-all", app.handleNotificationsReadAllPost)
		r.Post("/events", app.handleEventCreatePost)
		r.Post("/profile", app.handleProfilePost)
	})

	return r
}

type app struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	templates *templates
}

func (a *app) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !workspace.MustFromContext(r.Context()).Session.Active() {
			http.Redirect(w, r, "/app/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

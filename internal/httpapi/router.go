package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"DispoCeSoir/internal/workspace"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	Binder *workspace.Binder

	// UI is mounted at /app when set.
	UI http.Handler

	Now   func() time.Time
	NewID func() string
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Binder == nil {
		panic("httpapi: router needs a workspace binder")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	api := &api{
		logger:   logger,
		isProd:   opts.IsProd,
		binder:   opts.Binder,
		now:      opts.Now,
		newID:    opts.NewID,
		limiter:  newAttemptLimiter(),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}

	r := chi.NewRouter()
	r.Use(Recoverer(logger, opts.IsProd))
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", api.handleHealthz)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/app/", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(opts.Binder.Middleware)

		r.Route("/v1", func(r chi.Router) {
			r.Get("/session", api.handleSessionGet)
			r.Post("/session/sign-in", api.handleSignIn)
			r.Post("/session/sign-up", api.handleSignUp)
			r.Delete("/workspace", api.handleWorkspaceReset)
			r.Get("/live", api.handleLive)

			r.Group(func(r chi.Router) {
				r.Use(requireIdentity)

				r.Post("/session/sign-out", api.handleSignOut)
				r.Patch("/session/profile", api.handleProfileUpdate)

				r.Get("/social", api.handleSocialSummary)
				r.Put("/availability", api.handleAvailabilitySet)

				r.Get("/friends", api.handleFriendsList)
				r.Post("/friends", api.handleFriendsAdd)
				r.Put("/friends", api.handleFriendsReplace)
				r.Put("/friends/search", api.handleFriendsSearch)

				r.Get("/notifications", api.handleNotificationsList)
				r.Post("/notifications/read-all", api.handleNotificationsReadAll)
				r.Post("/notifications/{id}/read", api.handleNotificationRead)

				r.Get("/events", api.handleEventsList)
				r.Post("/events", api.handleEventsCreate)

				r.Get("/view", api.handleViewGet)
				r.Put("/view", api.handleViewSelect)
			})
		})

		if opts.UI != nil {
			r.Mount("/app", opts.UI)
		}
	})

	return r
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

type api struct {
	logger *slog.Logger
	isProd bool

	binder *workspace.Binder
	now    func() time.Time
	newID  func() string

	limiter  *attemptLimiter
	upgrader websocket.Upgrader
}

func (a *api) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

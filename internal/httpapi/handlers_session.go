package httpapi

import (
	"net/http"
	"strings"

	"DispoCeSoir/internal/auth"
	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/workspace"
)

type sessionResponse struct {
	Identity *domain.Identity `json:"identity"`
	Screen   string           `json:"screen"`
	View     string           `json:"view,omitempty"`
}

func writeSession(w http.ResponseWriter, status int, ws *workspace.Workspace) {
	route := ws.Route()
	resp := sessionResponse{Screen: route.Screen.String(), View: string(route.View)}
	if id, ok := ws.Session.Current(); ok {
		resp.Identity = &id
	}
	WriteJSON(w, status, resp)
}

func (a *api) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	writeSession(w, http.StatusOK, workspace.MustFromContext(r.Context()))
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if !a.allowAttempt(r, req.Email) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	ok, err := ws.Session.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		a.logger.Error("sign in failed", "err", err, "workspace_id", ws.ID)
		WriteDomainError(w, err)
		return
	}
	if !ok {
		WriteDomainError(w, domain.NewValidationError(requiredFields(map[string]string{
			"email":    req.Email,
			"password": req.Password,
		})))
		return
	}
	writeSession(w, http.StatusOK, ws)
}

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if !a.allowAttempt(r, req.Email) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	ok, err := ws.Session.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		a.logger.Error("sign up failed", "err", err, "workspace_id", ws.ID)
		WriteDomainError(w, err)
		return
	}
	if !ok {
		WriteDomainError(w, domain.NewValidationError(requiredFields(map[string]string{
			"name":     req.Name,
			"email":    req.Email,
			"password": req.Password,
		})))
		return
	}
	writeSession(w, http.StatusCreated, ws)
}

func (a *api) handleSignOut(w http.ResponseWriter, r *http.Request) {
	workspace.MustFromContext(r.Context()).Session.SignOut()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())

	var patch domain.IdentityPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"name": "must not be blank"}))
		return
	}

	ws.Session.UpdateProfile(patch)
	id, ok := ws.Session.Current()
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	WriteJSON(w, http.StatusOK, id)
}

// handleWorkspaceReset throws the visitor's workspace away; the next request
// starts from freshly seeded data.
func (a *api) handleWorkspaceReset(w http.ResponseWriter, r *http.Request) {
	ws := workspace.MustFromContext(r.Context())
	a.binder.Registry.Remove(ws.ID)
	auth.ClearWorkspaceCookie(w, a.binder.CookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) allowAttempt(r *http.Request, email string) bool {
	now := a.now()
	if !a.limiter.Allow("ip:"+clientIP(r), now) {
		return false
	}
	if email == "" {
		return true
	}
	return a.limiter.Allow("email:"+strings.ToLower(email), now)
}

func requiredFields(values map[string]string) map[string]string {
	fields := map[string]string{}
	for k, v := range values {
		if v == "" {
			fields[k] = "required"
		}
	}
	return fields
}

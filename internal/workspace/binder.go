package workspace

import (
	"context"
	"net/http"

	"DispoCeSoir/internal/auth"
)

type ctxKey int

const workspaceKey ctxKey = iota

func WithContext(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey, ws)
}

func FromContext(ctx context.Context) (*Workspace, bool) {
	ws, ok := ctx.Value(workspaceKey).(*Workspace)
	return ws, ok && ws != nil
}

// MustFromContext panics when the request did not pass through Binder.
func MustFromContext(ctx context.Context) *Workspace {
	ws, ok := FromContext(ctx)
	if !ok {
		panic("workspace: request context has no workspace")
	}
	return ws
}

// Binder ties the workspace cookie to the registry.
type Binder struct {
	Registry     *Registry
	Codec        auth.CookieCodec
	CookieSecure bool
}

func (b *Binder) Lookup(r *http.Request) (*Workspace, bool) {
	c, err := r.Cookie(auth.WorkspaceCookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	id, ok := b.Codec.Decode(c.Value)
	if !ok {
		return nil, false
	}
	return b.Registry.Get(id)
}

// Bind returns the visitor's workspace, creating one when the cookie is
// missing, forged or expired. The cookie is refreshed on every call.
func (b *Binder) Bind(w http.ResponseWriter, r *http.Request) *Workspace {
	ws, ok := b.Lookup(r)
	if !ok {
		ws = b.Registry.Create()
	}
	auth.SetWorkspaceCookie(w, b.Codec.Encode(ws.ID), b.Registry.TTL(), b.CookieSecure)
	return ws
}

func (b *Binder) Middleware(next http.Handler) http.Handler {
	if b == nil || b.Registry == nil {
		panic("workspace: binder without registry")
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := b.Bind(w, r)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), ws)))
	})
}

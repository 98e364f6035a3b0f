package httpapi

import (
	"net"
	"net/http"
	"strings"

	"DispoCeSoir/internal/domain"
	"DispoCeSoir/internal/workspace"
)

// requireIdentity rejects requests whose workspace has no signed-in identity.
func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := workspace.MustFromContext(r.Context())
		if !ws.Session.Active() {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

package iam

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

// Authorize reports whether session holds every required permission. No
// requirement means allowed.
func Authorize(required []domain.Permission, session domain.SessionData) bool {
	return session.HasAll(required)
}

// PermissionGuard enforces a route's permissions on the session attached by
// AccessGuard. It must run after it.
func PermissionGuard(route Route) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if route.Public || len(route.Permissions) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !Authorize(route.Permissions, session) {
				slogx.FromContext(r.Context()).Info("permission denied",
					slog.Any("required", route.Permissions),
					slog.String("role", session.Role))
				httpx.WriteError(w, http.StatusForbidden, "Forbidden resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

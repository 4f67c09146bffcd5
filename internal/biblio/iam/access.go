package iam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/jwtx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

var (
	ErrMissingToken   = errors.New("iam: missing access token")
	ErrInvalidToken   = errors.New("iam: invalid access token")
	ErrSessionExpired = errors.New("iam: no session data")
)

// AccessGuard authenticates requests from the accessToken cookie. The token
// alone is not enough: the session data cached at sign-in must still exist.
type AccessGuard struct {
	Tokens jwtx.Verifier
	Cache  cache.Cache
}

// Authenticate resolves an access token to its session data.
func (g *AccessGuard) Authenticate(ctx context.Context, token string) (domain.SessionData, error) {
	if token == "" {
		return domain.SessionData{}, ErrMissingToken
	}

	claims, err := g.Tokens.Verify(token)
	if err != nil {
		return domain.SessionData{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	// Refresh tokens verify with the same key but never authenticate.
	if claims.RefreshTokenID != "" {
		return domain.SessionData{}, fmt.Errorf("%w: refresh token presented", ErrInvalidToken)
	}

	raw, err := g.Cache.Get(ctx, cache.UserDataKey(claims.Subject))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return domain.SessionData{}, ErrSessionExpired
		}
		return domain.SessionData{}, err
	}

	var session domain.SessionData
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return domain.SessionData{}, fmt.Errorf("%w: corrupt session data: %w", ErrSessionExpired, err)
	}
	if session.ID != claims.Subject {
		return domain.SessionData{}, fmt.Errorf("%w: session belongs to another user", ErrSessionExpired)
	}
	return session, nil
}

// Middleware guards a single route. Public routes pass untouched.
func (g *AccessGuard) Middleware(route Route) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if route.Public {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := g.Authenticate(ctx, httpx.CookieValue(r, AccessTokenCookie))
			if err != nil {
				if !errors.Is(err, ErrMissingToken) {
					slogx.FromContext(ctx).Warn("access denied", slog.Any("error", err))
				}
				httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx = WithSession(ctx, session)
			ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With(slog.String("user_id", session.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package iam

import (
	"context"

	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s domain.SessionData) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session attached by AccessGuard.
func SessionFromContext(ctx context.Context) (domain.SessionData, bool) {
	s, ok := ctx.Value(ctxKey{}).(domain.SessionData)
	return s, ok
}

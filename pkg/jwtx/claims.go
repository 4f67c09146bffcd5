package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes, in line with the JWT_ACCESS_TOKEN_TTL and
// JWT_REFRESH_TOKEN_TTL defaults.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 24 * time.Hour
)

// Claims carried by both token kinds. Access tokens set Email, refresh
// tokens set RefreshTokenID; the other field stays empty and is omitted.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user (access tokens).
	Email string `json:"email,omitempty"`

	// RefreshTokenID mirrors the single-use id held in the session cache
	// (refresh tokens).
	RefreshTokenID string `json:"refreshTokenId,omitempty"`
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateAudience checks if at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil // nothing to enforce
	}

	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}

	return ErrAudience
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before nbf, relative to now.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateRequired makes sure the claims every token must carry are there.
func (c *Claims) ValidateRequired() error {
	if c.Subject == "" || c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	return nil
}

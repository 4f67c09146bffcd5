package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Config is the shared-secret configuration for HS256 tokens.
type HS256Config struct {
	Secret   []byte
	Issuer   string
	Audience string

	// Now overrides the clock, mostly for tests. Defaults to time.Now.
	Now func() time.Time
}

// HS256 signs and verifies tokens with a single shared secret.
type HS256 struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

var _ Codec = (*HS256)(nil)

// NewHS256 creates an HS256 codec. The secret must not be empty.
func NewHS256(cfg HS256Config) (*HS256, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrInvalidKey
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &HS256{
		secret:   cfg.Secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      now,
	}, nil
}

func (h *HS256) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign stamps the registered claims and signs the token.
func (h *HS256) Sign(claims Claims, ttl time.Duration) (string, error) {
	if claims.Subject == "" || ttl <= 0 {
		return "", ErrInvalidClaim
	}

	now := h.now().UTC().Truncate(time.Second)
	claims.Issuer = h.issuer
	if h.audience != "" {
		claims.Audience = jwt.ClaimStrings{h.audience}
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = NewJTI()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Verify checks the signature, then the time window, issuer and audience.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return h.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	// Now check all the claim requirements
	if err := claims.ValidateRequired(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(h.now().UTC()); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	if h.audience != "" {
		if err := claims.ValidateAudience([]string{h.audience}); err != nil {
			return Claims{}, err
		}
	}

	return *claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// golang-jwt also reports a disallowed alg as a signature failure.
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

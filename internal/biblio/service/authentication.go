package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/cache"
	"github.com/aussiebroadwan/biblio/internal/biblio/domain"
	"github.com/aussiebroadwan/biblio/internal/biblio/store"
	"github.com/aussiebroadwan/biblio/pkg/cryptox"
	"github.com/aussiebroadwan/biblio/pkg/idx"
	"github.com/aussiebroadwan/biblio/pkg/jwtx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
	"github.com/google/uuid"
)

// AuthenticationService issues and rotates tokens. It is the only writer of
// session cache entries.
type AuthenticationService struct {
	Store      store.Store
	Cache      cache.Cache
	Hasher     cryptox.PasswordHasher
	Tokens     jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	dummyMu   sync.Mutex
	dummyHash string
}

type SignUpInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
}

// SignUp creates a user without a company or role.
func (s *AuthenticationService) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	hash, err := hashPassword(s.Hasher, in.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, newError(ErrConflict, "User already exists")
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user signed up", slog.String("user_id", user.ID))
	return user, nil
}

// SignIn checks the credentials and issues a token pair. An unknown email
// and a wrong password fail the same way.
func (s *AuthenticationService) SignIn(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Spend the same hashing time as a real comparison.
		_ = s.Hasher.Compare(password, s.fallbackHash(ctx))
		l.Info("sign-in failed", slog.String("reason", "unknown email"))
		return nil, newError(ErrInvalidCredentials, msgInvalidCredentials)
	}

	if err := s.Hasher.Compare(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("error", err))
		}
		l.Info("sign-in failed", slog.String("reason", "password mismatch"), slog.String("user_id", user.ID))
		return nil, newError(ErrInvalidCredentials, msgInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, err
	}

	l.Info("user signed in", slog.String("user_id", user.ID))
	return pair, nil
}

// RefreshTokens rotates a refresh token: verify, look up the user, check the
// cached id, consume it, then issue a new pair. Every failure is logged and
// reported as ErrInvalidRefreshToken.
func (s *AuthenticationService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	pair, userID, err := s.rotate(ctx, refreshToken)
	if err != nil {
		l.Warn("refresh token rejected", slog.String("user_id", userID), slog.Any("error", err))
		return nil, newError(ErrInvalidRefreshToken, msgInvalidRefreshToken)
	}

	l.Info("tokens refreshed", slog.String("user_id", userID))
	return pair, nil
}

func (s *AuthenticationService) rotate(ctx context.Context, refreshToken string) (*domain.TokenPair, string, error) {
	claims, err := s.Tokens.Verify(refreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("verify: %w", err)
	}
	if claims.Subject == "" || claims.RefreshTokenID == "" {
		return nil, claims.Subject, errors.New("missing sub or refreshTokenId claim")
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, claims.Subject, fmt.Errorf("lookup user: %w", err)
	}

	key := cache.RefreshTokenIDKey(user.ID)
	current, err := s.Cache.Get(ctx, key)
	if err != nil {
		return nil, user.ID, fmt.Errorf("read refresh token id: %w", err)
	}
	if current != claims.RefreshTokenID {
		return nil, user.ID, fmt.Errorf("refresh token id mismatch (got %s)", cryptox.FingerprintToken(claims.RefreshTokenID))
	}

	// Consume before issuing; only one concurrent caller can win this.
	deleted, err := s.Cache.DeleteIfEquals(ctx, key, claims.RefreshTokenID)
	if err != nil {
		return nil, user.ID, fmt.Errorf("consume refresh token id: %w", err)
	}
	if !deleted {
		return nil, user.ID, errors.New("refresh token id already consumed")
	}

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, user.ID, err
	}
	return pair, user.ID, nil
}

// SignOut drops the user's session data and refresh token id, which revokes
// every outstanding token of theirs.
func (s *AuthenticationService) SignOut(ctx context.Context, userID string) error {
	if err := s.Cache.Delete(ctx, cache.UserDataKey(userID), cache.RefreshTokenIDKey(userID)); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user signed out", slog.String("user_id", userID))
	return nil
}

func (s *AuthenticationService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.generateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// generateAccessToken signs {sub, email} and caches the session data until
// the token expires.
func (s *AuthenticationService) generateAccessToken(ctx context.Context, user *domain.User) (string, error) {
	claims := jwtx.Claims{Email: user.Email}
	claims.Subject = user.ID

	token, ttl, err := s.sign(claims, s.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	data, err := json.Marshal(domain.NewSessionData(user))
	if err != nil {
		return "", fmt.Errorf("encode session data: %w", err)
	}
	if err := s.Cache.Set(ctx, cache.UserDataKey(user.ID), string(data), ttl); err != nil {
		return "", fmt.Errorf("store session data: %w", err)
	}

	return token, nil
}

// generateRefreshToken signs {sub, refreshTokenId} with a fresh id and
// records that id as the only valid one for the user.
func (s *AuthenticationService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	refreshTokenID := uuid.NewString()

	claims := jwtx.Claims{RefreshTokenID: refreshTokenID}
	claims.Subject = user.ID

	token, ttl, err := s.sign(claims, s.RefreshTTL)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.Cache.Set(ctx, cache.RefreshTokenIDKey(user.ID), refreshTokenID, ttl); err != nil {
		return "", fmt.Errorf("store refresh token id: %w", err)
	}

	return token, nil
}

// fallbackHash is compared against when the email is unknown. A failed
// attempt is logged and retried on the next call.
func (s *AuthenticationService) fallbackHash(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		hash, err := s.Hasher.Hash(idx.New().String())
		if err != nil {
			slogx.FromContext(ctx).Error("failed to compute fallback password hash", slog.Any("error", err))
			return ""
		}
		s.dummyHash = hash
	}
	return s.dummyHash
}

// sign issues a token and returns the time left until its exp. The exp claim
// has whole second precision, so this can be just under ttl; cache entries
// written alongside the token use it to never outlive the token.
func (s *AuthenticationService) sign(claims jwtx.Claims, ttl time.Duration) (string, time.Duration, error) {
	token, err := s.Tokens.Sign(claims, ttl)
	if err != nil {
		return "", 0, err
	}
	issued, err := s.Tokens.Verify(token)
	if err != nil {
		return "", 0, fmt.Errorf("read back issued token: %w", err)
	}

	remaining := min(ttl, time.Until(issued.ExpiresAt.Time))
	if remaining <= 0 {
		return "", 0, errors.New("token expired on issue")
	}
	return token, remaining, nil
}

// hashPassword reports a password the hasher cannot take as a bad request.
func hashPassword(h cryptox.PasswordHasher, password string) (string, error) {
	hash, err := h.Hash(password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return "", newError(ErrBadRequest, msgPasswordTooLong)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

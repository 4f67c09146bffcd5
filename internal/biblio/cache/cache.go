// Package cache holds the session cache: derived session data and the
// single-use refresh token ids, each with a per-key TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrUnavailable wraps transport failures talking to the backend.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Cache is the key/value capability the authentication engine and the
// access guard consume. Every operation is atomic per key.
type Cache interface {
	// Get returns the value at key or ErrMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set overwrites key with value, expiring after ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeleteIfEquals removes key only if it currently holds expected, as a
	// single atomic step. It reports whether the key was removed.
	DeleteIfEquals(ctx context.Context, key, expected string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// UserDataKey is where a user's session data lives.
func UserDataKey(userID string) string {
	return "user:" + userID + ":userData"
}

// RefreshTokenIDKey is where a user's current refresh token id lives.
func RefreshTokenIDKey(userID string) string {
	return "user:" + userID + ":refreshTokenId"
}

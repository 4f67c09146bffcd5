package cryptox

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPasswordMismatch is returned by Compare when the password does not
// produce the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher is the one-way hashing capability used for credentials.
type PasswordHasher interface {
	// Hash returns a self describing encoded hash of password.
	Hash(password string) (string, error)

	// Compare returns nil when password matches encodedHash,
	// ErrPasswordMismatch when it does not, or a format error.
	Compare(password, encodedHash string) error
}

const (
	HasherBcrypt = "bcrypt"
	HasherArgon2 = "argon2"
)

// NewPasswordHasher returns a SchemeHasher that hashes with the algorithm
// selected by name. The pepper is only used by argon2; bcrypt hashes stay
// compatible with hashes produced by other bcrypt implementations.
func NewPasswordHasher(name, pepper string) (*SchemeHasher, error) {
	bcryptHasher := NewBcryptHasher(DefaultBcryptCost)
	argon2Hasher := NewArgon2Hasher(pepper)

	h := &SchemeHasher{Bcrypt: bcryptHasher, Argon2: argon2Hasher}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HasherBcrypt:
		h.Primary = bcryptHasher
	case HasherArgon2, "argon2id":
		h.Primary = argon2Hasher
	default:
		return nil, fmt.Errorf("cryptox: unknown password hasher %q", name)
	}
	return h, nil
}

// SchemeHasher hashes new passwords with Primary and checks a stored hash
// with the scheme its prefix names, so hashes written before a change of
// algorithm keep verifying.
type SchemeHasher struct {
	Primary PasswordHasher
	Bcrypt  *BcryptHasher
	Argon2  *Argon2Hasher
}

var _ PasswordHasher = (*SchemeHasher)(nil)

func (h *SchemeHasher) Hash(password string) (string, error) {
	return h.Primary.Hash(password)
}

func (h *SchemeHasher) Compare(password, encodedHash string) error {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return h.Argon2.Compare(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2"):
		return h.Bcrypt.Compare(password, encodedHash)
	default:
		return h.Primary.Compare(password, encodedHash)
	}
}

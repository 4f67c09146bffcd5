package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHashers() map[string]PasswordHasher {
	return map[string]PasswordHasher{
		"bcrypt": NewBcryptHasher(bcrypt.MinCost),
		"argon2": NewArgon2Hasher("test-pepper"),
	}
}

func TestHasherRoundTrip(t *testing.T) {
	passwords := []string{
		"password12345",
		"P@ssw0rd!#$%^&*()",
		strings.Repeat("a", 70),
		"пароль🔒密码密码",
		"   spaces   ",
	}

	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			for _, pw := range passwords {
				hash, err := h.Hash(pw)
				require.NoError(t, err)
				require.NotEqual(t, pw, hash)
				require.NoError(t, h.Compare(pw, hash))
			}
		})
	}
}

func TestHasherUniqueSalts(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("samepassword")
			require.NoError(t, err)
			b, err := h.Hash("samepassword")
			require.NoError(t, err)
			require.NotEqual(t, a, b, "hashes should differ due to unique salts")
		})
	}
}

func TestHasherWrongPassword(t *testing.T) {
	for name, h := range testHashers() {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Hash("correct-password")
			require.NoError(t, err)

			for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", ""} {
				require.ErrorIs(t, h.Compare(wrong, hash), ErrPasswordMismatch)
			}
		})
	}
}

func TestArgon2InvalidHashFormat(t *testing.T) {
	h := NewArgon2Hasher("")
	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Compare("test-password", tt.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch)
		})
	}
}

func TestArgon2PHCParameters(t *testing.T) {
	hash, err := NewArgon2Hasher("").Hash("test-password")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
}

func TestArgon2PepperIsApplied(t *testing.T) {
	hash, err := NewArgon2Hasher("pepper-a").Hash("test-password")
	require.NoError(t, err)
	require.ErrorIs(t, NewArgon2Hasher("pepper-b").Compare("test-password", hash), ErrPasswordMismatch)
}

func TestBcryptAcceptsForeignHashes(t *testing.T) {
	// $2b$ hashes come from other bcrypt implementations (seed data).
	hash, err := bcrypt.GenerateFromPassword([]byte("password12345"), bcrypt.MinCost)
	require.NoError(t, err)
	foreign := "$2b$" + string(hash[4:])

	h := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, h.Compare("password12345", foreign))
	require.Error(t, h.Compare("password12345", "not-a-bcrypt-hash"))
}

func TestBcryptPasswordTooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", MaxPasswordBytes+1))
	require.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := h.Hash(strings.Repeat("p", MaxPasswordBytes))
	require.NoError(t, err)
	require.NoError(t, h.Compare(strings.Repeat("p", MaxPasswordBytes), hash))
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("", "")
	require.NoError(t, err)
	require.IsType(t, &BcryptHasher{}, h.Primary)

	h, err = NewPasswordHasher("Argon2", "p")
	require.NoError(t, err)
	require.IsType(t, &Argon2Hasher{}, h.Primary)

	_, err = NewPasswordHasher("md5", "")
	require.Error(t, err)
}

func TestSchemeHasherVerifiesEitherAlgorithm(t *testing.T) {
	bcryptHash, err := NewBcryptHasher(bcrypt.MinCost).Hash("password12345")
	require.NoError(t, err)
	argon2Hash, err := NewArgon2Hasher("pepper").Hash("password12345")
	require.NoError(t, err)

	for _, name := range []string{HasherBcrypt, HasherArgon2} {
		t.Run(name, func(t *testing.T) {
			h, err := NewPasswordHasher(name, "pepper")
			require.NoError(t, err)

			require.NoError(t, h.Compare("password12345", bcryptHash))
			require.NoError(t, h.Compare("password12345", argon2Hash))
			require.ErrorIs(t, h.Compare("wrong-password", bcryptHash), ErrPasswordMismatch)
			require.ErrorIs(t, h.Compare("wrong-password", argon2Hash), ErrPasswordMismatch)
			require.Error(t, h.Compare("password12345", "garbage"))
		})
	}

	t.Run("new hashes use the selected algorithm", func(t *testing.T) {
		h, err := NewPasswordHasher(HasherArgon2, "pepper")
		require.NoError(t, err)
		hash, err := h.Hash("password12345")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})
}

func TestReadPepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pepper")

	pepper, err := ReadPepper(path)
	require.NoError(t, err)
	require.Empty(t, pepper)
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	created, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	pepper, err = ReadPepper(path)
	require.NoError(t, err)
	require.Equal(t, created, pepper)
}

func TestLoadOrCreatePepper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	_, err = LoadOrCreatePepper("")
	require.Error(t, err)
}

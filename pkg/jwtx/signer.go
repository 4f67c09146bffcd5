package jwtx

import "time"

// Signer turns claims into a compact signed token. Sign fills in the
// registered claims (iss, aud, iat, nbf, exp, jti) from its configuration
// and ttl; callers only provide the subject and custom fields.
type Signer interface {
	Alg() string
	Sign(claims Claims, ttl time.Duration) (string, error)
}

// Codec both signs and verifies, as a shared-secret scheme does.
type Codec interface {
	Signer
	Verifier
}

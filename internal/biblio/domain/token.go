package domain

// TokenPair is what sign-in and refresh hand back: a short-lived access
// token and a single-use refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

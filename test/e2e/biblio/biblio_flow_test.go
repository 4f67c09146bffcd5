package biblio_test

import (
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/biblio/internal/biblio/iam"
	"github.com/stretchr/testify/require"
)

// TestSignUpSignInRefresh walks the browser flow: sign up, sign in, get
// refused a permissioned resource, rotate tokens, and fail to replay the old
// refresh token.
func TestSignUpSignInRefresh(t *testing.T) {
	baseURL := setupBiblio(t)
	b := newBrowser(t, baseURL)

	signUp(t, b, "alice@example.com")
	signIn(t, b, "alice@example.com")

	oldRefresh := b.cookie(iam.RefreshTokenCookie)
	require.NotNil(t, oldRefresh)

	resp := b.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = b.do(http.MethodPost, "/authentication/refresh-tokens", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEqual(t, oldRefresh.Value, b.cookie(iam.RefreshTokenCookie).Value)

	// Replay from a second client holding the stale cookie.
	attacker := newBrowser(t, baseURL)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, baseURL+"/authentication/refresh-tokens", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: iam.RefreshTokenCookie, Value: oldRefresh.Value})
	replay, err := attacker.client.Do(req)
	require.NoError(t, err)
	defer replay.Body.Close()
	require.Equal(t, http.StatusUnauthorized, replay.StatusCode)

	resp = b.do(http.MethodPost, "/authentication/sign-out", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Nil(t, b.cookie(iam.AccessTokenCookie))
}

// TestConcurrentRefresh races the same refresh token against a real Redis.
func TestConcurrentRefresh(t *testing.T) {
	baseURL := setupBiblio(t)
	b := newBrowser(t, baseURL)

	signUp(t, b, "race@example.com")
	signIn(t, b, "race@example.com")
	refresh := b.cookie(iam.RefreshTokenCookie).Value

	const workers = 8
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, baseURL+"/authentication/refresh-tokens", nil)
			if err != nil {
				return
			}
			req.AddCookie(&http.Cookie{Name: iam.RefreshTokenCookie, Value: refresh})
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, wins.Load())
}

func TestHealth(t *testing.T) {
	baseURL := setupBiblio(t)
	b := newBrowser(t, baseURL)

	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/livez", nil).StatusCode)
	require.Equal(t, http.StatusOK, b.do(http.MethodGet, "/readyz", nil).StatusCode)
}

package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/stretchr/testify/require"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{
		"alice@example.com":       true,
		"a.b+tag@sub.example.org": true,
		"alice":                   false,
		"alice@localhost":         false,
		"Alice <alice@x.com>":     false,
		"":                        false,
		"@example.com":            false,
	} {
		require.Equal(t, want, validEmail(in), in)
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query   string
		want    service.Page
		invalid bool
	}{
		{"", service.Page{}, false},
		{"limit=10&offset=30", service.Page{Limit: 10, Offset: 30}, false},
		{"limit=0", service.Page{}, true},
		{"limit=101", service.Page{}, true},
		{"limit=abc", service.Page{}, true},
		{"offset=-1", service.Page{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			page, errs := parsePage(httptest.NewRequest(http.MethodGet, "/users?"+tc.query, nil))
			if tc.invalid {
				require.NotEmpty(t, errs)
				return
			}
			require.Empty(t, errs)
			require.Equal(t, tc.want, page)
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{service.ErrConflict, http.StatusConflict},
		{service.ErrBadRequest, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
	}

	rec := httptest.NewRecorder()
	writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("disk on fire"))
	require.NotContains(t, rec.Body.String(), "disk")
}

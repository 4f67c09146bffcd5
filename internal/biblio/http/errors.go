package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/slogx"
)

// writeServiceError maps service error kinds to status codes. Anything
// unrecognised is logged and hidden behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBadRequest):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken):
		httpx.WriteError(w, http.StatusUnauthorized, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

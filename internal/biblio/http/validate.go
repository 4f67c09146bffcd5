package http

import (
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/cryptox"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
	"github.com/aussiebroadwan/biblio/pkg/idx"
)

const minPasswordLength = 12

// validator collects one message per failed rule so a client sees every
// problem at once.
type validator struct {
	errs []string
}

func (v *validator) add(format string, args ...any) {
	v.errs = append(v.errs, fmt.Sprintf(format, args...))
}

func (v *validator) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add("%s should not be empty", field)
		return false
	}
	return true
}

func (v *validator) email(field, value string) {
	if !v.required(field, value) {
		return
	}
	if !validEmail(value) {
		v.add("%s must be an email", field)
	}
}

// validEmail accepts a bare addr-spec whose domain has at least one dot.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func (v *validator) password(field, value string) {
	if !v.required(field, value) {
		return
	}
	if utf8.RuneCountInString(value) < minPasswordLength {
		v.add("%s must be longer than or equal to %d characters", field, minPasswordLength)
	}
	if len(value) > cryptox.MaxPasswordBytes {
		v.add("%s must be shorter than or equal to %d bytes", field, cryptox.MaxPasswordBytes)
	}
}

func (v *validator) id(field string, value *string) {
	if value != nil && !idx.Valid(*value) {
		v.add("%s must be a valid id", field)
	}
}

func (v *validator) ok() bool { return len(v.errs) == 0 }

// writeIfInvalid answers 400 and returns true when any rule failed.
func (v *validator) writeIfInvalid(w http.ResponseWriter) bool {
	if v.ok() {
		return false
	}
	httpx.WriteValidationErrors(w, v.errs)
	return true
}

// decodeBody decodes a JSON body, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathID reads and validates the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !idx.Valid(id) {
		httpx.WriteError(w, http.StatusBadRequest, "Validation failed (ulid is expected)")
		return "", false
	}
	return id, true
}

// parsePage reads ?limit= and ?offset=. Absent values fall back to the
// service defaults.
func parsePage(r *http.Request) (service.Page, []string) {
	var (
		page service.Page
		errs []string
	)
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > service.MaxPageLimit {
			errs = append(errs, fmt.Sprintf("limit must be an integer between 1 and %d", service.MaxPageLimit))
		}
		page.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, "offset must not be less than 0")
		}
		page.Offset = n
	}
	return page, errs
}

package service

import "errors"

// Error kinds. Services return them wrapped with a caller-facing message;
// match with errors.Is and show err.Error() to the client.
var (
	ErrConflict            = errors.New("conflict")
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Messages shared by more than one operation.
const (
	msgInvalidCredentials  = "Invalid email or password"
	msgInvalidRefreshToken = "Invalid refresh token"
	msgUserNotFound        = "User not found"
	msgCompanyNotFound     = "Company not found"
	msgCompanyNotExists    = "Company does not exist"
	msgRoleNotExists       = "Role does not exist"
	msgPasswordTooLong     = "password must be shorter than or equal to 72 bytes"
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

package service

import "errors"

var (
	// ErrUnauthenticated means no token was supplied at all.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned for an unknown login_name and for a wrong
	// password alike, so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid login_name or password")
	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken    = errors.New("invalid token")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrTooManyAttempts = errors.New("too many login attempts")
	ErrMisconfigured   = errors.New("auth config invalid")
)

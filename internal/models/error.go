package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Credential and token errors. ErrInvalidCredentials carries the same
	// outward message whether the email or the password was wrong, so
	// callers cannot tell which part failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
	ErrEmailDelivery      = errors.New("email could not be sent")
)

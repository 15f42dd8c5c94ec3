package domain

import "errors"

// Error taxonomy. Services wrap these so handlers can map them to HTTP
// status codes with errors.Is regardless of the specific message.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrState      = errors.New("operation not allowed in current status")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("external dependency failed")
)

// Auth errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

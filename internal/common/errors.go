// Package common defines shared constants and sentinel errors used across
// the authentication service. Callers should use errors.Is to match these
// values; the HTTP boundary translates them into transport statuses in one
// place instead of per-type handling.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal       = errors.New("internal error")
	ErrInvalidRequest = errors.New("invalid request")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account disabled")

	// Access-token errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Refresh-token lifecycle errors.
	ErrTokenNotFound       = errors.New("refresh token not found")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

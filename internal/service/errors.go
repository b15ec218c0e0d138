// Package service provides application-level services for managing tasks,
// users, and authentication.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped with fmt.Errorf("%w") for context
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. Returned when a user addresses a task they do
	// not own. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a failed login. It deliberately does
	// not distinguish an unknown username from a wrong password, so callers
	// cannot probe which usernames exist.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidRefreshToken indicates the presented refresh token matches
	// no user, has been revoked, or has been rotated away.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenExpired indicates the refresh token matched a user but
	// its validity window has passed. The user must log in again.
	ErrRefreshTokenExpired = errors.New("refresh token has expired")

	// ErrInvalidResetToken indicates a password reset was attempted with a
	// token that is unknown, expired, or bound to a different user.
	ErrInvalidResetToken = errors.New("invalid or expired password reset token")

	// ErrExternalService indicates a dependency outside the application
	// (image host, mail relay) failed while handling the request.
	ErrExternalService = errors.New("external service failure")
)

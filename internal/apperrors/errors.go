// Package apperrors defines the domain error taxonomy shared by the
// repository, service and handler layers.
package apperrors

import "errors"

var (
	// ErrUserNotFound is returned when no user exists for the given email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrIncorrectPassword is returned when the submitted password does not match the stored hash.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrEmailTaken is returned when a registration collides with an existing email.
	ErrEmailTaken = errors.New("email already exists")
	// ErrStoreUnavailable is returned when persistent storage cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrMalformedHash is returned when a stored password hash cannot be parsed.
	// It should never occur under normal operation.
	ErrMalformedHash = errors.New("malformed password hash")
)

// IsAuthFailure reports whether err is one of the expected credential
// failures. Both are presented to the end user identically so that the
// response does not reveal whether an email is registered; the distinct
// sentinel exists for logs and tests only.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrIncorrectPassword)
}

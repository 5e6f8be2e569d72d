// Package password wraps bcrypt hashing and verification of user passwords.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
)

// Hash produces a salted one-way hash of plain at the given cost. The salt is
// generated per call and embedded in the output, so two hashes of the same
// password differ while both verify. Safe for concurrent use.
func Hash(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plain against a stored hash in constant time. A mismatch is
// (false, nil); only a hash bcrypt cannot parse yields an error, wrapped as
// apperrors.ErrMalformedHash.
func Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", apperrors.ErrMalformedHash, err)
	}
}

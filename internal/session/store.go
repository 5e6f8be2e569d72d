// Package session maps authenticated users to opaque session tokens and back.
package session

import (
	"context"
	"time"
)

// Record is the server-side state held for one session token. ExpiresAt is
// absolute: a fixed lifetime from creation, never extended.
type Record struct {
	UserID    uint      `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists session records keyed by token. Get returns (nil, nil) for
// an unknown token; Delete of an unknown token is not an error. Backends
// surface connectivity failures as errors wrapping
// apperrors.ErrStoreUnavailable.
type Store interface {
	Set(ctx context.Context, token string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Record, error)
	Delete(ctx context.Context, token string) error
}

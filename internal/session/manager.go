package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/logger"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
)

// UserResolver fetches the user a session refers to. Satisfied by
// service.UserService; a narrow interface here keeps the dependency pointing
// one way.
type UserResolver interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

// Manager issues session tokens for authenticated users and resolves them
// back. A session is Active from creation until its TTL elapses (Expired) or
// Destroy is called (Destroyed); both are terminal and resolve to no user.
type Manager struct {
	store Store
	users UserResolver
	ttl   time.Duration
}

// NewManager builds a Manager over the given store. ttl is the fixed session
// lifetime from creation.
func NewManager(store Store, users UserResolver, ttl time.Duration) *Manager {
	return &Manager{store: store, users: users, ttl: ttl}
}

// TTL returns the fixed session lifetime, which callers reuse as the cookie
// max-age.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create generates a fresh unguessable token for user and records the
// session. The token is the only client-held state.
func (m *Manager) Create(ctx context.Context, user *model.User) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	rec := Record{UserID: user.ID, ExpiresAt: time.Now().Add(m.ttl)}
	if err := m.store.Set(ctx, token, rec, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token back to its user. It returns (nil, nil) when the token
// is unknown, the session has expired, or the referenced user no longer
// exists; those are unauthenticated states, not errors. Expiry is re-checked
// here even when the backend enforces TTLs itself.
func (m *Manager) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	rec, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	if time.Now().After(rec.ExpiresAt) {
		if err := m.store.Delete(ctx, token); err != nil {
			logger.Log.Warnw("reclaim expired session", "error", err)
		}
		return nil, nil
	}

	user, err := m.users.GetUser(ctx, rec.UserID)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		// The user row is gone; the session is orphaned. Reclaim it.
		if err := m.store.Delete(ctx, token); err != nil {
			logger.Log.Warnw("reclaim orphaned session", "error", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Destroy ends the session. Destroying an unknown or already-destroyed token
// is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

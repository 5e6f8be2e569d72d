package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/logger"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/password"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/repository"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
)

// AuthService handles credential verification and account registration.
type AuthService interface {
	// Authenticate validates an (email, password) pair. On failure it returns
	// apperrors.ErrUserNotFound or apperrors.ErrIncorrectPassword; callers
	// must present both identically to the end user.
	Authenticate(ctx context.Context, email, plain string) (*model.User, error)
	// Register creates the account, logs it in, and returns the user with a
	// fresh session token.
	Register(ctx context.Context, email, plain string) (*model.User, string, error)
}

type authService struct {
	users      repository.UserRepository
	sessions   *session.Manager
	bcryptCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, sessions *session.Manager, bcryptCost int) AuthService {
	return &authService{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

func (s *authService) Authenticate(ctx context.Context, email, plain string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	ok, err := password.Verify(plain, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash. Fatal for this request, logged with detail.
		logger.Log.Errorw("stored password hash unreadable", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrIncorrectPassword
	}
	return user, nil
}

func (s *authService) Register(ctx context.Context, email, plain string) (*model.User, string, error) {
	// Best-effort pre-check for a friendly duplicate message. The unique
	// index at insert time is the authoritative check; this read cannot be.
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := password.Hash(plain, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}

	user := &model.User{Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		// ErrEmailTaken here means we lost a race with a concurrent
		// registration for the same email; exactly one row exists.
		return nil, "", err
	}

	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

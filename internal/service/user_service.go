package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/cache"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user lookups. GetUser runs on every gated request via
// session resolution, so results are cached.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and read cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The hash field is json:"-" so cached copies never carry the password
	// hash. Credential checks read the repository directly.
	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

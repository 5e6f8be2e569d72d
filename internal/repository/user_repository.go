package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user and fills in the storage-assigned id. The unique
// index on email is the authoritative duplicate check: a concurrent insert of
// the same email loses here with apperrors.ErrEmailTaken regardless of any
// earlier read.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("%w: insert user: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateLookupErr(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateLookupErr(err)
	}
	return &user, nil
}

func translateLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return fmt.Errorf("%w: query user: %v", apperrors.ErrStoreUnavailable, err)
}

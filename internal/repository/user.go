// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"verse/internal/cache"
	"verse/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("username is taken")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// errAccountAbsent signals a miss through the cache-aside loader so absence
// is never cached.
var errAccountAbsent = errors.New("account absent")

// GetByUsername returns (nil, nil) when no account exists with the given
// username; callers distinguish absence from lookup failure. Found accounts
// are cached; invalidated on account deletion.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(username), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errAccountAbsent
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if errors.Is(err, errAccountAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the account and everything hanging off it in one
// transaction: the user's poems with their comments, replies and likes, then
// the user's own likes on other poems (with the matching counter decrements),
// then the account row itself.
func (r *userRepository) Delete(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var poemIDs []uint
		if err := tx.Model(&models.Poem{}).
			Where("user_id = ?", user.ID).
			Pluck("id", &poemIDs).Error; err != nil {
			return err
		}

		if len(poemIDs) > 0 {
			if err := tx.Unscoped().Where("poem_id IN ?", poemIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().
				Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("poem_id IN ?", poemIDs)).
				Delete(&models.Reply{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("poem_id IN ?", poemIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", poemIDs).Delete(&models.Poem{}).Error; err != nil {
				return err
			}
		}

		// Likes the user placed on other poems: decrement those counters
		// before removing the like rows.
		if err := tx.Exec(
			`UPDATE poems SET likes_count = likes_count - 1
			 WHERE id IN (SELECT poem_id FROM likes WHERE user_id = ?) AND likes_count > 0`,
			user.ID,
		).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, user.Username)
	cache.InvalidateLists(ctx)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

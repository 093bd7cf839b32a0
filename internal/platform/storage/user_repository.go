package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
)

// UserRepository persists user accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. Unique index violations surface as storage
// errors for the handler to translate into a conflict response.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "user.create", "failed to create user", err)
	}
	return nil
}

// FindByID returns nil when no user matches.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_id", "failed to find user", err)
	}
	return &user, nil
}

// FindActiveByEmail returns nil when no active account matches the email.
func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", email, true).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_active_by_email", "failed to find user", err)
	}
	return &user, nil
}

// ExistsByEmailOrUsername reports whether an account already claims either
// identifier.
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(errors.KindStorage, "user.exists", "failed to check existing users", err)
	}
	return count > 0, nil
}

// UpdateLastLogin stamps the account's most recent successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login": at,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return errors.Wrap(errors.KindStorage, "user.update_last_login", "failed to update last login", err)
	}
	return nil
}

// CountByRole reports how many accounts reference the named role.
func (r *UserRepository) CountByRole(ctx context.Context, roleName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", roleName).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(errors.KindStorage, "user.count_by_role", "failed to count users", err)
	}
	return count, nil
}

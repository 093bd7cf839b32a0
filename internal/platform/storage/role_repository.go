package storage

import (
	"context"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
)

// RoleRepository reads the role reference table.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// FindByID returns nil when no role matches.
func (r *RoleRepository) FindByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "role.find_by_id", "failed to find role", err)
	}
	return &role, nil
}

// FindByName returns nil when no role matches.
func (r *RoleRepository) FindByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "role.find_by_name", "failed to find role", err)
	}
	return &role, nil
}

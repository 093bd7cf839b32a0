package storage

import (
	"context"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
	"studenthub-server-go/internal/platform/errors"
)

// DefaultAdminEmail is the login of the bootstrap administrator account.
const DefaultAdminEmail = "admin@studenthub.local"

// EnsureAdminUser creates a first administrator account when no admin exists
// yet, so a fresh deployment is reachable. The password hash is computed by
// the caller; this layer never sees plaintext.
func EnsureAdminUser(ctx context.Context, db *gorm.DB, passwordHash string) (bool, error) {
	users := NewUserRepository(db)
	roles := NewRoleRepository(db)

	count, err := users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	adminRole, err := roles.FindByName(ctx, models.RoleAdmin)
	if err != nil {
		return false, err
	}
	if adminRole == nil {
		return false, errors.New(errors.KindStorage, "seed.admin", "admin role missing, run migrations first")
	}

	admin := &models.User{
		Username:     "admin",
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		RoleID:       adminRole.ID,
		IsActive:     true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

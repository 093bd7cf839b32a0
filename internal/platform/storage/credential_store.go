package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
)

// CredentialStore adapts the user and role repositories to the lookup
// surface the login flow consumes.
type CredentialStore struct {
	users *UserRepository
	roles *RoleRepository
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{
		users: NewUserRepository(db),
		roles: NewRoleRepository(db),
	}
}

func (s *CredentialStore) FindActiveUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindActiveByEmail(ctx, email)
}

func (s *CredentialStore) FindRoleByID(ctx context.Context, id uint) (*models.Role, error) {
	return s.roles.FindByID(ctx, id)
}

func (s *CredentialStore) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	return s.users.UpdateLastLogin(ctx, userID, at)
}

package storage

import (
	"gorm.io/gorm"

	"studenthub-server-go/internal/models"
)

// initialSchema creates the backend's tables.
type initialSchema struct{}

func (m *initialSchema) Version() string     { return "001" }
func (m *initialSchema) Description() string { return "initial schema" }

func (m *initialSchema) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Student{},
		&models.AuditLog{},
	)
}

func (m *initialSchema) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&models.AuditLog{},
		&models.Student{},
		&models.User{},
		&models.Role{},
	)
}

// seedRoles inserts the reference roles users point at.
type seedRoles struct{}

func (m *seedRoles) Version() string     { return "002" }
func (m *seedRoles) Description() string { return "seed admin and user roles" }

func (m *seedRoles) Up(db *gorm.DB) error {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Full access to all records and the audit trail"},
		{Name: models.RoleUser, Description: "Manage student records"},
	}
	for _, role := range roles {
		if err := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *seedRoles) Down(db *gorm.DB) error {
	return db.Where("name IN ?", []string{models.RoleAdmin, models.RoleUser}).
		Delete(&models.Role{}).Error
}

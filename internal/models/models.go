package models

import (
	"time"

	"gorm.io/datatypes"
)

// User is an account that can authenticate against the backend.
// The password hash is never serialized outward.
type User struct {
	ID           uint       `gorm:"primaryKey"                             json:"id"`
	Username     string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"             json:"-"`
	FirstName    *string    `gorm:"type:varchar(100)"                      json:"first_name"`
	LastName     *string    `gorm:"type:varchar(100)"                      json:"last_name"`
	RoleID       uint       `gorm:"index;not null"                         json:"role_id"`
	IsActive     bool       `gorm:"default:true"                           json:"is_active"`
	LastLogin    *time.Time `                                              json:"last_login"`
	CreatedAt    time.Time  `                                              json:"created_at"`
	UpdatedAt    time.Time  `                                              json:"updated_at"`
}

// Role names referenced throughout the backend.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role is read-only from the authentication core's perspective.
type Role struct {
	ID          uint      `gorm:"primaryKey"                            json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text"                             json:"description"`
	CreatedAt   time.Time `                                             json:"created_at"`
	UpdatedAt   time.Time `                                             json:"updated_at"`
}

// Student is the managed record entity.
type Student struct {
	ID        uint      `gorm:"primaryKey"                             json:"id"`
	Name      string    `gorm:"type:varchar(255);not null"             json:"name"`
	Phone     string    `gorm:"type:varchar(15);not null"              json:"phone"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Course    string    `gorm:"type:varchar(255);not null"             json:"course"`
	CreatedBy *uint     `gorm:"index"                                  json:"created_by"`
	UpdatedBy *uint     `                                              json:"updated_by"`
	CreatedAt time.Time `                                              json:"created_at"`
	UpdatedAt time.Time `                                              json:"updated_at"`
}

// AuditLog records a mutating action performed through the API.
// Details carries free-form context as a JSON column.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey"                 json:"id"`
	UserID     *uint          `gorm:"index"                      json:"user_id"`
	Action     string         `gorm:"type:varchar(100);not null" json:"action"`
	EntityType string         `gorm:"type:varchar(100);not null" json:"entity_type"`
	EntityID   *uint          `                                  json:"entity_id"`
	Details    datatypes.JSON `                                  json:"details,omitempty"`
	IPAddress  string         `gorm:"type:varchar(45)"           json:"ip_address"`
	UserAgent  string         `gorm:"type:text"                  json:"user_agent"`
	CreatedAt  time.Time      `gorm:"index"                      json:"created_at"`
}

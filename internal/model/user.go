package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Platform-wide user roles.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleMember     = "MEMBER"
)

// User represents a platform account. Email and phone are alternative
// login identifiers; each is globally unique when present.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:100;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone        *string   `json:"phone,omitempty" gorm:"uniqueIndex;size:32"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:20;not null;default:'MEMBER'"`
	Settings     Settings  `json:"settings" gorm:"type:json;serializer:json"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Memberships []UserOrganization `json:"memberships,omitempty" gorm:"foreignKey:UserID"`
}

// Settings is the free-form per-user preference blob.
type Settings struct {
	Timezone      string `json:"timezone,omitempty"`
	Language      string `json:"language,omitempty"`
	Theme         string `json:"theme,omitempty"`
	Notifications bool   `json:"notifications"`
	PrivateMode   bool   `json:"private_mode"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user holds a platform admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

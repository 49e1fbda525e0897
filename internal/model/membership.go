package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user may hold within a single organization.
const (
	OrgRoleOwner  = "OWNER"
	OrgRoleAdmin  = "ADMIN"
	OrgRoleMember = "MEMBER"
	OrgRoleViewer = "VIEWER"
)

// UserOrganization links one user to one organization. A user may hold
// memberships in multiple organizations; the (user, organization) pair
// is unique.
type UserOrganization struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_org"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:char(36);not null;uniqueIndex:idx_user_org"`
	Role           string    `json:"role" gorm:"size:20;not null;default:'MEMBER'"`
	Active         bool      `json:"active" gorm:"default:true;index"`
	JoinedAt       time.Time `json:"joined_at"`
}

// BeforeCreate sets UUID and join timestamp before creating the record.
func (m *UserOrganization) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

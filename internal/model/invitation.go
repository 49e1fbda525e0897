package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationExpired  = "EXPIRED"
)

// Invitation invites an email address to join an organization with a
// given role. The accept link carries a signed token whose identifier
// is stored here; the signed token itself is never persisted.
type Invitation struct {
	ID             uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:char(36);not null;index"`
	Email          string    `json:"email" gorm:"size:255;not null;index"`
	Role           string    `json:"role" gorm:"size:20;not null;default:'MEMBER'"`
	Status         string    `json:"status" gorm:"size:20;not null;default:'PENDING';index"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

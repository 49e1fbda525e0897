package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is a patient record owned by an organization.
type Patient struct {
	ID             uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	OrganizationID uuid.UUID  `json:"organization_id" gorm:"type:char(36);not null;index"`
	FirstName      string     `json:"first_name" gorm:"size:100;not null"`
	LastName       string     `json:"last_name" gorm:"size:100;not null"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Email          string     `json:"email" gorm:"size:255"`
	Phone          string     `json:"phone" gorm:"size:32"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

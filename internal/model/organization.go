package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization represents a healthcare provider organization (clinic,
// hospital, practice). Read-heavy; no deletion flow.
type Organization struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Type         string    `json:"type" gorm:"size:50;not null;index"`
	AddressLine  string    `json:"address_line" gorm:"size:255"`
	City         string    `json:"city" gorm:"size:100"`
	State        string    `json:"state" gorm:"size:50"`
	PostalCode   string    `json:"postal_code" gorm:"size:20"`
	ContactEmail string    `json:"contact_email" gorm:"size:255"`
	ContactPhone string    `json:"contact_phone" gorm:"size:32"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Memberships []UserOrganization `json:"memberships,omitempty" gorm:"foreignKey:OrganizationID"`
	Patients    []Patient          `json:"patients,omitempty" gorm:"foreignKey:OrganizationID"`
	Invitations []Invitation       `json:"invitations,omitempty" gorm:"foreignKey:OrganizationID"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral lifecycle statuses.
const (
	ReferralPending   = "PENDING"
	ReferralAccepted  = "ACCEPTED"
	ReferralDeclined  = "DECLINED"
	ReferralCompleted = "COMPLETED"
)

// Referral records a patient being referred between providers.
type Referral struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	OrganizationID    uuid.UUID `json:"organization_id" gorm:"type:char(36);not null;index"`
	PatientID         uuid.UUID `json:"patient_id" gorm:"type:char(36);not null;index"`
	ReferringProvider string    `json:"referring_provider" gorm:"size:255;not null"`
	ReceivingProvider string    `json:"receiving_provider" gorm:"size:255;not null"`
	Reason            string    `json:"reason" gorm:"size:1000"`
	Status            string    `json:"status" gorm:"size:20;not null;default:'PENDING';index"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Referral) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidStatusTransition reports whether a referral may move from its
// current status to the requested one.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case ReferralPending:
		return to == ReferralAccepted || to == ReferralDeclined
	case ReferralAccepted:
		return to == ReferralCompleted || to == ReferralDeclined
	default:
		return false
	}
}

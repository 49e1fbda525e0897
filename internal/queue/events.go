package queue

import "time"

// Queue names for downstream notification workers.
const (
	QueueInvitationCreated = "invitation.created"
	QueueReferralCreated   = "referral.created"
)

// InvitationCreatedEvent notifies workers to deliver an invitation email.
type InvitationCreatedEvent struct {
	InvitationID   string    `json:"invitation_id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	AcceptToken    string    `json:"accept_token"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ReferralCreatedEvent notifies workers that a referral needs routing
// to the receiving provider.
type ReferralCreatedEvent struct {
	ReferralID        string `json:"referral_id"`
	OrganizationID    string `json:"organization_id"`
	PatientID         string `json:"patient_id"`
	ReceivingProvider string `json:"receiving_provider"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/queue"
	"sanabridge/internal/repository"
)

// CreateReferralInput carries the referral creation fields.
type CreateReferralInput struct {
	OrganizationID    uuid.UUID
	PatientID         uuid.UUID
	ReferringProvider string
	ReceivingProvider string
	Reason            string
}

// ReferralService exposes referral workflow operations.
type ReferralService interface {
	Create(ctx context.Context, input CreateReferralInput) (*model.Referral, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Referral, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Referral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Referral, error)
}

type referralService struct {
	referrals repository.ReferralRepository
	patients  repository.PatientRepository
	publisher *queue.Publisher
}

// NewReferralService creates a new referral service.
func NewReferralService(
	referrals repository.ReferralRepository,
	patients repository.PatientRepository,
	publisher *queue.Publisher,
) ReferralService {
	return &referralService{referrals: referrals, patients: patients, publisher: publisher}
}

// Create persists a referral for an existing patient and publishes a
// referral.created event. Publishing is best-effort and never fails the
// request.
func (s *referralService) Create(ctx context.Context, input CreateReferralInput) (*model.Referral, error) {
	if strings.TrimSpace(input.ReferringProvider) == "" || strings.TrimSpace(input.ReceivingProvider) == "" {
		return nil, fmt.Errorf("%w: referring and receiving providers are required", apperrors.ErrValidation)
	}

	patient, err := s.patients.FindByID(ctx, input.PatientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient.OrganizationID != input.OrganizationID {
		return nil, fmt.Errorf("%w: patient belongs to a different organization", apperrors.ErrValidation)
	}

	referral := &model.Referral{
		OrganizationID:    input.OrganizationID,
		PatientID:         input.PatientID,
		ReferringProvider: strings.TrimSpace(input.ReferringProvider),
		ReceivingProvider: strings.TrimSpace(input.ReceivingProvider),
		Reason:            input.Reason,
		Status:            model.ReferralPending,
	}
	if err := s.referrals.Create(ctx, referral); err != nil {
		return nil, fmt.Errorf("create referral: %w", err)
	}

	if err := s.publisher.Publish(ctx, queue.QueueReferralCreated, queue.ReferralCreatedEvent{
		ReferralID:        referral.ID.String(),
		OrganizationID:    referral.OrganizationID.String(),
		PatientID:         referral.PatientID.String(),
		ReceivingProvider: referral.ReceivingProvider,
	}); err != nil {
		log.Printf("referral %s: event publish failed: %v", referral.ID, err)
	}
	return referral, nil
}

func (s *referralService) Get(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	referral, err := s.referrals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return referral, nil
}

func (s *referralService) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Referral, error) {
	return s.referrals.ListForOrganization(ctx, orgID)
}

// UpdateStatus moves a referral through its lifecycle. Transitions are
// validated; a completed or declined referral is terminal.
func (s *referralService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Referral, error) {
	referral, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.ValidStatusTransition(referral.Status, status) {
		return nil, fmt.Errorf("%w: cannot move referral from %s to %s", apperrors.ErrValidation, referral.Status, status)
	}

	referral.Status = status
	if err := s.referrals.Update(ctx, referral); err != nil {
		return nil, fmt.Errorf("update referral: %w", err)
	}
	return referral, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

// CreatePatientInput carries the patient intake fields.
type CreatePatientInput struct {
	OrganizationID uuid.UUID
	FirstName      string
	LastName       string
	DateOfBirth    *time.Time
	Email          string
	Phone          string
}

// PatientService exposes patient record operations.
type PatientService interface {
	Create(ctx context.Context, input CreatePatientInput) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Patient, error)
}

type patientService struct {
	patients repository.PatientRepository
}

// NewPatientService creates a new patient service.
func NewPatientService(patients repository.PatientRepository) PatientService {
	return &patientService{patients: patients}
}

func (s *patientService) Create(ctx context.Context, input CreatePatientInput) (*model.Patient, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, fmt.Errorf("%w: patient name is required", apperrors.ErrValidation)
	}

	patient := &model.Patient{
		OrganizationID: input.OrganizationID,
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		DateOfBirth:    input.DateOfBirth,
		Email:          input.Email,
		Phone:          input.Phone,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return patient, nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return patient, nil
}

func (s *patientService) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Patient, error) {
	return s.patients.ListForOrganization(ctx, orgID)
}

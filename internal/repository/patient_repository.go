package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/model"
)

// PatientRepository defines patient persistence operations.
type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Update(ctx context.Context, patient *model.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Patient, error)
}

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository.
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *patientRepository) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

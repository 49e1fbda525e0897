package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/model"
)

// ReferralRepository defines referral persistence operations.
type ReferralRepository interface {
	Create(ctx context.Context, referral *model.Referral) error
	Update(ctx context.Context, referral *model.Referral) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Referral, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Referral, error)
}

type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral repository.
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, referral *model.Referral) error {
	return r.db.WithContext(ctx).Create(referral).Error
}

func (r *referralRepository) Update(ctx context.Context, referral *model.Referral) error {
	return r.db.WithContext(ctx).Save(referral).Error
}

func (r *referralRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Referral, error) {
	var referral model.Referral
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&referral).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Referral, error) {
	var referrals []model.Referral
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/model"
)

// InvitationRepository defines invitation persistence operations.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	Update(ctx context.Context, invitation *model.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Invitation, error)
}

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository.
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepository) Update(ctx context.Context, invitation *model.Invitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

func (r *invitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *invitationRepository) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/model"
)

// OrganizationRepository defines organization persistence operations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	FindByName(ctx context.Context, name string) (*model.Organization, error)
	List(ctx context.Context) ([]model.Organization, error)
}

// MembershipRepository defines user-organization membership operations.
type MembershipRepository interface {
	Create(ctx context.Context, membership *model.UserOrganization) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.UserOrganization, error)
	Find(ctx context.Context, userID, orgID uuid.UUID) (*model.UserOrganization, error)
}

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *organizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := r.db.WithContext(ctx).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, membership *model.UserOrganization) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.UserOrganization, error) {
	var memberships []model.UserOrganization
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *membershipRepository) Find(ctx context.Context, userID, orgID uuid.UUID) (*model.UserOrganization, error) {
	var membership model.UserOrganization
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&membership).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

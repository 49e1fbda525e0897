package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sanabridge/internal/cache"
	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

const orgCacheTTL = 10 * time.Minute

// CreateOrganizationInput carries the organization creation fields.
type CreateOrganizationInput struct {
	Name         string
	Type         string
	AddressLine  string
	City         string
	State        string
	PostalCode   string
	ContactEmail string
	ContactPhone string
	OwnerID      uuid.UUID
}

// OrganizationService exposes organization administration operations.
type OrganizationService interface {
	Create(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	List(ctx context.Context) ([]model.Organization, error)
}

type organizationService struct {
	orgs        repository.OrganizationRepository
	memberships repository.MembershipRepository
	cache       *cache.Client
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(
	orgs repository.OrganizationRepository,
	memberships repository.MembershipRepository,
	cache *cache.Client,
) OrganizationService {
	return &organizationService{orgs: orgs, memberships: memberships, cache: cache}
}

func (s *organizationService) cacheKey(id uuid.UUID) string {
	return "org:" + id.String()
}

// Create persists a new organization and makes the creating admin its
// OWNER member.
func (s *organizationService) Create(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: organization name is required", apperrors.ErrValidation)
	}

	if _, err := s.orgs.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: organization name taken", apperrors.ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check name: %w", err)
	}

	org := &model.Organization{
		Name:         name,
		Type:         input.Type,
		AddressLine:  input.AddressLine,
		City:         input.City,
		State:        input.State,
		PostalCode:   input.PostalCode,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}

	membership := &model.UserOrganization{
		UserID:         input.OwnerID,
		OrganizationID: org.ID,
		Role:           model.OrgRoleOwner,
		Active:         true,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("create owner membership: %w", err)
	}
	return org, nil
}

func (s *organizationService) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Organization
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(org); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, orgCacheTTL)
	}
	return org, nil
}

func (s *organizationService) List(ctx context.Context) ([]model.Organization, error) {
	return s.orgs.List(ctx)
}

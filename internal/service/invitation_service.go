package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/queue"
	"sanabridge/internal/repository"
)

// InvitationExpiry is how long an invitation accept link stays valid.
const InvitationExpiry = 7 * 24 * time.Hour

// InviteClaims are the signed claims embedded in an invitation accept
// link. The link proves which invitation it belongs to; acceptance
// still checks the stored row's status and expiry.
type InviteClaims struct {
	InvitationID   string `json:"invitation_id"`
	OrganizationID string `json:"organization_id"`
	Email          string `json:"email"`
	jwt.RegisteredClaims
}

// InvitationService issues and redeems organization invitations.
type InvitationService interface {
	Create(ctx context.Context, orgID uuid.UUID, email, role string) (*model.Invitation, string, error)
	Accept(ctx context.Context, token string, user *model.User) (*model.UserOrganization, error)
	ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Invitation, error)
}

type invitationService struct {
	invitations repository.InvitationRepository
	memberships repository.MembershipRepository
	orgs        repository.OrganizationRepository
	publisher   *queue.Publisher
	secret      []byte
	now         func() time.Time
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(
	invitations repository.InvitationRepository,
	memberships repository.MembershipRepository,
	orgs repository.OrganizationRepository,
	publisher *queue.Publisher,
	secret string,
) InvitationService {
	return &invitationService{
		invitations: invitations,
		memberships: memberships,
		orgs:        orgs,
		publisher:   publisher,
		secret:      []byte(secret),
		now:         time.Now,
	}
}

// Create persists a pending invitation, signs its accept token and
// publishes an invitation.created event for the mailer.
func (s *invitationService) Create(ctx context.Context, orgID uuid.UUID, email, role string) (*model.Invitation, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	switch role {
	case model.OrgRoleAdmin, model.OrgRoleMember, model.OrgRoleViewer:
	case "":
		role = model.OrgRoleMember
	default:
		return nil, "", fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	if _, err := s.orgs.FindByID(ctx, orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("find organization: %w", err)
	}

	invitation := &model.Invitation{
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Status:         model.InvitationPending,
		ExpiresAt:      s.now().Add(InvitationExpiry),
	}
	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, "", fmt.Errorf("create invitation: %w", err)
	}

	token, err := s.signToken(invitation)
	if err != nil {
		return nil, "", err
	}

	if err := s.publisher.Publish(ctx, queue.QueueInvitationCreated, queue.InvitationCreatedEvent{
		InvitationID:   invitation.ID.String(),
		OrganizationID: orgID.String(),
		Email:          email,
		Role:           role,
		AcceptToken:    token,
		ExpiresAt:      invitation.ExpiresAt,
	}); err != nil {
		log.Printf("invitation %s: event publish failed: %v", invitation.ID, err)
	}
	return invitation, token, nil
}

// Accept redeems an invitation token for the authenticated user. The
// token email must match the user's email and the stored invitation
// must still be pending and unexpired.
func (s *invitationService) Accept(ctx context.Context, token string, user *model.User) (*model.UserOrganization, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invitation token", apperrors.ErrValidation)
	}

	invitationID, err := uuid.Parse(claims.InvitationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid invitation token", apperrors.ErrValidation)
	}

	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}

	if invitation.Status != model.InvitationPending {
		return nil, fmt.Errorf("%w: invitation already used", apperrors.ErrValidation)
	}
	if !s.now().Before(invitation.ExpiresAt) {
		invitation.Status = model.InvitationExpired
		_ = s.invitations.Update(ctx, invitation)
		return nil, fmt.Errorf("%w: invitation expired", apperrors.ErrValidation)
	}
	if !strings.EqualFold(invitation.Email, user.Email) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	membership := &model.UserOrganization{
		UserID:         user.ID,
		OrganizationID: invitation.OrganizationID,
		Role:           invitation.Role,
		Active:         true,
	}
	if err := s.memberships.Create(ctx, membership); err != nil {
		return nil, fmt.Errorf("create membership: %w", err)
	}

	invitation.Status = model.InvitationAccepted
	if err := s.invitations.Update(ctx, invitation); err != nil {
		return nil, fmt.Errorf("update invitation: %w", err)
	}
	return membership, nil
}

func (s *invitationService) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Invitation, error) {
	return s.invitations.ListForOrganization(ctx, orgID)
}

func (s *invitationService) signToken(invitation *model.Invitation) (string, error) {
	claims := &InviteClaims{
		InvitationID:   invitation.ID.String(),
		OrganizationID: invitation.OrganizationID.String(),
		Email:          invitation.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(invitation.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign invitation token: %w", err)
	}
	return signed, nil
}

func (s *invitationService) parseToken(tokenString string) (*InviteClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

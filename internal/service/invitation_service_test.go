package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/queue"
)

// MockInvitationRepository is a mock implementation of repository.InvitationRepository.
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) Update(ctx context.Context, invitation *model.Invitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockInvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListForOrganization(ctx context.Context, orgID uuid.UUID) ([]model.Invitation, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Invitation), args.Error(1)
}

// MockMembershipRepository is a mock implementation of repository.MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, membership *model.UserOrganization) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.UserOrganization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserOrganization), args.Error(1)
}

func (m *MockMembershipRepository) Find(ctx context.Context, userID, orgID uuid.UUID) (*model.UserOrganization, error) {
	args := m.Called(ctx, userID, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserOrganization), args.Error(1)
}

// MockOrganizationRepository is a mock implementation of repository.OrganizationRepository.
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context) ([]model.Organization, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Organization), args.Error(1)
}

func TestInvitationService_CreateAndAccept(t *testing.T) {
	orgID := uuid.New()

	invitations := new(MockInvitationRepository)
	memberships := new(MockMembershipRepository)
	orgs := new(MockOrganizationRepository)

	orgs.On("FindByID", mock.Anything, orgID).Return(&model.Organization{ID: orgID}, nil)

	var stored *model.Invitation
	invitations.On("Create", mock.Anything, mock.AnythingOfType("*model.Invitation")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.Invitation)
			stored.ID = uuid.New()
		}).Return(nil)

	svc := NewInvitationService(invitations, memberships, orgs, queue.NewPublisher(""), "test-secret")

	invitation, token, err := svc.Create(context.Background(), orgID, "Nurse@Example.com", model.OrgRoleMember)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "nurse@example.com", invitation.Email)
	assert.Equal(t, model.InvitationPending, invitation.Status)

	// Accepting with the matching user creates the membership and marks
	// the invitation used.
	invitations.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	memberships.On("Create", mock.Anything, mock.AnythingOfType("*model.UserOrganization")).Return(nil)
	invitations.On("Update", mock.Anything, stored).Return(nil)

	user := &model.User{ID: uuid.New(), Email: "nurse@example.com"}
	membership, err := svc.Accept(context.Background(), token, user)
	assert.NoError(t, err)
	assert.Equal(t, orgID, membership.OrganizationID)
	assert.Equal(t, model.OrgRoleMember, membership.Role)
	assert.Equal(t, model.InvitationAccepted, stored.Status)
}

func TestInvitationService_AcceptRejectsWrongUser(t *testing.T) {
	orgID := uuid.New()

	invitations := new(MockInvitationRepository)
	memberships := new(MockMembershipRepository)
	orgs := new(MockOrganizationRepository)

	orgs.On("FindByID", mock.Anything, orgID).Return(&model.Organization{ID: orgID}, nil)

	var stored *model.Invitation
	invitations.On("Create", mock.Anything, mock.AnythingOfType("*model.Invitation")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.Invitation)
			stored.ID = uuid.New()
		}).Return(nil)

	svc := NewInvitationService(invitations, memberships, orgs, queue.NewPublisher(""), "test-secret")

	_, token, err := svc.Create(context.Background(), orgID, "invited@example.com", "")
	assert.NoError(t, err)

	invitations.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

	intruder := &model.User{ID: uuid.New(), Email: "other@example.com"}
	_, err = svc.Accept(context.Background(), token, intruder)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	memberships.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvitationService_AcceptTamperedToken(t *testing.T) {
	svc := NewInvitationService(
		new(MockInvitationRepository),
		new(MockMembershipRepository),
		new(MockOrganizationRepository),
		queue.NewPublisher(""),
		"test-secret",
	)

	user := &model.User{ID: uuid.New(), Email: "anyone@example.com"}
	_, err := svc.Accept(context.Background(), "not.a.jwt", user)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInvitationService_AcceptExpired(t *testing.T) {
	orgID := uuid.New()

	invitations := new(MockInvitationRepository)
	orgs := new(MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, orgID).Return(&model.Organization{ID: orgID}, nil)

	var stored *model.Invitation
	invitations.On("Create", mock.Anything, mock.AnythingOfType("*model.Invitation")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.Invitation)
			stored.ID = uuid.New()
		}).Return(nil)

	svc := NewInvitationService(invitations, new(MockMembershipRepository), orgs, queue.NewPublisher(""), "test-secret").(*invitationService)

	_, token, err := svc.Create(context.Background(), orgID, "late@example.com", "")
	assert.NoError(t, err)

	// Jump past the invitation window; the row flips to EXPIRED.
	svc.now = func() time.Time { return time.Now().Add(InvitationExpiry + time.Hour) }
	invitations.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	invitations.On("Update", mock.Anything, stored).Return(nil)

	user := &model.User{ID: uuid.New(), Email: "late@example.com"}
	_, err = svc.Accept(context.Background(), token, user)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, model.InvitationExpired, stored.Status)
}

func TestInvitationService_AcceptUnknownInvitation(t *testing.T) {
	orgID := uuid.New()

	invitations := new(MockInvitationRepository)
	orgs := new(MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, orgID).Return(&model.Organization{ID: orgID}, nil)

	var stored *model.Invitation
	invitations.On("Create", mock.Anything, mock.AnythingOfType("*model.Invitation")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*model.Invitation)
			stored.ID = uuid.New()
		}).Return(nil)

	svc := NewInvitationService(invitations, new(MockMembershipRepository), orgs, queue.NewPublisher(""), "test-secret")

	_, token, err := svc.Create(context.Background(), orgID, "gone@example.com", "")
	assert.NoError(t, err)

	// The row vanished between signing and redemption.
	invitations.On("FindByID", mock.Anything, stored.ID).Return(nil, gorm.ErrRecordNotFound)

	user := &model.User{ID: uuid.New(), Email: "gone@example.com"}
	_, err = svc.Accept(context.Background(), token, user)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInvitationService_CreateValidation(t *testing.T) {
	svc := NewInvitationService(
		new(MockInvitationRepository),
		new(MockMembershipRepository),
		new(MockOrganizationRepository),
		queue.NewPublisher(""),
		"test-secret",
	)

	_, _, err := svc.Create(context.Background(), uuid.New(), "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = svc.Create(context.Background(), uuid.New(), "a@x.com", "OVERLORD")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

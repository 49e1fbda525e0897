package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
	"sanabridge/internal/session"
)

const minPasswordLength = 8

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// AuthResult is the outcome of a credential check. Token and ExpiresAt
// are only populated when Match is true; a failed comparison never
// issues a session.
type AuthResult struct {
	Match     bool
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// AccountService handles registration, credential verification and
// password changes.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, identifier, password string, isEmail *bool, ip, userAgent string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	Exists(ctx context.Context, email, phone string) (bool, error)
}

type accountService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	manager    *session.Manager
	bcryptCost int
}

// NewAccountService creates a new account service.
func NewAccountService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	manager *session.Manager,
	bcryptCost int,
) AccountService {
	return &accountService{
		users:      users,
		sessions:   sessions,
		manager:    manager,
		bcryptCost: bcryptCost,
	}
}

// Register validates the input, enforces email/phone uniqueness and
// persists a new MEMBER user with a bcrypt password hash.
func (s *accountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", apperrors.ErrValidation)
	}

	if taken, err := s.identifierTaken(ctx, email, input.Phone); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.ErrDuplicateAccount
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleMember,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate resolves the user by email or phone and compares the
// password against the stored hash. A session is created only on a
// positive match; the cookie for a failed login is never issued.
func (s *accountService) Authenticate(ctx context.Context, identifier, password string, isEmail *bool, ip, userAgent string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	byEmail := strings.Contains(identifier, "@")
	if isEmail != nil {
		byEmail = *isEmail
	}

	user, err := s.users.FindByEmailOrPhone(ctx, identifier, byEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return &AuthResult{Match: false, User: user}, nil
	}

	token, expiresAt, err := s.manager.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Match:     true,
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ChangePassword verifies the current password, validates the new one
// and persists the re-hash. Every other session for the user is revoked
// so a stolen cookie dies with the old password.
func (s *accountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return apperrors.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.sessions.DeleteForUser(ctx, userID); err != nil {
		// Revocation is best-effort; the password change itself stuck.
		return nil
	}
	return nil
}

// Exists reports whether an account with the given email or phone is
// already registered.
func (s *accountService) Exists(ctx context.Context, email, phone string) (bool, error) {
	if email != "" {
		_, err := s.users.FindByEmail(ctx, email)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("find by email: %w", err)
		}
		return false, nil
	}
	if phone != "" {
		_, err := s.users.FindByPhone(ctx, phone)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("find by phone: %w", err)
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: email or phone is required", apperrors.ErrValidation)
}

func (s *accountService) identifierTaken(ctx context.Context, email, phone string) (bool, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check email: %w", err)
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		if _, err := s.users.FindByPhone(ctx, phone); err == nil {
			return true, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("check phone: %w", err)
		}
	}
	return false, nil
}

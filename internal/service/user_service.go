package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sanabridge/internal/cache"
	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// CreateUserInput carries the admin-created-user form fields. The
// admin assigns the role directly, unlike self-registration which
// always yields MEMBER.
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Role      string
}

// UserService exposes user administration operations.
type UserService interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, settings model.Settings) (*model.User, error)
}

type userService struct {
	repo       repository.UserRepository
	cache      *cache.Client
	bcryptCost int
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client, bcryptCost int) UserService {
	return &userService{repo: repo, cache: cache, bcryptCost: bcryptCost}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *userService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	switch input.Role {
	case model.RoleSuperAdmin, model.RoleAdmin, model.RoleMember:
	case "":
		input.Role = model.RoleMember
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, input.Role)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrDuplicateAccount
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
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
		Role:         input.Role,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// UpdateSettings replaces the user's preference blob.
func (s *userService) UpdateSettings(ctx context.Context, id uuid.UUID, settings model.Settings) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	user.Settings = settings
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"sanabridge/internal/cache"
	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

const identityCacheTTL = 2 * time.Minute

// Identity is the resolved caller attached to a request after its
// session cookie checks out.
type Identity struct {
	UserID      uuid.UUID                `json:"user_id"`
	Role        string                   `json:"role"`
	User        *model.User              `json:"user"`
	Memberships []model.UserOrganization `json:"memberships"`
}

// IsAdmin reports whether the identity holds a platform admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin || i.Role == model.RoleSuperAdmin
}

// MemberOf reports whether the identity has an active membership in the
// given organization.
func (i *Identity) MemberOf(orgID uuid.UUID) bool {
	for _, m := range i.Memberships {
		if m.OrganizationID == orgID && m.Active {
			return true
		}
	}
	return false
}

// Gate resolves request identity from the session cookie and enforces
// role requirements. Handlers call it in-process; there is no loopback
// HTTP hop to a session-check endpoint.
type Gate struct {
	manager *Manager
	users   repository.UserRepository
	cache   *cache.Client
}

// NewGate creates an auth gate.
func NewGate(manager *Manager, users repository.UserRepository, cacheClient *cache.Client) *Gate {
	return &Gate{manager: manager, users: users, cache: cacheClient}
}

// RequireAuth extracts the session cookie, resolves the session and
// loads the owning user. Missing cookie, unknown token and expired
// session all fail with ErrAuthenticationRequired.
func (g *Gate) RequireAuth(c echo.Context) (*Identity, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.ErrAuthenticationRequired
	}

	ctx := c.Request().Context()
	record, err := g.manager.Resolve(ctx, cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := g.loadUser(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Session outlived its user; treat as unauthenticated.
			return nil, apperrors.ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return &Identity{
		UserID:      user.ID,
		Role:        user.Role,
		User:        user,
		Memberships: user.Memberships,
	}, nil
}

// RequireAdmin is RequireAuth plus a platform-admin role check.
// Authentication is always checked before the role, so an expired
// session yields 401 rather than 403.
func (g *Gate) RequireAdmin(c echo.Context) (*Identity, error) {
	identity, err := g.RequireAuth(c)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return identity, nil
}

func (g *Gate) cacheKey(id uuid.UUID) string {
	return "identity:" + id.String()
}

func (g *Gate) loadUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := g.cache.Get(ctx, g.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := g.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = g.cache.Set(ctx, g.cacheKey(id), payload, identityCacheTTL)
	}
	return user, nil
}

// InvalidateIdentity drops the cached user after a role or settings
// change so the next request sees fresh data.
func (g *Gate) InvalidateIdentity(ctx context.Context, id uuid.UUID) {
	_ = g.cache.Delete(ctx, g.cacheKey(id))
}

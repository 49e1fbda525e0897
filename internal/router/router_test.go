package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"sanabridge/internal/handler"
	"sanabridge/internal/model"
	"sanabridge/internal/session"
)

type stubSessionRepository struct {
	rows map[string]*model.Session
}

func newStubSessionRepository() *stubSessionRepository {
	return &stubSessionRepository{rows: make(map[string]*model.Session)}
}

func (r *stubSessionRepository) Create(ctx context.Context, s *model.Session) error {
	r.rows[s.TokenHash] = s
	return nil
}

func (r *stubSessionRepository) FindByHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	if row, ok := r.rows[tokenHash]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepository) DeleteByHash(ctx context.Context, tokenHash string) error {
	delete(r.rows, tokenHash)
	return nil
}

func (r *stubSessionRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type stubUserRepository struct {
	user *model.User
}

func (r *stubUserRepository) Create(ctx context.Context, user *model.User) error { return nil }
func (r *stubUserRepository) Update(ctx context.Context, user *model.User) error { return nil }

func (r *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepository) FindByEmailOrPhone(ctx context.Context, identifier string, isEmail bool) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepository) List(ctx context.Context) ([]model.User, error) { return nil, nil }

// okHandler proves the middleware let the request through and that the
// identity was stashed on the context.
func okHandler(c echo.Context) error {
	if _, err := handler.CurrentIdentity(c); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func setupGate(role string) (*session.Gate, string) {
	user := &model.User{ID: uuid.New(), Role: role}
	manager := session.NewManager(newStubSessionRepository(), time.Hour, true)
	gate := session.NewGate(manager, &stubUserRepository{user: user}, nil)
	raw, _, _ := manager.Create(context.Background(), user.ID, "", "")
	return gate, raw
}

func doRequest(mw echo.MiddlewareFunc, rawToken string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/protected", okHandler, mw)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if rawToken != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: rawToken})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		sendCookie     bool
		expectedStatus int
	}{
		{"member with session passes", model.RoleMember, true, http.StatusNoContent},
		{"no cookie is 401", model.RoleMember, false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, raw := setupGate(tt.role)
			if !tt.sendCookie {
				raw = ""
			}
			rec := doRequest(RequireAuth(gate), raw)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		role           string
		sendCookie     bool
		expectedStatus int
	}{
		{"admin passes", model.RoleAdmin, true, http.StatusNoContent},
		{"superadmin passes", model.RoleSuperAdmin, true, http.StatusNoContent},
		{"member is 403", model.RoleMember, true, http.StatusForbidden},
		{"no session is 401 not 403", model.RoleAdmin, false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, raw := setupGate(tt.role)
			if !tt.sendCookie {
				raw = ""
			}
			rec := doRequest(RequireAdmin(gate), raw)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	gate, _ := setupGate(model.RoleMember)
	rec := doRequest(RequireAuth(gate), "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Redis being down must not lock anyone out of login.
func TestLoginRateLimit_FailsOpen(t *testing.T) {
	e := echo.New()
	e.POST("/auth", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, LoginRateLimit(nil))

	for i := 0; i < loginRateLimit*2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

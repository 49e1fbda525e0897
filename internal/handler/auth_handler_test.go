package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/service"
	"sanabridge/internal/session"
)

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, input service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) Authenticate(ctx context.Context, identifier, password string, isEmail *bool, ip, userAgent string) (*service.AuthResult, error) {
	args := m.Called(ctx, identifier, password, isEmail, ip, userAgent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockAccountService) Exists(ctx context.Context, email, phone string) (bool, error) {
	args := m.Called(ctx, email, phone)
	return args.Bool(0), args.Error(1)
}

// stubSessionRepository lets the cookie-lifecycle tests run the real
// session manager without a database.
type stubSessionRepository struct {
	rows      map[string]*model.Session
	deleteErr error
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
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, tokenHash)
	return nil
}

func (r *stubSessionRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// stubUserRepository serves a single fixed user to the auth gate.
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

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func newAuthHandler(accounts service.AccountService, sessions *stubSessionRepository, user *model.User) *AuthHandler {
	manager := session.NewManager(sessions, time.Hour, true)
	gate := session.NewGate(manager, &stubUserRepository{user: user}, nil)
	return NewAuthHandler(accounts, manager, gate)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockAccountService)
		expectedStatus int
		expectSuccess  bool
		expectCookie   bool
	}{
		{
			name: "valid credentials set the session cookie",
			body: `{"email":"a@x.com","password":"longenough1"}`,
			setupMock: func(m *MockAccountService) {
				m.On("Authenticate", mock.Anything, "a@x.com", "longenough1", (*bool)(nil), mock.Anything, mock.Anything).
					Return(&service.AuthResult{
						Match:     true,
						Token:     "raw-token",
						ExpiresAt: time.Now().Add(time.Hour),
						User:      &model.User{Email: "a@x.com"},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectSuccess:  true,
			expectCookie:   true,
		},
		{
			name: "wrong password sets no cookie",
			body: `{"email":"a@x.com","password":"wrong-pass1"}`,
			setupMock: func(m *MockAccountService) {
				m.On("Authenticate", mock.Anything, "a@x.com", "wrong-pass1", (*bool)(nil), mock.Anything, mock.Anything).
					Return(&service.AuthResult{Match: false, User: &model.User{}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectSuccess:  false,
			expectCookie:   false,
		},
		{
			name: "unknown account",
			body: `{"email":"ghost@x.com","password":"whatever1"}`,
			setupMock: func(m *MockAccountService) {
				m.On("Authenticate", mock.Anything, "ghost@x.com", "whatever1", (*bool)(nil), mock.Anything, mock.Anything).
					Return(nil, apperrors.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing password",
			body:           `{"email":"a@x.com"}`,
			setupMock:      func(m *MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := new(MockAccountService)
			tt.setupMock(accounts)

			h := newAuthHandler(accounts, newStubSessionRepository(), nil)
			e := newTestEcho()

			req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := h.Login(c)
			if tt.expectedStatus >= http.StatusBadRequest {
				var httpErr *echo.HTTPError
				assert.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.expectedStatus, httpErr.Code)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp SuccessResponse
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectSuccess, resp.Success)

			cookie := sessionCookie(rec)
			if tt.expectCookie {
				assert.NotNil(t, cookie)
				assert.Equal(t, "raw-token", cookie.Value)
				assert.True(t, cookie.HttpOnly)
			} else {
				assert.Nil(t, cookie)
			}

			accounts.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Logout_AlwaysClearsCookie(t *testing.T) {
	sessions := newStubSessionRepository()
	manager := session.NewManager(sessions, time.Hour, true)
	raw, _, err := manager.Create(context.Background(), uuid.New(), "", "")
	assert.NoError(t, err)

	// Server-side deletion fails; the client cookie must still clear.
	sessions.deleteErr = errors.New("store unavailable")

	h := newAuthHandler(new(MockAccountService), sessions, nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
	rec := httptest.NewRecorder()

	assert.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	assert.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.False(t, cookie.Expires.After(time.Unix(1, 0)))
}

func TestAuthHandler_Logout_DeletesSession(t *testing.T) {
	sessions := newStubSessionRepository()
	manager := session.NewManager(sessions, time.Hour, true)
	raw, _, err := manager.Create(context.Background(), uuid.New(), "", "")
	assert.NoError(t, err)
	assert.Len(t, sessions.rows, 1)

	h := newAuthHandler(new(MockAccountService), sessions, nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
	rec := httptest.NewRecorder()

	assert.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Empty(t, sessions.rows)
}

func TestAuthHandler_Session(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "a@x.com", Role: model.RoleMember}
	sessions := newStubSessionRepository()
	h := newAuthHandler(new(MockAccountService), sessions, user)
	e := newTestEcho()

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		rec := httptest.NewRecorder()

		assert.NoError(t, h.Session(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SessionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Authenticated)
		assert.Nil(t, resp.User)
	})

	t.Run("valid session", func(t *testing.T) {
		manager := session.NewManager(sessions, time.Hour, true)
		raw, _, err := manager.Create(context.Background(), user.ID, "", "")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: raw})
		rec := httptest.NewRecorder()

		assert.NoError(t, h.Session(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SessionResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Authenticated)
		assert.NotNil(t, resp.User)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		accounts := new(MockAccountService)
		accounts.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(&model.User{Email: "a@x.com", Role: model.RoleMember}, nil)

		h := newAuthHandler(accounts, newStubSessionRepository(), nil)
		e := newTestEcho()

		body := `{"firstName":"Ada","lastName":"Nguyen","email":"a@x.com","password":"longenough1","confirmPassword":"longenough1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		assert.NoError(t, h.Register(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created model.User
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, model.RoleMember, created.Role)
	})

	t.Run("duplicate maps to 400", func(t *testing.T) {
		accounts := new(MockAccountService)
		accounts.On("Register", mock.Anything, mock.AnythingOfType("service.RegisterInput")).
			Return(nil, apperrors.ErrDuplicateAccount)

		h := newAuthHandler(accounts, newStubSessionRepository(), nil)
		e := newTestEcho()

		body := `{"firstName":"Ada","lastName":"Nguyen","email":"a@x.com","password":"longenough1","confirmPassword":"longenough1"}`
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := h.Register(e.NewContext(req, rec))
		var httpErr *echo.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

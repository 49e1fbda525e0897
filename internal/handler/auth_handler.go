package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"sanabridge/internal/service"
	"sanabridge/internal/session"
)

// AuthHandler handles login, logout, session introspection and
// registration.
type AuthHandler struct {
	accounts service.AccountService
	manager  *session.Manager
	gate     *session.Gate
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts service.AccountService, manager *session.Manager, gate *session.Gate) *AuthHandler {
	return &AuthHandler{accounts: accounts, manager: manager, gate: gate}
}

// LoginRequest represents a login request. Either email or phone
// identifies the account; IsEmail overrides the contains-'@' heuristic
// when the identifier is ambiguous.
type LoginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required"`
	IsEmail  *bool  `json:"isEmail,omitempty"`
}

// SuccessResponse is the boolean envelope shared by the auth endpoints.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// RegisterRequest represents a self-registration request.
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// SessionResponse reports whether the request carries a valid session.
type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          interface{} `json:"user,omitempty"`
}

// Login godoc
// @Summary Log in with email or phone
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Phone
	}

	result, err := h.accounts.Authenticate(
		c.Request().Context(), identifier, req.Password, req.IsEmail,
		c.RealIP(), c.Request().UserAgent(),
	)
	if err != nil {
		return respondError(c, err)
	}

	// The cookie is issued strictly on a positive match.
	if result.Match {
		h.manager.ApplyCookie(c, result.Token, result.ExpiresAt)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: result.Match})
}

// Lookup godoc
// @Summary Check whether an email or phone is registered
// @Tags auth
// @Produce json
// @Param email query string false "Email to check"
// @Param phone query string false "Phone to check"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth [get]
func (h *AuthHandler) Lookup(c echo.Context) error {
	exists, err := h.accounts.Exists(c.Request().Context(), c.QueryParam("email"), c.QueryParam("phone"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"exists": exists})
}

// Logout godoc
// @Summary Log out and clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie.Value != "" {
		// Best-effort: the client-side cookie is cleared even when the
		// server-side delete fails, so the client never gets stranded
		// half logged in.
		if err := h.manager.Delete(c.Request().Context(), cookie.Value); err != nil {
			log.Printf("logout: session delete failed: %v", err)
		}
	}
	h.manager.ClearCookie(c)
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	h.gate.InvalidateIdentity(c.Request().Context(), identity.UserID)
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Session godoc
// @Summary Inspect the current session
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	// Unauthenticated is a normal answer here, not an error.
	identity, err := h.gate.RequireAuth(c)
	if err != nil {
		return c.JSON(http.StatusOK, SessionResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          identity.User,
	})
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.Register(c.Request().Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

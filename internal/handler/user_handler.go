package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sanabridge/internal/model"
	"sanabridge/internal/service"
	"sanabridge/internal/session"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	users service.UserService
	gate  *session.Gate
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, gate *session.Gate) *UserHandler {
	return &UserHandler{users: users, gate: gate}
}

// CreateUserRequest represents the admin-created-user payload.
type CreateUserRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role"`
}

// UpdateSettingsRequest represents the settings blob update payload.
type UpdateSettingsRequest struct {
	Timezone      string `json:"timezone"`
	Language      string `json:"language"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	PrivateMode   bool   `json:"private_mode"`
}

// CreateUser godoc
// @Summary Create a user with an assigned role (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.CreateUser(c.Request().Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get user by id (admin)
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateSettings godoc
// @Summary Update the current user's settings
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateSettingsRequest true "Settings"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/settings [patch]
func (h *UserHandler) UpdateSettings(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.users.UpdateSettings(c.Request().Context(), identity.UserID, model.Settings{
		Timezone:      req.Timezone,
		Language:      req.Language,
		Theme:         req.Theme,
		Notifications: req.Notifications,
		PrivateMode:   req.PrivateMode,
	})
	if err != nil {
		return respondError(c, err)
	}
	h.gate.InvalidateIdentity(c.Request().Context(), identity.UserID)
	return c.JSON(http.StatusOK, user)
}

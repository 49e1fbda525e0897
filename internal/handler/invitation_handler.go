package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sanabridge/internal/model"
	"sanabridge/internal/service"
)

// InvitationHandler handles organization invitation endpoints.
type InvitationHandler struct {
	invitations service.InvitationService
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(invitations service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// CreateInvitationRequest represents the invitation creation payload.
type CreateInvitationRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=ADMIN MEMBER VIEWER"`
}

// AcceptInvitationRequest carries the signed accept token from the
// invitation link.
type AcceptInvitationRequest struct {
	Token string `json:"token" validate:"required"`
}

// InvitationResponse is returned on creation; the accept token is
// included so operators can hand out the link directly while the mailer
// delivers it asynchronously.
type InvitationResponse struct {
	Invitation *model.Invitation `json:"invitation"`
	Token      string            `json:"token"`
}

// Create godoc
// @Summary Invite an email address to an organization (admin)
// @Tags invitations
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body CreateInvitationRequest true "Invitation payload"
// @Success 201 {object} InvitationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /organizations/{id}/invitations [post]
func (h *InvitationHandler) Create(c echo.Context) error {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}

	var req CreateInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invitation, token, err := h.invitations.Create(c.Request().Context(), orgID, req.Email, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, InvitationResponse{Invitation: invitation, Token: token})
}

// Accept godoc
// @Summary Accept an invitation with its signed token
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body AcceptInvitationRequest true "Accept token"
// @Success 200 {object} model.UserOrganization
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /invitations/accept [post]
func (h *InvitationHandler) Accept(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	membership, err := h.invitations.Accept(c.Request().Context(), req.Token, identity.User)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, membership)
}

// List godoc
// @Summary List an organization's invitations (admin)
// @Tags invitations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {array} model.Invitation
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /organizations/{id}/invitations [get]
func (h *InvitationHandler) List(c echo.Context) error {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}

	invitations, err := h.invitations.ListForOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, invitations)
}

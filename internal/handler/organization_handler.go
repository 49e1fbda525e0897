package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"sanabridge/internal/service"
)

// OrganizationHandler handles organization administration endpoints.
type OrganizationHandler struct {
	orgs service.OrganizationService
}

// NewOrganizationHandler creates a new organization handler.
func NewOrganizationHandler(orgs service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs}
}

// CreateOrganizationRequest represents the organization creation payload.
type CreateOrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	Type         string `json:"type" validate:"required"`
	AddressLine  string `json:"address_line"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
}

// Create godoc
// @Summary Create an organization (admin)
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body CreateOrganizationRequest true "Organization payload"
// @Success 201 {object} model.Organization
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /organizations [post]
func (h *OrganizationHandler) Create(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	org, err := h.orgs.Create(c.Request().Context(), service.CreateOrganizationInput{
		Name:         req.Name,
		Type:         req.Type,
		AddressLine:  req.AddressLine,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		OwnerID:      identity.UserID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, org)
}

// Get godoc
// @Summary Get organization by id (admin)
// @Tags organizations
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {object} model.Organization
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /organizations/{id} [get]
func (h *OrganizationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	org, err := h.orgs.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

// List godoc
// @Summary List organizations (admin)
// @Tags organizations
// @Produce json
// @Success 200 {array} model.Organization
// @Router /organizations [get]
func (h *OrganizationHandler) List(c echo.Context) error {
	orgs, err := h.orgs.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orgs)
}

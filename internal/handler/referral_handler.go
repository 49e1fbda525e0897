package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/service"
)

// ReferralHandler handles referral workflow endpoints.
type ReferralHandler struct {
	referrals service.ReferralService
}

// NewReferralHandler creates a new referral handler.
func NewReferralHandler(referrals service.ReferralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// CreateReferralRequest represents the referral creation payload.
type CreateReferralRequest struct {
	OrganizationID    string `json:"organization_id" validate:"required,uuid"`
	PatientID         string `json:"patient_id" validate:"required,uuid"`
	ReferringProvider string `json:"referring_provider" validate:"required"`
	ReceivingProvider string `json:"receiving_provider" validate:"required"`
	Reason            string `json:"reason"`
}

// UpdateReferralStatusRequest represents the status change payload.
type UpdateReferralStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACCEPTED DECLINED COMPLETED"`
}

// Create godoc
// @Summary Create a referral for a patient
// @Tags referrals
// @Accept json
// @Produce json
// @Param request body CreateReferralRequest true "Referral payload"
// @Success 201 {object} model.Referral
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /referrals [post]
func (h *ReferralHandler) Create(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CreateReferralRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	orgID, _ := uuid.Parse(req.OrganizationID)
	patientID, _ := uuid.Parse(req.PatientID)
	if !identity.IsAdmin() && !identity.MemberOf(orgID) {
		return respondError(c, apperrors.ErrInsufficientPermissions)
	}

	referral, err := h.referrals.Create(c.Request().Context(), service.CreateReferralInput{
		OrganizationID:    orgID,
		PatientID:         patientID,
		ReferringProvider: req.ReferringProvider,
		ReceivingProvider: req.ReceivingProvider,
		Reason:            req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, referral)
}

// List godoc
// @Summary List referrals for an organization
// @Tags referrals
// @Produce json
// @Param organization_id query string true "Organization ID"
// @Success 200 {array} model.Referral
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /referrals [get]
func (h *ReferralHandler) List(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	orgID, err := uuid.Parse(c.QueryParam("organization_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}
	if !identity.IsAdmin() && !identity.MemberOf(orgID) {
		return respondError(c, apperrors.ErrInsufficientPermissions)
	}

	referrals, err := h.referrals.ListForOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, referrals)
}

// UpdateStatus godoc
// @Summary Move a referral through its lifecycle
// @Tags referrals
// @Accept json
// @Produce json
// @Param id path string true "Referral ID"
// @Param request body UpdateReferralStatusRequest true "New status"
// @Success 200 {object} model.Referral
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /referrals/{id}/status [patch]
func (h *ReferralHandler) UpdateStatus(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateReferralStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	referral, err := h.referrals.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !identity.IsAdmin() && !identity.MemberOf(referral.OrganizationID) {
		return respondError(c, apperrors.ErrInsufficientPermissions)
	}

	updated, err := h.referrals.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/service"
)

// PatientHandler handles patient record endpoints. Every route checks
// that the caller has an active membership in the owning organization;
// platform admins bypass the membership check.
type PatientHandler struct {
	patients service.PatientService
}

// NewPatientHandler creates a new patient handler.
func NewPatientHandler(patients service.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// CreatePatientRequest represents the patient intake payload.
type CreatePatientRequest struct {
	FirstName   string     `json:"first_name" validate:"required"`
	LastName    string     `json:"last_name" validate:"required"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Phone       string     `json:"phone"`
}

// Create godoc
// @Summary Register a patient in an organization
// @Tags patients
// @Accept json
// @Produce json
// @Param id path string true "Organization ID"
// @Param request body CreatePatientRequest true "Patient payload"
// @Success 201 {object} model.Patient
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /organizations/{id}/patients [post]
func (h *PatientHandler) Create(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}
	if !identity.IsAdmin() && !identity.MemberOf(orgID) {
		return respondError(c, apperrors.ErrInsufficientPermissions)
	}

	var req CreatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patient, err := h.patients.Create(c.Request().Context(), service.CreatePatientInput{
		OrganizationID: orgID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    req.DateOfBirth,
		Email:          req.Email,
		Phone:          req.Phone,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, patient)
}

// List godoc
// @Summary List an organization's patients
// @Tags patients
// @Produce json
// @Param id path string true "Organization ID"
// @Success 200 {array} model.Patient
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /organizations/{id}/patients [get]
func (h *PatientHandler) List(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return respondError(c, err)
	}

	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid organization id")
	}
	if !identity.IsAdmin() && !identity.MemberOf(orgID) {
		return respondError(c, apperrors.ErrInsufficientPermissions)
	}

	patients, err := h.patients.ListForOrganization(c.Request().Context(), orgID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, patients)
}

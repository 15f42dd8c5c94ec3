package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// ProformaHandler handles proforma endpoints
type ProformaHandler struct {
	proformaService *services.ProformaService
}

// NewProformaHandler creates a new proforma handler
func NewProformaHandler(proformaService *services.ProformaService) *ProformaHandler {
	return &ProformaHandler{proformaService: proformaService}
}

// Create issues a proforma
// @Summary Create proforma
// @Tags Proformas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProformaInput true "Proforma data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /proformas [post]
func (h *ProformaHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateProformaInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	proforma, err := h.proformaService.Create(c.Context(), &input, userID)
	if err != nil {
		return response.DomainError(c, err, "Failed to create proforma")
	}

	return response.Created(c, "Proforma created successfully", fiber.Map{
		"proforma": proforma,
	})
}

// List lists proformas. Clients only see their own.
// @Summary List proformas
// @Tags Proformas
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} response.Response
// @Router /proformas [get]
func (h *ProformaHandler) List(c *fiber.Ctx) error {
	var status *domain.ProformaStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ProformaStatus(raw)
		status = &s
	}

	var clientID *uint
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid client id")
		}
		v := uint(id)
		clientID = &v
	}

	// A client caller is pinned to their own records.
	if currentRole(c) == domain.RoleClient {
		userID, ok := currentUserID(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		clientID = &userID
	}

	proformas, err := h.proformaService.List(c.Context(), status, clientID)
	if err != nil {
		return response.DomainError(c, err, "Failed to list proformas")
	}

	return response.Success(c, "Proformas retrieved successfully", fiber.Map{
		"proformas": proformas,
	})
}

// Get gets one proforma
// @Summary Get proforma by ID
// @Tags Proformas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proforma ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /proformas/{id} [get]
func (h *ProformaHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid proforma id")
	}

	proforma, err := h.proformaService.GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get proforma")
	}

	if currentRole(c) == domain.RoleClient {
		userID, _ := currentUserID(c)
		if proforma.ClientID != userID {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
	}

	return response.Success(c, "Proforma retrieved successfully", fiber.Map{
		"proforma": proforma,
	})
}

// UpdateStatusRequest represents status update request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a proforma to a new status
// @Summary Update proforma status
// @Tags Proformas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proforma ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /proformas/{id}/status [put]
func (h *ProformaHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid proforma id")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	proforma, err := h.proformaService.UpdateStatus(c.Context(), id, domain.ProformaStatus(req.Status))
	if err != nil {
		return response.DomainError(c, err, "Failed to update proforma status")
	}

	return response.Success(c, "Proforma status updated successfully", fiber.Map{
		"proforma": proforma,
	})
}

// Convert converts an accepted proforma into a contract
// @Summary Convert proforma to contract
// @Tags Proformas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proforma ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /proformas/{id}/convert [post]
func (h *ProformaHandler) Convert(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid proforma id")
	}

	contract, err := h.proformaService.ConvertToContract(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, services.ErrProformaNotConvertible) {
			return response.Conflict(c, "Only accepted proformas can be converted")
		}
		return response.DomainError(c, err, "Failed to convert proforma")
	}

	return response.Created(c, "Contract created from proforma", fiber.Map{
		"contract": contract,
	})
}

// Delete removes a draft proforma
// @Summary Delete proforma
// @Tags Proformas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Proforma ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /proformas/{id} [delete]
func (h *ProformaHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid proforma id")
	}

	if err := h.proformaService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrProformaNotDeletable) {
			return response.Conflict(c, "Only draft proformas can be deleted")
		}
		return response.DomainError(c, err, "Failed to delete proforma")
	}

	return response.Success(c, "Proforma deleted successfully", nil)
}

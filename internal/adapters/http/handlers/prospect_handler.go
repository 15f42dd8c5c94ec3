package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// ProspectHandler handles prospect lifecycle endpoints
type ProspectHandler struct {
	prospectService *services.ProspectService
}

// NewProspectHandler creates a new prospect handler
func NewProspectHandler(prospectService *services.ProspectService) *ProspectHandler {
	return &ProspectHandler{prospectService: prospectService}
}

// Create creates a prospect
// @Summary Create prospect
// @Tags Prospects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProspectInput true "Prospect data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /prospects [post]
func (h *ProspectHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateProspectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	prospect, err := h.prospectService.Create(c.Context(), &input, userID)
	if err != nil {
		return response.DomainError(c, err, "Failed to create prospect")
	}

	return response.Created(c, "Prospect created successfully", fiber.Map{
		"prospect": prospect.ToResponse(),
	})
}

// List lists prospects
// @Summary List prospects
// @Tags Prospects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /prospects [get]
func (h *ProspectHandler) List(c *fiber.Ctx) error {
	prospects, err := h.prospectService.List(c.Context())
	if err != nil {
		return response.DomainError(c, err, "Failed to list prospects")
	}

	return response.Success(c, "Prospects retrieved successfully", fiber.Map{
		"prospects": prospects,
	})
}

// Get gets one prospect
// @Summary Get prospect by ID
// @Tags Prospects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prospect ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /prospects/{id} [get]
func (h *ProspectHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid prospect id")
	}

	prospect, err := h.prospectService.GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get prospect")
	}

	return response.Success(c, "Prospect retrieved successfully", fiber.Map{
		"prospect": prospect.ToResponse(),
	})
}

// Update applies a partial update
// @Summary Update prospect
// @Tags Prospects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prospect ID"
// @Param body body services.UpdateProspectInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /prospects/{id} [put]
func (h *ProspectHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid prospect id")
	}

	var input services.UpdateProspectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	prospect, err := h.prospectService.Update(c.Context(), id, &input)
	if err != nil {
		return response.DomainError(c, err, "Failed to update prospect")
	}

	return response.Success(c, "Prospect updated successfully", fiber.Map{
		"prospect": prospect.ToResponse(),
	})
}

// Convert converts a prospect into a client account
// @Summary Convert prospect to client
// @Tags Prospects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prospect ID"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /prospects/{id}/convert [post]
func (h *ProspectHandler) Convert(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid prospect id")
	}

	result, err := h.prospectService.ConvertToClient(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProspectConverted):
			return response.Conflict(c, "Prospect already converted")
		case errors.Is(err, services.ErrProspectNoContact):
			return response.BadRequest(c, "Prospect has neither email nor phone")
		default:
			return response.DomainError(c, err, "Failed to convert prospect")
		}
	}

	return response.Created(c, "Prospect converted successfully", result)
}

// Delete removes a prospect
// @Summary Delete prospect
// @Tags Prospects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prospect ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /prospects/{id} [delete]
func (h *ProspectHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid prospect id")
	}

	if err := h.prospectService.Delete(c.Context(), id); err != nil {
		return response.DomainError(c, err, "Failed to delete prospect")
	}

	return response.Success(c, "Prospect deleted successfully", nil)
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// KioskHandler handles kiosk endpoints
type KioskHandler struct {
	kioskService *services.KioskService
}

// NewKioskHandler creates a new kiosk handler
func NewKioskHandler(kioskService *services.KioskService) *KioskHandler {
	return &KioskHandler{kioskService: kioskService}
}

// Create creates a kiosk
// @Summary Create kiosk
// @Tags Kiosks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateKioskInput true "Kiosk data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /kiosks [post]
func (h *KioskHandler) Create(c *fiber.Ctx) error {
	var input services.CreateKioskInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	kiosk, err := h.kioskService.Create(c.Context(), &input)
	if err != nil {
		return response.DomainError(c, err, "Failed to create kiosk")
	}

	return response.Created(c, "Kiosk created successfully", fiber.Map{
		"kiosk": kiosk,
	})
}

// List lists kiosks
// @Summary List kiosks
// @Tags Kiosks
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /kiosks [get]
func (h *KioskHandler) List(c *fiber.Ctx) error {
	input := &services.ListKiosksInput{}
	if raw := c.Query("status"); raw != "" {
		s := domain.KioskStatus(raw)
		input.Status = &s
	}
	input.Page, _ = strconv.Atoi(c.Query("page", "1"))
	input.Limit, _ = strconv.Atoi(c.Query("limit", "10"))

	out, err := h.kioskService.List(c.Context(), input)
	if err != nil {
		return response.DomainError(c, err, "Failed to list kiosks")
	}

	return response.Success(c, "Kiosks retrieved successfully", out)
}

// Get gets one kiosk
// @Summary Get kiosk by ID
// @Tags Kiosks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kiosk ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /kiosks/{id} [get]
func (h *KioskHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid kiosk id")
	}

	kiosk, err := h.kioskService.GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get kiosk")
	}

	return response.Success(c, "Kiosk retrieved successfully", fiber.Map{
		"kiosk": kiosk,
	})
}

// Update updates a kiosk's descriptive fields
// @Summary Update kiosk
// @Tags Kiosks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kiosk ID"
// @Param body body services.UpdateKioskInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /kiosks/{id} [put]
func (h *KioskHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid kiosk id")
	}

	var input services.UpdateKioskInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	kiosk, err := h.kioskService.Update(c.Context(), id, &input)
	if err != nil {
		return response.DomainError(c, err, "Failed to update kiosk")
	}

	return response.Success(c, "Kiosk updated successfully", fiber.Map{
		"kiosk": kiosk,
	})
}

// Release returns a kiosk from maintenance to AVAILABLE
// @Summary Release kiosk from maintenance
// @Tags Kiosks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kiosk ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /kiosks/{id}/release [post]
func (h *KioskHandler) Release(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid kiosk id")
	}

	if err := h.kioskService.ReleaseFromMaintenance(c.Context(), id); err != nil {
		return response.DomainError(c, err, "Failed to release kiosk")
	}

	return response.Success(c, "Kiosk released successfully", nil)
}

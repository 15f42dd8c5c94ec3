package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	ticketService *services.TicketService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(ticketService *services.TicketService) *DashboardHandler {
	return &DashboardHandler{ticketService: ticketService}
}

// Maintenance returns the maintenance dashboard counters
// @Summary Maintenance dashboard
// @Description Kiosks under maintenance and month-to-date ticket counts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/maintenance [get]
func (h *DashboardHandler) Maintenance(c *fiber.Ctx) error {
	metrics, err := h.ticketService.Metrics(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute maintenance metrics")
	}

	return response.Success(c, "Maintenance metrics retrieved successfully", metrics)
}

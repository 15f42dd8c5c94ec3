package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// TicketHandler handles service request endpoints
type TicketHandler struct {
	ticketService *services.TicketService
}

// NewTicketHandler creates a new service request handler
func NewTicketHandler(ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Open creates a service request
// @Summary Open service request
// @Tags ServiceRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.OpenTicketInput true "Service request data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /service-requests [post]
func (h *TicketHandler) Open(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.OpenTicketInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	ticket, err := h.ticketService.Open(c.Context(), &input, userID)
	if err != nil {
		return response.DomainError(c, err, "Failed to open service request")
	}

	return response.Created(c, "Service request opened successfully", fiber.Map{
		"service_request": ticket,
	})
}

// List lists service requests with search and filters
// @Summary List service requests
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search id, description, kiosk or technician name"
// @Param status query string false "Filter by status"
// @Param from query string false "Opened from (RFC3339)"
// @Param to query string false "Opened to (RFC3339)"
// @Param technician_id query int false "Filter by technician"
// @Param kiosk_id query int false "Filter by kiosk"
// @Param created_by_id query int false "Filter by creator"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /service-requests [get]
func (h *TicketHandler) List(c *fiber.Ctx) error {
	input := &services.ListTicketsInput{
		Search: c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		s := domain.TicketStatus(raw)
		input.Status = &s
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'from' date")
		}
		input.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return response.BadRequest(c, "Invalid 'to' date")
		}
		input.To = &t
	}
	if raw := c.Query("technician_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid technician id")
		}
		v := uint(id)
		input.TechnicianID = &v
	}
	if raw := c.Query("kiosk_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid kiosk id")
		}
		v := uint(id)
		input.KioskID = &v
	}
	if raw := c.Query("created_by_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid creator id")
		}
		v := uint(id)
		input.CreatedByID = &v
	}
	input.Page, _ = strconv.Atoi(c.Query("page", "1"))
	input.Limit, _ = strconv.Atoi(c.Query("limit", "10"))

	out, err := h.ticketService.ListPaged(c.Context(), input)
	if err != nil {
		return response.DomainError(c, err, "Failed to list service requests")
	}

	return response.Success(c, "Service requests retrieved successfully", out)
}

// Get gets one service request
// @Summary Get service request by ID
// @Tags ServiceRequests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service request ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /service-requests/{id} [get]
func (h *TicketHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid service request id")
	}

	ticket, err := h.ticketService.GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get service request")
	}

	return response.Success(c, "Service request retrieved successfully", fiber.Map{
		"service_request": ticket,
	})
}

// CloseRequest represents close request body
type CloseRequest struct {
	ResolvedDate *time.Time `json:"resolved_date"`
}

// Close closes a service request
// @Summary Close service request
// @Tags ServiceRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Service request ID"
// @Param body body CloseRequest false "Resolution data"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /service-requests/{id}/close [post]
func (h *TicketHandler) Close(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid service request id")
	}

	var req CloseRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	resolvedDate := time.Time{}
	if req.ResolvedDate != nil {
		resolvedDate = *req.ResolvedDate
	}

	ticket, err := h.ticketService.Close(c.Context(), id, resolvedDate)
	if err != nil {
		return response.DomainError(c, err, "Failed to close service request")
	}

	return response.Success(c, "Service request closed successfully", fiber.Map{
		"service_request": ticket,
	})
}

// BulkDeleteRequest represents bulk delete request body
type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

// BulkDelete deletes several service requests at once
// @Summary Bulk delete service requests
// @Tags ServiceRequests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkDeleteRequest true "IDs to delete"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /service-requests/bulk-delete [post]
func (h *TicketHandler) BulkDelete(c *fiber.Ctx) error {
	var req BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	deleted, err := h.ticketService.BulkDelete(c.Context(), req.IDs)
	if err != nil {
		return response.DomainError(c, err, "Failed to delete service requests")
	}

	return response.Success(c, "Service requests deleted successfully", fiber.Map{
		"deleted": deleted,
	})
}

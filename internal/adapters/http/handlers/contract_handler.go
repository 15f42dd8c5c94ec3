package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/core/services"
	"gbh-kioskhub/internal/pkg/response"
)

// ContractHandler handles contract endpoints
type ContractHandler struct {
	contractService *services.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// List lists contracts. Clients only see their own.
// @Summary List contracts
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param client_id query int false "Filter by client"
// @Success 200 {object} response.Response
// @Router /contracts [get]
func (h *ContractHandler) List(c *fiber.Ctx) error {
	var status *domain.ContractStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ContractStatus(raw)
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

	if currentRole(c) == domain.RoleClient {
		userID, ok := currentUserID(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		clientID = &userID
	}

	contracts, err := h.contractService.List(c.Context(), status, clientID)
	if err != nil {
		return response.DomainError(c, err, "Failed to list contracts")
	}

	return response.Success(c, "Contracts retrieved successfully", fiber.Map{
		"contracts": contracts,
	})
}

// Get gets one contract with its audit trail
// @Summary Get contract by ID
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contract ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contracts/{id} [get]
func (h *ContractHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid contract id")
	}

	contract, err := h.contractService.GetByID(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get contract")
	}

	if currentRole(c) == domain.RoleClient {
		userID, _ := currentUserID(c)
		if contract.ClientID != userID {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
	}

	return response.Success(c, "Contract retrieved successfully", fiber.Map{
		"contract": contract,
	})
}

// GetActions returns the contract audit trail
// @Summary Get contract actions
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contract ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contracts/{id}/actions [get]
func (h *ContractHandler) GetActions(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid contract id")
	}

	actions, err := h.contractService.GetActions(c.Context(), id)
	if err != nil {
		return response.DomainError(c, err, "Failed to get contract actions")
	}

	return response.Success(c, "Contract actions retrieved successfully", fiber.Map{
		"actions": actions,
	})
}

// AttachKioskRequest represents attach kiosk request body
type AttachKioskRequest struct {
	KioskID uint `json:"kiosk_id"`
}

// AttachKiosk assigns a kiosk to a contract
// @Summary Attach kiosk to contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Contract ID"
// @Param body body AttachKioskRequest true "Kiosk"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /contracts/{id}/kiosks [post]
func (h *ContractHandler) AttachKiosk(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid contract id")
	}

	var req AttachKioskRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.KioskID == 0 {
		return response.BadRequest(c, "Kiosk id is required")
	}

	contract, err := h.contractService.AttachKiosk(c.Context(), id, req.KioskID, userID)
	if err != nil {
		return response.DomainError(c, err, "Failed to attach kiosk")
	}

	return response.Success(c, "Kiosk attached successfully", fiber.Map{
		"contract": contract,
	})
}

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
)

// Contract service errors
var (
	ErrContractNotFound  = fmt.Errorf("%w: contract not found", domain.ErrNotFound)
	ErrContractBadStatus = fmt.Errorf("%w: unknown contract status", domain.ErrValidation)
)

// ContractService exposes read access to contracts and their audit trail.
// Contracts are only ever created through proforma conversion.
type ContractService struct {
	contractRepo repositories.ContractRepository
	kioskRepo    repositories.KioskRepository
}

// NewContractService creates a new contract service
func NewContractService(contractRepo repositories.ContractRepository, kioskRepo repositories.KioskRepository) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		kioskRepo:    kioskRepo,
	}
}

// GetByID gets a contract with its actions preloaded.
func (s *ContractService) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

// List lists contracts, optionally filtered by status and/or client.
func (s *ContractService) List(ctx context.Context, status *domain.ContractStatus, clientID *uint) ([]*models.Contract, error) {
	if status != nil && !status.Valid() {
		return nil, ErrContractBadStatus
	}
	return s.contractRepo.List(ctx, status, clientID)
}

// GetActions returns the audit trail of a contract, oldest first.
func (s *ContractService) GetActions(ctx context.Context, contractID uint) ([]*models.ContractAction, error) {
	if _, err := s.GetByID(ctx, contractID); err != nil {
		return nil, err
	}
	return s.contractRepo.GetActions(ctx, contractID)
}

// AttachKiosk assigns a kiosk to a contract and marks it IN_USE, with an
// audit action recording who did it.
func (s *ContractService) AttachKiosk(ctx context.Context, contractID, kioskID uint, performedBy uint) (*models.Contract, error) {
	contract, err := s.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}

	kiosk, err := s.kioskRepo.GetByID(ctx, kioskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKioskNotFound
		}
		return nil, err
	}
	if kiosk.Status != domain.KioskAvailable {
		return nil, fmt.Errorf("%w: kiosk %s is not available", domain.ErrState, kiosk.Code)
	}

	if err := s.contractRepo.AttachKiosk(ctx, contract, kiosk); err != nil {
		return nil, err
	}
	if err := s.kioskRepo.SetStatus(ctx, kiosk.ID, domain.KioskInUse); err != nil {
		return nil, err
	}

	action := &models.ContractAction{
		ContractID:  contract.ID,
		Action:      models.ActionKioskAttached,
		Description: fmt.Sprintf("Kiosque %s rattaché au contrat", kiosk.Code),
		PerformedBy: &performedBy,
	}
	if err := s.contractRepo.AddAction(ctx, action); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, contractID)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
)

// Kiosk service errors
var (
	ErrKioskNotFound   = fmt.Errorf("%w: kiosk not found", domain.ErrNotFound)
	ErrKioskCodeTaken  = fmt.Errorf("%w: kiosk code already in use", domain.ErrConflict)
	ErrKioskNotInMaint = fmt.Errorf("%w: kiosk is not under maintenance", domain.ErrState)
)

// KioskService handles kiosk management and owns the rule coupling
// service request state to kiosk availability.
type KioskService struct {
	kioskRepo repositories.KioskRepository
}

// NewKioskService creates a new kiosk service
func NewKioskService(kioskRepo repositories.KioskRepository) *KioskService {
	return &KioskService{kioskRepo: kioskRepo}
}

// CreateKioskInput represents create kiosk input
type CreateKioskInput struct {
	Code      string `json:"code" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address,omitempty"`
	Zone      string `json:"zone,omitempty"`
	City      string `json:"city,omitempty"`
	ManagerID *uint  `json:"manager_id,omitempty"`
}

// Create creates a new kiosk
func (s *KioskService) Create(ctx context.Context, input *CreateKioskInput) (*models.Kiosk, error) {
	if input.Code == "" || input.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", domain.ErrValidation)
	}

	taken, err := s.kioskRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrKioskCodeTaken
	}

	kiosk := &models.Kiosk{
		Code:      input.Code,
		Name:      input.Name,
		Address:   input.Address,
		Zone:      input.Zone,
		City:      input.City,
		Status:    domain.KioskAvailable,
		ManagerID: input.ManagerID,
	}

	if err := s.kioskRepo.Create(ctx, kiosk); err != nil {
		return nil, err
	}

	logrus.Infof("Kiosk created: %s (%s)", kiosk.Code, kiosk.Name)
	return kiosk, nil
}

// GetByID gets a kiosk by ID
func (s *KioskService) GetByID(ctx context.Context, id uint) (*models.Kiosk, error) {
	kiosk, err := s.kioskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKioskNotFound
		}
		return nil, err
	}
	return kiosk, nil
}

// ListKiosksInput represents list input
type ListKiosksInput struct {
	Status *domain.KioskStatus
	Page   int
	Limit  int
}

// ListKiosksOutput represents list output
type ListKiosksOutput struct {
	Kiosks     []*models.Kiosk `json:"kiosks"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// List lists kiosks
func (s *KioskService) List(ctx context.Context, input *ListKiosksInput) (*ListKiosksOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	kiosks, total, err := s.kioskRepo.List(ctx, input.Status, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListKiosksOutput{
		Kiosks:     kiosks,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateKioskInput represents update kiosk input
type UpdateKioskInput struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	Zone      *string `json:"zone"`
	City      *string `json:"city"`
	ManagerID *uint   `json:"manager_id"`
}

// Update updates a kiosk's descriptive fields
func (s *KioskService) Update(ctx context.Context, id uint, input *UpdateKioskInput) (*models.Kiosk, error) {
	kiosk, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		kiosk.Name = *input.Name
	}
	if input.Address != nil {
		kiosk.Address = *input.Address
	}
	if input.Zone != nil {
		kiosk.Zone = *input.Zone
	}
	if input.City != nil {
		kiosk.City = *input.City
	}
	if input.ManagerID != nil {
		kiosk.ManagerID = input.ManagerID
	}

	if err := s.kioskRepo.Update(ctx, kiosk); err != nil {
		return nil, err
	}
	return kiosk, nil
}

// SetUnderMaintenance forces a kiosk into UNDER_MAINTENANCE. This is an
// unconditional overwrite, not a guarded transition: opening a service
// request must land the kiosk in maintenance whatever its prior status,
// and re-applying the rule is idempotent.
func (s *KioskService) SetUnderMaintenance(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.kioskRepo.SetStatus(ctx, id, domain.KioskUnderMaintenance)
}

// ReleaseFromMaintenance returns a kiosk to AVAILABLE. Unlike the forced
// entry above, release is a guarded transition: only a kiosk currently
// UNDER_MAINTENANCE may be released.
func (s *KioskService) ReleaseFromMaintenance(ctx context.Context, id uint) error {
	kiosk, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if kiosk.Status != domain.KioskUnderMaintenance {
		return ErrKioskNotInMaint
	}
	return s.kioskRepo.SetStatus(ctx, id, domain.KioskAvailable)
}

// CountInMaintenance counts kiosks currently under maintenance
func (s *KioskService) CountInMaintenance(ctx context.Context) (int64, error) {
	return s.kioskRepo.CountByStatus(ctx, domain.KioskUnderMaintenance)
}

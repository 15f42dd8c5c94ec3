package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/ident"
)

// Default commercial terms applied when a proforma becomes a contract.
const (
	defaultContractMonths   = 12
	defaultPaymentFrequency = "monthly"
	proformaValidityDays    = 30
)

// Proforma service errors
var (
	ErrProformaNotFound       = fmt.Errorf("%w: proforma not found", domain.ErrNotFound)
	ErrProformaNotDeletable   = fmt.Errorf("%w: only draft proformas can be deleted", domain.ErrState)
	ErrProformaNotConvertible = fmt.Errorf("%w: only accepted proformas can be converted", domain.ErrState)
	ErrProformaBadStatus      = fmt.Errorf("%w: unknown proforma status", domain.ErrValidation)
	ErrProformaBadAmount      = fmt.Errorf("%w: total amount must be positive", domain.ErrValidation)
	ErrProformaClientRequired = fmt.Errorf("%w: client is required", domain.ErrValidation)
	ErrProformaKioskType      = fmt.Errorf("%w: kiosk type is required", domain.ErrValidation)
	ErrProformaBadQuantity    = fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
)

// ProformaService handles price quotations and their promotion into
// rental contracts.
type ProformaService struct {
	db           *gorm.DB
	proformaRepo repositories.ProformaRepository
	contractRepo repositories.ContractRepository
	userRepo     repositories.UserRepository
	renderer     DocumentRenderer
}

// NewProformaService creates a new proforma service
func NewProformaService(
	db *gorm.DB,
	proformaRepo repositories.ProformaRepository,
	contractRepo repositories.ContractRepository,
	userRepo repositories.UserRepository,
	renderer DocumentRenderer,
) *ProformaService {
	return &ProformaService{
		db:           db,
		proformaRepo: proformaRepo,
		contractRepo: contractRepo,
		userRepo:     userRepo,
		renderer:     renderer,
	}
}

// CreateProformaInput represents create proforma input
type CreateProformaInput struct {
	ClientID      uint     `json:"client_id" validate:"required"`
	KioskType     string   `json:"kiosk_type" validate:"required"`
	Quantity      int      `json:"quantity" validate:"required,min=1"`
	Surfaces      []string `json:"surfaces,omitempty"`
	BasePrice     float64  `json:"base_price"`
	BrandingPrice float64  `json:"branding_price"`
	TotalAmount   float64  `json:"total_amount" validate:"required,gt=0"`
}

// Create issues a new proforma valid for 30 days.
func (s *ProformaService) Create(ctx context.Context, input *CreateProformaInput, createdByID uint) (*models.Proforma, error) {
	if input.ClientID == 0 {
		return nil, ErrProformaClientRequired
	}
	if input.KioskType == "" {
		return nil, ErrProformaKioskType
	}
	if input.Quantity < 1 {
		return nil, ErrProformaBadQuantity
	}
	if input.TotalAmount <= 0 {
		return nil, ErrProformaBadAmount
	}

	client, err := s.userRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client not found", domain.ErrNotFound)
		}
		return nil, err
	}

	proforma := &models.Proforma{
		ProformaNumber: ident.ProformaNumber(),
		ClientID:       client.ID,
		KioskType:      input.KioskType,
		Quantity:       input.Quantity,
		Surfaces:       input.Surfaces,
		BasePrice:      input.BasePrice,
		BrandingPrice:  input.BrandingPrice,
		TotalAmount:    input.TotalAmount,
		ExpiryDate:     time.Now().AddDate(0, 0, proformaValidityDays),
		Status:         domain.ProformaDraft,
		CreatedByID:    &createdByID,
	}

	if err := s.proformaRepo.Create(ctx, proforma); err != nil {
		return nil, err
	}

	// Document rendering is best-effort: the proforma is valid without it.
	if url, err := s.renderer.RenderProforma(ctx, proforma, client); err != nil {
		logrus.Warnf("Proforma %s: document rendering failed: %v", proforma.ProformaNumber, err)
	} else if url != "" {
		proforma.DocumentURL = url
		if err := s.proformaRepo.Update(ctx, proforma); err != nil {
			logrus.Warnf("Proforma %s: saving document URL failed: %v", proforma.ProformaNumber, err)
		}
	}

	logrus.Infof("Proforma created: %s for client #%d", proforma.ProformaNumber, client.ID)
	return proforma, nil
}

// UpdateStatus moves a proforma to the given status. Any transition
// between valid statuses is accepted; guarding happens at the operations
// that depend on status (delete, convert).
func (s *ProformaService) UpdateStatus(ctx context.Context, id uint, status domain.ProformaStatus) (*models.Proforma, error) {
	if !status.Valid() {
		return nil, ErrProformaBadStatus
	}

	proforma, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	proforma.Status = status
	if err := s.proformaRepo.Update(ctx, proforma); err != nil {
		return nil, err
	}
	return proforma, nil
}

// ConvertToContract turns an accepted proforma into a 12-month contract.
// Contract creation, the audit action and the proforma flip to CONVERTED
// are one transaction.
func (s *ProformaService) ConvertToContract(ctx context.Context, id uint, performedBy uint) (*models.Contract, error) {
	proforma, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanConvertProforma(proforma.Status) {
		return nil, ErrProformaNotConvertible
	}

	client, err := s.userRepo.GetByID(ctx, proforma.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client not found", domain.ErrNotFound)
		}
		return nil, err
	}

	contract := &models.Contract{
		ContractNumber:   ident.ContractNumber(),
		Title:            fmt.Sprintf("Contrat de location - %s", proforma.KioskType),
		Status:           domain.ContractActive,
		ClientID:         client.ID,
		ClientName:       client.Name,
		ClientPhone:      client.Phone,
		ClientAddress:    client.Address,
		DurationMonths:   defaultContractMonths,
		PaymentFrequency: defaultPaymentFrequency,
		PaymentAmount:    proforma.TotalAmount / defaultContractMonths,
		TotalAmount:      proforma.TotalAmount,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contracts := s.contractRepo.WithTx(tx)

		if err := contracts.Create(ctx, contract); err != nil {
			return err
		}

		action := &models.ContractAction{
			ContractID:  contract.ID,
			Action:      models.ActionCreatedFromProforma,
			Description: fmt.Sprintf("Contrat créé depuis la proforma %s", proforma.ProformaNumber),
			PerformedBy: &performedBy,
		}
		if err := contracts.AddAction(ctx, action); err != nil {
			return err
		}

		proforma.Status = domain.ProformaConverted
		proforma.ContractID = &contract.ID
		return s.proformaRepo.WithTx(tx).Update(ctx, proforma)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, best-effort rendering.
	if url, err := s.renderer.RenderContract(ctx, contract); err != nil {
		logrus.Warnf("Contract %s: document rendering failed: %v", contract.ContractNumber, err)
	} else if url != "" {
		contract.DocumentURL = url
		if err := s.contractRepo.Update(ctx, contract); err != nil {
			logrus.Warnf("Contract %s: saving document URL failed: %v", contract.ContractNumber, err)
		}
	}

	logrus.Infof("Proforma %s converted to contract %s", proforma.ProformaNumber, contract.ContractNumber)
	return contract, nil
}

// GetByID gets a proforma by ID
func (s *ProformaService) GetByID(ctx context.Context, id uint) (*models.Proforma, error) {
	proforma, err := s.proformaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProformaNotFound
		}
		return nil, err
	}
	return proforma, nil
}

// List lists proformas, optionally filtered by status and/or client.
func (s *ProformaService) List(ctx context.Context, status *domain.ProformaStatus, clientID *uint) ([]*models.Proforma, error) {
	if status != nil && !status.Valid() {
		return nil, ErrProformaBadStatus
	}
	return s.proformaRepo.List(ctx, status, clientID)
}

// Delete removes a proforma. Only drafts can be deleted.
func (s *ProformaService) Delete(ctx context.Context, id uint) error {
	proforma, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteProforma(proforma.Status) {
		return ErrProformaNotDeletable
	}
	return s.proformaRepo.Delete(ctx, id)
}

// MarkExpired flips past-due DRAFT and SENT proformas to EXPIRED. Called
// by the nightly sweep.
func (s *ProformaService) MarkExpired(ctx context.Context) (int64, error) {
	n, err := s.proformaRepo.MarkExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logrus.Infof("Expired %d proforma(s)", n)
	}
	return n, nil
}

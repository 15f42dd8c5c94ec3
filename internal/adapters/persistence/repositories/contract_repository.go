package repositories

import (
	"context"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"

	"gorm.io/gorm"
)

// contractRepository implements ContractRepository interface
type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *contractRepository) WithTx(tx *gorm.DB) ContractRepository {
	return &contractRepository{db: tx}
}

// Create creates a new contract
func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// GetByID gets a contract by ID with its kiosks and audit actions
func (r *contractRepository) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Kiosks").
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("contract_actions.created_at ASC")
		}).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// List lists contracts newest first, optionally filtered by status and client
func (r *contractRepository) List(ctx context.Context, status *domain.ContractStatus, clientID *uint) ([]*models.Contract, error) {
	var contracts []*models.Contract

	q := r.db.WithContext(ctx).Preload("Client").Preload("Kiosks")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	err := q.Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

// Update updates a contract
func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

// AddAction records an audit action against a contract
func (r *contractRepository) AddAction(ctx context.Context, action *models.ContractAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

// GetActions returns a contract's audit actions, oldest first
func (r *contractRepository) GetActions(ctx context.Context, contractID uint) ([]*models.ContractAction, error) {
	var actions []*models.ContractAction
	err := r.db.WithContext(ctx).
		Preload("Performer").
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&actions).Error
	return actions, err
}

// AttachKiosk links a kiosk to a contract
func (r *contractRepository) AttachKiosk(ctx context.Context, contract *models.Contract, kiosk *models.Kiosk) error {
	return r.db.WithContext(ctx).Model(contract).Association("Kiosks").Append(kiosk)
}

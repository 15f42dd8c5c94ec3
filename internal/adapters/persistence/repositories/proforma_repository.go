package repositories

import (
	"context"
	"time"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"

	"gorm.io/gorm"
)

// proformaRepository implements ProformaRepository interface
type proformaRepository struct {
	db *gorm.DB
}

// NewProformaRepository creates a new proforma repository
func NewProformaRepository(db *gorm.DB) ProformaRepository {
	return &proformaRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *proformaRepository) WithTx(tx *gorm.DB) ProformaRepository {
	return &proformaRepository{db: tx}
}

// Create creates a new proforma
func (r *proformaRepository) Create(ctx context.Context, proforma *models.Proforma) error {
	return r.db.WithContext(ctx).Create(proforma).Error
}

// GetByID gets a proforma by ID
func (r *proformaRepository) GetByID(ctx context.Context, id uint) (*models.Proforma, error) {
	var proforma models.Proforma
	err := r.db.WithContext(ctx).
		Preload("Client").
		First(&proforma, id).Error
	if err != nil {
		return nil, err
	}
	return &proforma, nil
}

// List lists proformas newest first, optionally filtered by status and client
func (r *proformaRepository) List(ctx context.Context, status *domain.ProformaStatus, clientID *uint) ([]*models.Proforma, error) {
	var proformas []*models.Proforma

	q := r.db.WithContext(ctx).Preload("Client")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}

	err := q.Order("created_at DESC").Find(&proformas).Error
	return proformas, err
}

// Update updates a proforma
func (r *proformaRepository) Update(ctx context.Context, proforma *models.Proforma) error {
	return r.db.WithContext(ctx).Save(proforma).Error
}

// Delete soft deletes a proforma
func (r *proformaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Proforma{}, id).Error
}

// MarkExpired moves DRAFT and SENT proformas past their expiry date to
// EXPIRED and returns the number of rows affected.
func (r *proformaRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Proforma{}).
		Where("status IN ?", []domain.ProformaStatus{domain.ProformaDraft, domain.ProformaSent}).
		Where("expiry_date < ?", now).
		Update("status", domain.ProformaExpired)
	return res.RowsAffected, res.Error
}

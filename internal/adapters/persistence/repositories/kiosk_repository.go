package repositories

import (
	"context"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"

	"gorm.io/gorm"
)

// kioskRepository implements KioskRepository interface
type kioskRepository struct {
	db *gorm.DB
}

// NewKioskRepository creates a new kiosk repository
func NewKioskRepository(db *gorm.DB) KioskRepository {
	return &kioskRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *kioskRepository) WithTx(tx *gorm.DB) KioskRepository {
	return &kioskRepository{db: tx}
}

// Create creates a new kiosk
func (r *kioskRepository) Create(ctx context.Context, kiosk *models.Kiosk) error {
	return r.db.WithContext(ctx).Create(kiosk).Error
}

// GetByID gets a kiosk by ID
func (r *kioskRepository) GetByID(ctx context.Context, id uint) (*models.Kiosk, error) {
	var kiosk models.Kiosk
	err := r.db.WithContext(ctx).
		Preload("Manager").
		First(&kiosk, id).Error
	if err != nil {
		return nil, err
	}
	return &kiosk, nil
}

// ExistsByCode checks if a kiosk code is already taken
func (r *kioskRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Kiosk{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// List lists kiosks with pagination, optionally filtered by status
func (r *kioskRepository) List(ctx context.Context, status *domain.KioskStatus, offset, limit int) ([]*models.Kiosk, int64, error) {
	var kiosks []*models.Kiosk
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Kiosk{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Manager").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&kiosks).Error
	return kiosks, total, err
}

// Update updates a kiosk
func (r *kioskRepository) Update(ctx context.Context, kiosk *models.Kiosk) error {
	return r.db.WithContext(ctx).Save(kiosk).Error
}

// SetStatus overwrites a kiosk's availability status
func (r *kioskRepository) SetStatus(ctx context.Context, id uint, status domain.KioskStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Kiosk{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CountByStatus counts kiosks in a given status
func (r *kioskRepository) CountByStatus(ctx context.Context, status domain.KioskStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Kiosk{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

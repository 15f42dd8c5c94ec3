package repositories

import (
	"context"

	"gbh-kioskhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// prospectRepository implements ProspectRepository interface
type prospectRepository struct {
	db *gorm.DB
}

// NewProspectRepository creates a new prospect repository
func NewProspectRepository(db *gorm.DB) ProspectRepository {
	return &prospectRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *prospectRepository) WithTx(tx *gorm.DB) ProspectRepository {
	return &prospectRepository{db: tx}
}

// Create creates a new prospect
func (r *prospectRepository) Create(ctx context.Context, prospect *models.Prospect) error {
	return r.db.WithContext(ctx).Create(prospect).Error
}

// GetByID gets a prospect by ID
func (r *prospectRepository) GetByID(ctx context.Context, id uint) (*models.Prospect, error) {
	var prospect models.Prospect
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		First(&prospect, id).Error
	if err != nil {
		return nil, err
	}
	return &prospect, nil
}

// List lists all prospects, newest first
func (r *prospectRepository) List(ctx context.Context) ([]*models.Prospect, error) {
	var prospects []*models.Prospect
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Order("created_at DESC").
		Find(&prospects).Error
	return prospects, err
}

// Update updates a prospect
func (r *prospectRepository) Update(ctx context.Context, prospect *models.Prospect) error {
	return r.db.WithContext(ctx).Save(prospect).Error
}

// Delete soft deletes a prospect
func (r *prospectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Prospect{}, id).Error
}

// quoteRepository implements QuoteRepository interface
type quoteRepository struct {
	db *gorm.DB
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *quoteRepository) WithTx(tx *gorm.DB) QuoteRepository {
	return &quoteRepository{db: tx}
}

// Create creates a new quote
func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// ListByClient lists quotes for a client
func (r *quoteRepository) ListByClient(ctx context.Context, clientID uint) ([]*models.Quote, error) {
	var quotes []*models.Quote
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&quotes).Error
	return quotes, err
}

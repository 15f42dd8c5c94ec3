package repositories

import (
	"context"
	"strings"
	"time"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"

	"gorm.io/gorm"
)

// TicketFilter narrows a paged service request listing.
type TicketFilter struct {
	Search       string
	Status       *domain.TicketStatus
	From         *time.Time
	To           *time.Time
	TechnicianID *uint
	KioskID      *uint
	CreatedByID  *uint
}

// ticketRepository implements TicketRepository interface
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new service request repository
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// WithTx returns a copy of the repository bound to a transaction handle.
func (r *ticketRepository) WithTx(tx *gorm.DB) TicketRepository {
	return &ticketRepository{db: tx}
}

// Create creates a new service request and its technician links
func (r *ticketRepository) Create(ctx context.Context, ticket *models.ServiceRequest) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// GetByID gets a service request by ID
func (r *ticketRepository) GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	var ticket models.ServiceRequest
	err := r.db.WithContext(ctx).
		Preload("Kiosk").
		Preload("Technicians").
		First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListPaged lists service requests newest first with offset pagination.
// The free-text search matches case-insensitively against the ticket id,
// the kiosk name, the technician names and the problem description.
func (r *ticketRepository) ListPaged(ctx context.Context, filter *TicketFilter, offset, limit int) ([]*models.ServiceRequest, int64, error) {
	var tickets []*models.ServiceRequest
	var total int64

	q := r.db.WithContext(ctx).Model(&models.ServiceRequest{})

	if filter != nil {
		if filter.Status != nil {
			q = q.Where("service_requests.status = ?", *filter.Status)
		}
		if filter.KioskID != nil {
			q = q.Where("service_requests.kiosk_id = ?", *filter.KioskID)
		}
		if filter.CreatedByID != nil {
			q = q.Where("service_requests.created_by_id = ?", *filter.CreatedByID)
		}
		if filter.From != nil {
			q = q.Where("service_requests.created_at >= ?", *filter.From)
		}
		if filter.To != nil {
			q = q.Where("service_requests.created_at <= ?", *filter.To)
		}
		if filter.TechnicianID != nil {
			q = q.Where("service_requests.id IN (?)",
				r.db.Table("service_request_technicians").
					Select("service_request_id").
					Where("user_id = ?", *filter.TechnicianID))
		}
		if s := strings.TrimSpace(filter.Search); s != "" {
			like := "%" + strings.ToLower(s) + "%"
			q = q.Where(
				r.db.Where("CAST(service_requests.id AS CHAR) LIKE ?", like).
					Or("LOWER(service_requests.problem_description) LIKE ?", like).
					Or("service_requests.kiosk_id IN (?)",
						r.db.Model(&models.Kiosk{}).Select("id").Where("LOWER(name) LIKE ?", like)).
					Or("service_requests.id IN (?)",
						r.db.Table("service_request_technicians srt").
							Select("srt.service_request_id").
							Joins("JOIN users u ON u.id = srt.user_id").
							Where("LOWER(u.name) LIKE ?", like)),
			)
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Kiosk").
		Preload("Technicians").
		Order("service_requests.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&tickets).Error
	return tickets, total, err
}

// Update updates a service request
func (r *ticketRepository) Update(ctx context.Context, ticket *models.ServiceRequest) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// BulkDelete soft deletes the given service requests
func (r *ticketRepository) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.ServiceRequest{}, ids)
	return res.RowsAffected, res.Error
}

// Count counts all service requests
func (r *ticketRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ServiceRequest{}).Count(&count).Error
	return count, err
}

// CountOpenByKiosk counts open (non-closed) tickets for a kiosk
func (r *ticketRepository) CountOpenByKiosk(ctx context.Context, kioskID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("kiosk_id = ?", kioskID).
		Where("status <> ?", domain.TicketClosed).
		Count(&count).Error
	return count, err
}

// CountOpenedSince counts tickets created at or after the given instant
func (r *ticketRepository) CountOpenedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// CountClosedSince counts tickets resolved at or after the given instant
func (r *ticketRepository) CountClosedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRequest{}).
		Where("status = ?", domain.TicketClosed).
		Where("resolved_date >= ?", since).
		Count(&count).Error
	return count, err
}

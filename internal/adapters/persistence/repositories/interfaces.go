package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, role *domain.Role, offset, limit int) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// ProspectRepository defines prospect repository interface
type ProspectRepository interface {
	WithTx(tx *gorm.DB) ProspectRepository
	Create(ctx context.Context, prospect *models.Prospect) error
	GetByID(ctx context.Context, id uint) (*models.Prospect, error)
	List(ctx context.Context) ([]*models.Prospect, error)
	Update(ctx context.Context, prospect *models.Prospect) error
	Delete(ctx context.Context, id uint) error
}

// QuoteRepository defines quote repository interface
type QuoteRepository interface {
	WithTx(tx *gorm.DB) QuoteRepository
	Create(ctx context.Context, quote *models.Quote) error
	ListByClient(ctx context.Context, clientID uint) ([]*models.Quote, error)
}

// ProformaRepository defines proforma repository interface
type ProformaRepository interface {
	WithTx(tx *gorm.DB) ProformaRepository
	Create(ctx context.Context, proforma *models.Proforma) error
	GetByID(ctx context.Context, id uint) (*models.Proforma, error)
	List(ctx context.Context, status *domain.ProformaStatus, clientID *uint) ([]*models.Proforma, error)
	Update(ctx context.Context, proforma *models.Proforma) error
	Delete(ctx context.Context, id uint) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// ContractRepository defines contract repository interface
type ContractRepository interface {
	WithTx(tx *gorm.DB) ContractRepository
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id uint) (*models.Contract, error)
	List(ctx context.Context, status *domain.ContractStatus, clientID *uint) ([]*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
	AddAction(ctx context.Context, action *models.ContractAction) error
	GetActions(ctx context.Context, contractID uint) ([]*models.ContractAction, error)
	AttachKiosk(ctx context.Context, contract *models.Contract, kiosk *models.Kiosk) error
}

// KioskRepository defines kiosk repository interface
type KioskRepository interface {
	WithTx(tx *gorm.DB) KioskRepository
	Create(ctx context.Context, kiosk *models.Kiosk) error
	GetByID(ctx context.Context, id uint) (*models.Kiosk, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, status *domain.KioskStatus, offset, limit int) ([]*models.Kiosk, int64, error)
	Update(ctx context.Context, kiosk *models.Kiosk) error
	SetStatus(ctx context.Context, id uint, status domain.KioskStatus) error
	CountByStatus(ctx context.Context, status domain.KioskStatus) (int64, error)
}

// TicketRepository defines service request repository interface
type TicketRepository interface {
	WithTx(tx *gorm.DB) TicketRepository
	Create(ctx context.Context, ticket *models.ServiceRequest) error
	GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error)
	ListPaged(ctx context.Context, filter *TicketFilter, offset, limit int) ([]*models.ServiceRequest, int64, error)
	Update(ctx context.Context, ticket *models.ServiceRequest) error
	BulkDelete(ctx context.Context, ids []uint) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountOpenByKiosk(ctx context.Context, kioskID uint) (int64, error)
	CountOpenedSince(ctx context.Context, since time.Time) (int64, error)
	CountClosedSince(ctx context.Context, since time.Time) (int64, error)
}

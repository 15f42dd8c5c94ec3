package models

import (
	"time"

	"gorm.io/gorm"

	"gbh-kioskhub/internal/core/domain"
)

// ============================================================
// Users & Auth
// ============================================================

// User represents the users table (billing clients and staff)
type User struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	Name              string            `gorm:"size:100;not null" json:"name"`
	Email             string            `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone             string            `gorm:"size:30" json:"phone"`
	Address           string            `gorm:"size:255" json:"address"`
	Password          string            `gorm:"size:255;not null" json:"-"`
	Role              domain.Role       `gorm:"size:20;default:'CLIENT'" json:"role"`
	Status            domain.UserStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	EmailVerified     bool              `gorm:"default:false" json:"email_verified"`
	VerificationToken string            `gorm:"size:64;index" json:"-"`
	ResetToken        string            `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry  *time.Time        `json:"-"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	Role          domain.Role       `json:"role"`
	Status        domain.UserStatus `json:"status"`
	EmailVerified bool              `json:"email_verified"`
	CreatedAt     time.Time         `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		Role:          u.Role,
		Status:        u.Status,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Prospects
// ============================================================

// Prospect represents the prospects table (sales funnel)
type Prospect struct {
	ID              uint                  `gorm:"primaryKey" json:"id"`
	Name            string                `gorm:"size:100;not null" json:"name"`
	Email           string                `gorm:"size:100" json:"email"`
	Phone           string                `gorm:"size:30" json:"phone"`
	Need            string                `gorm:"type:text" json:"need"`
	AssignedToID    *uint                 `json:"assigned_to_id"`
	CreatedByID     *uint                 `json:"created_by_id"`
	Status          domain.ProspectStatus `gorm:"size:20;default:'NEW'" json:"status"`
	ConvertedUserID *uint                 `json:"converted_user_id"`
	ConversionDate  *time.Time            `json:"conversion_date"`
	LastContactDate time.Time             `json:"last_contact_date"`
	CreatedAt       time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt        `gorm:"index" json:"-"`

	AssignedTo    *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	ConvertedUser *User `gorm:"foreignKey:ConvertedUserID" json:"converted_user,omitempty"`
}

func (Prospect) TableName() string {
	return "prospects"
}

// ProspectResponse DTO exposed to the UI: the funnel status is flattened
// into the 3-value statusId and email/phone into a single contact field.
type ProspectResponse struct {
	ID              uint                  `json:"id"`
	Name            string                `json:"name"`
	Contact         string                `json:"contact"`
	Need            string                `json:"need"`
	AssignedToID    *uint                 `json:"assigned_to_id"`
	Status          domain.ProspectStatus `json:"status"`
	StatusID        domain.StatusID       `json:"status_id"`
	ConvertedUserID *uint                 `json:"converted_user_id"`
	LastContactDate time.Time             `json:"last_contact_date"`
	CreatedAt       time.Time             `json:"created_at"`
}

func (p *Prospect) ToResponse() *ProspectResponse {
	contact := p.Email
	if contact == "" {
		contact = p.Phone
	}
	return &ProspectResponse{
		ID:              p.ID,
		Name:            p.Name,
		Contact:         contact,
		Need:            p.Need,
		AssignedToID:    p.AssignedToID,
		Status:          p.Status,
		StatusID:        domain.ProspectStatusToStatusID(p.Status),
		ConvertedUserID: p.ConvertedUserID,
		LastContactDate: p.LastContactDate,
		CreatedAt:       p.CreatedAt,
	}
}

// Quote represents the quotes table. A quote is opened automatically when
// a prospect with a recorded need is converted into a client.
type Quote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Need      string    `gorm:"type:text" json:"need"`
	Status    string    `gorm:"size:20;default:'NEW'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Client *User `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

func (Quote) TableName() string {
	return "quotes"
}

// ============================================================
// Proformas & Contracts
// ============================================================

// Proforma represents the proformas table (price quotations)
type Proforma struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	ProformaNumber string                `gorm:"size:50;uniqueIndex;not null" json:"proforma_number"`
	ClientID       uint                  `gorm:"not null;index" json:"client_id"`
	KioskType      string                `gorm:"size:50;not null" json:"kiosk_type"`
	Quantity       int                   `gorm:"not null" json:"quantity"`
	Surfaces       []string              `gorm:"serializer:json" json:"surfaces"`
	BasePrice      float64               `gorm:"type:decimal(15,2)" json:"base_price"`
	BrandingPrice  float64               `gorm:"type:decimal(15,2)" json:"branding_price"`
	TotalAmount    float64               `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	ExpiryDate     time.Time             `gorm:"not null" json:"expiry_date"`
	Status         domain.ProformaStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	ContractID     *uint                 `json:"contract_id"`
	DocumentURL    string                `gorm:"size:500" json:"document_url"`
	CreatedByID    *uint                 `json:"created_by_id"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt        `gorm:"index" json:"-"`

	Client   *User     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Contract *Contract `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
}

func (Proforma) TableName() string {
	return "proformas"
}

// Contract represents the contracts table. Client fields are a snapshot
// taken at creation time so historical documents stay stable even if the
// user record changes later.
type Contract struct {
	ID               uint                  `gorm:"primaryKey" json:"id"`
	ContractNumber   string                `gorm:"size:50;uniqueIndex;not null" json:"contract_number"`
	Title            string                `gorm:"size:200" json:"title"`
	Status           domain.ContractStatus `gorm:"size:20;default:'DRAFT'" json:"status"`
	ClientID         uint                  `gorm:"not null;index" json:"client_id"`
	ClientName       string                `gorm:"size:100" json:"client_name"`
	ClientPhone      string                `gorm:"size:30" json:"client_phone"`
	ClientAddress    string                `gorm:"size:255" json:"client_address"`
	DurationMonths   int                   `gorm:"not null" json:"duration_months"`
	PaymentFrequency string                `gorm:"size:20" json:"payment_frequency"`
	PaymentAmount    float64               `gorm:"type:decimal(15,2)" json:"payment_amount"`
	TotalAmount      float64               `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	DocumentURL      string                `gorm:"size:500" json:"document_url"`
	CreatedAt        time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt        `gorm:"index" json:"-"`

	Client  *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Kiosks  []Kiosk          `gorm:"many2many:contract_kiosks" json:"kiosks,omitempty"`
	Actions []ContractAction `gorm:"foreignKey:ContractID" json:"actions,omitempty"`
}

func (Contract) TableName() string {
	return "contracts"
}

// ContractAction is one audit event recorded against a contract.
type ContractAction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContractID  uint      `gorm:"not null;index" json:"contract_id"`
	Action      string    `gorm:"size:50;not null" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	PerformedBy *uint     `json:"performed_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Performer *User `gorm:"foreignKey:PerformedBy" json:"performer,omitempty"`
}

func (ContractAction) TableName() string {
	return "contract_actions"
}

// Contract action codes
const (
	ActionCreatedFromProforma = "CONTRACT_CREATED_FROM_PROFORMA"
	ActionCreated             = "CONTRACT_CREATED"
	ActionStatusChanged       = "STATUS_CHANGED"
	ActionKioskAttached       = "KIOSK_ATTACHED"
	ActionDocumentRendered    = "DOCUMENT_RENDERED"
)

// ============================================================
// Kiosks & Service Requests
// ============================================================

// Kiosk represents the kiosks table (physical rented units)
type Kiosk struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	Code           string             `gorm:"size:30;uniqueIndex;not null" json:"code"`
	Name           string             `gorm:"size:100;not null" json:"name"`
	Address        string             `gorm:"size:255" json:"address"`
	Zone           string             `gorm:"size:50" json:"zone"`
	City           string             `gorm:"size:50" json:"city"`
	Status         domain.KioskStatus `gorm:"size:30;default:'AVAILABLE'" json:"status"`
	ManagerID      *uint              `json:"manager_id"`
	MonthlyRevenue float64            `gorm:"type:decimal(15,2);default:0" json:"monthly_revenue"`
	TotalRevenue   float64            `gorm:"type:decimal(15,2);default:0" json:"total_revenue"`
	CreatedAt      time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	Manager *User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

func (Kiosk) TableName() string {
	return "kiosks"
}

// ServiceRequest represents the service_requests table (maintenance tickets)
type ServiceRequest struct {
	ID                 uint                  `gorm:"primaryKey" json:"id"`
	KioskID            uint                  `gorm:"not null;index" json:"kiosk_id"`
	ProblemDescription string                `gorm:"type:text;not null" json:"problem_description"`
	Priority           domain.TicketPriority `gorm:"size:10;default:'NORMAL'" json:"priority"`
	Status             domain.TicketStatus   `gorm:"size:20;default:'OPEN'" json:"status"`
	Comments           string                `gorm:"type:text" json:"comments"`
	Attachments        []string              `gorm:"serializer:json" json:"attachments"`
	ResolvedDate       *time.Time            `json:"resolved_date"`
	CreatedByID        *uint                 `json:"created_by_id"`
	CreatedAt          time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt        `gorm:"index" json:"-"`

	Kiosk       *Kiosk `gorm:"foreignKey:KioskID" json:"kiosk,omitempty"`
	Technicians []User `gorm:"many2many:service_request_technicians" json:"technicians,omitempty"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Prospect{},
		&Quote{},
		&Kiosk{},
		&Contract{},
		&ContractAction{},
		&Proforma{},
		&ServiceRequest{},
	)
}

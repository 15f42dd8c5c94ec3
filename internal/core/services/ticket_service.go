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
)

// Ticket service errors
var (
	ErrTicketNotFound      = fmt.Errorf("%w: service request not found", domain.ErrNotFound)
	ErrTicketAlreadyClosed = fmt.Errorf("%w: service request already closed", domain.ErrState)
)

// TicketService handles maintenance service requests. Opening a ticket
// drives the kiosk into UNDER_MAINTENANCE through the kiosk service.
type TicketService struct {
	ticketRepo       repositories.TicketRepository
	userRepo         repositories.UserRepository
	kioskService     *KioskService
	autoReleaseKiosk bool
}

// NewTicketService creates a new service request service
func NewTicketService(
	ticketRepo repositories.TicketRepository,
	userRepo repositories.UserRepository,
	kioskService *KioskService,
	autoReleaseKiosk bool,
) *TicketService {
	return &TicketService{
		ticketRepo:       ticketRepo,
		userRepo:         userRepo,
		kioskService:     kioskService,
		autoReleaseKiosk: autoReleaseKiosk,
	}
}

// OpenTicketInput represents open service request input
type OpenTicketInput struct {
	KioskID            uint                  `json:"kiosk_id" validate:"required"`
	TechnicianIDs      []uint                `json:"technician_ids,omitempty"`
	ProblemDescription string                `json:"problem_description" validate:"required"`
	Priority           domain.TicketPriority `json:"priority,omitempty"`
	Comments           string                `json:"comments,omitempty"`
	Attachments        []string              `json:"attachments,omitempty"`
}

// Open creates a service request and forces the kiosk under maintenance.
// The kiosk overwrite happens whatever the kiosk's prior status was.
func (s *TicketService) Open(ctx context.Context, input *OpenTicketInput, createdByID uint) (*models.ServiceRequest, error) {
	if input.ProblemDescription == "" {
		return nil, fmt.Errorf("%w: problem description is required", domain.ErrValidation)
	}

	kiosk, err := s.kioskService.GetByID(ctx, input.KioskID)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}

	var technicians []models.User
	for _, id := range input.TechnicianIDs {
		tech, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: technician %d not found", domain.ErrNotFound, id)
			}
			return nil, err
		}
		technicians = append(technicians, *tech)
	}

	ticket := &models.ServiceRequest{
		KioskID:            kiosk.ID,
		ProblemDescription: input.ProblemDescription,
		Priority:           priority,
		Status:             domain.TicketOpen,
		Comments:           input.Comments,
		Attachments:        input.Attachments,
		CreatedByID:        &createdByID,
		Technicians:        technicians,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.kioskService.SetUnderMaintenance(ctx, kiosk.ID); err != nil {
		return nil, err
	}

	logrus.Infof("Service request #%d opened against kiosk %s", ticket.ID, kiosk.Code)
	return ticket, nil
}

// Close closes a service request. The kiosk is only restored to
// AVAILABLE when this was its last open ticket and auto-release is
// enabled in config; the default keeps the legacy behavior of leaving
// the kiosk under maintenance.
func (s *TicketService) Close(ctx context.Context, ticketID uint, resolvedDate time.Time) (*models.ServiceRequest, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketClosed {
		return nil, ErrTicketAlreadyClosed
	}

	if resolvedDate.IsZero() {
		resolvedDate = time.Now()
	}

	ticket.Status = domain.TicketClosed
	ticket.ResolvedDate = &resolvedDate

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if s.autoReleaseKiosk {
		open, err := s.ticketRepo.CountOpenByKiosk(ctx, ticket.KioskID)
		if err == nil && open == 0 {
			if err := s.kioskService.ReleaseFromMaintenance(ctx, ticket.KioskID); err != nil {
				logrus.Warnf("Could not release kiosk %d after last ticket closed: %v", ticket.KioskID, err)
			}
		}
	}

	logrus.Infof("Service request #%d closed", ticket.ID)
	return ticket, nil
}

// GetByID gets a service request by ID
func (s *TicketService) GetByID(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// ListTicketsInput represents paged list input
type ListTicketsInput struct {
	Search       string
	Status       *domain.TicketStatus
	From         *time.Time
	To           *time.Time
	TechnicianID *uint
	KioskID      *uint
	CreatedByID  *uint
	Page         int
	Limit        int
}

// ListTicketsOutput represents paged list output
type ListTicketsOutput struct {
	Tickets    []*models.ServiceRequest `json:"tickets"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
}

// ListPaged lists service requests newest first with offset pagination
func (s *TicketService) ListPaged(ctx context.Context, input *ListTicketsInput) (*ListTicketsOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	filter := &repositories.TicketFilter{
		Search:       input.Search,
		Status:       input.Status,
		From:         input.From,
		To:           input.To,
		TechnicianID: input.TechnicianID,
		KioskID:      input.KioskID,
		CreatedByID:  input.CreatedByID,
	}

	offset := (input.Page - 1) * input.Limit
	tickets, total, err := s.ticketRepo.ListPaged(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListTicketsOutput{
		Tickets:    tickets,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// BulkDelete deletes the given service requests
func (s *TicketService) BulkDelete(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids given", domain.ErrValidation)
	}
	return s.ticketRepo.BulkDelete(ctx, ids)
}

// MaintenanceMetrics aggregates the dashboard counters.
type MaintenanceMetrics struct {
	KiosksInMaintenance int64 `json:"kiosks_in_maintenance"`
	TotalTickets        int64 `json:"total_tickets"`
	OpenedThisMonth     int64 `json:"opened_this_month"`
	ClosedThisMonth     int64 `json:"closed_this_month"`
}

// Metrics computes the maintenance dashboard counters. Month boundary is
// the first calendar day of the current month in server-local time.
func (s *TicketService) Metrics(ctx context.Context) (*MaintenanceMetrics, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	inMaint, err := s.kioskService.CountInMaintenance(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.ticketRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	opened, err := s.ticketRepo.CountOpenedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	closed, err := s.ticketRepo.CountClosedSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &MaintenanceMetrics{
		KiosksInMaintenance: inMaint,
		TotalTickets:        total,
		OpenedThisMonth:     opened,
		ClosedThisMonth:     closed,
	}, nil
}

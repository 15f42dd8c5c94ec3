package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/password"
)

// Prospect service errors
var (
	ErrProspectNotFound     = fmt.Errorf("%w: prospect not found", domain.ErrNotFound)
	ErrProspectNoContact    = fmt.Errorf("%w: prospect has neither email nor phone", domain.ErrValidation)
	ErrProspectConverted    = fmt.Errorf("%w: prospect already converted", domain.ErrState)
	ErrProspectNameRequired = fmt.Errorf("%w: name is required", domain.ErrValidation)
)

// ProspectService handles the sales-funnel lifecycle of prospects and
// their conversion into billing client accounts.
type ProspectService struct {
	db           *gorm.DB
	prospectRepo repositories.ProspectRepository
	userRepo     repositories.UserRepository
	quoteRepo    repositories.QuoteRepository
	mailer       Mailer
}

// NewProspectService creates a new prospect service
func NewProspectService(
	db *gorm.DB,
	prospectRepo repositories.ProspectRepository,
	userRepo repositories.UserRepository,
	quoteRepo repositories.QuoteRepository,
	mailer Mailer,
) *ProspectService {
	return &ProspectService{
		db:           db,
		prospectRepo: prospectRepo,
		userRepo:     userRepo,
		quoteRepo:    quoteRepo,
		mailer:       mailer,
	}
}

// CreateProspectInput represents create prospect input
type CreateProspectInput struct {
	Name         string `json:"name" validate:"required"`
	Contact      string `json:"contact,omitempty"`
	Need         string `json:"need,omitempty"`
	AssignedToID *uint  `json:"assigned_to_id,omitempty"`
}

// Create creates a new prospect. A contact string containing '@' is
// stored as email, anything else as phone.
func (s *ProspectService) Create(ctx context.Context, input *CreateProspectInput, createdByID uint) (*models.Prospect, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProspectNameRequired
	}

	prospect := &models.Prospect{
		Name:            input.Name,
		Need:            input.Need,
		AssignedToID:    input.AssignedToID,
		CreatedByID:     &createdByID,
		Status:          domain.ProspectNew,
		LastContactDate: time.Now(),
	}
	applyContact(prospect, input.Contact)

	if err := s.prospectRepo.Create(ctx, prospect); err != nil {
		return nil, err
	}

	logrus.Infof("Prospect created: %s (#%d)", prospect.Name, prospect.ID)
	return prospect, nil
}

// UpdateProspectInput represents partial prospect update input. The
// StatusID field carries the coarse UI-facing status and is mapped onto
// the funnel status.
type UpdateProspectInput struct {
	Name         *string          `json:"name"`
	Contact      *string          `json:"contact"`
	Need         *string          `json:"need"`
	AssignedToID *uint            `json:"assigned_to_id"`
	StatusID     *domain.StatusID `json:"status_id"`
}

// Update applies a partial update and refreshes lastContactDate.
func (s *ProspectService) Update(ctx context.Context, id uint, input *UpdateProspectInput) (*models.Prospect, error) {
	prospect, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrProspectNameRequired
		}
		prospect.Name = *input.Name
	}
	if input.Contact != nil && *input.Contact != "" {
		applyContact(prospect, *input.Contact)
	}
	if input.Need != nil {
		prospect.Need = *input.Need
	}
	if input.AssignedToID != nil {
		prospect.AssignedToID = input.AssignedToID
	}
	if input.StatusID != nil {
		prospect.Status = domain.StatusIDToProspectStatus(*input.StatusID)
	}
	prospect.LastContactDate = time.Now()

	if err := s.prospectRepo.Update(ctx, prospect); err != nil {
		return nil, err
	}
	return prospect, nil
}

// applyContact routes a free-text contact into the email or phone field.
// The two are mutually exclusive: the latest write clears the other.
func applyContact(p *models.Prospect, contact string) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return
	}
	if strings.Contains(contact, "@") {
		p.Email = contact
		p.Phone = ""
	} else {
		p.Phone = contact
		p.Email = ""
	}
}

// ConversionResult carries the created client account and the one-time
// plaintext temporary password for out-of-band delivery.
type ConversionResult struct {
	User              *models.UserResponse `json:"user"`
	TemporaryPassword string               `json:"temporary_password"`
}

// ConvertToClient promotes a prospect into a billing client account.
// The user creation, the prospect status flip and the optional quote are
// a single transaction: either all three land or none does.
func (s *ProspectService) ConvertToClient(ctx context.Context, id uint) (*ConversionResult, error) {
	prospect, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if prospect.Status == domain.ProspectConverted || prospect.ConvertedUserID != nil {
		return nil, ErrProspectConverted
	}
	if prospect.Email == "" && prospect.Phone == "" {
		return nil, ErrProspectNoContact
	}

	tempPassword, err := password.Temporary(12)
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	email := prospect.Email
	if email == "" {
		email = fmt.Sprintf("prospect-%d@placeholder.com", prospect.ID)
	}

	user := &models.User{
		Name:     prospect.Name,
		Email:    email,
		Phone:    prospect.Phone,
		Password: hashed,
		Role:     domain.RoleClient,
		Status:   domain.UserPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		taken, err := users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, email)
		}

		if err := users.Create(ctx, user); err != nil {
			return err
		}

		now := time.Now()
		prospect.Status = domain.ProspectConverted
		prospect.ConvertedUserID = &user.ID
		prospect.ConversionDate = &now
		prospect.LastContactDate = now
		if err := s.prospectRepo.WithTx(tx).Update(ctx, prospect); err != nil {
			return err
		}

		if prospect.Need != "" {
			quote := &models.Quote{
				ClientID: user.ID,
				Need:     prospect.Need,
			}
			if err := s.quoteRepo.WithTx(tx).Create(ctx, quote); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: a mail failure never unwinds the conversion.
	s.mailer.SendTemporaryPassword(user.Email, user.Name, tempPassword)

	logrus.Infof("Prospect #%d converted to client #%d", prospect.ID, user.ID)
	return &ConversionResult{
		User:              user.ToResponse(),
		TemporaryPassword: tempPassword,
	}, nil
}

// GetByID gets a prospect by ID
func (s *ProspectService) GetByID(ctx context.Context, id uint) (*models.Prospect, error) {
	prospect, err := s.prospectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProspectNotFound
		}
		return nil, err
	}
	return prospect, nil
}

// List lists all prospects with the UI-facing statusId derived.
func (s *ProspectService) List(ctx context.Context) ([]*models.ProspectResponse, error) {
	prospects, err := s.prospectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*models.ProspectResponse, len(prospects))
	for i, p := range prospects {
		out[i] = p.ToResponse()
	}
	return out, nil
}

// Delete removes a prospect
func (s *ProspectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.prospectRepo.Delete(ctx, id)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/pagination"
	"gbh-kioskhub/internal/pkg/password"
)

var ErrBadRole = fmt.Errorf("%w: unknown role", domain.ErrValidation)

// UserService handles staff-side user administration and self profile.
type UserService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, tokenRepo repositories.RefreshTokenRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with optional role filter and pagination.
func (s *UserService) List(ctx context.Context, role *domain.Role, params *pagination.Params) ([]*models.UserResponse, *pagination.Meta, error) {
	if role != nil && !role.Valid() {
		return nil, nil, ErrBadRole
	}

	users, total, err := s.userRepo.List(ctx, role, params.Offset, params.Limit)
	if err != nil {
		return nil, nil, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, u := range users {
		out[i] = u.ToResponse()
	}
	return out, pagination.NewMeta(params, total), nil
}

// UpdateUserInput represents partial admin user update input
type UpdateUserInput struct {
	Name    *string            `json:"name"`
	Phone   *string            `json:"phone"`
	Address *string            `json:"address"`
	Role    *domain.Role       `json:"role"`
	Status  *domain.UserStatus `json:"status"`
}

// Update applies a partial update to a user record.
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrBadRole
		}
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
		// Deactivation cuts every live session.
		if *input.Status == domain.UserInactive {
			if err := s.tokenRepo.RevokeAllByUserID(ctx, user.ID); err != nil {
				return nil, err
			}
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete soft-deletes a user and revokes their sessions.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllByUserID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

// ChangePassword lets a logged-in user rotate their own password.
func (s *UserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !password.Verify(oldPassword, user.Password) {
		return ErrWrongOldPassword
	}
	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/config"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/jwt"
	"gbh-kioskhub/internal/pkg/password"
)

const resetTokenValidity = time.Hour

// Auth service errors
var (
	ErrEmailTaken       = fmt.Errorf("%w: email already registered", domain.ErrConflict)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	ErrAccountPending   = fmt.Errorf("%w: account pending activation", domain.ErrForbidden)
	ErrAccountInactive  = fmt.Errorf("%w: account deactivated", domain.ErrForbidden)
	ErrResetTokenStale  = fmt.Errorf("%w: reset token expired", domain.ErrState)
	ErrVerifyTokenUsed  = fmt.Errorf("%w: verification token invalid", domain.ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user not found", domain.ErrNotFound)
	ErrWrongOldPassword = fmt.Errorf("%w: current password does not match", domain.ErrValidation)
)

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.RefreshTokenRepository
	mailer    Mailer
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.RefreshTokenRepository,
	mailer Mailer,
	jwtConfig config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		jwtConfig: jwtConfig,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a self-service client account (ACTIVE, unverified)
// and mails a verification token.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	verifyToken, err := randomToken()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		Address:           input.Address,
		Password:          hashed,
		Role:              domain.RoleClient,
		Status:            domain.UserActive,
		VerificationToken: verifyToken,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.mailer.SendVerification(user.Email, user.Name, verifyToken)

	logrus.Infof("User registered: %s (#%d)", user.Email, user.ID)
	return user.ToResponse(), nil
}

// TokenPair is what Login and Refresh return.
type TokenPair struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	User         *models.UserResponse `json:"user"`
}

// Login authenticates a user and issues a token pair. PENDING accounts
// (prospect conversions that never set a real password) and INACTIVE
// accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(plainPassword, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	switch user.Status {
	case domain.UserPending:
		return nil, ErrAccountPending
	case domain.UserInactive:
		return nil, ErrAccountInactive
	}

	return s.issueTokens(ctx, user)
}

// ActivateWithTemporaryPassword lets a converted prospect set their real
// password using the mailed temporary one, flipping PENDING to ACTIVE.
func (s *AuthService) ActivateWithTemporaryPassword(ctx context.Context, email, tempPassword, newPassword string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(tempPassword, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !password.Validate(newPassword) {
		return nil, ErrWeakPassword
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return nil, err
	}
	user.Password = hashed
	user.Status = domain.UserActive
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// VerifyEmail consumes a verification token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVerifyTokenUsed
		}
		return err
	}

	user.EmailVerified = true
	user.VerificationToken = ""
	return s.userRepo.Update(ctx, user)
}

// RequestPasswordReset issues a one-hour reset token. Unknown emails are
// not reported to the caller.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := randomToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(resetTokenValidity)
	user.ResetToken = token
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.mailer.SendPasswordReset(user.Email, user.Name, token)
	return nil
}

// ResetPassword consumes a reset token and revokes every refresh token
// the user holds.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !password.Validate(newPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrResetTokenStale
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	return s.tokenRepo.RevokeAllByUserID(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented one is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.jwtConfig.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.tokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if stored.IsRevoked() || stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if user.Status == domain.UserInactive {
		return nil, ErrAccountInactive
	}

	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every refresh token the user holds.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.tokenRepo.RevokeAllByUserID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := jwt.GenerateAccessToken(user.ID, user.Email, string(user.Role), s.jwtConfig.Secret, s.jwtConfig.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	refresh, err := jwt.GenerateRefreshToken(user.ID, uuid.NewString(), s.jwtConfig.RefreshSecret, s.jwtConfig.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: jwt.GetExpiryTime(s.jwtConfig.RefreshTokenDays),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user.ToResponse(),
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

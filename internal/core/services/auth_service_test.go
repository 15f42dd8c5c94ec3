package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/config"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/password"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		NoopMailer{},
		config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	)
}

func seedCredentialUser(t *testing.T, db *gorm.DB, email, plain string, status domain.UserStatus) *models.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: hash,
		Role:     domain.RoleClient,
		Status:   status,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRegisterAndDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Aya Koné",
		Email:    "aya@example.com",
		Password: "motdepasse123",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Equal(t, domain.UserActive, user.Status)
	assert.False(t, user.EmailVerified)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name:     "Autre",
		Email:    "aya@example.com",
		Password: "motdepasse123",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name:     "Faible",
		Email:    "faible@example.com",
		Password: "court",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestVerifyEmailMarksVerifiedOnly(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Aya Koné",
		Email:    "aya@example.com",
		Password: "motdepasse123",
	})
	require.NoError(t, err)

	// Self-registered accounts are usable straight away; the PENDING
	// state is reserved for converted prospects awaiting activation.
	_, err = svc.Login(context.Background(), "aya@example.com", "motdepasse123")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.Where("email = ?", "aya@example.com").First(&stored).Error)
	require.NotEmpty(t, stored.VerificationToken)

	require.NoError(t, svc.VerifyEmail(context.Background(), stored.VerificationToken))

	var verified models.User
	require.NoError(t, db.First(&verified, stored.ID).Error)
	assert.True(t, verified.EmailVerified)
	assert.Empty(t, verified.VerificationToken)
	assert.Equal(t, domain.UserActive, verified.Status)

	// Tokens are single-use.
	err = svc.VerifyEmail(context.Background(), stored.VerificationToken)
	assert.ErrorIs(t, err, ErrVerifyTokenUsed)
}

func TestLoginStatusGating(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)

	seedCredentialUser(t, db, "active@example.com", "motdepasse123", domain.UserActive)
	seedCredentialUser(t, db, "pending@example.com", "motdepasse123", domain.UserPending)
	seedCredentialUser(t, db, "inactive@example.com", "motdepasse123", domain.UserInactive)

	pair, err := svc.Login(context.Background(), "active@example.com", "motdepasse123")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = svc.Login(context.Background(), "pending@example.com", "motdepasse123")
	assert.ErrorIs(t, err, ErrAccountPending)

	_, err = svc.Login(context.Background(), "inactive@example.com", "motdepasse123")
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = svc.Login(context.Background(), "active@example.com", "mauvais")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "inconnu@example.com", "motdepasse123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestActivateWithTemporaryPassword(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)
	seedCredentialUser(t, db, "pending@example.com", "temp-pass-123", domain.UserPending)

	pair, err := svc.ActivateWithTemporaryPassword(context.Background(),
		"pending@example.com", "temp-pass-123", "nouveaumotdepasse")
	require.NoError(t, err)
	assert.Equal(t, domain.UserActive, pair.User.Status)

	// The real password now works through the normal login path.
	_, err = svc.Login(context.Background(), "pending@example.com", "nouveaumotdepasse")
	require.NoError(t, err)
}

func TestRefreshRotation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)
	seedCredentialUser(t, db, "active@example.com", "motdepasse123", domain.UserActive)

	pair, err := svc.Login(context.Background(), "active@example.com", "motdepasse123")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The old token is revoked: replaying it fails.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)
	seedCredentialUser(t, db, "active@example.com", "motdepasse123", domain.UserActive)

	pair, err := svc.Login(context.Background(), "active@example.com", "motdepasse123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newAuthService(db)
	user := seedCredentialUser(t, db, "reset@example.com", "ancienpass123", domain.UserActive)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "reset@example.com"))

	// Unknown emails are silently accepted.
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "inconnu@example.com"))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.NotEmpty(t, reloaded.ResetToken)

	require.NoError(t, svc.ResetPassword(context.Background(), reloaded.ResetToken, "nouveaupass123"))

	_, err := svc.Login(context.Background(), "reset@example.com", "nouveaupass123")
	require.NoError(t, err)

	// The token is single-use.
	err = svc.ResetPassword(context.Background(), reloaded.ResetToken, "encoreunautre")
	assert.Error(t, err)
}

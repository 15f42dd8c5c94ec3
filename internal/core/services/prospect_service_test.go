package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"
)

func TestProspectCreateRoutesContact(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	commercial := seedUser(t, db, "commercial@gbh.test", domain.RoleCommercial)

	withEmail, err := svc.Create(context.Background(), &CreateProspectInput{
		Name:    "Aya Koné",
		Contact: "aya.kone@example.com",
	}, commercial.ID)
	require.NoError(t, err)
	assert.Equal(t, "aya.kone@example.com", withEmail.Email)
	assert.Empty(t, withEmail.Phone)
	assert.Equal(t, domain.ProspectNew, withEmail.Status)

	withPhone, err := svc.Create(context.Background(), &CreateProspectInput{
		Name:    "Moussa Diabaté",
		Contact: "+225 07 08 09 10",
	}, commercial.ID)
	require.NoError(t, err)
	assert.Equal(t, "+225 07 08 09 10", withPhone.Phone)
	assert.Empty(t, withPhone.Email)
}

func TestProspectCreateRequiresName(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)

	_, err := svc.Create(context.Background(), &CreateProspectInput{Name: "  "}, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProspectStatusIDMapping(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	prospect := seedProspect(t, db, "Fatou Traoré", "fatou@example.com", domain.ProspectNew)

	active := domain.StatusIDActive
	updated, err := svc.Update(context.Background(), prospect.ID, &UpdateProspectInput{StatusID: &active})
	require.NoError(t, err)
	assert.Equal(t, domain.ProspectQualified, updated.Status)

	// The response flattens back to the coarse statusId.
	assert.Equal(t, domain.StatusIDActive, updated.ToResponse().StatusID)

	inactive := domain.StatusIDInactive
	updated, err = svc.Update(context.Background(), prospect.ID, &UpdateProspectInput{StatusID: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.ProspectLost, updated.Status)
}

func TestConvertToClientCreatesUserAndQuote(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	prospect := seedProspect(t, db, "Aya Koné", "aya@example.com", domain.ProspectNegotiation)

	result, err := svc.ConvertToClient(context.Background(), prospect.ID)
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.Equal(t, domain.RoleClient, result.User.Role)
	assert.Equal(t, domain.UserPending, result.User.Status)
	assert.NotEmpty(t, result.TemporaryPassword)

	var reloaded models.Prospect
	require.NoError(t, db.First(&reloaded, prospect.ID).Error)
	assert.Equal(t, domain.ProspectConverted, reloaded.Status)
	require.NotNil(t, reloaded.ConvertedUserID)
	assert.Equal(t, result.User.ID, *reloaded.ConvertedUserID)
	assert.NotNil(t, reloaded.ConversionDate)

	// The need became a quote on the new client.
	var quotes int64
	require.NoError(t, db.Model(&models.Quote{}).Where("client_id = ?", result.User.ID).Count(&quotes).Error)
	assert.EqualValues(t, 1, quotes)
}

func TestConvertToClientPhoneOnlyGetsPlaceholderEmail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	prospect := &models.Prospect{
		Name:   "Moussa Diabaté",
		Phone:  "+2250708091011",
		Status: domain.ProspectQualified,
	}
	require.NoError(t, db.Create(prospect).Error)

	result, err := svc.ConvertToClient(context.Background(), prospect.ID)
	require.NoError(t, err)
	assert.Contains(t, result.User.Email, "@placeholder.com")
}

func TestConvertToClientTwiceFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	prospect := seedProspect(t, db, "Aya Koné", "aya2@example.com", domain.ProspectQualified)

	_, err := svc.ConvertToClient(context.Background(), prospect.ID)
	require.NoError(t, err)

	_, err = svc.ConvertToClient(context.Background(), prospect.ID)
	assert.ErrorIs(t, err, ErrProspectConverted)
	assert.ErrorIs(t, err, domain.ErrState)

	// No second user was created.
	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestConvertToClientNoContactFails(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	prospect := &models.Prospect{Name: "Sans Contact", Status: domain.ProspectNew}
	require.NoError(t, db.Create(prospect).Error)

	_, err := svc.ConvertToClient(context.Background(), prospect.ID)
	assert.ErrorIs(t, err, ErrProspectNoContact)
}

func TestConvertToClientRollsBackOnEmailConflict(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)
	seedUser(t, db, "taken@example.com", domain.RoleClient)
	prospect := seedProspect(t, db, "Doublon", "taken@example.com", domain.ProspectNew)

	_, err := svc.ConvertToClient(context.Background(), prospect.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// The prospect was left untouched by the failed transaction.
	var reloaded models.Prospect
	require.NoError(t, db.First(&reloaded, prospect.ID).Error)
	assert.Equal(t, domain.ProspectNew, reloaded.Status)
	assert.Nil(t, reloaded.ConvertedUserID)
}

func TestProspectGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProspectService(db)

	_, err := svc.GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"
)

func TestProformaCreateDefaults(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)
	commercial := seedUser(t, db, "commercial@gbh.test", domain.RoleCommercial)

	proforma, err := svc.Create(context.Background(), &CreateProformaInput{
		ClientID:    client.ID,
		KioskType:   "PREMIUM",
		Quantity:    2,
		TotalAmount: 2400000,
	}, commercial.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(proforma.ProformaNumber, "PRO-"))
	assert.Equal(t, domain.ProformaDraft, proforma.Status)

	// 30-day validity window.
	days := time.Until(proforma.ExpiryDate).Hours() / 24
	assert.InDelta(t, 30, days, 1)
}

func TestProformaCreateRejectsBadInput(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)

	_, err := svc.Create(context.Background(), &CreateProformaInput{KioskType: "STANDARD", Quantity: 1, TotalAmount: 100}, 1)
	assert.ErrorIs(t, err, ErrProformaClientRequired)

	_, err = svc.Create(context.Background(), &CreateProformaInput{ClientID: client.ID, Quantity: 1, TotalAmount: 100}, 1)
	assert.ErrorIs(t, err, ErrProformaKioskType)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(context.Background(), &CreateProformaInput{ClientID: client.ID, KioskType: "STANDARD", Quantity: 0, TotalAmount: 100}, 1)
	assert.ErrorIs(t, err, ErrProformaBadQuantity)

	_, err = svc.Create(context.Background(), &CreateProformaInput{ClientID: client.ID, KioskType: "STANDARD", Quantity: -3, TotalAmount: 100}, 1)
	assert.ErrorIs(t, err, ErrProformaBadQuantity)

	_, err = svc.Create(context.Background(), &CreateProformaInput{ClientID: client.ID, KioskType: "STANDARD", Quantity: 1, TotalAmount: 0}, 1)
	assert.ErrorIs(t, err, ErrProformaBadAmount)

	_, err = svc.Create(context.Background(), &CreateProformaInput{ClientID: 999, KioskType: "STANDARD", Quantity: 1, TotalAmount: 100}, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// None of the rejected inputs leave a row behind.
	var count int64
	require.NoError(t, db.Model(&models.Proforma{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestProformaUpdateStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)
	proforma := seedProforma(t, db, client.ID, domain.ProformaDraft, 1200000)

	updated, err := svc.UpdateStatus(context.Background(), proforma.ID, domain.ProformaSent)
	require.NoError(t, err)
	assert.Equal(t, domain.ProformaSent, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), proforma.ID, domain.ProformaStatus("BOGUS"))
	assert.ErrorIs(t, err, ErrProformaBadStatus)
}

func TestConvertToContractPaymentTerms(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)
	commercial := seedUser(t, db, "commercial@gbh.test", domain.RoleCommercial)
	proforma := seedProforma(t, db, client.ID, domain.ProformaAccepted, 1200000)

	contract, err := svc.ConvertToContract(context.Background(), proforma.ID, commercial.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contract.ContractNumber, "CONT-"))
	assert.Equal(t, domain.ContractActive, contract.Status)
	assert.Equal(t, 12, contract.DurationMonths)
	assert.Equal(t, "monthly", contract.PaymentFrequency)
	assert.InDelta(t, 100000, contract.PaymentAmount, 0.01)
	assert.Equal(t, proforma.TotalAmount, contract.TotalAmount)
	assert.Equal(t, client.Name, contract.ClientName)

	// One audit action, recorded against the creator.
	var actions []models.ContractAction
	require.NoError(t, db.Where("contract_id = ?", contract.ID).Find(&actions).Error)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionCreatedFromProforma, actions[0].Action)
	require.NotNil(t, actions[0].PerformedBy)
	assert.Equal(t, commercial.ID, *actions[0].PerformedBy)

	// The proforma flipped and points at the contract.
	var reloaded models.Proforma
	require.NoError(t, db.First(&reloaded, proforma.ID).Error)
	assert.Equal(t, domain.ProformaConverted, reloaded.Status)
	require.NotNil(t, reloaded.ContractID)
	assert.Equal(t, contract.ID, *reloaded.ContractID)
}

func TestConvertToContractRequiresAccepted(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)

	for _, status := range []domain.ProformaStatus{
		domain.ProformaDraft, domain.ProformaSent, domain.ProformaRejected,
		domain.ProformaExpired, domain.ProformaConverted,
	} {
		proforma := seedProforma(t, db, client.ID, status, 500000)
		_, err := svc.ConvertToContract(context.Background(), proforma.ID, 1)
		assert.ErrorIs(t, err, ErrProformaNotConvertible, "status %s", status)
	}

	// Converting twice only ever yields one contract.
	var contracts int64
	require.NoError(t, db.Model(&models.Contract{}).Count(&contracts).Error)
	assert.EqualValues(t, 0, contracts)
}

func TestProformaDeleteOnlyDrafts(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)

	draft := seedProforma(t, db, client.ID, domain.ProformaDraft, 100)
	require.NoError(t, svc.Delete(context.Background(), draft.ID))

	sent := seedProforma(t, db, client.ID, domain.ProformaSent, 100)
	err := svc.Delete(context.Background(), sent.ID)
	assert.ErrorIs(t, err, ErrProformaNotDeletable)
	assert.ErrorIs(t, err, domain.ErrState)
}

func TestMarkExpiredSweep(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := newProformaService(db)
	client := seedUser(t, db, "client@gbh.test", domain.RoleClient)

	pastDraft := seedProforma(t, db, client.ID, domain.ProformaDraft, 100)
	pastSent := seedProforma(t, db, client.ID, domain.ProformaSent, 100)
	pastAccepted := seedProforma(t, db, client.ID, domain.ProformaAccepted, 100)
	future := seedProforma(t, db, client.ID, domain.ProformaDraft, 100)

	yesterday := time.Now().AddDate(0, 0, -1)
	for _, p := range []*models.Proforma{pastDraft, pastSent, pastAccepted} {
		require.NoError(t, db.Model(p).Update("expiry_date", yesterday).Error)
	}

	n, err := svc.MarkExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	assertStatus := func(id uint, want domain.ProformaStatus) {
		t.Helper()
		var p models.Proforma
		require.NoError(t, db.First(&p, id).Error)
		assert.Equal(t, want, p.Status)
	}
	assertStatus(pastDraft.ID, domain.ProformaExpired)
	assertStatus(pastSent.ID, domain.ProformaExpired)
	// Accepted proformas are never swept.
	assertStatus(pastAccepted.ID, domain.ProformaAccepted)
	assertStatus(future.ID, domain.ProformaDraft)
}

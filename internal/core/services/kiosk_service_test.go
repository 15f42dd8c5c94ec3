package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
)

func newKioskService(db *gorm.DB) *KioskService {
	return NewKioskService(repositories.NewKioskRepository(db))
}

func TestKioskCreate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	kiosk, err := service.Create(ctx, &CreateKioskInput{
		Code: "KSK-001",
		Name: "Kiosque Plateau 1",
		Zone: "Plateau",
		City: "Abidjan",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.KioskAvailable, kiosk.Status)
	assert.NotZero(t, kiosk.ID)
}

func TestKioskCreateValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	_, err := service.Create(ctx, &CreateKioskInput{Name: "Sans code"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Create(ctx, &CreateKioskInput{Code: "KSK-002"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKioskCreateDuplicateCode(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	seedKiosk(t, db, "KSK-010", domain.KioskAvailable)

	_, err := service.Create(ctx, &CreateKioskInput{Code: "KSK-010", Name: "Doublon"})
	assert.ErrorIs(t, err, ErrKioskCodeTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestKioskUpdatePartial(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	kiosk := seedKiosk(t, db, "KSK-020", domain.KioskAvailable)
	manager := seedUser(t, db, "gerant@gbh.ci", domain.RoleCommercial)

	name := "Kiosque Riviera"
	updated, err := service.Update(ctx, kiosk.ID, &UpdateKioskInput{
		Name:      &name,
		ManagerID: &manager.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kiosque Riviera", updated.Name)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, manager.ID, *updated.ManagerID)
	// untouched fields keep their values
	assert.Equal(t, "Cocody", updated.Zone)

	empty := ""
	_, err = service.Update(ctx, kiosk.ID, &UpdateKioskInput{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestKioskReleaseGuarded(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	available := seedKiosk(t, db, "KSK-030", domain.KioskAvailable)
	inUse := seedKiosk(t, db, "KSK-031", domain.KioskInUse)
	maint := seedKiosk(t, db, "KSK-032", domain.KioskUnderMaintenance)

	assert.ErrorIs(t, service.ReleaseFromMaintenance(ctx, available.ID), ErrKioskNotInMaint)
	assert.ErrorIs(t, service.ReleaseFromMaintenance(ctx, inUse.ID), ErrKioskNotInMaint)

	require.NoError(t, service.ReleaseFromMaintenance(ctx, maint.ID))
	got, err := service.GetByID(ctx, maint.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KioskAvailable, got.Status)
}

func TestKioskSetUnderMaintenanceIdempotent(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	kiosk := seedKiosk(t, db, "KSK-040", domain.KioskInUse)

	require.NoError(t, service.SetUnderMaintenance(ctx, kiosk.ID))
	require.NoError(t, service.SetUnderMaintenance(ctx, kiosk.ID))

	got, err := service.GetByID(ctx, kiosk.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.KioskUnderMaintenance, got.Status)

	assert.ErrorIs(t, service.SetUnderMaintenance(ctx, 9999), ErrKioskNotFound)
}

func TestKioskListByStatus(t *testing.T) {
	db := setupTestDB(t, t.Name())
	service := newKioskService(db)
	ctx := context.Background()

	seedKiosk(t, db, "KSK-050", domain.KioskAvailable)
	seedKiosk(t, db, "KSK-051", domain.KioskAvailable)
	seedKiosk(t, db, "KSK-052", domain.KioskUnderMaintenance)

	status := domain.KioskUnderMaintenance
	out, err := service.List(ctx, &ListKiosksInput{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	require.Len(t, out.Kiosks, 1)
	assert.Equal(t, "KSK-052", out.Kiosks[0].Code)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 10, out.Limit)

	all, err := service.List(ctx, &ListKiosksInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	count, err := service.CountInMaintenance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

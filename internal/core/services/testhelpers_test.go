package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/core/domain"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role domain.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: "hash",
		Role:     role,
		Status:   domain.UserActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedKiosk(t *testing.T, db *gorm.DB, code string, status domain.KioskStatus) *models.Kiosk {
	t.Helper()
	kiosk := &models.Kiosk{
		Code:   code,
		Name:   "Kiosque " + code,
		Zone:   "Cocody",
		City:   "Abidjan",
		Status: status,
	}
	if err := db.Create(kiosk).Error; err != nil {
		t.Fatalf("seed kiosk: %v", err)
	}
	return kiosk
}

func seedProspect(t *testing.T, db *gorm.DB, name, email string, status domain.ProspectStatus) *models.Prospect {
	t.Helper()
	prospect := &models.Prospect{
		Name:            name,
		Email:           email,
		Need:            "Kiosque standard zone Plateau",
		Status:          status,
		LastContactDate: time.Now(),
	}
	if err := db.Create(prospect).Error; err != nil {
		t.Fatalf("seed prospect: %v", err)
	}
	return prospect
}

func seedProforma(t *testing.T, db *gorm.DB, clientID uint, status domain.ProformaStatus, total float64) *models.Proforma {
	t.Helper()
	proforma := &models.Proforma{
		ProformaNumber: fmt.Sprintf("PRO-%d-%d", time.Now().UnixNano(), clientID),
		ClientID:       clientID,
		KioskType:      "STANDARD",
		Quantity:       1,
		TotalAmount:    total,
		ExpiryDate:     time.Now().AddDate(0, 0, 30),
		Status:         status,
	}
	if err := db.Create(proforma).Error; err != nil {
		t.Fatalf("seed proforma: %v", err)
	}
	return proforma
}

// stubRenderer satisfies DocumentRenderer without touching storage.
type stubRenderer struct{}

func (stubRenderer) RenderProforma(_ context.Context, _ *models.Proforma, _ *models.User) (string, error) {
	return "", nil
}

func (stubRenderer) RenderContract(_ context.Context, _ *models.Contract) (string, error) {
	return "", nil
}

func newProspectService(db *gorm.DB) *ProspectService {
	return NewProspectService(db,
		repositories.NewProspectRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewQuoteRepository(db),
		NoopMailer{},
	)
}

func newProformaService(db *gorm.DB) *ProformaService {
	return NewProformaService(db,
		repositories.NewProformaRepository(db),
		repositories.NewContractRepository(db),
		repositories.NewUserRepository(db),
		stubRenderer{},
	)
}

func newTicketService(db *gorm.DB, autoRelease bool) *TicketService {
	kioskService := NewKioskService(repositories.NewKioskRepository(db))
	return NewTicketService(
		repositories.NewTicketRepository(db),
		repositories.NewUserRepository(db),
		kioskService,
		autoRelease,
	)
}

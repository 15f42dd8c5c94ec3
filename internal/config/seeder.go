package config

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/pkg/password"
)

// Seed creates the bootstrap admin account and a handful of kiosks on an
// empty database. Existing data is never touched.
func Seed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedKiosks(db)
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash(getEnv("ADMIN_PASSWORD", "changeme123"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:          "Administrateur",
		Email:         getEnv("ADMIN_EMAIL", "admin@gbh-kioskhub.com"),
		Password:      hashed,
		Role:          domain.RoleAdmin,
		Status:        domain.UserActive,
		EmailVerified: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logrus.Infof("Seeded admin account %s", admin.Email)
	return nil
}

func seedKiosks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Kiosk{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	kiosks := []models.Kiosk{
		{Code: "KSK-001", Name: "Kiosque Plateau", Address: "Avenue de la République", Zone: "Plateau", City: "Abidjan", Status: domain.KioskAvailable},
		{Code: "KSK-002", Name: "Kiosque Cocody", Address: "Boulevard Latrille", Zone: "Cocody", City: "Abidjan", Status: domain.KioskAvailable},
		{Code: "KSK-003", Name: "Kiosque Marcory", Address: "Rue du Canal", Zone: "Marcory", City: "Abidjan", Status: domain.KioskAvailable},
	}
	if err := db.Create(&kiosks).Error; err != nil {
		return err
	}

	logrus.Infof("Seeded %d kiosks", len(kiosks))
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"gbh-kioskhub/internal/adapters/http/middleware"
	"gbh-kioskhub/internal/adapters/http/routes"
	"gbh-kioskhub/internal/adapters/persistence/models"
	"gbh-kioskhub/internal/adapters/storage"
	"gbh-kioskhub/internal/config"

	_ "gbh-kioskhub/docs" // Swagger docs
)

// @title GBH KioskHub API
// @version 1.0
// @description API de gestion commerciale des kiosques GBH (prospects, proformas, contrats, maintenance)

// @contact.name API Support
// @contact.email support@gbh-kioskhub.com

// @host api.gbh-kioskhub.com
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		logrus.Fatalf("Failed to auto migrate: %v", err)
	}
	logrus.Info("Database migration completed")

	if err := config.Seed(db); err != nil {
		logrus.Warnf("Failed to seed initial data: %v", err)
	}

	// Document store is optional: without MinIO the renderer is a no-op.
	var store *storage.DocumentStore
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewDocumentStore(
			cfg.Storage.Endpoint,
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			cfg.Storage.Bucket,
			cfg.Storage.UseSSL,
		)
		if err != nil {
			logrus.Warnf("Document store unavailable, rendering disabled: %v", err)
			store = nil
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "GBH KioskHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	scheduler := routes.Setup(app, db, cfg, store)
	if err := scheduler.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	go gracefulShutdown(app)

	logrus.Infof("Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("Error during shutdown: %v", err)
	}
	logrus.Info("Server stopped gracefully")
}

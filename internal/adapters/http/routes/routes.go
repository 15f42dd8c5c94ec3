package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"

	"gbh-kioskhub/internal/adapters/http/handlers"
	"gbh-kioskhub/internal/adapters/http/middleware"
	"gbh-kioskhub/internal/adapters/persistence/repositories"
	"gbh-kioskhub/internal/adapters/storage"
	"gbh-kioskhub/internal/config"
	"gbh-kioskhub/internal/core/domain"
	"gbh-kioskhub/internal/core/services"
)

// Setup wires repositories, services and handlers and registers every
// route. The returned scheduler is started by main and stopped on
// shutdown.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, store *storage.DocumentStore) *services.SchedulerService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	prospectRepo := repositories.NewProspectRepository(db)
	quoteRepo := repositories.NewQuoteRepository(db)
	proformaRepo := repositories.NewProformaRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	kioskRepo := repositories.NewKioskRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)

	// Services
	mailer := services.NewMailer(cfg.Mail)
	renderer := services.NewStoredRenderer(store)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, mailer, cfg.JWT)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	prospectService := services.NewProspectService(db, prospectRepo, userRepo, quoteRepo, mailer)
	proformaService := services.NewProformaService(db, proformaRepo, contractRepo, userRepo, renderer)
	contractService := services.NewContractService(contractRepo, kioskRepo)
	kioskService := services.NewKioskService(kioskRepo)
	ticketService := services.NewTicketService(ticketRepo, userRepo, kioskService, cfg.Maintenance.AutoReleaseKiosk)
	scheduler := services.NewSchedulerService(proformaService, refreshTokenRepo)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg, db)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	prospectHandler := handlers.NewProspectHandler(prospectService)
	proformaHandler := handlers.NewProformaHandler(proformaService)
	contractHandler := handlers.NewContractHandler(contractService)
	kioskHandler := handlers.NewKioskHandler(kioskService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	dashboardHandler := handlers.NewDashboardHandler(ticketService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/activate", middleware.AuthRateLimiter(), authHandler.Activate)
	authRoutes.Get("/verify-email", authHandler.VerifyEmail)
	authRoutes.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	authRoutes.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)

	// User management routes (Admin only, except own password)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Put("/me/password", userHandler.ChangePassword)
	userRoutes.Get("/", middleware.AdminOnly(), userHandler.List)
	userRoutes.Get("/:id", middleware.AdminOnly(), userHandler.Get)
	userRoutes.Put("/:id", middleware.AdminOnly(), userHandler.Update)
	userRoutes.Delete("/:id", middleware.AdminOnly(), userHandler.Delete)

	// Prospect routes (sales roles)
	prospectRoutes := apiV1.Group("/prospects")
	prospectRoutes.Use(middleware.AuthMiddleware(cfg))
	prospectRoutes.Use(middleware.CommercialOrAdmin())
	prospectRoutes.Post("/", prospectHandler.Create)
	prospectRoutes.Get("/", prospectHandler.List)
	prospectRoutes.Get("/:id", prospectHandler.Get)
	prospectRoutes.Put("/:id", prospectHandler.Update)
	prospectRoutes.Post("/:id/convert", prospectHandler.Convert)
	prospectRoutes.Delete("/:id", prospectHandler.Delete)

	// Proforma routes. Reads are open to clients (pinned to their own
	// records in the handler); writes stay with the sales roles.
	proformaRoutes := apiV1.Group("/proformas")
	proformaRoutes.Use(middleware.AuthMiddleware(cfg))
	proformaRoutes.Get("/", proformaHandler.List)
	proformaRoutes.Get("/:id", proformaHandler.Get)
	proformaRoutes.Post("/", middleware.CommercialOrAdmin(), proformaHandler.Create)
	proformaRoutes.Put("/:id/status", middleware.CommercialOrAdmin(), proformaHandler.UpdateStatus)
	proformaRoutes.Post("/:id/convert", middleware.CommercialOrAdmin(), proformaHandler.Convert)
	proformaRoutes.Delete("/:id", middleware.CommercialOrAdmin(), proformaHandler.Delete)

	// Contract routes. Same split: clients read their own, back-office
	// roles read everything, kiosk attachment is a sales action.
	contractRoutes := apiV1.Group("/contracts")
	contractRoutes.Use(middleware.AuthMiddleware(cfg))
	contractRoutes.Get("/", contractHandler.List)
	contractRoutes.Get("/:id", contractHandler.Get)
	contractRoutes.Get("/:id/actions", middleware.ContractReaders(), contractHandler.GetActions)
	contractRoutes.Post("/:id/kiosks", middleware.CommercialOrAdmin(), contractHandler.AttachKiosk)

	// Kiosk routes (maintenance staff; creation and release admin-gated)
	kioskRoutes := apiV1.Group("/kiosks")
	kioskRoutes.Use(middleware.AuthMiddleware(cfg))
	kioskRoutes.Get("/", kioskHandler.List)
	kioskRoutes.Get("/:id", kioskHandler.Get)
	kioskRoutes.Post("/", middleware.AdminOnly(), kioskHandler.Create)
	kioskRoutes.Put("/:id", middleware.AdminOnly(), kioskHandler.Update)
	kioskRoutes.Post("/:id/release", middleware.MaintenanceStaff(), kioskHandler.Release)

	// Service request routes (maintenance staff)
	ticketRoutes := apiV1.Group("/service-requests")
	ticketRoutes.Use(middleware.AuthMiddleware(cfg))
	ticketRoutes.Use(middleware.MaintenanceStaff())
	ticketRoutes.Post("/", ticketHandler.Open)
	ticketRoutes.Get("/", ticketHandler.List)
	ticketRoutes.Get("/:id", ticketHandler.Get)
	ticketRoutes.Post("/:id/close", ticketHandler.Close)
	ticketRoutes.Post("/bulk-delete", middleware.RoleMiddleware(domain.RoleSupervisor, domain.RoleAdmin), ticketHandler.BulkDelete)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/maintenance", middleware.MaintenanceStaff(), dashboardHandler.Maintenance)

	return scheduler
}

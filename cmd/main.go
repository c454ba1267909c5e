package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"audit-service/internal/config"
	"audit-service/internal/handlers"
	"audit-service/internal/jobs"
	"audit-service/internal/middleware"
	"audit-service/internal/models"
	"audit-service/internal/report"
	"audit-service/internal/repository"
	"audit-service/internal/seeders"
	"audit-service/internal/services"
)

// @title Safety Audit API
// @version 1.0.0
// @description Safety compliance audit service: site visits, checklist findings, corrective actions and reports

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8094
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Site{},
		&models.ChecklistTemplate{},
		&models.Audit{},
		&models.AuditItem{},
		&models.CorrectiveAction{},
		&models.AuditApproval{},
	); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Seed reference data
	if err := seeders.SeedChecklistTemplates(db); err != nil {
		logger.Fatalf("Failed to seed checklist templates: %v", err)
	}
	if err := seeders.SeedDemoRegistry(db); err != nil {
		logger.Fatalf("Failed to seed registry: %v", err)
	}

	// Initialize repository
	repo := repository.NewAuditRepository(db)

	// Initialize services
	auditService := services.NewAuditService(repo)
	actionService := services.NewActionService(repo)
	statsService := services.NewStatsService(repo)
	registryService := services.NewRegistryService(repo)

	// Initialize handlers
	reportGen := report.NewGenerator(cfg.ReportFontPath)
	auditHandler := handlers.NewAuditHandler(auditService, reportGen)
	actionHandler := handlers.NewActionHandler(actionService)
	registryHandler := handlers.NewRegistryHandler(registryService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Start overdue refresh job
	overdueJob := jobs.NewOverdueJob(repo, logger)
	jobCtx, jobCancel := context.WithCancel(context.Background())
	go overdueJob.Start(jobCtx)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	// Audit endpoints
	{
		api.POST("/audits", auditHandler.CreateAudit)
		api.GET("/audits", auditHandler.ListAudits)
		api.GET("/audits/:id", auditHandler.GetAudit)
		api.PATCH("/audits/:id", auditHandler.UpdateAudit)
		api.PUT("/audits/:id/draft", auditHandler.SaveDraft)
		api.POST("/audits/:id/score", auditHandler.CalculateScore)
		api.POST("/audits/:id/approval", middleware.RequireRole(models.RoleManager, models.RoleAdmin), auditHandler.SubmitApproval)
		api.GET("/audits/:id/approvals", auditHandler.GetApprovalHistory)
		api.GET("/audits/:id/report", auditHandler.DownloadReport)
		api.PATCH("/audit-items/:id", auditHandler.UpdateAuditItem)
	}

	// Corrective action endpoints
	{
		api.POST("/actions", actionHandler.CreateAction)
		api.GET("/actions", actionHandler.ListActions)
		api.GET("/actions/:id", actionHandler.GetAction)
		api.PATCH("/actions/:id", actionHandler.UpdateAction)
		api.POST("/actions/:id/cancel", actionHandler.CancelAction)
	}

	// Registry endpoints
	{
		api.POST("/sites", registryHandler.CreateSite)
		api.GET("/sites", registryHandler.ListSites)
		api.GET("/sites/:id", registryHandler.GetSite)
		api.POST("/users", middleware.RequireRole(models.RoleAdmin), registryHandler.CreateUser)
		api.GET("/users", registryHandler.ListUsers)
		api.GET("/templates", registryHandler.ListTemplates)
	}

	// Dashboard statistics
	api.GET("/stats/dashboard", statsHandler.Dashboard)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8094"
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Audit service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("Shutting down server...")

	// Stop overdue refresh job
	jobCancel()
	overdueJob.Stop()
	logger.Info("Overdue refresh job stopped")

	logger.Info("Server shutdown complete")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campaign-mailer/services/mailer/dispatch"
	"campaign-mailer/services/mailer/handlers"
	"campaign-mailer/services/mailer/models"
	"campaign-mailer/services/mailer/repository"
	"campaign-mailer/services/mailer/usecase"
	"campaign-mailer/shared/config"
	"campaign-mailer/shared/database"
	"campaign-mailer/shared/logger"
	"campaign-mailer/shared/middleware"
	"campaign-mailer/shared/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger
	log := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		Environment: os.Getenv("ENVIRONMENT"),
	})

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Info("Starting Mailer service...")

	// Connect to database
	dbConfig := database.DefaultConfig(cfg.Database.URL)
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := db.Migrate(&models.User{}, &models.EmailTemplateInfo{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Database connected and migrations completed")

	// Connect to Redis when configured; the service degrades to no result
	// caching without it
	var cache *redis.Client
	if cfg.Redis.URL != "" {
		cache, err = redis.ConnectRedis(redis.DefaultConfig(cfg.Redis.URL))
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
		log.Info("Redis connected")
	} else {
		log.Warn("REDIS_URL not set, campaign result caching disabled")
	}

	// Build the dispatch pipeline
	dispatcher, err := dispatch.NewDispatcher(dispatch.Config{
		APIKey:      cfg.Mail.APIKey,
		BaseURL:     cfg.Mail.BaseURL,
		TemplateKey: cfg.Mail.TemplateKey,
		FromAddress: cfg.Mail.FromAddress,
	}, dispatch.NewSender(), dispatch.NewCSVSource(cfg.Mail.RecipientsCSV))
	if err != nil {
		log.Fatalf("Failed to configure dispatcher: %v", err)
	}

	// Set Gin mode based on environment
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize dependencies
	userRepo := repository.NewUserRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWT.Secret)

	authUsecase := usecase.NewAuthUsecase(userRepo, templateRepo, jwtConfig)
	emailUsecase := usecase.NewEmailUsecase(dispatcher, templateRepo, cache)

	authHandler := handlers.NewAuthHandler(authUsecase)
	emailHandler := handlers.NewEmailHandler(emailUsecase)

	// Create Gin router
	router := gin.New()
	middleware.SetupCommonMiddleware(router)
	setupRoutes(router, authHandler, emailHandler, jwtConfig)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Mailer service starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Mailer service...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Mailer service stopped")
}

// setupRoutes configures all routes for the mailer service
func setupRoutes(router *gin.Engine, authHandler *handlers.AuthHandler, emailHandler *handlers.EmailHandler, jwtConfig *middleware.JWTConfig) {
	// Health check endpoint
	router.GET("/health", handlers.HealthCheck)

	// Public authentication routes (no JWT required)
	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		email := v1.Group("/email")
		email.Use(middleware.JWTMiddleware(jwtConfig))
		{
			email.POST("/single", emailHandler.SendSingle)          // POST /api/v1/email/single
			email.POST("/batch", emailHandler.SendBatch)            // POST /api/v1/email/batch
			email.GET("/campaigns/last", emailHandler.LastCampaign) // GET /api/v1/email/campaigns/last
		}
	}
}

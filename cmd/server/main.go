package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/petstoryclub/petstory-backend/config"
	"github.com/petstoryclub/petstory-backend/internal/app/controller"
	"github.com/petstoryclub/petstory-backend/internal/app/repository"
	"github.com/petstoryclub/petstory-backend/internal/app/service"
	"github.com/petstoryclub/petstory-backend/internal/db"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
	"github.com/petstoryclub/petstory-backend/internal/router"
	"github.com/petstoryclub/petstory-backend/internal/storage"
	"github.com/petstoryclub/petstory-backend/internal/websocket"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
	"github.com/petstoryclub/petstory-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting PETSTORY Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed initial data (settings row, default categories)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (cart counter cache). The cache is advisory, so a
	// failed connection only logs a warning.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, cart counts fall back to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Object storage for product images, slips and site assets
	store := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Admin live order feed
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())
	settingsRepo := repository.NewSettingsRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo, store)
	categoryService := service.NewCategoryService(categoryRepo, productRepo, store)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, profileRepo, hub)
	profileService := service.NewProfileService(profileRepo)
	settingsService := service.NewSettingsService(settingsRepo, store)
	reportService := service.NewReportService(orderService)

	// Initialize controllers
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService, reportService, store)
	settingsController := controller.NewSettingsController(settingsService)
	profileController := controller.NewProfileController(profileService)
	paymentController := controller.NewPaymentController(settingsService)
	feedController := controller.NewFeedController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, profileService)

	// Setup router
	r := router.NewRouter(
		productController,
		categoryController,
		cartController,
		orderController,
		settingsController,
		profileController,
		paymentController,
		feedController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

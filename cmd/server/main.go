package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-service/internal/cache"
	"github.com/mindcanvas/mindcanvas-service/internal/config"
	"github.com/mindcanvas/mindcanvas-service/internal/handlers"
	"github.com/mindcanvas/mindcanvas-service/internal/middleware"
	"github.com/mindcanvas/mindcanvas-service/internal/repositories/postgres"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
	"github.com/mindcanvas/mindcanvas-service/internal/validator"
	"github.com/mindcanvas/mindcanvas-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := logger.Slog()

	if err := cfg.Validate(); err != nil {
		logger.LogError(err, "Invalid configuration")
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialise database")
		os.Exit(1)
	}

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(cfg)
	switch {
	case err != nil:
		logger.Warn("Redis unavailable, caching disabled", "error", err)
	case redisClient != nil:
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	serviceManager := services.NewServiceManager(services.Dependencies{
		Repo:      postgres.NewRepository(db),
		Cache:     cacheService,
		Publisher: publisher,
		Validator: validator.New(),
		Logger:    slogger,
		CacheTTL:  cfg.CacheTTL,
	})

	session := middleware.NewAdminSession(cfg.AdminSecret, cfg.JWTSecret, cfg.IsProduction())
	if !session.Enabled() {
		logger.Warn("ADMIN_SECRET or JWT_SECRET is not set, admin login is disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), utils.LoggerMiddleware(logger))
	handlers.NewHandlerManager(serviceManager, session, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("MindCanvas service listening", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.LogError(err, "Graceful shutdown failed")
	}
	logger.Info("Server stopped")
}

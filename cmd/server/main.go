package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prepdeck/mocktest-service/internal/cache"
	"github.com/prepdeck/mocktest-service/internal/config"
	"github.com/prepdeck/mocktest-service/internal/events"
	"github.com/prepdeck/mocktest-service/internal/extraction"
	"github.com/prepdeck/mocktest-service/internal/handlers"
	"github.com/prepdeck/mocktest-service/internal/pdfrender"
	"github.com/prepdeck/mocktest-service/internal/session"
	"github.com/prepdeck/mocktest-service/internal/solution"
	"github.com/prepdeck/mocktest-service/internal/utils"
	"github.com/prepdeck/mocktest-service/internal/validator"
	"github.com/prepdeck/mocktest-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var base *slog.Logger
	if cfg.Environment == "development" {
		base = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
		gin.SetMode(gin.ReleaseMode)
	}
	logger := utils.NewSlogLogger(base)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v := validator.New()

	// Crop PNGs go through Redis when configured, otherwise an in-process
	// cache with the same interface.
	var crops cache.CacheService
	if cfg.RedisURL != "" {
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, using in-memory cache", "error", err)
			crops = cache.NewMemoryCache()
		} else {
			defer client.Close()
			crops = cache.NewRedisCache(client, logger)
		}
	} else {
		crops = cache.NewMemoryCache()
	}

	extractor, err := extraction.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, v, logger)
	if err != nil {
		logger.Error("Failed to create extraction client", "error", err)
		os.Exit(1)
	}
	defer extractor.Close()

	solver, err := solution.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
	if err != nil {
		logger.Error("Failed to create solution client", "error", err)
		os.Exit(1)
	}
	defer solver.Close()

	renderer := pdfrender.NewRenderer(logger)
	worker := pdfrender.NewWorker(renderer, crops, logger)
	defer worker.Close()

	publisher := events.NewGoChannelEventPublisher(base)
	defer publisher.Close()

	analytics := events.NewAnalyticsSubscriber(base)
	go func() {
		if err := analytics.Run(ctx, publisher.Subscriber()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Analytics subscriber stopped", "error", err)
		}
	}()

	svc := session.NewService(session.Config{
		InlineRenderScale:   cfg.InlineRenderScale,
		LightboxRenderScale: cfg.LightboxRenderScale,
		SessionTTL:          time.Duration(cfg.SessionTTLMinutes) * time.Minute,
	}, extractor, solver, worker, publisher, logger)
	svc.StartSweeper(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	hm := handlers.NewHandlerManager(svc, v, int64(cfg.MaxUploadMB)<<20, logger)
	hm.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}

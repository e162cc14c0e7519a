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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/sitemeta-service/internal/adapter/measurement"
	"github.com/user/sitemeta-service/internal/adapter/postgres"
	redis_adapter "github.com/user/sitemeta-service/internal/adapter/redis"
	"github.com/user/sitemeta-service/internal/delivery/http/handler"
	"github.com/user/sitemeta-service/internal/delivery/http/router"
	"github.com/user/sitemeta-service/internal/entity"
	"github.com/user/sitemeta-service/internal/repository"
	"github.com/user/sitemeta-service/internal/usecase"
	"github.com/user/sitemeta-service/pkg/config"
	"github.com/user/sitemeta-service/pkg/logger"
	"github.com/user/sitemeta-service/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logLevel := logger.ParseLevel(cfg.LogLevel)
	logger.Init(os.Stdout, logLevel)
	slog.Info("Logger initialized", "level", logLevel.String(), "env", cfg.AppEnv)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- Manifest ---
	manifest, err := usecase.NewManifestGenerator(usecase.DefaultManifestInput(cfg.SiteBaseURL), nil)
	if err != nil {
		slog.Error("Invalid site manifest", "error", err)
		os.Exit(1)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- Emitters ---
	var emitters []repository.Emitter
	if cfg.IsProduction() && cfg.GAMeasurementID != "" && cfg.GAAPISecret != "" {
		emitters = append(emitters, measurement.NewProtocolEmitter(cfg.GAEndpoint, cfg.GAMeasurementID, cfg.GAAPISecret, nil))
		slog.Info("Measurement Protocol emitter enabled")
	}
	if cfg.CommandLogEnabled {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		emitters = append(emitters, postgres.NewCommandLogEmitter(dbpool))
		slog.Info("PostgreSQL command log enabled")
	}

	// --- Use Cases ---
	telemetryCfg := usecase.TelemetryConfig{
		Production:     cfg.IsProduction(),
		MeasurementID:  cfg.GAMeasurementID,
		ConsentDefault: entity.ConsentState(cfg.ConsentDefault),
		SessionTTL:     cfg.SessionTTL(),
	}
	telemetry := usecase.NewTelemetry(
		telemetryCfg,
		redis_adapter.NewConsentRepo(rdb),
		redis_adapter.NewSessionRepo(rdb),
		usecase.NewFanoutEmitter(emitters...),
	)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(manifest, telemetry, uuid.NewString)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exited")
}

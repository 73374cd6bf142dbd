package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/IgorOC/Taste-Trip/app/db"
	appLogger "github.com/IgorOC/Taste-Trip/app/logger"
	"github.com/IgorOC/Taste-Trip/app/observability/metrics"
	"github.com/IgorOC/Taste-Trip/app/tracer"
	"github.com/IgorOC/Taste-Trip/config"
	"github.com/IgorOC/Taste-Trip/internal/api/auth"
	"github.com/IgorOC/Taste-Trip/internal/api/cuisine"
	"github.com/IgorOC/Taste-Trip/internal/api/generative"
	"github.com/IgorOC/Taste-Trip/internal/api/places"
	"github.com/IgorOC/Taste-Trip/internal/api/trip"
	"github.com/IgorOC/Taste-Trip/internal/api/weather"
	api "github.com/IgorOC/Taste-Trip/internal/router"
)

func main() {
	// Standard log until slog is configured.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Observability before anything records a metric.
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// Database: migrations first, then the pool.
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// Generation backend.
	aiClient, err := generative.NewAIClient(ctx, cfg.Generation.Model, cfg.Generation.MaxOutputTokens)
	if err != nil {
		logger.Error("Failed to initialize generation client", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency wiring.
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	weatherService := weather.NewWeatherService(cfg.Upstreams, logger)
	placesService := places.NewPlacesService(cfg.Upstreams, logger)
	cuisineService := cuisine.NewCuisineService(aiClient, logger)

	tripRepo := trip.NewPostgresTripRepo(pool, logger)
	tripService := trip.NewTripService(weatherService, placesService, cuisineService, aiClient, tripRepo, cfg.Generation, logger)
	tripHandler := trip.NewTripHandler(tripService, logger)

	mainRouter := api.SetupRouter(&api.Config{
		AuthHandler:            authHandler,
		TripHandler:            tripHandler,
		AuthenticateMiddleware: auth.Authenticate(logger, cfg.JWT),
	})

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}

// setupLogger picks tint for development and JSON elsewhere, keyed off
// APP_ENV.
func setupLogger() *slog.Logger {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		return slog.New(tint.NewHandler(os.Stdout, tintOpts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

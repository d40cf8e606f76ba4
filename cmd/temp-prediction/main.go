package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/frostline/temp-prediction/internal/api/http"
	"github.com/frostline/temp-prediction/internal/config"
	"github.com/frostline/temp-prediction/internal/forecast"
	"github.com/frostline/temp-prediction/internal/forecast/providers"
	"github.com/frostline/temp-prediction/internal/geocode"
	"github.com/frostline/temp-prediction/internal/model"
	"github.com/frostline/temp-prediction/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// The model is loaded once here and shared read-only by all requests.
	mdl, err := loadModel(cfg)
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	// Feature-vector shape is a load-time contract: refuse to start with
	// a model that disagrees with the configured feature layout.
	if want := cfg.FeatureSet.VectorLen(); mdl.NumFeatures() != want {
		log.Fatalf("model expects %d features but feature set %q produces %d",
			mdl.NumFeatures(), cfg.FeatureSet, want)
	}

	provider := providers.NewOpenMeteoProvider(httpClient, "")

	var geocoder forecast.ReverseGeocoder
	if cfg.GeocoderAPIKey != "" {
		geocoder = geocode.NewGoogleReverser(cfg.GeocoderAPIKey)
	}

	var cache forecast.Cache
	if cfg.CacheTTL > 0 {
		cache = store.NewMemoryCache(cfg.CacheTTL, cfg.CacheMaxEntries)
		log.Printf("prediction cache enabled with ttl %s", cfg.CacheTTL)
	}

	// Core service orchestrating the prediction pipeline.
	service := forecast.NewService(provider, mdl, forecast.Config{
		FeatureSet:        cfg.FeatureSet,
		ConfidenceDivisor: cfg.ConfidenceDivisor,
		Geocoder:          geocoder,
		Cache:             cache,
	})

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "temp-prediction",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(httpapi.RequestID())
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "temp-prediction",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// loadModel reads the configured artifact, or falls back to a
// persistence model (tomorrow's minimum = most recent minimum) so the
// service can run without one.
func loadModel(cfg *config.AppConfig) (*model.LinearModel, error) {
	if cfg.ModelPath != "" {
		log.Printf("loading model artifact from %s", cfg.ModelPath)
		return model.Load(cfg.ModelPath)
	}

	log.Printf("MODEL_PATH not set; using built-in persistence model")
	lastMinIndex := (forecast.WindowDays - 1) * cfg.FeatureSet.PerDay()
	return model.Persistence(cfg.FeatureSet.VectorLen(), lastMinIndex), nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	httpapi "github.com/i474232898/hotel-weather-analysis/internal/api/http"
	"github.com/i474232898/hotel-weather-analysis/internal/config"
	"github.com/i474232898/hotel-weather-analysis/internal/geo"
	"github.com/i474232898/hotel-weather-analysis/internal/scheduler"
	"github.com/i474232898/hotel-weather-analysis/internal/store"
	"github.com/i474232898/hotel-weather-analysis/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.InputDir == "" {
		log.Fatal("INPUT_DIR is required")
	}
	if cfg.OutputDir == "" {
		log.Fatal("OUTPUT_DIR is required")
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client, err := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	if err != nil {
		log.Fatalf("failed to build weather client: %v", err)
	}

	resolver, err := buildResolver(httpClient, cfg)
	if err != nil {
		log.Fatalf("failed to build geocoding resolver: %v", err)
	}

	pipeline := analysis.New(analysis.Config{
		InputDir:         cfg.InputDir,
		OutputDir:        cfg.OutputDir,
		MaxCities:        cfg.MaxCities,
		MaxHotelsPerCity: cfg.MaxHotelsPerCity,
		WindowDays:       cfg.WindowDays,
		Workers:          cfg.WorkerPoolSize,
		CallTimeout:      cfg.HTTPTimeout,
		Retry:            cfg.RetryPolicy(),
	}, client, resolver)

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxRuns)

	// Run one analysis up front so the API has data to serve.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		res, err := pipeline.Run(ctx)
		if err != nil {
			log.Printf("WARN: initial analysis run failed: %v", err)
			return
		}
		memStore.SaveRun(res)
		log.Printf("INFO: initial analysis run %s stored", res.ID)
	}()

	// Scheduler that periodically re-runs the analysis.
	sched := scheduler.New(pipeline, memStore, cfg.RunInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "hotel-weather-analysis",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "hotel-weather-analysis",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore)

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

// buildResolver picks the reverse geocoding backend from available API keys.
func buildResolver(httpClient *http.Client, cfg *config.AppConfig) (geo.Resolver, error) {
	if cfg.PickPointAPIKey != "" {
		return geo.NewPickPointResolver(httpClient, cfg.PickPointAPIKey)
	}
	if cfg.GoogleMapsAPIKey != "" {
		return geo.NewGoogleResolver(cfg.GoogleMapsAPIKey)
	}
	return nil, fmt.Errorf("no geocoding API key configured (PICKPOINT_API_KEY or GOOGLE_MAPS_API_KEY)")
}

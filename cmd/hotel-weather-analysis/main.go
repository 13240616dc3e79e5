package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	"github.com/i474232898/hotel-weather-analysis/internal/config"
	"github.com/i474232898/hotel-weather-analysis/internal/geo"
	"github.com/i474232898/hotel-weather-analysis/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	inputDir := flag.String("in", cfg.InputDir, "directory with hotel archives")
	outputDir := flag.String("out", cfg.OutputDir, "directory for generated artifacts")
	maxCities := flag.Int("cities", cfg.MaxCities, "number of hotel-dense cities to analyze")
	maxHotels := flag.Int("hotels", cfg.MaxHotelsPerCity, "geocoded hotels per city")
	workers := flag.Int("workers", cfg.WorkerPoolSize, "maximum in-flight outbound requests")
	flag.Parse()

	if *inputDir == "" {
		log.Fatal("input directory is required (-in flag or INPUT_DIR)")
	}
	if *outputDir == "" {
		*outputDir = filepath.Join(*inputDir, "output")
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
		InputDir:         *inputDir,
		OutputDir:        *outputDir,
		MaxCities:        *maxCities,
		MaxHotelsPerCity: *maxHotels,
		WindowDays:       cfg.WindowDays,
		Workers:          *workers,
		CallTimeout:      cfg.HTTPTimeout,
		Retry:            cfg.RetryPolicy(),
	}, client, resolver)

	res, err := pipeline.Run(context.Background())
	if err != nil {
		log.Fatalf("analysis run failed: %v", err)
	}

	log.Printf("INFO: run %s finished in %s, %d cities analyzed, %d excluded",
		res.ID, res.FinishedAt.Sub(res.StartedAt), len(res.Records), len(res.Excluded))
	fmt.Println("Completed!")
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

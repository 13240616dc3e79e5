package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
)

// AppConfig is the full configuration surface for both the batch CLI and
// the server.
type AppConfig struct {
	OpenWeatherAPIKey string
	PickPointAPIKey   string
	GoogleMapsAPIKey  string

	InputDir  string
	OutputDir string

	// MaxCities is the number of hotel-dense cities to keep.
	MaxCities int

	// WorkerPoolSize bounds in-flight requests across the whole batch.
	WorkerPoolSize int

	// MaxHotelsPerCity caps the geocoded hotel subset per city.
	MaxHotelsPerCity int

	// WindowDays is the historical/forecast window length.
	WindowDays int

	HTTPTimeout    time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration

	// Server mode.
	Port        string
	RunInterval time.Duration

	// In-memory run store retention.
	StoreMaxRuns int
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.PickPointAPIKey = os.Getenv("PICKPOINT_API_KEY")
	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")

	cfg.InputDir = os.Getenv("INPUT_DIR")
	cfg.OutputDir = os.Getenv("OUTPUT_DIR")

	cfg.MaxCities = getenvInt("MAX_CITIES", 10)
	cfg.WorkerPoolSize = getenvInt("WORKER_POOL_SIZE", 100)
	cfg.MaxHotelsPerCity = getenvInt("MAX_HOTELS_PER_CITY", 3)
	cfg.WindowDays = getenvInt("WINDOW_DAYS", 5)
	cfg.MaxRetries = getenvInt("MAX_RETRIES", 3)
	cfg.StoreMaxRuns = getenvInt("STORE_MAX_RUNS", 10)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.BackoffInitial, err = getenvDuration("BACKOFF_INITIAL", "500ms"); err != nil {
		return nil, err
	}
	if cfg.BackoffMax, err = getenvDuration("BACKOFF_MAX", "5s"); err != nil {
		return nil, err
	}
	if cfg.RunInterval, err = getenvDuration("RUN_INTERVAL", "1h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// RetryPolicy builds the shared retry policy for outbound requests.
func (c *AppConfig) RetryPolicy() resilience.Policy {
	return resilience.Policy{
		MaxRetries:      c.MaxRetries,
		InitialInterval: c.BackoffInitial,
		MaxInterval:     c.BackoffMax,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

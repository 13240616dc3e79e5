package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/hotel-weather-analysis/internal/geo"
	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/ingest"
	"github.com/i474232898/hotel-weather-analysis/internal/report"
	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

// Config is the pipeline's tuning surface, filled from the environment and
// CLI flags.
type Config struct {
	InputDir  string
	OutputDir string

	MaxCities        int
	MaxHotelsPerCity int
	WindowDays       int
	Workers          int

	CallTimeout time.Duration
	Retry       resilience.Policy
}

// RunResult is everything one pipeline pass produced.
type RunResult struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Summary weather.ExtremeSummary      `json:"summary"`
	Records []weather.CityWeatherRecord `json:"records"`

	// Excluded lists the cities that produced no output and why.
	Excluded []report.ExcludedCity `json:"excluded"`

	// Addresses maps city keys to the geocoded hotel subset written per city.
	Addresses map[string][]geo.HotelAddress `json:"-"`
}

// Pipeline runs the whole analysis: ingest hotel archives, select the
// densest cities, locate their centers, fetch weather concurrently, enrich
// hotel addresses, compute the cross-city extremes and write the report.
type Pipeline struct {
	cfg      Config
	client   weather.Client
	resolver geo.Resolver
}

func New(cfg Config, client weather.Client, resolver geo.Resolver) *Pipeline {
	return &Pipeline{cfg: cfg, client: client, resolver: resolver}
}

// Run executes one pass. Individual request failures are absorbed into
// record statuses; Run itself fails only on the fatal conditions: unreadable
// input, an empty dataset, no selectable cities, no usable weather data at
// all, or an unwritable output folder.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	res := &RunResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log.Printf("INFO: starting analysis run %s", res.ID)

	loader, err := ingest.NewLoader(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer loader.Close()

	dataset, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load hotels: %w", err)
	}

	cities, err := hotels.SelectTop(dataset, p.cfg.MaxCities)
	if err != nil {
		return nil, fmt.Errorf("select cities: %w", err)
	}
	log.Printf("INFO: selected %d cities from %d hotel records", len(cities), dataset.Len())

	centers := make([]hotels.CityCenter, 0, len(cities))
	for _, city := range cities {
		center, err := hotels.LocateCenter(city)
		if err != nil {
			// Defensive: selection never yields an empty city.
			log.Printf("WARN: skipping %s: %v", city.Key(), err)
			res.Excluded = append(res.Excluded, report.ExcludedCity{
				City: city.Name, Country: city.Country, Reason: err.Error(),
			})
			continue
		}
		centers = append(centers, center)
	}

	orch := weather.NewOrchestrator(p.client, weather.OrchestratorConfig{
		Workers:     p.cfg.Workers,
		WindowDays:  p.cfg.WindowDays,
		CallTimeout: p.cfg.CallTimeout,
		Retry:       p.cfg.Retry,
	})
	res.Records = orch.FetchAll(ctx, centers)

	var usable []weather.CityWeatherRecord
	for _, rec := range res.Records {
		if rec.Status == weather.StatusFailed {
			res.Excluded = append(res.Excluded, report.ExcludedCity{
				City:    rec.Center.City.Name,
				Country: rec.Center.City.Country,
				Reason:  "all weather datasources failed",
			})
			continue
		}
		usable = append(usable, rec)
	}

	summary, err := weather.Summarize(res.Records)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	res.Summary = summary

	res.Addresses = p.enrichHotels(ctx, usable)

	writer := report.NewWriter(p.cfg.OutputDir)
	for _, rec := range usable {
		if err := writer.WriteCity(rec, res.Addresses[rec.Center.City.Key()]); err != nil {
			return nil, fmt.Errorf("write city output: %w", err)
		}
	}

	res.FinishedAt = time.Now().UTC()
	if err := writer.WriteSummary(report.NewSummary(res.ID, res.FinishedAt, summary, res.Excluded)); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	log.Printf("INFO: run %s finished: %d cities written, %d excluded", res.ID, len(usable), len(res.Excluded))
	return res, nil
}

// enrichHotels geocodes the capped hotel subset of every usable city in one
// batch so the worker bound covers the whole request matrix, then splits
// the results back per city.
func (p *Pipeline) enrichHotels(ctx context.Context, usable []weather.CityWeatherRecord) map[string][]geo.HotelAddress {
	var batch []hotels.HotelRecord
	counts := make([]int, len(usable))

	for i, rec := range usable {
		subset := rec.Center.City.Hotels
		if p.cfg.MaxHotelsPerCity > 0 && len(subset) > p.cfg.MaxHotelsPerCity {
			subset = subset[:p.cfg.MaxHotelsPerCity]
		}
		counts[i] = len(subset)
		batch = append(batch, subset...)
	}

	enricher := geo.NewEnricher(p.resolver, geo.EnricherConfig{
		Workers:     p.cfg.Workers,
		CallTimeout: p.cfg.CallTimeout,
		Retry:       p.cfg.Retry,
	})
	addresses := enricher.Enrich(ctx, batch)

	byCity := make(map[string][]geo.HotelAddress, len(usable))
	offset := 0
	for i, rec := range usable {
		byCity[rec.Center.City.Key()] = addresses[offset : offset+counts[i]]
		offset += counts[i]
	}
	return byCity
}

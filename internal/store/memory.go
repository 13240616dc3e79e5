package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

var (
	// ErrNotFound is returned when no run or city data is available.
	ErrNotFound = errors.New("no analysis data available")
)

// MemoryStore is a concurrency-safe in-memory history of analysis runs.
type MemoryStore struct {
	mu sync.RWMutex

	runs []*analysis.RunResult

	// retention configuration
	maxRuns int // max number of retained runs (<= 0 = unlimited)
}

// NewMemoryStore creates a new MemoryStore with an optional run limit.
func NewMemoryStore(maxRuns int) *MemoryStore {
	return &MemoryStore{maxRuns: maxRuns}
}

// SaveRun appends a completed run and enforces retention.
func (s *MemoryStore) SaveRun(run *analysis.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = append(s.runs, run)

	if s.maxRuns > 0 && len(s.runs) > s.maxRuns {
		over := len(s.runs) - s.maxRuns
		s.runs = s.runs[over:]
	}
}

// LatestRun returns the most recent run.
func (s *MemoryStore) LatestRun() (*analysis.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return nil, ErrNotFound
	}
	return s.runs[len(s.runs)-1], nil
}

// CityRecord returns the latest run's weather record for one city.
// Lookup is case-insensitive.
func (s *MemoryStore) CityRecord(country, city string) (weather.CityWeatherRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return weather.CityWeatherRecord{}, ErrNotFound
	}

	latest := s.runs[len(s.runs)-1]
	for _, rec := range latest.Records {
		if strings.EqualFold(rec.Center.City.Country, country) &&
			strings.EqualFold(rec.Center.City.Name, city) {
			return rec, nil
		}
	}
	return weather.CityWeatherRecord{}, ErrNotFound
}

package store

import (
	"errors"
	"testing"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

func runWithCity(id, country, city string) *analysis.RunResult {
	return &analysis.RunResult{
		ID: id,
		Records: []weather.CityWeatherRecord{
			{
				Center: hotels.CityCenter{City: hotels.City{Name: city, Country: country}},
				Status: weather.StatusComplete,
			},
		},
	}
}

func TestLatestRunEmptyStore(t *testing.T) {
	s := NewMemoryStore(5)
	if _, err := s.LatestRun(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunEnforcesRetention(t *testing.T) {
	s := NewMemoryStore(2)
	s.SaveRun(runWithCity("1", "FR", "Paris"))
	s.SaveRun(runWithCity("2", "FR", "Paris"))
	s.SaveRun(runWithCity("3", "FR", "Paris"))

	latest, err := s.LatestRun()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != "3" {
		t.Fatalf("expected run 3, got %s", latest.ID)
	}
	if len(s.runs) != 2 {
		t.Fatalf("expected retention to keep 2 runs, got %d", len(s.runs))
	}
}

func TestCityRecordLookup(t *testing.T) {
	s := NewMemoryStore(5)
	s.SaveRun(runWithCity("1", "FR", "Paris"))

	rec, err := s.CityRecord("fr", "paris")
	if err != nil {
		t.Fatalf("lookup must be case-insensitive: %v", err)
	}
	if rec.Center.City.Name != "Paris" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := s.CityRecord("UK", "London"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

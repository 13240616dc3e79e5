package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/hotel-weather-analysis/internal/geo"
	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

func sampleRecord() weather.CityWeatherRecord {
	base := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	return weather.CityWeatherRecord{
		Center: hotels.CityCenter{
			City:     hotels.City{Name: "Paris", Country: "FR"},
			Latitude: 48.85, Longitude: 2.35,
		},
		Points: []weather.TemperaturePoint{
			{Timestamp: base, Min: 12, Max: 22, Source: weather.SourceHistorical},
			{Timestamp: base.AddDate(0, 0, 1), Min: 13, Max: 24, Source: weather.SourceCurrent},
			{Timestamp: base.AddDate(0, 0, 2), Min: 11, Max: 21, Source: weather.SourceForecast},
		},
		Status: weather.StatusComplete,
	}
}

func TestWriteCityProducesArtifacts(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out)

	addresses := []geo.HotelAddress{
		{Hotel: hotels.HotelRecord{Name: "Grand Hotel", Latitude: 48.85, Longitude: 2.35}, Address: "1 Rue de Rivoli"},
		{Hotel: hotels.HotelRecord{Name: "Le Petit", Latitude: 48.86, Longitude: 2.34}}, // geocode failed
	}

	if err := w.WriteCity(sampleRecord(), addresses); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cityDir := filepath.Join(out, "FR", "Paris")
	if _, err := os.Stat(filepath.Join(cityDir, "chart.png")); err != nil {
		t.Fatalf("chart.png missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cityDir, "Hotels.csv"))
	if err != nil {
		t.Fatalf("Hotels.csv missing: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "Grand Hotel") || !strings.Contains(content, "1 Rue de Rivoli") {
		t.Fatalf("hotel row missing from csv:\n%s", content)
	}
	if !strings.Contains(content, "Le Petit") {
		t.Fatalf("hotel without address must still be listed:\n%s", content)
	}
}

func TestWriteCitySkipsChartWithTooFewPoints(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out)

	rec := sampleRecord()
	rec.Points = rec.Points[:1]
	rec.Status = weather.StatusPartial

	if err := w.WriteCity(rec, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "FR", "Paris", "chart.png")); !os.IsNotExist(err) {
		t.Fatal("chart must be skipped below two points")
	}
}

func TestWriteSummary(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out)

	extremes := weather.ExtremeSummary{
		MaxTempCity: "Paris", MaxTempDate: time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), MaxTempValue: 31.5,
		MinTempCity: "London", MinTempDate: time.Date(2024, time.June, 9, 0, 0, 0, 0, time.UTC), MinTempValue: 4.2,
		MostVolatileMaxCity: "Berlin", MostVolatileMaxSwing: 9.9,
		WidestDailyRangeCity: "Madrid", WidestDailyRangeDate: time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC), WidestDailyRangeSpread: 17.0,
	}
	excluded := []ExcludedCity{{City: "Oslo", Country: "NO", Reason: "all weather datasources failed"}}

	s := NewSummary("run-1", time.Now(), extremes, excluded)
	if err := w.WriteSummary(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "analysis.json"))
	if err != nil {
		t.Fatalf("analysis.json missing: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.MaximumTemperature.City != "Paris" || decoded.MaximumTemperature.Date != "12.06.2024" {
		t.Fatalf("unexpected maximum: %+v", decoded.MaximumTemperature)
	}
	if decoded.MostVolatileMax.City != "Berlin" {
		t.Fatalf("unexpected volatility city: %+v", decoded.MostVolatileMax)
	}
	if len(decoded.ExcludedCities) != 1 || decoded.ExcludedCities[0].City != "Oslo" {
		t.Fatalf("excluded cities must be reported: %+v", decoded.ExcludedCities)
	}
}

func TestWriteSummaryWithoutVolatilityData(t *testing.T) {
	out := t.TempDir()
	w := NewWriter(out)

	// A run where every city kept a single point produces no volatility
	// fact; the summary still has to reach disk as valid JSON.
	rec := sampleRecord()
	rec.Points = rec.Points[:1]
	rec.Status = weather.StatusPartial

	extremes, err := weather.Summarize([]weather.CityWeatherRecord{rec})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.WriteSummary(NewSummary("run-1", time.Now(), extremes, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(out, "analysis.json"))
	if err != nil {
		t.Fatalf("analysis.json missing: %v", err)
	}
	var decoded Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.MostVolatileMax.City != "" || decoded.MostVolatileMax.SwingC != 0 {
		t.Fatalf("expected empty volatility fact, got %+v", decoded.MostVolatileMax)
	}
	if decoded.MaximumTemperature.City != "Paris" {
		t.Fatalf("unexpected maximum: %+v", decoded.MaximumTemperature)
	}
}

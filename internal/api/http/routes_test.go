package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/hotel-weather-analysis/internal/analysis"
	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/store"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

func testApp(st *store.MemoryStore) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, st)
	return app
}

func seededStore() *store.MemoryStore {
	st := store.NewMemoryStore(5)
	st.SaveRun(&analysis.RunResult{
		ID: "run-1",
		Records: []weather.CityWeatherRecord{
			{
				Center: hotels.CityCenter{City: hotels.City{Name: "Paris", Country: "FR"}},
				Status: weather.StatusComplete,
			},
		},
	})
	return st
}

// TestLatestBeforeAnyRun verifies the API answers 404 until a run completes.
func TestLatestBeforeAnyRun(t *testing.T) {
	app := testApp(store.NewMemoryStore(5))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLatestReturnsRun(t *testing.T) {
	app := testApp(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.RunID != "run-1" {
		t.Fatalf("expected run-1, got %q", body.RunID)
	}
}

func TestCityLookup(t *testing.T) {
	app := testApp(seededStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/cities/FR/Paris", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	// Unknown city should return 404.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analysis/cities/UK/London", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

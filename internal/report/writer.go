package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/i474232898/hotel-weather-analysis/internal/geo"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

// dateLayout matches the original report format.
const dateLayout = "02.01.2006"

// PlaceDate is one extreme fact tied to a city and a date.
type PlaceDate struct {
	City         string  `json:"city"`
	Date         string  `json:"date"`
	TemperatureC float64 `json:"temperature_c"`
}

// ExcludedCity explains why a city is missing from the output.
type ExcludedCity struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Reason  string `json:"reason"`
}

// Summary is the analysis.json payload: the four cross-city facts, the
// cities excluded from them, and run metadata.
type Summary struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	MaximumTemperature PlaceDate `json:"maximum_temperature"`
	MinimumTemperature PlaceDate `json:"minimum_temperature"`
	MostVolatileMax    struct {
		City   string  `json:"city"`
		SwingC float64 `json:"swing_c"`
	} `json:"most_volatile_max"`
	WidestDailyRange PlaceDate `json:"widest_daily_range"`

	ExcludedCities []ExcludedCity `json:"excluded_cities"`
}

// NewSummary converts an extreme summary into the serializable report form.
func NewSummary(runID string, generatedAt time.Time, s weather.ExtremeSummary, excluded []ExcludedCity) Summary {
	out := Summary{
		RunID:       runID,
		GeneratedAt: generatedAt.UTC(),
		MaximumTemperature: PlaceDate{
			City:         s.MaxTempCity,
			Date:         s.MaxTempDate.UTC().Format(dateLayout),
			TemperatureC: s.MaxTempValue,
		},
		MinimumTemperature: PlaceDate{
			City:         s.MinTempCity,
			Date:         s.MinTempDate.UTC().Format(dateLayout),
			TemperatureC: s.MinTempValue,
		},
		WidestDailyRange: PlaceDate{
			City:         s.WidestDailyRangeCity,
			Date:         s.WidestDailyRangeDate.UTC().Format(dateLayout),
			TemperatureC: s.WidestDailyRangeSpread,
		},
		ExcludedCities: excluded,
	}
	out.MostVolatileMax.City = s.MostVolatileMaxCity
	out.MostVolatileMax.SwingC = s.MostVolatileMaxSwing
	if excluded == nil {
		out.ExcludedCities = []ExcludedCity{}
	}
	return out
}

// hotelRow is one line of a per-city Hotels.csv. Address stays blank for
// hotels whose geocode failed.
type hotelRow struct {
	Name      string  `csv:"Name"`
	Address   string  `csv:"Address"`
	Latitude  float64 `csv:"Latitude"`
	Longitude float64 `csv:"Longitude"`
}

// Writer lays out the output tree: one <country>/<city> folder per
// successfully fetched city with a temperature chart and a hotel list, and
// analysis.json at the root.
type Writer struct {
	outDir string
}

func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir}
}

// WriteCity writes the chart and hotel CSV for one city.
func (w *Writer) WriteCity(rec weather.CityWeatherRecord, addresses []geo.HotelAddress) error {
	dir := filepath.Join(w.outDir, sanitize(rec.Center.City.Country), sanitize(rec.Center.City.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create city folder: %w", err)
	}

	if err := w.writeChart(dir, rec); err != nil {
		return fmt.Errorf("chart for %s: %w", rec.Center.City.Key(), err)
	}
	if err := w.writeHotels(dir, addresses); err != nil {
		return fmt.Errorf("hotel list for %s: %w", rec.Center.City.Key(), err)
	}
	return nil
}

func (w *Writer) writeChart(dir string, rec weather.CityWeatherRecord) error {
	if len(rec.Points) < 2 {
		// go-chart needs at least two values per series.
		log.Printf("WARN: skipping chart for %s: only %d temperature points", rec.Center.City.Key(), len(rec.Points))
		return nil
	}

	xs := make([]time.Time, 0, len(rec.Points))
	mins := make([]float64, 0, len(rec.Points))
	maxs := make([]float64, 0, len(rec.Points))
	for _, pt := range rec.Points {
		xs = append(xs, pt.Timestamp)
		mins = append(mins, pt.Min)
		maxs = append(maxs, pt.Max)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("%s daily temperature, °C", rec.Center.City.Name),
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "min", XValues: xs, YValues: mins},
			chart.TimeSeries{Name: "max", XValues: xs, YValues: maxs},
		},
	}

	f, err := os.Create(filepath.Join(dir, "chart.png"))
	if err != nil {
		return err
	}
	defer f.Close()

	return graph.Render(chart.PNG, f)
}

func (w *Writer) writeHotels(dir string, addresses []geo.HotelAddress) error {
	rows := make([]hotelRow, 0, len(addresses))
	for _, a := range addresses {
		rows = append(rows, hotelRow{
			Name:      a.Hotel.Name,
			Address:   a.Address,
			Latitude:  a.Hotel.Latitude,
			Longitude: a.Hotel.Longitude,
		})
	}

	f, err := os.Create(filepath.Join(dir, "Hotels.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.MarshalFile(&rows, f)
}

// WriteSummary writes analysis.json at the output root.
func (w *Writer) WriteSummary(s Summary) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.outDir, "analysis.json"), data, 0o644)
}

// sanitize keeps city and country names usable as folder names.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" {
		return "_"
	}
	return name
}

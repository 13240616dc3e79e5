package weather

import (
	"errors"
	"time"

	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
)

// ErrInsufficientData is returned when no city produced any usable weather
// data and a summary cannot be computed.
var ErrInsufficientData = errors.New("no successful weather data to summarize")

// Source identifies which datasource produced a temperature point.
type Source string

const (
	SourceHistorical Source = "historical"
	SourceForecast   Source = "forecast"
	SourceCurrent    Source = "current"
)

// FetchStatus describes how much of a city's weather data was retrieved.
type FetchStatus string

const (
	// StatusComplete means all three datasources succeeded.
	StatusComplete FetchStatus = "complete"
	// StatusPartial means at least one datasource succeeded. Gaps are simply
	// absent from the point sequence; nothing is interpolated.
	StatusPartial FetchStatus = "partial"
	// StatusFailed means every datasource failed. The city is excluded from
	// aggregation and output, and the exclusion is reported.
	StatusFailed FetchStatus = "failed"
)

// TemperaturePoint is one day's minimum and maximum temperature.
type TemperaturePoint struct {
	Timestamp time.Time `json:"timestamp"` // always UTC
	Min       float64   `json:"minC"`
	Max       float64   `json:"maxC"`
	Source    Source    `json:"source"`
}

// CityWeatherRecord is the assembled weather data for one city center.
// The orchestrator owns it exclusively while populating it; it is never
// mutated after the fetch completes.
type CityWeatherRecord struct {
	Center hotels.CityCenter  `json:"center"`
	Points []TemperaturePoint `json:"points"` // chronological
	Status FetchStatus        `json:"status"`

	// FailedSources lists the datasources that exhausted their retries.
	FailedSources []Source `json:"failedSources,omitempty"`
}

// ExtremeSummary holds the four cross-city temperature facts computed once
// all city fetches complete. It is immutable after Summarize returns.
type ExtremeSummary struct {
	MaxTempCity  string    `json:"maxTempCity"`
	MaxTempDate  time.Time `json:"maxTempDate"`
	MaxTempValue float64   `json:"maxTempC"`

	MinTempCity  string    `json:"minTempCity"`
	MinTempDate  time.Time `json:"minTempDate"`
	MinTempValue float64   `json:"minTempC"`

	// MostVolatileMaxCity has the largest day-to-next-day increase in its
	// daily maximum series.
	MostVolatileMaxCity  string  `json:"mostVolatileMaxCity"`
	MostVolatileMaxSwing float64 `json:"mostVolatileMaxSwingC"`

	// Widest intra-day spread between maximum and minimum temperature.
	WidestDailyRangeCity   string    `json:"widestDailyRangeCity"`
	WidestDailyRangeDate   time.Time `json:"widestDailyRangeDate"`
	WidestDailyRangeSpread float64   `json:"widestDailyRangeC"`
}

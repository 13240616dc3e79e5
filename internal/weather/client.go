package weather

import "context"

// Client abstracts the remote weather provider. Each call may fail
// independently; implementations mark retry-worthy failures transient via
// the resilience package so the orchestrator's retry policy can decide.
type Client interface {
	// FetchHistorical returns one min/max point per day for the given number
	// of days before today, chronologically ordered.
	FetchHistorical(ctx context.Context, lat, lon float64, days int) ([]TemperaturePoint, error)

	// FetchForecast returns one min/max point per day for the given number
	// of days after today, chronologically ordered.
	FetchForecast(ctx context.Context, lat, lon float64, days int) ([]TemperaturePoint, error)

	// FetchCurrent returns today's min/max point.
	FetchCurrent(ctx context.Context, lat, lon float64) (TemperaturePoint, error)
}

package weather

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
)

// OrchestratorConfig bundles the fetch settings.
type OrchestratorConfig struct {
	// Workers bounds the number of in-flight requests across the whole
	// city×datasource matrix, not per city.
	Workers int

	// WindowDays is the historical/forecast window length.
	WindowDays int

	// CallTimeout budgets one network request. Datasources issuing several
	// requests per call get the timeout scaled by their request count. A
	// timeout is treated like any transient failure and goes through the
	// retry policy.
	CallTimeout time.Duration

	Retry resilience.Policy
}

// Orchestrator retrieves the three weather datasources for every city
// center concurrently, bounded by the configured worker limit, and
// assembles one CityWeatherRecord per center. One datasource's failure
// never aborts a sibling request or another city's fetch.
type Orchestrator struct {
	client Client
	cfg    OrchestratorConfig
}

// NewOrchestrator creates an Orchestrator. A non-positive worker count is
// clamped to one.
func NewOrchestrator(client Client, cfg OrchestratorConfig) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 5
	}
	return &Orchestrator{client: client, cfg: cfg}
}

// citySlot collects the three datasource results for one center. Each task
// writes only its own fields, so no locking is needed on the slot itself.
type citySlot struct {
	historical []TemperaturePoint
	forecast   []TemperaturePoint
	current    TemperaturePoint

	historicalErr error
	forecastErr   error
	currentErr    error
}

// FetchAll fetches weather for every center and returns one record per
// center in input order, regardless of fetch latency. It returns only after
// every request has reached a terminal state; individual request failures
// are recorded on the affected record, never propagated as errors.
func (o *Orchestrator) FetchAll(ctx context.Context, centers []hotels.CityCenter) []CityWeatherRecord {
	slots := make([]citySlot, len(centers))

	sem := make(chan struct{}, o.cfg.Workers)
	var wg sync.WaitGroup

	schedule := func(task func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			task()
		}()
	}

	for i := range centers {
		i := i
		c := centers[i]

		schedule(func() {
			// Historical issues one timemachine request per window day, so
			// its deadline covers that many network round trips.
			slots[i].historical, slots[i].historicalErr = o.fetchPoints(ctx, o.cfg.WindowDays, func(ctx context.Context) ([]TemperaturePoint, error) {
				return o.client.FetchHistorical(ctx, c.Latitude, c.Longitude, o.cfg.WindowDays)
			})
		})
		schedule(func() {
			slots[i].forecast, slots[i].forecastErr = o.fetchPoints(ctx, 1, func(ctx context.Context) ([]TemperaturePoint, error) {
				return o.client.FetchForecast(ctx, c.Latitude, c.Longitude, o.cfg.WindowDays)
			})
		})
		schedule(func() {
			slots[i].current, slots[i].currentErr = o.fetchPoint(ctx, func(ctx context.Context) (TemperaturePoint, error) {
				return o.client.FetchCurrent(ctx, c.Latitude, c.Longitude)
			})
		})
	}

	wg.Wait()

	records := make([]CityWeatherRecord, len(centers))
	for i := range centers {
		records[i] = assembleRecord(centers[i], &slots[i])
	}
	return records
}

// fetchPoints runs one datasource call under the retry policy. requests is
// how many network round trips the call makes; the per-request timeout is
// scaled by it so a multi-request datasource is not squeezed into a single
// request's budget.
func (o *Orchestrator) fetchPoints(ctx context.Context, requests int, call func(ctx context.Context) ([]TemperaturePoint, error)) ([]TemperaturePoint, error) {
	var pts []TemperaturePoint
	err := o.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx, requests)
		defer cancel()

		p, err := call(callCtx)
		if err != nil {
			return err
		}
		pts = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pts, nil
}

func (o *Orchestrator) fetchPoint(ctx context.Context, call func(ctx context.Context) (TemperaturePoint, error)) (TemperaturePoint, error) {
	var pt TemperaturePoint
	err := o.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx, 1)
		defer cancel()

		p, err := call(callCtx)
		if err != nil {
			return err
		}
		pt = p
		return nil
	})
	if err != nil {
		return TemperaturePoint{}, err
	}
	return pt, nil
}

func (o *Orchestrator) callContext(ctx context.Context, requests int) (context.Context, context.CancelFunc) {
	if o.cfg.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	if requests < 1 {
		requests = 1
	}
	return context.WithTimeout(ctx, o.cfg.CallTimeout*time.Duration(requests))
}

// assembleRecord merges the three datasource results into one
// chronologically ordered sequence and derives the record status.
func assembleRecord(center hotels.CityCenter, slot *citySlot) CityWeatherRecord {
	rec := CityWeatherRecord{Center: center}

	if slot.historicalErr != nil {
		log.Printf("WARN: historical fetch failed for %s: %v", center.City.Key(), slot.historicalErr)
		rec.FailedSources = append(rec.FailedSources, SourceHistorical)
	} else {
		rec.Points = append(rec.Points, slot.historical...)
	}

	if slot.forecastErr != nil {
		log.Printf("WARN: forecast fetch failed for %s: %v", center.City.Key(), slot.forecastErr)
		rec.FailedSources = append(rec.FailedSources, SourceForecast)
	} else {
		rec.Points = append(rec.Points, slot.forecast...)
	}

	if slot.currentErr != nil {
		log.Printf("WARN: current fetch failed for %s: %v", center.City.Key(), slot.currentErr)
		rec.FailedSources = append(rec.FailedSources, SourceCurrent)
	} else {
		rec.Points = append(rec.Points, slot.current)
	}

	sort.SliceStable(rec.Points, func(i, j int) bool {
		return rec.Points[i].Timestamp.Before(rec.Points[j].Timestamp)
	})

	switch len(rec.FailedSources) {
	case 0:
		rec.Status = StatusComplete
	case 3:
		rec.Status = StatusFailed
	default:
		rec.Status = StatusPartial
	}
	return rec
}

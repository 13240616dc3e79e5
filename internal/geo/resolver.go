package geo

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/i474232898/hotel-weather-analysis/internal/hotels"
	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
)

// Resolver turns a coordinate into a human-readable street address.
// Implementations mark retry-worthy failures transient via the resilience
// package.
type Resolver interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// HotelAddress pairs a hotel with its reverse-geocoded address. Address
// stays empty when every attempt for that hotel failed; downstream writers
// must tolerate the gap.
type HotelAddress struct {
	Hotel   hotels.HotelRecord `json:"hotel"`
	Address string             `json:"address,omitempty"`
}

// EnricherConfig bundles the enrichment settings.
type EnricherConfig struct {
	Workers     int
	CallTimeout time.Duration
	Retry       resilience.Policy
}

// Enricher resolves addresses for hotel batches with the same bounded-pool
// and retry discipline as the weather orchestrator: one request per hotel,
// per-slot result writes, input order preserved in the output.
type Enricher struct {
	resolver Resolver
	cfg      EnricherConfig
}

// NewEnricher creates an Enricher. A non-positive worker count is clamped
// to one.
func NewEnricher(resolver Resolver, cfg EnricherConfig) *Enricher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Enricher{resolver: resolver, cfg: cfg}
}

// Enrich resolves an address per hotel. A failed geocode leaves that
// hotel's address empty and never fails the batch.
func (e *Enricher) Enrich(ctx context.Context, records []hotels.HotelRecord) []HotelAddress {
	results := make([]HotelAddress, len(records))

	sem := make(chan struct{}, e.cfg.Workers)
	var wg sync.WaitGroup

	for i := range records {
		i := i
		h := records[i]
		results[i].Hotel = h

		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			addr, err := e.resolve(ctx, h.Latitude, h.Longitude)
			if err != nil {
				log.Printf("WARN: geocode failed for %q (%s): %v", h.Name, h.City, err)
				return
			}
			results[i].Address = addr
		}()
	}

	wg.Wait()
	return results
}

func (e *Enricher) resolve(ctx context.Context, lat, lon float64) (string, error) {
	var addr string
	err := e.cfg.Retry.Do(ctx, func(ctx context.Context) error {
		callCtx := ctx
		if e.cfg.CallTimeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
			defer cancel()
		}

		a, err := e.resolver.Reverse(callCtx, lat, lon)
		if err != nil {
			return err
		}
		addr = a
		return nil
	})
	return addr, err
}

package geo

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
)

// GoogleResolver reverse-geocodes through the Google Geocoding API using
// the kelvins/geocoder bindings. It is the alternative to PickPoint when
// only a Google API key is configured.
type GoogleResolver struct{}

// NewGoogleResolver constructs the resolver. The underlying library holds
// the key as package state, so construct at most one per process.
func NewGoogleResolver(apiKey string) (*GoogleResolver, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is not configured")
	}
	geocoder.ApiKey = apiKey
	return &GoogleResolver{}, nil
}

// Reverse resolves the first formatted address for the coordinate. The
// library exposes no transient/permanent distinction, so every failure is
// treated as retryable.
func (r *GoogleResolver) Reverse(_ context.Context, lat, lon float64) (string, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return "", resilience.Transient(err)
	}
	if len(addresses) == 0 {
		return "", errors.New("no address for coordinate")
	}
	return addresses[0].FormatAddress(), nil
}

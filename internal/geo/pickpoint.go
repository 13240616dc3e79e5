package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
)

// PickPointResolver reverse-geocodes coordinates through the PickPoint API.
type PickPointResolver struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewPickPointResolver constructs the resolver. A missing API key is a
// construction failure.
func NewPickPointResolver(client *http.Client, apiKey string) (*PickPointResolver, error) {
	if apiKey == "" {
		return nil, errors.New("pickpoint api key is not configured")
	}
	return &PickPointResolver{
		apiKey:     apiKey,
		baseURL:    "https://api.pickpoint.io/v1/reverse/",
		httpClient: client,
		circuit:    resilience.NewBreaker("pickpoint"),
	}, nil
}

func (r *PickPointResolver) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", r.apiKey)
		values.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		values.Set("accept-language", "en-US")

		u := fmt.Sprintf("%s?%s", r.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.DoRequest(ctx, r.httpClient, r.circuit, buildRequest)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.DisplayName == "" {
		return "", errors.New("pickpoint response has no display_name")
	}
	return payload.DisplayName, nil
}

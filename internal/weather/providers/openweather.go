package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/hotel-weather-analysis/internal/resilience"
	"github.com/i474232898/hotel-weather-analysis/internal/weather"
)

// OpenWeatherClient implements weather.Client against the OpenWeather One
// Call API: the daily block covers the current day and the forecast window,
// the timemachine endpoint covers the historical window one day per request.
type OpenWeatherClient struct {
	apiKey         string
	oneCallURL     string
	timemachineURL string
	httpClient     *http.Client
	circuit        *gobreaker.CircuitBreaker

	// now is swappable in tests; timemachine requests are relative to it.
	now func() time.Time
}

// NewOpenWeatherClient constructs the client. A missing API key is a
// construction failure, which aborts the whole run before any fetch is
// scheduled.
func NewOpenWeatherClient(client *http.Client, apiKey string) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, errors.New("openweather api key is not configured")
	}
	return &OpenWeatherClient{
		apiKey:         apiKey,
		oneCallURL:     "https://api.openweathermap.org/data/3.0/onecall",
		timemachineURL: "https://api.openweathermap.org/data/3.0/onecall/timemachine",
		httpClient:     client,
		circuit:        resilience.NewBreaker("openweather"),
		now:            time.Now,
	}, nil
}

type oneCallPayload struct {
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
	} `json:"daily"`
}

type timemachinePayload struct {
	Data []struct {
		Dt   int64   `json:"dt"`
		Temp float64 `json:"temp"`
	} `json:"data"`
}

// FetchCurrent returns today's min/max from the daily block.
func (c *OpenWeatherClient) FetchCurrent(ctx context.Context, lat, lon float64) (weather.TemperaturePoint, error) {
	payload, err := c.fetchOneCall(ctx, lat, lon)
	if err != nil {
		return weather.TemperaturePoint{}, err
	}
	if len(payload.Daily) == 0 {
		return weather.TemperaturePoint{}, errors.New("openweather response has no daily data")
	}

	d := payload.Daily[0]
	return weather.TemperaturePoint{
		Timestamp: time.Unix(d.Dt, 0).UTC(),
		Min:       d.Temp.Min,
		Max:       d.Temp.Max,
		Source:    weather.SourceCurrent,
	}, nil
}

// FetchForecast returns one point per forecast day, today excluded.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, lat, lon float64, days int) ([]weather.TemperaturePoint, error) {
	payload, err := c.fetchOneCall(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	if len(payload.Daily) < 2 {
		return nil, errors.New("openweather response has no forecast days")
	}

	daily := payload.Daily[1:]
	if len(daily) > days {
		daily = daily[:days]
	}

	pts := make([]weather.TemperaturePoint, 0, len(daily))
	for _, d := range daily {
		pts = append(pts, weather.TemperaturePoint{
			Timestamp: time.Unix(d.Dt, 0).UTC(),
			Min:       d.Temp.Min,
			Max:       d.Temp.Max,
			Source:    weather.SourceForecast,
		})
	}
	return pts, nil
}

// FetchHistorical queries the timemachine endpoint once per day before
// today and reduces each day's hourly temperatures to a min/max point.
// Points come back chronologically ordered.
func (c *OpenWeatherClient) FetchHistorical(ctx context.Context, lat, lon float64, days int) ([]weather.TemperaturePoint, error) {
	now := c.now().UTC()

	pts := make([]weather.TemperaturePoint, 0, days)
	for back := days; back >= 1; back-- {
		at := now.AddDate(0, 0, -back)
		pt, err := c.fetchHistoricalDay(ctx, lat, lon, at)
		if err != nil {
			return nil, fmt.Errorf("historical day %s: %w", at.Format("2006-01-02"), err)
		}
		pts = append(pts, pt)
	}
	return pts, nil
}

func (c *OpenWeatherClient) fetchOneCall(ctx context.Context, lat, lon float64) (*oneCallPayload, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")
		values.Set("lat", formatCoord(lat))
		values.Set("lon", formatCoord(lon))
		values.Set("exclude", "hourly,minutely,alerts")

		u := fmt.Sprintf("%s?%s", c.oneCallURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.DoRequest(ctx, c.httpClient, c.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload oneCallPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *OpenWeatherClient) fetchHistoricalDay(ctx context.Context, lat, lon float64, at time.Time) (weather.TemperaturePoint, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")
		values.Set("lat", formatCoord(lat))
		values.Set("lon", formatCoord(lon))
		values.Set("dt", strconv.FormatInt(at.Unix(), 10))

		u := fmt.Sprintf("%s?%s", c.timemachineURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := resilience.DoRequest(ctx, c.httpClient, c.circuit, buildRequest)
	if err != nil {
		return weather.TemperaturePoint{}, err
	}
	defer resp.Body.Close()

	var payload timemachinePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.TemperaturePoint{}, err
	}
	if len(payload.Data) == 0 {
		return weather.TemperaturePoint{}, errors.New("openweather timemachine response has no data")
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, h := range payload.Data {
		if h.Temp < min {
			min = h.Temp
		}
		if h.Temp > max {
			max = h.Temp
		}
	}

	return weather.TemperaturePoint{
		Timestamp: time.Unix(payload.Data[0].Dt, 0).UTC(),
		Min:       min,
		Max:       max,
		Source:    weather.SourceHistorical,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

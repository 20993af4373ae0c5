// Package weather turns live Open-Meteo forecasts into availability series
// as an alternative to the synthetic generator.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Coordinates locates a region for the weather API.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// RegionCoordinates maps supported region names to coordinates.
var RegionCoordinates = map[string]Coordinates{
	"Jodhpur":   {26.2389, 73.0243},
	"Jaisalmer": {26.9157, 70.9083},
	"Chennai":   {13.0827, 80.2707},
	"Mumbai":    {19.0760, 72.8777},
	"Delhi":     {28.6139, 77.2090},
	"Bangalore": {12.9716, 77.5946},
	"Shimla":    {31.1048, 77.1734},
	"Guwahati":  {26.1445, 91.7362},
}

// HourlyWeather is one hour of raw weather data.
type HourlyWeather struct {
	Time           time.Time
	Temperature    float64
	WindSpeed100m  float64
	SolarRadiation float64
}

// Client fetches hourly forecasts from Open-Meteo.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type openMeteoResponse struct {
	Hourly struct {
		Time           []string  `json:"time"`
		Temperature2m  []float64 `json:"temperature_2m"`
		WindSpeed100m  []float64 `json:"wind_speed_100m"`
		ShortwaveRad   []float64 `json:"shortwave_radiation"`
	} `json:"hourly"`
}

// Fetch returns up to `hours` of hourly weather for the coordinates.
func (c *Client) Fetch(ctx context.Context, coords Coordinates, hours int) ([]HourlyWeather, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', 4, 64))
	params.Set("hourly", "temperature_2m,wind_speed_100m,shortwave_radiation")
	params.Set("forecast_days", strconv.Itoa((hours+23)/24))
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}
	if len(body.Hourly.Time) == 0 {
		return nil, fmt.Errorf("no hourly data in weather response")
	}

	n := len(body.Hourly.Time)
	if hours < n {
		n = hours
	}
	out := make([]HourlyWeather, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.Parse("2006-01-02T15:04", body.Hourly.Time[i])
		if err != nil {
			return nil, fmt.Errorf("parse weather timestamp %q: %w", body.Hourly.Time[i], err)
		}
		out = append(out, HourlyWeather{
			Time:           ts,
			Temperature:    at(body.Hourly.Temperature2m, i),
			WindSpeed100m:  at(body.Hourly.WindSpeed100m, i),
			SolarRadiation: at(body.Hourly.ShortwaveRad, i),
		})
	}
	return out, nil
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

// ForecastForRegion fetches weather for a named region and converts it to an
// availability series. Unknown regions are an error here: there is no
// sensible default coordinate.
func (c *Client) ForecastForRegion(ctx context.Context, regionName string, hours int) ([]HourlyWeather, error) {
	coords, ok := RegionCoordinates[regionName]
	if !ok {
		return nil, fmt.Errorf("no coordinates for region %q", regionName)
	}
	return c.Fetch(ctx, coords, hours)
}

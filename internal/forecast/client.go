// Package forecast provides weather forecast lookup backed by the
// Open-Meteo geocoding and forecast APIs, plus display formatting for
// forecasts and reminder lists.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Point is a single hourly forecast value for a resolved place.
type Point struct {
	Place       string
	Time        time.Time
	Temperature float64
	FeelsLike   float64
}

// Service defines the forecast lookup collaborator. Forecast returns
// hourly points covering the requested number of days, or an empty
// result when the place cannot be resolved.
type Service interface {
	Forecast(ctx context.Context, place string, days int) ([]Point, error)
}

// Client is an Open-Meteo backed Service implementation.
type Client struct {
	logger       *slog.Logger
	httpClient   *http.Client
	baseURL      string
	geocodingURL string
}

// NewClient creates a forecast client. baseURL and geocodingURL point at the
// Open-Meteo forecast and geocoding APIs and are overridable for tests.
func NewClient(logger *slog.Logger, baseURL, geocodingURL string, timeout time.Duration) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		logger:       logger.With("component", "forecast_client"),
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		geocodingURL: geocodingURL,
	}
}

// Forecast resolves the place name and fetches hourly temperature and
// apparent-temperature values for the given number of days. An unresolvable
// place yields an empty slice and no error; transport and decoding failures
// are returned as errors.
func (c *Client) Forecast(ctx context.Context, place string, days int) ([]Point, error) {
	if place == "" {
		return nil, fmt.Errorf("place name cannot be empty")
	}
	if days <= 0 {
		days = 1
	}

	lat, lon, resolved, err := c.geocode(ctx, place)
	if err != nil {
		return nil, err
	}
	if resolved == "" {
		c.logger.DebugContext(ctx, "Place could not be resolved", "place", place)
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/v1/forecast?latitude=%.4f&longitude=%.4f&hourly=temperature_2m,apparent_temperature&timezone=auto&forecast_days=%d",
		c.baseURL, lat, lon, days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "Forecast API returned non-OK status",
			"status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("forecast API returned status %d", resp.StatusCode)
	}

	var result struct {
		Hourly struct {
			Time         []string  `json:"time"`
			Temperature  []float64 `json:"temperature_2m"`
			ApparentTemp []float64 `json:"apparent_temperature"`
		} `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	points := make([]Point, 0, len(result.Hourly.Time))
	for i, ts := range result.Hourly.Time {
		if i >= len(result.Hourly.Temperature) || i >= len(result.Hourly.ApparentTemp) {
			break
		}
		// Open-Meteo hourly timestamps are local to the place, minute precision.
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			c.logger.WarnContext(ctx, "Skipping unparseable forecast timestamp", "timestamp", ts, "error", err)
			continue
		}
		points = append(points, Point{
			Place:       resolved,
			Time:        t,
			Temperature: result.Hourly.Temperature[i],
			FeelsLike:   result.Hourly.ApparentTemp[i],
		})
	}

	c.logger.DebugContext(ctx, "Fetched forecast", "place", resolved, "days", days, "points", len(points))
	return points, nil
}

// geocode resolves a free-text place name to coordinates and a display name.
// Returns an empty name when the place is unknown.
func (c *Client) geocode(ctx context.Context, place string) (lat, lon float64, name string, err error) {
	apiURL := c.geocodingURL + "/v1/search?name=" + url.QueryEscape(place) + "&count=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, 0, "", fmt.Errorf("failed to build geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, "", fmt.Errorf("geocoding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, "", fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Name      string  `json:"name"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, "", fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(result.Results) == 0 {
		return 0, 0, "", nil
	}

	r := result.Results[0]
	return r.Latitude, r.Longitude, r.Name, nil
}

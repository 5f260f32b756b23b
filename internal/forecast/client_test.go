package forecast_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherbot/internal/forecast"
)

func newAPIServer(t *testing.T, geocodeBody, forecastBody string, forecastStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/search"):
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, geocodeBody)
		case strings.HasPrefix(r.URL.Path, "/v1/forecast"):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(forecastStatus)
			fmt.Fprint(w, forecastBody)
		default:
			t.Errorf("unexpected request path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientForecast(t *testing.T) {
	t.Parallel()

	geocode := `{"results":[{"latitude":51.5074,"longitude":-0.1278,"name":"London"}]}`
	body := `{"hourly":{
		"time":["2026-01-05T00:00","2026-01-05T01:00","2026-01-05T02:00"],
		"temperature_2m":[4.2,4.0,3.8],
		"apparent_temperature":[1.8,1.5,1.2]
	}}`
	srv := newAPIServer(t, geocode, body, http.StatusOK)

	c := forecast.NewClient(nil, srv.URL, srv.URL, time.Second)
	points, err := c.Forecast(context.Background(), "london", 1)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "London", points[0].Place, "display name comes from geocoding, not user input")
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), points[0].Time)
	assert.InDelta(t, 4.2, points[0].Temperature, 0.001)
	assert.InDelta(t, 1.8, points[0].FeelsLike, 0.001)
	assert.InDelta(t, 3.8, points[2].Temperature, 0.001)
}

func TestClientForecastUnresolvablePlace(t *testing.T) {
	t.Parallel()

	srv := newAPIServer(t, `{"results":[]}`, `{}`, http.StatusOK)

	c := forecast.NewClient(nil, srv.URL, srv.URL, time.Second)
	points, err := c.Forecast(context.Background(), "atlantis", 1)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestClientForecastAPIError(t *testing.T) {
	t.Parallel()

	geocode := `{"results":[{"latitude":1,"longitude":2,"name":"Somewhere"}]}`
	srv := newAPIServer(t, geocode, `oops`, http.StatusInternalServerError)

	c := forecast.NewClient(nil, srv.URL, srv.URL, time.Second)
	_, err := c.Forecast(context.Background(), "somewhere", 1)
	assert.Error(t, err)
}

func TestClientForecastEmptyPlace(t *testing.T) {
	t.Parallel()

	c := forecast.NewClient(nil, "http://unused", "http://unused", time.Second)
	_, err := c.Forecast(context.Background(), "", 1)
	assert.Error(t, err)
}

func TestClientForecastSkipsUnparseableTimestamps(t *testing.T) {
	t.Parallel()

	geocode := `{"results":[{"latitude":1,"longitude":2,"name":"Somewhere"}]}`
	body := `{"hourly":{
		"time":["not-a-time","2026-01-05T01:00"],
		"temperature_2m":[4.2,4.0],
		"apparent_temperature":[1.8,1.5]
	}}`
	srv := newAPIServer(t, geocode, body, http.StatusOK)

	c := forecast.NewClient(nil, srv.URL, srv.URL, time.Second)
	points, err := c.Forecast(context.Background(), "somewhere", 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, 4.0, points[0].Temperature, 0.001)
}

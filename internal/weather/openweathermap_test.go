package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"wearcast/internal/config"
)

const currentPayload = `{
	"main": {"temp": 45.3, "feels_like": 40.1, "temp_min": 41.0, "temp_max": 52.0},
	"wind": {"speed": 12.5},
	"weather": [{"main": "Rain", "description": "light rain"}],
	"name": "New York",
	"dt": 1710500000
}`

func forecastPayload(entries int) string {
	out := `{"list": [`
	for i := 0; i < entries; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"dt": %d, "main": {"temp": %d, "feels_like": %d}, "pop": 0.45}`,
			1710500000+i*10800, 45+i, 42+i)
	}
	return out + `]}`
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*OpenWeatherMap, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := config.WeatherConfig{
		BaseURL: ts.URL,
		APIKey:  "test-key",
		Timeout: 2,
	}
	return NewOpenWeatherMap(cfg, zap.NewNop(), nil), ts
}

func TestOpenWeatherMapFetch(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("zip"); got != "10001,us" {
			t.Errorf("zip query = %q, want %q", got, "10001,us")
		}
		if got := r.URL.Query().Get("units"); got != "imperial" {
			t.Errorf("units query = %q, want imperial", got)
		}

		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, currentPayload)
		case "/forecast":
			fmt.Fprint(w, forecastPayload(12))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	snap, series, err := provider.Fetch(context.Background(), "10001")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if snap.Temperature != 45.3 || snap.FeelsLike != 40.1 {
		t.Errorf("temperature mapping wrong: %+v", snap)
	}
	if snap.Condition != ConditionRain {
		t.Errorf("condition = %q, want rain", snap.Condition)
	}
	if snap.Location != "New York" {
		t.Errorf("location = %q, want New York", snap.Location)
	}
	if snap.PrecipProbability != 45 {
		t.Errorf("pop = %v, want 45 (fraction converted to percent)", snap.PrecipProbability)
	}

	if len(series) != 8 {
		t.Errorf("series length = %d, want the 24h window of 8 points", len(series))
	}
	for i := 1; i < len(series); i++ {
		if !series[i-1].Time.Before(series[i].Time) {
			t.Errorf("series timestamps not increasing at %d", i)
		}
	}
}

func TestOpenWeatherMapLocationNotFound(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, _, err := provider.Fetch(context.Background(), "00000")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestOpenWeatherMapForecastFailureIsSoft(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, currentPayload)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	snap, series, err := provider.Fetch(context.Background(), "10001")
	if err != nil {
		t.Fatalf("forecast failure should not fail the fetch, got %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %d points", len(series))
	}
	if snap.Location != "New York" {
		t.Errorf("snapshot should still be populated, got %+v", snap)
	}
}

func TestOpenWeatherMapCurrentFailureIsHard(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _, err := provider.Fetch(context.Background(), "10001")
	if err == nil {
		t.Fatal("expected an error when current conditions are unavailable")
	}
}

func TestRateLimitedPassthrough(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, currentPayload)
		case "/forecast":
			fmt.Fprint(w, forecastPayload(2))
		}
	})

	limited := NewRateLimited(provider, 100, 1)

	snap, series, err := limited.Fetch(context.Background(), "10001")
	if err != nil {
		t.Fatalf("rate limited fetch failed: %v", err)
	}
	if snap.Location != "New York" || len(series) != 2 {
		t.Errorf("unexpected passthrough result: %+v, %d points", snap, len(series))
	}
}

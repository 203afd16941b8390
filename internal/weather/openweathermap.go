package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"wearcast/internal/config"
	"wearcast/pkg/telemetry"
)

// forecastWindow is how much of the forecast list is kept: 8 entries at
// 3-hour steps cover the next 24 hours.
const forecastWindow = 8

// OpenWeatherMap fetches current conditions and the 3-hourly forecast from
// the OpenWeatherMap 2.5 API, in imperial units.
type OpenWeatherMap struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewOpenWeatherMap(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMap {
	return &OpenWeatherMap{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (o *OpenWeatherMap) Name() string {
	return "openweathermap"
}

type owmCurrentResponse struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
	Dt   int64  `json:"dt"`
}

type owmForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Pop float64 `json:"pop"`
	} `json:"list"`
}

// Fetch returns the current snapshot and up to 24 hours of forecast points.
// A forecast failure is not fatal: the snapshot is returned with an empty
// series and the caller falls back to a synthesized chart.
func (o *OpenWeatherMap) Fetch(ctx context.Context, zip string) (Snapshot, Series, error) {
	tracer := o.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "weather.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.String("provider", o.Name()),
		attribute.String("zip", zip),
	)

	var current owmCurrentResponse
	if err := o.getJSON(ctx, "/weather", zip, &current); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return Snapshot{}, nil, fmt.Errorf("fetch current conditions: %w", err)
	}

	snap := Snapshot{
		Temperature: current.Main.Temp,
		FeelsLike:   current.Main.FeelsLike,
		WindSpeed:   current.Wind.Speed,
		TempMin:     current.Main.TempMin,
		TempMax:     current.Main.TempMax,
		Location:    current.Name,
		ObservedAt:  time.Unix(current.Dt, 0).UTC(),
	}
	if len(current.Weather) > 0 {
		snap.Condition = ParseCondition(current.Weather[0].Main)
		snap.Description = current.Weather[0].Description
	} else {
		snap.Condition = ConditionOther
	}

	var forecast owmForecastResponse
	if err := o.getJSON(ctx, "/forecast", zip, &forecast); err != nil {
		o.logger.Warn("Forecast fetch failed, returning snapshot only",
			zap.String("zip", zip),
			zap.Error(err))
		span.SetAttributes(attribute.Bool("forecast_available", false))
		return snap, nil, nil
	}

	series := make(Series, 0, forecastWindow)
	for i, item := range forecast.List {
		if i >= forecastWindow {
			break
		}
		series = append(series, ForecastPoint{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
		})
	}

	// pop arrives as a 0..1 fraction on forecast entries only; the first
	// window entry stands in for the current probability.
	if len(forecast.List) > 0 {
		snap.PrecipProbability = forecast.List[0].Pop * 100
	}

	span.SetAttributes(
		attribute.Bool("forecast_available", true),
		attribute.Int("forecast_points", len(series)),
	)

	return snap, series, nil
}

func (o *OpenWeatherMap) getJSON(ctx context.Context, path, zip string, out interface{}) error {
	u, err := url.Parse(o.baseURL + path)
	if err != nil {
		return err
	}

	q := u.Query()
	q.Set("zip", zip+",us")
	q.Set("appid", o.apiKey)
	q.Set("units", "imperial")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", zip, ErrLocationNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

var _ Provider = (*OpenWeatherMap)(nil)

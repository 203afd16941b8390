package chart

import (
	"math/rand"
	"time"

	"wearcast/internal/weather"
)

// Fallback series shape. When no forecast is available the chart is drawn
// from a synthesized diurnal curve: temperature climbs linearly from
// warmupHour to a peak at peakHour, drops linearly until cooldownHour, and
// sits at the cool baseline (plus jitter) overnight.
const (
	fallbackStepHours = 3
	fallbackSpanHours = 24

	warmupHour   = 6
	peakHour     = 14
	cooldownHour = 18

	// Used when the snapshot carries no usable daily min/max.
	defaultSwing = 5.0
)

// Jitter produces a small temperature perturbation in °F. Tests stub it to
// make the fallback fully deterministic.
type Jitter func() float64

// DefaultJitter returns a seeded ±1°F jitter source.
func DefaultJitter(seed int64) Jitter {
	rng := rand.New(rand.NewSource(seed))
	return func() float64 {
		return rng.Float64()*2 - 1
	}
}

// FallbackSeries synthesizes a plausible 24-hour forecast from the current
// snapshot alone, sampled every 3 hours starting at now. It is an
// approximation so the chart never renders empty, not measured data, and it
// is deterministic for a fixed jitter source.
func FallbackSeries(current weather.Snapshot, now time.Time, jitter Jitter) weather.Series {
	if jitter == nil {
		jitter = DefaultJitter(now.UnixNano())
	}

	peak := current.TempMax
	cool := current.TempMin
	if peak <= cool {
		peak = current.Temperature + defaultSwing
		cool = current.Temperature - defaultSwing
	}

	// The feels-like curve keeps the snapshot's current offset.
	feelsOffset := current.FeelsLike - current.Temperature

	series := make(weather.Series, 0, fallbackSpanHours/fallbackStepHours+1)
	for h := 0; h <= fallbackSpanHours; h += fallbackStepHours {
		t := now.Add(time.Duration(h) * time.Hour)
		temp := diurnalTemp(t.Hour(), peak, cool, jitter)
		series = append(series, weather.ForecastPoint{
			Time:        t,
			Temperature: temp,
			FeelsLike:   temp + feelsOffset,
		})
	}
	return series
}

func diurnalTemp(hour int, peak, cool float64, jitter Jitter) float64 {
	switch {
	case hour >= warmupHour && hour < peakHour:
		frac := float64(hour-warmupHour) / float64(peakHour-warmupHour)
		return cool + (peak-cool)*frac
	case hour >= peakHour && hour < cooldownHour:
		frac := float64(hour-peakHour) / float64(cooldownHour-peakHour)
		return peak - (peak-cool)*frac
	default:
		return cool + jitter()
	}
}

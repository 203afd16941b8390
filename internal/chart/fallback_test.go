package chart

import (
	"math"
	"reflect"
	"testing"
	"time"

	"wearcast/internal/weather"
)

func stubJitter() float64 { return 0 }

func TestFallbackSeriesDeterministic(t *testing.T) {
	snap := weather.Snapshot{
		Temperature: 55,
		FeelsLike:   51,
		TempMin:     48,
		TempMax:     62,
	}
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	first := FallbackSeries(snap, now, stubJitter)
	second := FallbackSeries(snap, now, stubJitter)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("fallback series is not deterministic under a fixed jitter source:\n%v\n%v", first, second)
	}
}

func TestFallbackSeriesShape(t *testing.T) {
	snap := weather.Snapshot{
		Temperature: 55,
		FeelsLike:   55,
		TempMin:     50,
		TempMax:     70,
	}
	// Midnight start puts samples exactly on the ramp hours.
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	series := FallbackSeries(snap, now, stubJitter)

	if len(series) != 9 {
		t.Fatalf("expected 9 samples over 24h at 3h steps, got %d", len(series))
	}
	for i, p := range series {
		want := now.Add(time.Duration(i*3) * time.Hour)
		if !p.Time.Equal(want) {
			t.Errorf("sample %d at %v, want %v", i, p.Time, want)
		}
	}

	byHour := map[int]float64{}
	for _, p := range series {
		byHour[p.Time.Hour()] = p.Temperature
	}

	// Overnight samples sit on the cool baseline (jitter stubbed to 0).
	for _, h := range []int{0, 3, 18, 21} {
		if byHour[h] != 50 {
			t.Errorf("hour %d = %v, want cool baseline 50", h, byHour[h])
		}
	}

	// Linear warm-up from hour 6 toward the hour-14 peak.
	if byHour[6] != 50 {
		t.Errorf("hour 6 = %v, want ramp start 50", byHour[6])
	}
	if got, want := byHour[9], 50+20.0*3/8; math.Abs(got-want) > 1e-9 {
		t.Errorf("hour 9 = %v, want %v", got, want)
	}
	if got, want := byHour[12], 50+20.0*6/8; math.Abs(got-want) > 1e-9 {
		t.Errorf("hour 12 = %v, want %v", got, want)
	}

	// Linear cool-down after the peak.
	if got, want := byHour[15], 70-20.0*1/4; math.Abs(got-want) > 1e-9 {
		t.Errorf("hour 15 = %v, want %v", got, want)
	}
}

func TestFallbackSeriesFeelsLikeOffset(t *testing.T) {
	snap := weather.Snapshot{
		Temperature: 60,
		FeelsLike:   54,
		TempMin:     50,
		TempMax:     65,
	}
	series := FallbackSeries(snap, time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), stubJitter)

	for _, p := range series {
		if got := p.Temperature - p.FeelsLike; math.Abs(got-6) > 1e-9 {
			t.Errorf("feels-like offset = %v, want 6", got)
		}
	}
}

func TestFallbackSeriesWithoutDailyRange(t *testing.T) {
	// A snapshot with no usable min/max derives the swing from the current
	// temperature instead of producing a flat or inverted curve.
	snap := weather.Snapshot{Temperature: 40, FeelsLike: 40}
	series := FallbackSeries(snap, time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC), stubJitter)

	min, max := series[0].Temperature, series[0].Temperature
	for _, p := range series {
		if p.Temperature < min {
			min = p.Temperature
		}
		if p.Temperature > max {
			max = p.Temperature
		}
	}
	// Sampling every 3h never lands exactly on the peak hour here; the
	// warmest samples straddle it at 42.5.
	if min != 35 || max != 42.5 {
		t.Errorf("derived swing = [%v, %v], want [35, 42.5]", min, max)
	}
}

func TestFallbackSeriesRenders(t *testing.T) {
	snap := weather.Snapshot{Temperature: 55, FeelsLike: 51}
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	ch := NewRenderer().Render(FallbackSeries(snap, now, stubJitter), now)
	if ch.Empty() {
		t.Fatal("fallback series must always be drawable")
	}
	if !ch.Axes.HasNow {
		t.Error("fallback series starts at now, so the marker should be present")
	}
}

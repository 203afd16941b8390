package weather

import (
	"sort"
	"strings"
	"time"
)

// Condition is the normalized weather condition category. Provider-specific
// labels are mapped onto this set by ParseCondition.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionClouds       Condition = "clouds"
	ConditionRain         Condition = "rain"
	ConditionDrizzle      Condition = "drizzle"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionSnow         Condition = "snow"
	ConditionSleet        Condition = "sleet"
	ConditionOther        Condition = "other"
)

// ParseCondition maps a raw provider label to a Condition. Any label
// containing "clear" counts as clear; unknown labels map to ConditionOther.
func ParseCondition(label string) Condition {
	s := strings.ToLower(strings.TrimSpace(label))
	if strings.Contains(s, "clear") {
		return ConditionClear
	}
	switch Condition(s) {
	case ConditionClouds, ConditionRain, ConditionDrizzle,
		ConditionThunderstorm, ConditionSnow, ConditionSleet:
		return Condition(s)
	}
	return ConditionOther
}

// IsWet reports whether the condition leaves surfaces wet or icy.
func (c Condition) IsWet() bool {
	switch c {
	case ConditionRain, ConditionDrizzle, ConditionThunderstorm,
		ConditionSnow, ConditionSleet:
		return true
	}
	return false
}

// Snapshot is a single point-in-time weather reading in imperial units.
// It is a value type; a zero field is the documented default used during
// rule evaluation when the upstream payload omitted it.
type Snapshot struct {
	Temperature       float64   `json:"temperature"`
	FeelsLike         float64   `json:"feels_like"`
	WindSpeed         float64   `json:"wind_speed"`
	PrecipProbability float64   `json:"precip_probability"`
	Condition         Condition `json:"condition"`
	TempMin           float64   `json:"temp_min"`
	TempMax           float64   `json:"temp_max"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	ObservedAt        time.Time `json:"observed_at"`
}

// ForecastPoint is one future sample of the temperature pair.
type ForecastPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
}

// Series is a chronological sequence of forecast points.
type Series []ForecastPoint

// Normalize returns a copy sorted by timestamp with duplicate timestamps
// removed (first occurrence wins). The result satisfies the series
// invariant: strictly increasing timestamps.
func (s Series) Normalize() Series {
	if len(s) == 0 {
		return s
	}

	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	deduped := out[:1]
	for _, p := range out[1:] {
		if p.Time.Equal(deduped[len(deduped)-1].Time) {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}

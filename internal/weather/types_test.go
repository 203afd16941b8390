package weather

import (
	"testing"
	"time"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		label string
		want  Condition
	}{
		{"Clear", ConditionClear},
		{"clear sky", ConditionClear},
		{"Mostly Clear", ConditionClear},
		{"Clouds", ConditionClouds},
		{"Rain", ConditionRain},
		{"Drizzle", ConditionDrizzle},
		{"Thunderstorm", ConditionThunderstorm},
		{"Snow", ConditionSnow},
		{"Sleet", ConditionSleet},
		{"Tornado", ConditionOther},
		{"Mist", ConditionOther},
		{"", ConditionOther},
	}

	for _, tt := range tests {
		if got := ParseCondition(tt.label); got != tt.want {
			t.Errorf("ParseCondition(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestConditionIsWet(t *testing.T) {
	wet := []Condition{ConditionRain, ConditionDrizzle, ConditionThunderstorm, ConditionSnow, ConditionSleet}
	for _, c := range wet {
		if !c.IsWet() {
			t.Errorf("%q should be wet", c)
		}
	}

	dry := []Condition{ConditionClear, ConditionClouds, ConditionOther}
	for _, c := range dry {
		if c.IsWet() {
			t.Errorf("%q should not be wet", c)
		}
	}
}

func TestSeriesNormalize(t *testing.T) {
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	series := Series{
		{Time: base.Add(6 * time.Hour), Temperature: 60},
		{Time: base, Temperature: 50},
		{Time: base.Add(3 * time.Hour), Temperature: 55},
		{Time: base, Temperature: 99}, // duplicate timestamp, dropped
	}

	got := series.Normalize()

	if len(got) != 3 {
		t.Fatalf("expected 3 points after dedup, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Time.Before(got[i].Time) {
			t.Errorf("timestamps not strictly increasing at %d: %v >= %v", i, got[i-1].Time, got[i].Time)
		}
	}
	if got[0].Temperature != 50 {
		t.Errorf("dedup should keep the first occurrence, got temperature %v", got[0].Temperature)
	}
}

func TestSeriesNormalizeEmpty(t *testing.T) {
	if got := (Series{}).Normalize(); len(got) != 0 {
		t.Errorf("normalizing an empty series should stay empty, got %v", got)
	}
}

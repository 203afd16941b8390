// Package recommend maps a weather snapshot to clothing and safety advice.
// Every rule is an independent pure predicate; the engine concatenates
// their output in a fixed order, so the result is deterministic and each
// rule is testable on its own.
package recommend

import (
	"math"

	"wearcast/internal/weather"
)

// Kind distinguishes clothing layers from safety alerts so the
// presentation layer can render alerts with higher priority.
type Kind string

const (
	KindClothing Kind = "clothing"
	KindSafety   Kind = "safety"
)

// Item is a single recommendation line.
type Item struct {
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

func clothing(text string) Item { return Item{Text: text, Kind: KindClothing} }
func safety(text string) Item   { return Item{Text: text, Kind: KindSafety} }

type rule func(weather.Snapshot) []Item

// Rule order is part of the contract: output must be stable for identical
// input, and safety notes sit next to the condition that produced them.
var rules = []rule{
	rainGear,
	wetSurfaces,
	hotWeather,
	regularFootwear,
	sunProtection,
	wind,
	outdoorActivity,
	feelsLikeExtremes,
	temperatureGap,
	outerLayer,
	coldAccessories,
}

// Recommend evaluates every rule against the snapshot. It is total: for any
// snapshot, including the zero value, it returns a non-empty list and never
// panics.
func Recommend(snap weather.Snapshot) []Item {
	var items []Item
	for _, r := range rules {
		items = append(items, r(snap)...)
	}
	return items
}

// SafetyAlerts filters items down to the safety partition, preserving order.
func SafetyAlerts(items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.Kind == KindSafety {
			out = append(out, it)
		}
	}
	return out
}

func isRainy(c weather.Condition) bool {
	switch c {
	case weather.ConditionRain, weather.ConditionDrizzle, weather.ConditionThunderstorm:
		return true
	}
	return false
}

func rainGear(s weather.Snapshot) []Item {
	if s.PrecipProbability >= 30 || isRainy(s.Condition) {
		return []Item{clothing("☔ Bring an umbrella or a rain jacket!")}
	}
	return nil
}

func wetSurfaces(s weather.Snapshot) []Item {
	if !s.Condition.IsWet() {
		return nil
	}
	return []Item{
		clothing("👢 Wear waterproof boots or shoes!"),
		safety("⚠️ Surfaces may be slippery - watch your step!"),
	}
}

func hotWeather(s weather.Snapshot) []Item {
	if s.Temperature > 80 {
		return []Item{clothing("🩳 Lightweight clothes today - sandals are fine!")}
	}
	return nil
}

func regularFootwear(s weather.Snapshot) []Item {
	if s.Temperature <= 80 && !s.Condition.IsWet() {
		return []Item{clothing("👟 Regular shoes are fine today.")}
	}
	return nil
}

func sunProtection(s weather.Snapshot) []Item {
	if s.Condition == weather.ConditionClear {
		return []Item{clothing("🧴 Don't forget sunscreen and a hat!")}
	}
	return nil
}

func wind(s weather.Snapshot) []Item {
	if s.WindSpeed > 15 {
		return []Item{safety("💨 It's windy - secure loose items!")}
	}
	return []Item{clothing("🍃 Just a light breeze today.")}
}

func outdoorActivity(s weather.Snapshot) []Item {
	if s.Temperature > 50 && s.Temperature < 95 && s.WindSpeed < 20 && !s.Condition.IsWet() {
		return []Item{clothing("🏃 Great weather for outdoor activities!")}
	}
	return []Item{clothing("🏠 Consider indoor alternatives today.")}
}

func feelsLikeExtremes(s weather.Snapshot) []Item {
	switch {
	case s.FeelsLike < 20:
		return []Item{safety("⚠️ Risk of hypothermia with prolonged exposure - dress warmly!")}
	case s.FeelsLike > 95:
		return []Item{safety("⚠️ Heat exhaustion risk - stay hydrated and seek shade!")}
	}
	return nil
}

func temperatureGap(s weather.Snapshot) []Item {
	if math.Abs(s.Temperature-s.FeelsLike) > 10 {
		return []Item{clothing("🌡️ It feels different than the thermometer says - dress in layers.")}
	}
	return nil
}

func outerLayer(s weather.Snapshot) []Item {
	switch {
	case s.FeelsLike < 32:
		return []Item{clothing("🧥 You need a heavy winter coat today!")}
	case s.FeelsLike < 45:
		return []Item{clothing("🧥 Wear a warm coat!")}
	case s.FeelsLike < 60:
		return []Item{clothing("🧥 A light jacket or hoodie would be good.")}
	}
	return nil
}

func coldAccessories(s weather.Snapshot) []Item {
	if s.FeelsLike < 32 {
		return []Item{clothing("🧤 Grab a warm hat and gloves.")}
	}
	return nil
}

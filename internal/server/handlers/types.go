package handlers

import (
	"wearcast/internal/chart"
	"wearcast/internal/recommend"
	"wearcast/internal/weather"
)

// AdviceRequest carries the query parameters for the advice endpoints. An
// empty zip falls back to the configured default before validation.
type AdviceRequest struct {
	Zip string `form:"zip" json:"zip" validate:"required,zipcode"`
}

// AdviceResponse is the full answer for GET /advice.
type AdviceResponse struct {
	Location         string           `json:"location"`
	Snapshot         weather.Snapshot `json:"snapshot"`
	Summary          string           `json:"summary"`
	SummaryFromModel bool             `json:"summary_from_model"`
	Recommendations  []recommend.Item `json:"recommendations"`
	SafetyAlerts     []recommend.Item `json:"safety_alerts"`
	Chart            ChartResponse    `json:"chart"`
	GeneratedAt      string           `json:"generated_at"`
}

// ChartResponse is the drawable chart block, shared by /advice and /chart.
type ChartResponse struct {
	Width           float64       `json:"width"`
	Height          float64       `json:"height"`
	TempMin         float64       `json:"temp_min"`
	TempMax         float64       `json:"temp_max"`
	TimeMin         string        `json:"time_min,omitempty"`
	TimeMax         string        `json:"time_max,omitempty"`
	NowX            float64       `json:"now_x"`
	HasNow          bool          `json:"has_now"`
	ActualPath      string        `json:"actual_path"`
	FeelsLikePath   string        `json:"feels_like_path"`
	ActualPoints    []chart.Point `json:"actual_points"`
	FeelsLikePoints []chart.Point `json:"feels_like_points"`
	Approximate     bool          `json:"approximate"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}

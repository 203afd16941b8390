// Package llm rewrites the rule engine's raw recommendations into prose
// through a language model. The model is optional: every caller must be
// prepared for Refine to fail and fall back to the raw list.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"wearcast/internal/config"
	"wearcast/internal/recommend"
	"wearcast/internal/weather"
)

// Refiner turns a snapshot plus raw recommendation items into prose.
type Refiner interface {
	Refine(ctx context.Context, snap weather.Snapshot, items []recommend.Item) (string, error)
}

// Gemini is a Refiner backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg config.LLMConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Refine asks the model for a short friendly paragraph phrasing the
// recommendations. Any failure, including an empty response, is an error so
// the caller can fall back to the raw items.
func (g *Gemini) Refine(ctx context.Context, snap weather.Snapshot, items []recommend.Item) (string, error) {
	prompt := buildPrompt(snap, items)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}

func buildPrompt(snap weather.Snapshot, items []recommend.Item) string {
	var lines []string
	for _, it := range items {
		lines = append(lines, "- "+it.Text)
	}

	conditions := snap.Description
	if conditions == "" {
		conditions = string(snap.Condition)
	}

	return fmt.Sprintf(`You are a friendly assistant helping someone decide what to wear.
Given the weather conditions and the recommendations below, write a brief,
conversational summary in 2-3 sentences. Keep every safety warning. Do not
invent conditions that are not listed.

Weather:
Temperature: %.0f°F (feels like %.0f°F)
Wind: %.0f mph
Chance of precipitation: %.0f%%
Conditions: %s

Recommendations:
%s

Summary:`,
		snap.Temperature,
		snap.FeelsLike,
		snap.WindSpeed,
		snap.PrecipProbability,
		conditions,
		strings.Join(lines, "\n"),
	)
}

// FallbackSummary is the deterministic one-liner used when the model is
// unavailable or times out.
func FallbackSummary(snap weather.Snapshot) string {
	conditions := snap.Description
	if conditions == "" {
		conditions = string(snap.Condition)
	}
	if conditions == "" {
		conditions = "unknown conditions"
	}
	return fmt.Sprintf("It's %.0f°F (feels like %.0f°F) with %s.",
		snap.Temperature, snap.FeelsLike, conditions)
}

var _ Refiner = (*Gemini)(nil)

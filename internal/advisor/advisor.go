// Package advisor composes the weather provider, the recommendation engine,
// the optional language-model refiner and the chart renderer into one
// request-scoped flow with a TTL cache in front.
package advisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"wearcast/internal/chart"
	"wearcast/internal/config"
	"wearcast/internal/llm"
	"wearcast/internal/recommend"
	"wearcast/internal/weather"
	"wearcast/pkg/telemetry"
)

// Advice is everything one request produces: the snapshot, the raw
// recommendation items, the prose summary (model output or fallback) and
// the chart geometry.
type Advice struct {
	Snapshot         weather.Snapshot `json:"snapshot"`
	Items            []recommend.Item `json:"items"`
	Summary          string           `json:"summary"`
	SummaryFromModel bool             `json:"summary_from_model"`
	Chart            chart.Chart      `json:"chart"`
	// ChartApproximate marks a chart drawn from the synthesized fallback
	// series instead of provider data.
	ChartApproximate bool      `json:"chart_approximate"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// MetricsRecorder receives counters from the advise flow.
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
	RecordProviderError(ctx context.Context)
	RecordRefinerFallback(ctx context.Context)
}

type cacheEntry struct {
	advice    *Advice
	timestamp time.Time
}

type Advisor struct {
	provider weather.Provider
	refiner  llm.Refiner // nil means the model is disabled
	renderer chart.Renderer

	refineTimeout time.Duration
	cacheTTL      time.Duration

	mutex sync.RWMutex
	cache map[string]*cacheEntry

	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder

	// Injection points for tests.
	now    func() time.Time
	jitter chart.Jitter
}

func New(provider weather.Provider, refiner llm.Refiner, cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) *Advisor {
	return &Advisor{
		provider:      provider,
		refiner:       refiner,
		renderer:      chart.NewRenderer(),
		refineTimeout: time.Duration(cfg.LLM.Timeout) * time.Second,
		cacheTTL:      time.Duration(cfg.Weather.CacheTTL) * time.Second,
		cache:         make(map[string]*cacheEntry),
		logger:        logger,
		tele:          tele,
		now:           time.Now,
	}
}

// SetMetricsRecorder wires the metrics sink; nil disables recording.
func (a *Advisor) SetMetricsRecorder(metrics MetricsRecorder) {
	a.metrics = metrics
}

// Advise produces advice for a ZIP code. The only hard failure is the
// provider being unable to deliver a current snapshot; a missing forecast,
// a failing model or a degenerate series are all recovered internally.
func (a *Advisor) Advise(ctx context.Context, zip string) (*Advice, error) {
	tracer := a.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "advisor.Advise")
	defer span.End()

	span.SetAttributes(attribute.String("zip", zip))

	if cached := a.getFromCache(zip); cached != nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		if a.metrics != nil {
			a.metrics.RecordCacheHit(ctx)
		}
		return cached, nil
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))
	if a.metrics != nil {
		a.metrics.RecordCacheMiss(ctx)
	}

	snap, series, err := a.provider.Fetch(ctx, zip)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		if a.metrics != nil {
			a.metrics.RecordProviderError(ctx)
		}
		return nil, fmt.Errorf("weather unavailable for %s: %w", zip, err)
	}

	items := recommend.Recommend(snap)
	summary, fromModel := a.summarize(ctx, snap, items)

	now := a.now()
	ch, approximate := a.renderChart(snap, series, now)

	advice := &Advice{
		Snapshot:         snap,
		Items:            items,
		Summary:          summary,
		SummaryFromModel: fromModel,
		Chart:            ch,
		ChartApproximate: approximate,
		GeneratedAt:      now.UTC(),
	}

	a.setCache(zip, advice)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("summary_from_model", fromModel),
		attribute.Bool("chart_approximate", approximate),
		attribute.Int("items", len(items)),
	)

	a.logger.Info("Advice generated",
		zap.String("zip", zip),
		zap.String("location", snap.Location),
		zap.Int("items", len(items)),
		zap.Bool("summary_from_model", fromModel),
		zap.Bool("chart_approximate", approximate))

	return advice, nil
}

// summarize runs the refiner under a bounded timeout. Model errors, empty
// output and timeouts all degrade to the deterministic fallback summary.
func (a *Advisor) summarize(ctx context.Context, snap weather.Snapshot, items []recommend.Item) (string, bool) {
	if a.refiner == nil {
		return llm.FallbackSummary(snap), false
	}

	refineCtx, cancel := context.WithTimeout(ctx, a.refineTimeout)
	defer cancel()

	text, err := a.refiner.Refine(refineCtx, snap, items)
	if err != nil {
		a.logger.Warn("Model refinement failed, using raw recommendations",
			zap.Error(err))
		if a.metrics != nil {
			a.metrics.RecordRefinerFallback(ctx)
		}
		return llm.FallbackSummary(snap), false
	}
	return text, true
}

// renderChart draws the provider series with the current observation
// prepended as its first sample. A provider series with no drawable points
// (missing forecast, or every value non-finite) is replaced by the
// synthesized fallback series so the chart never renders empty.
func (a *Advisor) renderChart(snap weather.Snapshot, series weather.Series, now time.Time) (chart.Chart, bool) {
	ch := a.renderer.Render(series.Normalize(), now)
	if ch.Empty() {
		fallback := chart.FallbackSeries(snap, now, a.jitter)
		return a.renderer.Render(fallback.Normalize(), now), true
	}

	if !snap.ObservedAt.IsZero() {
		full := append(weather.Series{{
			Time:        snap.ObservedAt,
			Temperature: snap.Temperature,
			FeelsLike:   snap.FeelsLike,
		}}, series...)
		ch = a.renderer.Render(full.Normalize(), now)
	}
	return ch, false
}

func (a *Advisor) getFromCache(key string) *Advice {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	entry, exists := a.cache[key]
	if !exists {
		return nil
	}

	if a.now().Sub(entry.timestamp) > a.cacheTTL {
		return nil
	}

	return entry.advice
}

func (a *Advisor) setCache(key string, advice *Advice) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.cache[key] = &cacheEntry{
		advice:    advice,
		timestamp: a.now(),
	}
}

// ClearCache drops every cached advice entry.
func (a *Advisor) ClearCache() {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.cache = make(map[string]*cacheEntry)
}

// CacheStats reports cache size and TTL for the health surface.
func (a *Advisor) CacheStats() map[string]interface{} {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	return map[string]interface{}{
		"cache_size": len(a.cache),
		"cache_ttl":  a.cacheTTL.String(),
		"provider":   a.provider.Name(),
	}
}

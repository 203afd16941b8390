package handlers

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsHandler counts the advisor's cache and fallback behavior and
// exposes the counters in Prometheus text format. It implements
// advisor.MetricsRecorder.
type MetricsHandler struct {
	logger *zap.Logger

	mutex            sync.RWMutex
	cacheHits        int64
	cacheMisses      int64
	providerErrors   int64
	refinerFallbacks int64
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{logger: logger}
}

func (h *MetricsHandler) RecordCacheHit(ctx context.Context) {
	h.mutex.Lock()
	h.cacheHits++
	h.mutex.Unlock()
}

func (h *MetricsHandler) RecordCacheMiss(ctx context.Context) {
	h.mutex.Lock()
	h.cacheMisses++
	h.mutex.Unlock()
}

func (h *MetricsHandler) RecordProviderError(ctx context.Context) {
	h.mutex.Lock()
	h.providerErrors++
	h.mutex.Unlock()
}

func (h *MetricsHandler) RecordRefinerFallback(ctx context.Context) {
	h.mutex.Lock()
	h.refinerFallbacks++
	h.mutex.Unlock()
}

// ServeMetrics handles GET /metrics.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var b strings.Builder

	counter := func(name, help string, value int64) {
		b.WriteString("# HELP " + name + " " + help + "\n")
		b.WriteString("# TYPE " + name + " counter\n")
		b.WriteString(name + " " + strconv.FormatInt(value, 10) + "\n\n")
	}

	counter("wearcast_cache_hits_total", "Total advice cache hits", h.cacheHits)
	counter("wearcast_cache_misses_total", "Total advice cache misses", h.cacheMisses)
	counter("wearcast_provider_errors_total", "Total weather provider failures", h.providerErrors)
	counter("wearcast_refiner_fallbacks_total", "Total language model fallbacks to rule output", h.refinerFallbacks)

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, strings.TrimSuffix(b.String(), "\n"))
}

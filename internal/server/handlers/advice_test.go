package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wearcast/internal/advisor"
	"wearcast/internal/config"
	"wearcast/internal/weather"
)

type stubProvider struct {
	snap   weather.Snapshot
	series weather.Series
	err    error
	calls  int
}

func (p *stubProvider) Fetch(ctx context.Context, zip string) (weather.Snapshot, weather.Series, error) {
	p.calls++
	return p.snap, p.series, p.err
}

func (p *stubProvider) Name() string { return "stub" }

func testSnapshot() weather.Snapshot {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return weather.Snapshot{
		Temperature: 45,
		FeelsLike:   40,
		WindSpeed:   20,
		Condition:   weather.ConditionRain,
		Description: "light rain",
		Location:    "New York",
		TempMin:     41,
		TempMax:     52,
		ObservedAt:  now,
	}
}

func newTestRouter(provider weather.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)

	adv := advisor.New(provider, nil, config.NewDefaultConfig(), zap.NewNop(), nil)
	h := NewAdviceHandler(adv, "10001", zap.NewNop())

	r := gin.New()
	r.GET("/advice", h.GetAdvice)
	r.GET("/chart", h.GetChart)
	return r
}

func get(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetAdvice(t *testing.T) {
	router := newTestRouter(&stubProvider{snap: testSnapshot()})

	w := get(t, router, "/advice?zip=10001")
	require.Equal(t, http.StatusOK, w.Code)

	var resp AdviceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "New York", resp.Location)
	assert.NotEmpty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.SafetyAlerts)
	assert.NotEmpty(t, resp.Summary)
	assert.True(t, resp.Chart.Approximate, "no forecast series means a synthesized chart")
	assert.NotEmpty(t, resp.Chart.ActualPath)
}

func TestGetAdviceDefaultZip(t *testing.T) {
	provider := &stubProvider{snap: testSnapshot()}
	router := newTestRouter(provider)

	w := get(t, router, "/advice")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, provider.calls)
}

func TestGetAdviceInvalidZip(t *testing.T) {
	provider := &stubProvider{snap: testSnapshot()}
	router := newTestRouter(provider)

	w := get(t, router, "/advice?zip=not-a-zip")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PARAMS", resp.Code)
	assert.Equal(t, 0, provider.calls, "invalid input must not reach the provider")
}

func TestGetAdviceLocationNotFound(t *testing.T) {
	router := newTestRouter(&stubProvider{err: weather.ErrLocationNotFound})

	w := get(t, router, "/advice?zip=99999")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LOCATION_NOT_FOUND", resp.Code)
}

func TestGetAdviceUpstreamFailure(t *testing.T) {
	router := newTestRouter(&stubProvider{err: context.DeadlineExceeded})

	w := get(t, router, "/advice?zip=10001")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WEATHER_UNAVAILABLE", resp.Code)
}

func TestGetChart(t *testing.T) {
	router := newTestRouter(&stubProvider{snap: testSnapshot()})

	w := get(t, router, "/chart?zip=10001")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ActualPath)
	assert.NotEmpty(t, resp.FeelsLikePath)
	assert.Less(t, resp.TempMin, resp.TempMax)
}

func TestServeMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewMetricsHandler(zap.NewNop())
	h.RecordCacheHit(context.Background())
	h.RecordCacheMiss(context.Background())
	h.RecordRefinerFallback(context.Background())

	r := gin.New()
	r.GET("/metrics", h.ServeMetrics)

	w := get(t, r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "wearcast_cache_hits_total 1")
	assert.Contains(t, body, "wearcast_cache_misses_total 1")
	assert.Contains(t, body, "wearcast_refiner_fallbacks_total 1")
	assert.Contains(t, body, "wearcast_provider_errors_total 0")
}

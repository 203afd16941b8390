package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wearcast/internal/advisor"
	"wearcast/internal/chart"
	"wearcast/internal/recommend"
	"wearcast/internal/server/utils"
	"wearcast/internal/weather"
)

type AdviceHandler struct {
	advisor    *advisor.Advisor
	defaultZip string
	logger     *zap.Logger
}

func NewAdviceHandler(adv *advisor.Advisor, defaultZip string, logger *zap.Logger) *AdviceHandler {
	return &AdviceHandler{
		advisor:    adv,
		defaultZip: defaultZip,
		logger:     logger,
	}
}

// GetAdvice handles GET /advice?zip=10001.
func (h *AdviceHandler) GetAdvice(c *gin.Context) {
	advice, reqLogger, ok := h.advise(c)
	if !ok {
		return
	}

	response := AdviceResponse{
		Location:         advice.Snapshot.Location,
		Snapshot:         advice.Snapshot,
		Summary:          advice.Summary,
		SummaryFromModel: advice.SummaryFromModel,
		Recommendations:  advice.Items,
		SafetyAlerts:     recommend.SafetyAlerts(advice.Items),
		Chart:            toChartResponse(advice.Chart, advice.ChartApproximate),
		GeneratedAt:      advice.GeneratedAt.Format(time.RFC3339),
	}

	reqLogger.Info("Advice request completed",
		zap.String("location", response.Location),
		zap.Int("recommendations", len(response.Recommendations)))

	c.JSON(http.StatusOK, response)
}

// GetChart handles GET /chart?zip=10001, returning only the chart block.
func (h *AdviceHandler) GetChart(c *gin.Context) {
	advice, _, ok := h.advise(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, toChartResponse(advice.Chart, advice.ChartApproximate))
}

func (h *AdviceHandler) advise(c *gin.Context) (*advisor.Advice, *zap.Logger, bool) {
	ctx := utils.ContextFrom(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.RequestIDFrom(c)))

	var req AdviceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return nil, reqLogger, false
	}

	if req.Zip == "" {
		req.Zip = h.defaultZip
	}

	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Invalid ZIP code", zap.String("zip", req.Zip))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: verrs[0].Message,
		})
		return nil, reqLogger, false
	}

	advice, err := h.advisor.Advise(ctx, req.Zip)
	if err != nil {
		if errors.Is(err, weather.ErrLocationNotFound) {
			reqLogger.Warn("Unknown location", zap.String("zip", req.Zip))
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "Location not found",
				Code:  "LOCATION_NOT_FOUND",
			})
			return nil, reqLogger, false
		}

		reqLogger.Error("Failed to generate advice", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Weather unavailable",
			Code:    "WEATHER_UNAVAILABLE",
			Details: err.Error(),
		})
		return nil, reqLogger, false
	}

	return advice, reqLogger, true
}

func toChartResponse(ch chart.Chart, approximate bool) ChartResponse {
	resp := ChartResponse{
		Width:           ch.Width,
		Height:          ch.Height,
		TempMin:         ch.Axes.TempMin,
		TempMax:         ch.Axes.TempMax,
		NowX:            ch.Axes.NowX,
		HasNow:          ch.Axes.HasNow,
		ActualPath:      ch.Actual.SVG(),
		FeelsLikePath:   ch.FeelsLike.SVG(),
		ActualPoints:    ch.Actual.Points,
		FeelsLikePoints: ch.FeelsLike.Points,
		Approximate:     approximate,
	}
	if !ch.Empty() {
		resp.TimeMin = ch.Axes.TimeMin.Format(time.RFC3339)
		resp.TimeMax = ch.Axes.TimeMax.Format(time.RFC3339)
	}
	return resp
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wearcast/internal/advisor"
	"wearcast/internal/config"
	"wearcast/internal/server/handlers"
	"wearcast/internal/server/middlewares"
	"wearcast/pkg/telemetry"
)

type Server struct {
	engine *gin.Engine
	server *http.Server
	adv    *advisor.Advisor
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

func NewServer(adv *advisor.Advisor, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestID())
	engine.Use(middlewares.Logging(logger))
	engine.Use(middlewares.Recovery(logger))
	engine.Use(middlewares.Tracing(tele))

	s := &Server{
		engine: engine,
		adv:    adv,
		logger: logger,
		tele:   tele,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	cfg := config.GetConfig()

	metricsHandler := handlers.NewMetricsHandler(s.logger)
	s.adv.SetMetricsRecorder(metricsHandler)

	adviceHandler := handlers.NewAdviceHandler(s.adv, cfg.Weather.DefaultZip, s.logger)

	// Business endpoints
	s.engine.GET("/advice", adviceHandler.GetAdvice)
	s.engine.GET("/chart", adviceHandler.GetChart)

	// Health endpoints (Kubernetes friendly)
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/health/live", healthHandler.Liveness)
	s.engine.GET("/health/ready", healthHandler.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics)
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

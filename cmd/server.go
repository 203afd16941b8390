package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wearcast/internal/advisor"
	"wearcast/internal/config"
	"wearcast/internal/llm"
	"wearcast/internal/server"
	"wearcast/internal/weather"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the clothing advisor server",
	Long:  `Start the HTTP server that serves clothing recommendations and temperature charts for a ZIP code.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting wearcast server",
		zap.String("config_path", configPath),
		zap.Bool("llm_enabled", cfg.LLM.Enabled),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	var provider weather.Provider = weather.NewOpenWeatherMap(cfg.Weather, log, tele)
	if cfg.Weather.RateRPS > 0 {
		provider = weather.NewRateLimited(provider, cfg.Weather.RateRPS, cfg.Weather.RateBurst)
	}

	var refiner llm.Refiner
	if cfg.LLM.Enabled {
		gemini, err := llm.NewGemini(cmd.Context(), cfg.LLM)
		if err != nil {
			log.Warn("Language model unavailable, serving rule-based recommendations only", zap.Error(err))
		} else {
			refiner = gemini
		}
	}

	adv := advisor.New(provider, refiner, cfg, log, tele)
	srv := server.NewServer(adv, log, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		if err := tele.Shutdown(context.Background()); err != nil {
			log.Warn("Error during telemetry shutdown", zap.Error(err))
		}

		log.Info("Server shutdown complete")
		return nil
	}
}

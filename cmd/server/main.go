// Package main is the entry point for the Ronbokaya advisor API: an HTTP
// service that turns a risk questionnaire into a personalized stock
// portfolio recommendation for the Indonesian market.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ronbokaya/advisor/internal/clients/marketdata"
	"github.com/ronbokaya/advisor/internal/config"
	"github.com/ronbokaya/advisor/internal/modules/recommendation"
	recommendationhandlers "github.com/ronbokaya/advisor/internal/modules/recommendation/handlers"
	"github.com/ronbokaya/advisor/internal/server"
	"github.com/ronbokaya/advisor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("market_data_url", cfg.MarketDataBaseURL).
		Int("lookback_days", cfg.PriceLookbackDays).
		Msg("Starting advisor")

	marketData := marketdata.NewClient(cfg.MarketDataBaseURL, cfg.MarketDataTimeout, cfg.PriceLookbackDays, log)
	recommendationService := recommendation.NewService(marketData, log)
	recommendationHandler := recommendationhandlers.NewHandler(recommendationService, log)

	srv := server.New(cfg, recommendationHandler, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Advisor stopped")
}

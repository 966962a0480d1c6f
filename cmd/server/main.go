// Package main implements the entry point for the larder API server,
// which turns barcode scans into grocy inventory mutations and tracks
// daily macro intake alongside.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/larderhq/larder-api/internal/config"
	"github.com/larderhq/larder-api/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg, logg, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, logg)
	if err != nil {
		logg.Error("Failed to build application", "error", err)
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		logg.Error("Server exited with error", "error", err)
		log.Fatalf("Server exited with error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"grocy_url", cfg.Grocy.BaseURL,
		"nutrition_enabled", cfg.Nutrition.AppKey != "",
		"llm_enabled", cfg.LLM.GeminiAPIKey != "",
		"scraper_enabled", cfg.Scraper.SearchScript != "" || cfg.Scraper.ProductScript != "")

	return cfg, logg, nil
}

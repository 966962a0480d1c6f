package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/larderhq/larder-api/internal/config"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/larderhq/larder-api/internal/nutrition"
	"github.com/larderhq/larder-api/internal/platform/gemini"
	"github.com/larderhq/larder-api/internal/platform/postgres"
	"github.com/larderhq/larder-api/internal/scan"
	"github.com/larderhq/larder-api/internal/scraper"
	"github.com/larderhq/larder-api/internal/task"
)

// application holds the assembled dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db           *sql.DB
	catalog      *grocy.Client
	scanQueue    *scan.Queue
	batchManager *task.Manager

	tempItemStore *postgres.TempItemStore
	configStore   *postgres.ConfigStore
}

// newApplication wires every service from configuration. The scan queue's
// consumer goroutine is started here; cleanup stops it.
func newApplication(ctx context.Context, cfg *config.Config, logg *slog.Logger) (*application, error) {
	db, err := setupDatabase(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logg); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	catalog, err := grocy.NewClient(cfg.Grocy, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to create grocy client: %w", err)
	}

	// Disabled optional services stay untyped nil so the pipeline can
	// detect their absence.
	var nutritionSvc scan.Nutrition
	if nc := nutrition.NewClient(cfg.Nutrition, logg); nc != nil {
		nutritionSvc = nc
	} else {
		logg.Warn("Nutrition lookups disabled, scans of unknown barcodes will fail")
	}

	var llmSvc scan.LLM
	gem, err := gemini.NewClient(ctx, logg, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if gem != nil {
		llmSvc = gem
	} else {
		logg.Warn("LLM integration disabled, placeholder matching and product suggestions are off")
	}

	pipeline := scan.NewPipeline(catalog, nutritionSvc, llmSvc, logg)
	queue := scan.NewQueue(pipeline, logg)
	queue.Start(ctx)

	var scraperSvc task.Scraper
	if sc := scraper.NewClient(cfg.Scraper, logg); sc != nil {
		scraperSvc = sc
	} else {
		logg.Warn("Scraper disabled, batch price jobs will be rejected")
	}

	manager := task.NewManager(catalog, scraperSvc, cfg.Batch.Concurrency, int64(cfg.Grocy.ShoppingListID), logg)

	return &application{
		config:        cfg,
		logger:        logg,
		db:            db,
		catalog:       catalog,
		scanQueue:     queue,
		batchManager:  manager,
		tempItemStore: postgres.NewTempItemStore(db, logg),
		configStore:   postgres.NewConfigStore(db, logg),
	}, nil
}

// cleanup releases application resources after the HTTP server has stopped.
// The scan queue drains pending jobs before the database closes under it.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.scanQueue.Stop(ctx); err != nil {
		app.logger.Error("Scan queue did not drain before shutdown", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}
}

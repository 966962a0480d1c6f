package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/larderhq/larder-api/internal/api"
	apiMiddleware "github.com/larderhq/larder-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	scanHandler := api.NewScanHandler(app.scanQueue)
	stockHandler := api.NewStockHandler(app.catalog)
	batchHandler := api.NewBatchHandler(app.batchManager)
	macroHandler := api.NewMacroHandler(app.tempItemStore, app.configStore)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scan", scanHandler.SubmitScan)
		r.Get("/scan/jobs/{id}", scanHandler.GetJob)

		r.Post("/stock/consume", stockHandler.Consume)
		r.Get("/inventory", stockHandler.Inventory)

		r.Post("/batch/price-update", batchHandler.StartPriceUpdate)
		r.Post("/batch/search-scrape", batchHandler.StartSearchScrape)
		r.Post("/batch/restock", batchHandler.StartRestock)
		r.Get("/batch/jobs/{id}", batchHandler.GetJob)

		r.Route("/macros", func(r chi.Router) {
			r.Post("/temp-items", macroHandler.CreateTempItem)
			r.Get("/temp-items", macroHandler.ListTempItems)
			r.Delete("/temp-items/{id}", macroHandler.DeleteTempItem)
			r.Get("/goals", macroHandler.GetGoals)
			r.Put("/goals", macroHandler.UpdateGoals)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

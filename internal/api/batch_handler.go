package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/larderhq/larder-api/internal/api/shared"
	"github.com/larderhq/larder-api/internal/domain"
)

// BatchManager is the batch job surface the handler needs. *task.Manager
// satisfies it.
type BatchManager interface {
	StartPriceUpdate(ctx context.Context) (*domain.BatchJob, error)
	StartSearchScrape(ctx context.Context) (*domain.BatchJob, error)
	StartRestock(ctx context.Context) (*domain.BatchJob, error)
	Get(id uuid.UUID) *domain.BatchJob
}

// StartBatchResponse carries the id to poll for batch progress.
type StartBatchResponse struct {
	JobID uuid.UUID `json:"job_id"`
	Total int       `json:"total"`
}

// BatchHandler handles background batch job triggers and polling.
type BatchHandler struct {
	manager BatchManager
}

// NewBatchHandler creates a BatchHandler.
func NewBatchHandler(manager BatchManager) *BatchHandler {
	return &BatchHandler{manager: manager}
}

// StartPriceUpdate handles POST /api/batch/price-update requests.
func (h *BatchHandler) StartPriceUpdate(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, h.manager.StartPriceUpdate)
}

// StartSearchScrape handles POST /api/batch/search-scrape requests.
func (h *BatchHandler) StartSearchScrape(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, h.manager.StartSearchScrape)
}

// StartRestock handles POST /api/batch/restock requests.
func (h *BatchHandler) StartRestock(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, h.manager.StartRestock)
}

func (h *BatchHandler) start(w http.ResponseWriter, r *http.Request, trigger func(context.Context) (*domain.BatchJob, error)) {
	job, err := trigger(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Failed to start batch job", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusAccepted, StartBatchResponse{
		JobID: job.ID,
		Total: job.Total,
	})
}

// GetJob handles GET /api/batch/jobs/{id} requests.
func (h *BatchHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Job id must be a UUID")
		return
	}

	job := h.manager.Get(id)
	if job == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, job)
}

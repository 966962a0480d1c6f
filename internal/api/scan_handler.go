package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/larderhq/larder-api/internal/api/shared"
	"github.com/larderhq/larder-api/internal/domain"
)

// ScanQueue is the queue surface the handler needs. *scan.Queue satisfies it.
type ScanQueue interface {
	Enqueue(op domain.ScanOp, barcode string) (int64, error)
	Get(id int64) *domain.Job
}

// SubmitScanRequest represents the request body for submitting a scan.
type SubmitScanRequest struct {
	Op      string `json:"op" validate:"required,oneof=add remove"`
	Barcode string `json:"barcode" validate:"required"`
}

// SubmitScanResponse carries the id to poll for the job's outcome.
type SubmitScanResponse struct {
	JobID int64 `json:"job_id"`
}

// ScanHandler handles scan submission and job polling.
type ScanHandler struct {
	queue ScanQueue
}

// NewScanHandler creates a ScanHandler.
func NewScanHandler(queue ScanQueue) *ScanHandler {
	return &ScanHandler{queue: queue}
}

// SubmitScan handles POST /api/scan requests. The scan executes
// asynchronously; the response carries the job id to poll.
func (h *ScanHandler) SubmitScan(w http.ResponseWriter, r *http.Request) {
	var req SubmitScanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	jobID, err := h.queue.Enqueue(domain.ScanOp(req.Op), req.Barcode)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitScanResponse{JobID: jobID})
}

// GetJob handles GET /api/scan/jobs/{id} requests.
func (h *ScanHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Job id must be numeric")
		return
	}

	job := h.queue.Get(id)
	if job == nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Job not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, job)
}

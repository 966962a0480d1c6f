package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/larderhq/larder-api/internal/api/shared"
	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/store"
)

// CreateTempItemRequest represents the request body for recording an
// ad-hoc macro entry.
type CreateTempItemRequest struct {
	Name     string  `json:"name" validate:"required"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fats     float64 `json:"fats" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Day      string  `json:"day" validate:"required,datetime=2006-01-02"`
}

// CreateTempItemResponse carries the assigned id.
type CreateTempItemResponse struct {
	ID int64 `json:"id"`
}

// UpdateGoalsRequest represents the request body for setting macro goals.
type UpdateGoalsRequest struct {
	Calories float64 `json:"goal_calories" validate:"gte=0"`
	Carbs    float64 `json:"goal_carbs" validate:"gte=0"`
	Fats     float64 `json:"goal_fats" validate:"gte=0"`
	Protein  float64 `json:"goal_protein" validate:"gte=0"`
}

// MacroHandler handles macro temp items and goal configuration.
type MacroHandler struct {
	tempItems store.TempItemStore
	config    store.ConfigStore
}

// NewMacroHandler creates a MacroHandler.
func NewMacroHandler(tempItems store.TempItemStore, config store.ConfigStore) *MacroHandler {
	return &MacroHandler{tempItems: tempItems, config: config}
}

// CreateTempItem handles POST /api/macros/temp-items requests.
func (h *MacroHandler) CreateTempItem(w http.ResponseWriter, r *http.Request) {
	var req CreateTempItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item := &domain.TempItem{
		Name:     req.Name,
		Calories: req.Calories,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Protein:  req.Protein,
		Day:      req.Day,
	}
	if err := h.tempItems.Create(r.Context(), item); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create temp item", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTempItemResponse{ID: item.ID})
}

// ListTempItems handles GET /api/macros/temp-items?day=YYYY-MM-DD requests.
func (h *MacroHandler) ListTempItems(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter day is required")
		return
	}

	items, err := h.tempItems.ListByDay(r.Context(), day)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list temp items", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, items)
}

// DeleteTempItem handles DELETE /api/macros/temp-items/{id} requests.
func (h *MacroHandler) DeleteTempItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item id must be numeric")
		return
	}

	if err := h.tempItems.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Temp item not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete temp item", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGoals handles GET /api/macros/goals requests.
func (h *MacroHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.config.GetGoals(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to read macro goals", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, goals)
}

// UpdateGoals handles PUT /api/macros/goals requests.
func (h *MacroHandler) UpdateGoals(w http.ResponseWriter, r *http.Request) {
	var req UpdateGoalsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	goals := &domain.MacroGoals{
		Calories: req.Calories,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Protein:  req.Protein,
	}
	if err := h.config.SetGoals(r.Context(), goals); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update macro goals", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/larderhq/larder-api/internal/api/shared"
	"github.com/larderhq/larder-api/internal/grocy"
)

// StockCatalog is the catalog surface the stock endpoints need.
// *grocy.Client satisfies it.
type StockCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*grocy.Product, error)
	ConsumeStock(ctx context.Context, productID int64, amount float64) error
	IsPlaceholder(ctx context.Context, productID int64) bool
	ProductNumServings(ctx context.Context, productID int64) (float64, bool, error)
	GetInventory(ctx context.Context) ([]grocy.InventoryRow, error)
}

// ConsumeRequest represents the request body for a serving-aware consume.
type ConsumeRequest struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Servings  float64 `json:"servings" validate:"required,gt=0"`
}

// ConsumeResponse reports how many stock units were booked out.
type ConsumeResponse struct {
	Status         string  `json:"status"`
	Message        string  `json:"message"`
	ConsumedAmount float64 `json:"consumed_amount"`
}

// StockHandler handles stock consumption and the inventory view.
type StockHandler struct {
	catalog StockCatalog
}

// NewStockHandler creates a StockHandler.
func NewStockHandler(catalog StockCatalog) *StockHandler {
	return &StockHandler{catalog: catalog}
}

// Consume handles POST /api/stock/consume requests. Consumed servings are
// converted to stock units through the product's servings-per-unit custom
// field; a product without one consumes whole units.
func (h *StockHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req ConsumeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ctx := r.Context()
	product, err := h.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		if grocy.IsNotFound(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Product not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Catalog backend unavailable", err)
		return
	}

	// Placeholders are planning entries; they never hold real stock.
	if h.catalog.IsPlaceholder(ctx, req.ProductID) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Cannot consume from a placeholder product")
		return
	}

	amount := req.Servings
	if perUnit, ok, err := h.catalog.ProductNumServings(ctx, req.ProductID); err == nil && ok {
		amount = req.Servings / perUnit
	}

	if err := h.catalog.ConsumeStock(ctx, req.ProductID, amount); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Failed to consume stock", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ConsumeResponse{
		Status:         "ok",
		Message:        fmt.Sprintf("consumed %.2f servings of %s", req.Servings, product.Name),
		ConsumedAmount: amount,
	})
}

// Inventory handles GET /api/inventory requests.
func (h *StockHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.catalog.GetInventory(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadGateway, "Failed to read inventory", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, rows)
}

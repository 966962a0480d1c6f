package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/larderhq/larder-api/internal/grocy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockCatalog struct {
	products     map[int64]*grocy.Product
	placeholders map[int64]bool
	numServings  map[int64]float64
	inventory    []grocy.InventoryRow
	inventoryErr error

	consumed map[int64]float64
}

func newStubStockCatalog() *stubStockCatalog {
	return &stubStockCatalog{
		products:     make(map[int64]*grocy.Product),
		placeholders: make(map[int64]bool),
		numServings:  make(map[int64]float64),
		consumed:     make(map[int64]float64),
	}
}

func (s *stubStockCatalog) GetProduct(_ context.Context, id int64) (*grocy.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, grocy.ErrNotFound
}

func (s *stubStockCatalog) ConsumeStock(_ context.Context, id int64, amount float64) error {
	s.consumed[id] += amount
	return nil
}

func (s *stubStockCatalog) IsPlaceholder(_ context.Context, id int64) bool {
	return s.placeholders[id]
}

func (s *stubStockCatalog) ProductNumServings(_ context.Context, id int64) (float64, bool, error) {
	if n, ok := s.numServings[id]; ok {
		return n, true, nil
	}
	return 0, false, nil
}

func (s *stubStockCatalog) GetInventory(_ context.Context) ([]grocy.InventoryRow, error) {
	return s.inventory, s.inventoryErr
}

func stockRouter(catalog StockCatalog) http.Handler {
	h := NewStockHandler(catalog)
	r := chi.NewRouter()
	r.Post("/api/stock/consume", h.Consume)
	r.Get("/api/inventory", h.Inventory)
	return r
}

func TestConsume_WithServingsField(t *testing.T) {
	catalog := newStubStockCatalog()
	catalog.products[33] = &grocy.Product{ID: 33, Name: "Acme Oats"}
	catalog.numServings[33] = 8

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stock/consume",
		strings.NewReader(`{"product_id":33,"servings":2}`))
	stockRouter(catalog).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ConsumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0.25, resp.ConsumedAmount)
	assert.Equal(t, 0.25, catalog.consumed[33])
}

func TestConsume_WithoutServingsFieldUsesWholeUnits(t *testing.T) {
	catalog := newStubStockCatalog()
	catalog.products[33] = &grocy.Product{ID: 33, Name: "Acme Oats"}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stock/consume",
		strings.NewReader(`{"product_id":33,"servings":2}`))
	stockRouter(catalog).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2.0, catalog.consumed[33])
}

func TestConsume_PlaceholderRejected(t *testing.T) {
	catalog := newStubStockCatalog()
	catalog.products[12] = &grocy.Product{ID: 12, Name: "milk"}
	catalog.placeholders[12] = true

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stock/consume",
		strings.NewReader(`{"product_id":12,"servings":1}`))
	stockRouter(catalog).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, catalog.consumed)
}

func TestConsume_Validation(t *testing.T) {
	for _, body := range []string{
		`{"product_id":33}`,
		`{"product_id":33,"servings":-1}`,
		`{"servings":2}`,
	} {
		catalog := newStubStockCatalog()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/stock/consume", strings.NewReader(body))
		stockRouter(catalog).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Empty(t, catalog.consumed, body)
	}
}

func TestConsume_UnknownProduct(t *testing.T) {
	catalog := newStubStockCatalog()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/stock/consume",
		strings.NewReader(`{"product_id":99,"servings":1}`))
	stockRouter(catalog).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInventory(t *testing.T) {
	catalog := newStubStockCatalog()
	catalog.inventory = []grocy.InventoryRow{
		{Name: "Acme Oats", Quantity: 2, Expiry: "2027-02-27"},
	}

	rec := httptest.NewRecorder()
	stockRouter(catalog).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []grocy.InventoryRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme Oats", rows[0].Name)
}

func TestInventory_BackendFailure(t *testing.T) {
	catalog := newStubStockCatalog()
	catalog.inventoryErr = fmt.Errorf("connection refused")

	rec := httptest.NewRecorder()
	stockRouter(catalog).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

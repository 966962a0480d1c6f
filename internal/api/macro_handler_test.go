package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTempItemStore struct {
	nextID int64
	items  map[int64]domain.TempItem
}

func newStubTempItemStore() *stubTempItemStore {
	return &stubTempItemStore{items: make(map[int64]domain.TempItem)}
}

func (s *stubTempItemStore) Create(_ context.Context, item *domain.TempItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.nextID++
	item.ID = s.nextID
	s.items[item.ID] = *item
	return nil
}

func (s *stubTempItemStore) ListByDay(_ context.Context, day string) ([]domain.TempItem, error) {
	out := []domain.TempItem{}
	for _, item := range s.items {
		if item.Day == day {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubTempItemStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return store.ErrTempItemNotFound
	}
	delete(s.items, id)
	return nil
}

type stubConfigStore struct {
	goals domain.MacroGoals
}

func (s *stubConfigStore) GetGoals(_ context.Context) (*domain.MacroGoals, error) {
	goals := s.goals
	return &goals, nil
}

func (s *stubConfigStore) SetGoals(_ context.Context, goals *domain.MacroGoals) error {
	s.goals = *goals
	return nil
}

func macroRouter(items store.TempItemStore, config store.ConfigStore) http.Handler {
	h := NewMacroHandler(items, config)
	r := chi.NewRouter()
	r.Post("/api/macros/temp-items", h.CreateTempItem)
	r.Get("/api/macros/temp-items", h.ListTempItems)
	r.Delete("/api/macros/temp-items/{id}", h.DeleteTempItem)
	r.Get("/api/macros/goals", h.GetGoals)
	r.Put("/api/macros/goals", h.UpdateGoals)
	return r
}

func TestTempItemLifecycle(t *testing.T) {
	items := newStubTempItemStore()
	router := macroRouter(items, &stubConfigStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/macros/temp-items",
		strings.NewReader(`{"name":"protein shake","calories":220,"protein":40,"day":"2026-08-31"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created CreateTempItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/macros/temp-items?day=2026-08-31", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.TempItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "protein shake", listed[0].Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/macros/temp-items/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/macros/temp-items/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTempItem_Validation(t *testing.T) {
	for _, body := range []string{
		`{"calories":220,"day":"2026-08-31"}`,
		`{"name":"shake","day":"today"}`,
		`{"name":"shake","calories":-5,"day":"2026-08-31"}`,
	} {
		rec := httptest.NewRecorder()
		router := macroRouter(newStubTempItemStore(), &stubConfigStore{})
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/macros/temp-items",
			strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestListTempItems_RequiresDay(t *testing.T) {
	rec := httptest.NewRecorder()
	router := macroRouter(newStubTempItemStore(), &stubConfigStore{})
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/macros/temp-items", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMacroGoals(t *testing.T) {
	config := &stubConfigStore{goals: domain.MacroGoals{Calories: 3500, Carbs: 350, Fats: 100, Protein: 250}}
	router := macroRouter(newStubTempItemStore(), config)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/macros/goals", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var goals domain.MacroGoals
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &goals))
	assert.Equal(t, 3500.0, goals.Calories)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/macros/goals",
		strings.NewReader(`{"goal_calories":3000,"goal_carbs":300,"goal_fats":90,"goal_protein":220}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3000.0, config.goals.Calories)
	assert.Equal(t, 220.0, config.goals.Protein)
}

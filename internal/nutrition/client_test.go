package nutrition

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/larderhq/larder-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.NutritionConfig{
		BaseURL: server.URL,
		AppID:   "id",
		AppKey:  "key",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, client)
	return client
}

func TestNewClient_DisabledWithoutKey(t *testing.T) {
	client := NewClient(config.NutritionConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Nil(t, client)
}

func TestLookupUPC(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/search/item", r.URL.Path)
			assert.Equal(t, "012345", r.URL.Query().Get("upc"))
			assert.Equal(t, "id", r.Header.Get("x-app-id"))
			assert.Equal(t, "key", r.Header.Get("x-app-key"))
			_, _ = w.Write([]byte(`{"foods":[{"brand_name":"Acme","food_name":"Rolled Oats","nf_calories":150,"serving_qty":1}]}`))
		}))

		item, err := client.LookupUPC(context.Background(), "012345")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "Acme Rolled Oats", item.DisplayName())
		require.NotNil(t, item.Calories)
		assert.Equal(t, 150.0, *item.Calories)
	})

	t.Run("unknown barcode is not an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		item, err := client.LookupUPC(context.Background(), "000")
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("empty foods list is not an error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"foods":[]}`))
		}))

		item, err := client.LookupUPC(context.Background(), "000")
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("upstream failure surfaces", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.LookupUPC(context.Background(), "012345")
		assert.Error(t, err)
	})
}

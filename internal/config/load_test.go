package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv fills in the settings that have no usable defaults so that
// Load passes validation.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LARDER_DATABASE_URL", "postgres://postgres@localhost:5432/larder")
	t.Setenv("LARDER_GROCY_BASE_URL", "http://grocy.local/api")
	t.Setenv("LARDER_GROCY_API_KEY", "test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Grocy.RequestTimeoutSeconds)
	assert.Equal(t, 1, cfg.Grocy.ShoppingListID)
	assert.Equal(t, "https://trackapi.nutritionix.com", cfg.Nutrition.BaseURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, "python3", cfg.Scraper.PythonBin)
	assert.Equal(t, 5, cfg.Batch.Concurrency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LARDER_SERVER_PORT", "9090")
	t.Setenv("LARDER_SERVER_LOG_LEVEL", "debug")
	t.Setenv("LARDER_LLM_GEMINI_API_KEY", "gm-key")
	t.Setenv("LARDER_BATCH_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "gm-key", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, 2, cfg.Batch.Concurrency)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing grocy api key",
			env: map[string]string{
				"LARDER_DATABASE_URL":   "postgres://postgres@localhost:5432/larder",
				"LARDER_GROCY_BASE_URL": "http://grocy.local/api",
			},
		},
		{
			name: "bad log level",
			env: map[string]string{
				"LARDER_DATABASE_URL":     "postgres://postgres@localhost:5432/larder",
				"LARDER_GROCY_BASE_URL":   "http://grocy.local/api",
				"LARDER_GROCY_API_KEY":    "k",
				"LARDER_SERVER_LOG_LEVEL": "loud",
			},
		},
		{
			name: "grocy base url not a url",
			env: map[string]string{
				"LARDER_DATABASE_URL":   "postgres://postgres@localhost:5432/larder",
				"LARDER_GROCY_BASE_URL": "not a url",
				"LARDER_GROCY_API_KEY":  "k",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

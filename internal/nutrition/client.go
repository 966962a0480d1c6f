// Package nutrition looks up nutrition facts for UPC barcodes through the
// Nutritionix item search API. Lookups are best effort; an unknown barcode
// is not an error, it simply yields no item.
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/larderhq/larder-api/internal/config"
	"github.com/larderhq/larder-api/internal/domain"
)

const defaultBaseURL = "https://trackapi.nutritionix.com"

// Client performs UPC lookups against Nutritionix.
type Client struct {
	baseURL    string
	appID      string
	appKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Nutritionix client. Returns nil when no app key is
// configured, which callers treat as lookups disabled.
func NewClient(cfg config.NutritionConfig, logger *slog.Logger) *Client {
	if cfg.AppKey == "" {
		return nil
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With(slog.String("component", "nutrition_client")),
	}
}

type searchResponse struct {
	Foods []domain.NutritionItem `json:"foods"`
}

// LookupUPC returns the first food record matching the barcode, or nil when
// Nutritionix has no entry for it.
func (c *Client) LookupUPC(ctx context.Context, barcode string) (*domain.NutritionItem, error) {
	if barcode == "" {
		return nil, fmt.Errorf("barcode is required")
	}

	endpoint := c.baseURL + "/v2/search/item?upc=" + url.QueryEscape(barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nutritionix request: %w", err)
	}
	req.Header.Set("x-app-id", c.appID)
	req.Header.Set("x-app-key", c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nutritionix request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Nutritionix answers 404 for barcodes it does not know.
	if resp.StatusCode == http.StatusNotFound {
		c.logger.DebugContext(ctx, "no nutritionix entry for barcode", slog.String("barcode", barcode))
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nutritionix returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode nutritionix response: %w", err)
	}
	if len(parsed.Foods) == 0 {
		return nil, nil
	}
	return &parsed.Foods[0], nil
}

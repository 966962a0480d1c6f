package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/larderhq/larder-api/internal/config"
)

// Client is the typed gateway to a grocy instance. It is safe for
// concurrent use; the embedded caches serialize their own population.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	locations *LocationCache
	fields    *FieldKeyCache
}

// NewClient creates a grocy gateway from configuration.
// The logger must not be nil.
func NewClient(cfg config.GrocyConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("grocy base URL cannot be empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("grocy API key cannot be empty")
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "grocy_client")),
	}
	c.locations = newLocationCache(c)
	c.fields = newFieldKeyCache(c)
	return c, nil
}

// do issues a request and decodes a JSON body into out when out is non-nil.
// notFoundOK controls whether 400/404 responses map to ErrNotFound instead
// of an APIError; grocy reports unknown barcodes and objects with either.
func (c *Client) do(ctx context.Context, method, path string, body, out any, notFoundOK bool) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("GROCY-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("grocy %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("grocy %s %s: failed to read response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if notFoundOK && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest) {
			return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
		}
		c.logger.Debug("backend returned error status",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       truncate(string(raw), 200),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("grocy %s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// getList fetches a list endpoint, tolerating both bare arrays and the
// {"data": [...]} wrapper some grocy versions produce.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, false); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var wrapper struct {
			Data []T `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("grocy GET %s: failed to decode wrapped list: %w", path, err)
		}
		return wrapper.Data, nil
	}

	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("grocy GET %s: failed to decode list: %w", path, err)
	}
	return items, nil
}

// extractCreatedID pulls the new object id out of a creation response.
// Grocy returns different shapes depending on version: an object with
// created_object_id or id (number or numeric string), or a bare number.
func extractCreatedID(raw json.RawMessage) (int64, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, false
	}

	if trimmed[0] == '{' {
		var obj map[string]Num
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return 0, false
		}
		for _, key := range []string{"created_object_id", "id", "last_inserted_id"} {
			if v, ok := obj[key]; ok && v != 0 {
				return v.Int(), true
			}
		}
		return 0, false
	}

	var n Num
	if err := json.Unmarshal(trimmed, &n); err != nil || n == 0 {
		return 0, false
	}
	return n.Int(), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

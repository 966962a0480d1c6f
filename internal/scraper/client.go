// Package scraper runs the external price-scraping scripts as subprocesses
// and parses their JSON output. The scripts talk to third-party scraping
// services; this package only owns process lifecycle and output parsing.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/larderhq/larder-api/internal/config"
)

// SearchResult is one product row from a store search.
type SearchResult struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	PricePerUnit string `json:"price_per_unit"`
	ImageURL     string `json:"image_url"`
	ProductURL   string `json:"product_url"`
}

type searchOutput struct {
	Query    string         `json:"query"`
	Products []SearchResult `json:"products"`
}

// ProductInfo is the scraped state of a single product page.
type ProductInfo struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	PricePerUnit string `json:"price_per_unit"`
}

// Client invokes the scrape scripts.
type Client struct {
	cfg    config.ScraperConfig
	logger *slog.Logger
}

// NewClient creates a scraper client. Returns nil when no search script is
// configured, which callers treat as scraping disabled.
func NewClient(cfg config.ScraperConfig, logger *slog.Logger) *Client {
	if cfg.SearchScript == "" && cfg.ProductScript == "" {
		return nil
	}
	if cfg.PythonBin == "" {
		cfg.PythonBin = "python3"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 90
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "scraper_client")),
	}
}

// Enabled reports whether scraping is configured.
func (c *Client) Enabled() bool {
	return c != nil
}

// Search runs the store search script for a query and returns its product
// rows, capped at the configured maximum.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if !c.Enabled() || c.cfg.SearchScript == "" {
		return nil, fmt.Errorf("search scraping is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}

	stdout, err := c.run(ctx, c.cfg.SearchScript, query)
	if err != nil {
		return nil, err
	}

	var parsed searchOutput
	if err := json.Unmarshal(stdout, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse search output: %w", err)
	}

	results := parsed.Products
	if max := c.cfg.MaxSearchResults; max > 0 && len(results) > max {
		results = results[:max]
	}
	return results, nil
}

// LookupProduct runs the product page script for a URL.
func (c *Client) LookupProduct(ctx context.Context, productURL string) (*ProductInfo, error) {
	if !c.Enabled() || c.cfg.ProductScript == "" {
		return nil, fmt.Errorf("product scraping is not configured")
	}
	if strings.TrimSpace(productURL) == "" {
		return nil, fmt.Errorf("product URL is required")
	}

	stdout, err := c.run(ctx, c.cfg.ProductScript, productURL)
	if err != nil {
		return nil, err
	}

	var parsed ProductInfo
	if err := json.Unmarshal(stdout, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse product output: %w", err)
	}
	return &parsed, nil
}

// run executes a script with one argument and returns the JSON document it
// printed to stdout. Scripts print human progress lines before the JSON, so
// the last JSON-looking line wins.
func (c *Client) run(ctx context.Context, script, arg string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.cfg.PythonBin, script, arg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	c.logger.DebugContext(ctx, "scrape script finished",
		slog.String("script", script),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil))

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("scrape script %s timed out after %ds", script, c.cfg.TimeoutSeconds)
		}
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return nil, fmt.Errorf("scrape script %s failed: %w: %s", script, err, detail)
	}

	doc := lastJSONLine(stdout.Bytes())
	if doc == nil {
		return nil, fmt.Errorf("scrape script %s produced no JSON output", script)
	}
	return doc, nil
}

func lastJSONLine(out []byte) []byte {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) > 0 && line[0] == '{' {
			return line
		}
	}
	return nil
}

package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/larderhq/larder-api/internal/config"
	"google.golang.org/genai"
)

// Client wraps the Gemini API for the two narrow operations the scan
// pipeline needs. A nil *Client is valid and means the integration is
// disabled; every method on a nil receiver returns a degraded answer.
type Client struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. Returns (nil, nil) when no API key is
// configured so callers can wire the disabled state through directly.
func NewClient(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn("no Gemini API key configured, LLM assists disabled")
		return nil, nil
	}
	if cfg.ModelName == "" {
		return nil, errors.New("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		logger: logger.With(slog.String("component", "gemini_client")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Enabled reports whether the client can make API calls.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// generate sends a prompt and returns the raw response text, retrying
// transient failures with exponential backoff and jitter. Parse-level
// failures are permanent and surface immediately.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	maxRetries := c.config.MaxRetries
	baseDelaySeconds := c.config.RetryDelaySeconds
	if maxRetries < 0 {
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt),
			&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})

		var transient bool
		switch {
		case err != nil:
			// API-level errors are assumed transient.
			transient = true
		case resp == nil || len(resp.Candidates) == 0:
			err = fmt.Errorf("%w: no content generated", ErrInvalidResponse)
		case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
			err = ErrContentBlocked
		default:
			text := resp.Text()
			if strings.TrimSpace(text) == "" {
				err = fmt.Errorf("%w: empty response text", ErrInvalidResponse)
				break
			}
			return text, nil
		}

		lastErr = err
		c.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1),
			slog.Any("error", err))

		if !transient || attempt == maxRetries {
			break
		}

		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := backoff * 0.25 * rng.Float64()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration((backoff + jitter) * float64(time.Second))):
		}
	}
	return "", lastErr
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// PlaceholderCandidate is one existing placeholder product offered to the
// matcher.
type PlaceholderCandidate struct {
	ID   int64
	Name string
}

type matchResponse struct {
	MatchedProductID *int64 `json:"matched_product_id"`
}

// MatchPlaceholder asks the model whether the scanned item is the same
// product as one of the placeholder candidates. Returns (0, false, nil)
// when nothing matches, when the client is disabled, or when there are no
// candidates; the matcher never blocks a scan.
func (c *Client) MatchPlaceholder(ctx context.Context, itemName string, candidates []PlaceholderCandidate) (int64, bool, error) {
	if !c.Enabled() || len(candidates) == 0 {
		return 0, false, nil
	}
	if strings.TrimSpace(itemName) == "" {
		return 0, false, fmt.Errorf("item name is required")
	}

	prompt := buildMatchPrompt(itemName, candidates)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return 0, false, fmt.Errorf("placeholder match failed: %w", err)
	}

	id, matched, err := parseMatch(text, candidates)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable placeholder match",
			slog.Bool("llm_degraded", true),
			slog.Any("error", err))
		return 0, false, err
	}
	return id, matched, nil
}

func buildMatchPrompt(itemName string, candidates []PlaceholderCandidate) string {
	var b strings.Builder
	b.WriteString("You are matching a scanned grocery item against placeholder products\n")
	b.WriteString("in a household inventory. A placeholder matches only when it clearly\n")
	b.WriteString("refers to the same product. When in doubt, do not match.\n\n")
	fmt.Fprintf(&b, "Scanned item: %s\n\nPlaceholders:\n", itemName)
	for _, cand := range candidates {
		fmt.Fprintf(&b, "  %d: %s\n", cand.ID, cand.Name)
	}
	b.WriteString("\nAnswer with a single JSON object:\n")
	b.WriteString(`{"matched_product_id": <id or null>}` + "\n")
	return b.String()
}

// parseMatch validates the model's answer against the candidate list so a
// hallucinated id never reaches stock booking.
func parseMatch(text string, candidates []PlaceholderCandidate) (int64, bool, error) {
	var parsed matchResponse
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if parsed.MatchedProductID == nil {
		return 0, false, nil
	}
	for _, cand := range candidates {
		if cand.ID == *parsed.MatchedProductID {
			return cand.ID, true, nil
		}
	}
	return 0, false, fmt.Errorf("%w: matched id %d is not a candidate", ErrInvalidResponse, *parsed.MatchedProductID)
}

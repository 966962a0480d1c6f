package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/larderhq/larder-api/internal/domain"
)

// ProductSuggestion is the model's advisory metadata for a new product.
// Pointer day fields distinguish "no opinion" from an explicit zero.
type ProductSuggestion struct {
	Name                        string `json:"name"`
	LocationLabel               string `json:"location"`
	BestBeforeDays              *int   `json:"default_best_before_days"`
	BestBeforeDaysAfterOpen     *int   `json:"default_best_before_days_after_open"`
	BestBeforeDaysAfterFreezing *int   `json:"default_best_before_days_after_freezing"`
	BestBeforeDaysAfterThawing  *int   `json:"default_best_before_days_after_thawing"`
}

// SuggestProduct asks the model for a cleaned-up display name, a storage
// location and shelf-life estimates for a scanned item. Returns (nil, nil)
// on a disabled client. Any failure degrades to (nil, err); callers log and
// fall back to the raw lookup name.
func (c *Client) SuggestProduct(ctx context.Context, item *domain.NutritionItem) (*ProductSuggestion, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if item == nil {
		return nil, fmt.Errorf("nutrition item is required")
	}

	prompt := buildSuggestPrompt(item)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("product suggestion failed: %w", err)
	}

	suggestion, err := parseSuggestion(text)
	if err != nil {
		c.logger.WarnContext(ctx, "unparseable product suggestion",
			slog.Bool("llm_degraded", true),
			slog.Any("error", err))
		return nil, err
	}
	return suggestion, nil
}

func buildSuggestPrompt(item *domain.NutritionItem) string {
	var b strings.Builder
	b.WriteString("You are helping manage a household food inventory.\n")
	b.WriteString("Given a grocery item, answer with a single JSON object with keys:\n")
	b.WriteString(`  "name": a clean, title-cased product display name` + "\n")
	b.WriteString(`  "location": one of "pantry", "fridge" or "freezer"` + "\n")
	b.WriteString(`  "default_best_before_days": integer days the unopened item keeps` + "\n")
	b.WriteString(`  "default_best_before_days_after_open": integer days once opened` + "\n")
	b.WriteString(`  "default_best_before_days_after_freezing": integer days when frozen` + "\n")
	b.WriteString(`  "default_best_before_days_after_thawing": integer days after thawing` + "\n")
	b.WriteString("Use null for any shelf-life you cannot estimate. Answer with JSON only.\n\n")
	fmt.Fprintf(&b, "Item: %s\n", item.DisplayName())
	if item.BrandName != "" {
		fmt.Fprintf(&b, "Brand: %s\n", item.BrandName)
	}
	if item.FoodName != "" {
		fmt.Fprintf(&b, "Food: %s\n", item.FoodName)
	}
	return b.String()
}

func parseSuggestion(text string) (*ProductSuggestion, error) {
	var suggestion ProductSuggestion
	if err := json.Unmarshal([]byte(extractJSON(text)), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if strings.TrimSpace(suggestion.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidResponse)
	}
	suggestion.Name = strings.TrimSpace(suggestion.Name)
	suggestion.LocationLabel = strings.ToLower(strings.TrimSpace(suggestion.LocationLabel))
	return &suggestion, nil
}

// extractJSON strips markdown code fences the model sometimes wraps its
// answer in despite the JSON response MIME type.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestion(t *testing.T) {
	t.Run("full answer", func(t *testing.T) {
		got, err := parseSuggestion(`{
			"name": "  Acme Rolled Oats ",
			"location": "Pantry",
			"default_best_before_days": 365,
			"default_best_before_days_after_open": 90,
			"default_best_before_days_after_freezing": null,
			"default_best_before_days_after_thawing": null
		}`)
		require.NoError(t, err)
		assert.Equal(t, "Acme Rolled Oats", got.Name)
		assert.Equal(t, "pantry", got.LocationLabel)
		require.NotNil(t, got.BestBeforeDays)
		assert.Equal(t, 365, *got.BestBeforeDays)
		assert.Nil(t, got.BestBeforeDaysAfterFreezing)
	})

	t.Run("fenced answer", func(t *testing.T) {
		got, err := parseSuggestion("```json\n{\"name\":\"Milk\",\"location\":\"fridge\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "Milk", got.Name)
		assert.Equal(t, "fridge", got.LocationLabel)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := parseSuggestion(`{"location":"pantry"}`)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseSuggestion("sure, here is the answer")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestParseMatch(t *testing.T) {
	candidates := []PlaceholderCandidate{{ID: 12, Name: "milk"}, {ID: 15, Name: "eggs"}}

	t.Run("match", func(t *testing.T) {
		id, ok, err := parseMatch(`{"matched_product_id": 15}`, candidates)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(15), id)
	})

	t.Run("null means no match", func(t *testing.T) {
		_, ok, err := parseMatch(`{"matched_product_id": null}`, candidates)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("hallucinated id is rejected", func(t *testing.T) {
		_, ok, err := parseMatch(`{"matched_product_id": 999}`, candidates)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.False(t, ok)
	})
}

func TestBuildPrompts(t *testing.T) {
	item := &domain.NutritionItem{BrandName: "Acme", FoodName: "Rolled Oats"}
	prompt := buildSuggestPrompt(item)
	assert.Contains(t, prompt, "Acme Rolled Oats")
	assert.Contains(t, prompt, "default_best_before_days_after_thawing")

	matchPrompt := buildMatchPrompt("Acme Rolled Oats", []PlaceholderCandidate{{ID: 3, Name: "oats"}})
	assert.Contains(t, matchPrompt, "3: oats")
	assert.True(t, strings.Contains(matchPrompt, "matched_product_id"))
}

func TestDisabledClient(t *testing.T) {
	var c *Client

	assert.False(t, c.Enabled())

	suggestion, err := c.SuggestProduct(context.Background(), &domain.NutritionItem{FoodName: "Oats"})
	require.NoError(t, err)
	assert.Nil(t, suggestion)

	_, ok, err := c.MatchPlaceholder(context.Background(), "Oats", []PlaceholderCandidate{{ID: 1, Name: "oats"}})
	require.NoError(t, err)
	assert.False(t, ok)
}

package domain

import (
	"errors"
	"regexp"
	"time"
)

// Common validation errors for macro temp items.
var (
	ErrEmptyTempItemName = errors.New("temp item name cannot be empty")
	ErrInvalidDay        = errors.New("day must be formatted YYYY-MM-DD")
)

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// TempItem is an ad-hoc consumed food entry for a tracking day that has no
// catalog product behind it. Stored in the grocy_temp_items table.
type TempItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Carbs     float64   `json:"carbs"`
	Fats      float64   `json:"fats"`
	Protein   float64   `json:"protein"`
	Day       string    `json:"day"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the TempItem has valid data.
func (t *TempItem) Validate() error {
	if t.Name == "" {
		return ErrEmptyTempItemName
	}
	if !dayPattern.MatchString(t.Day) {
		return ErrInvalidDay
	}
	return nil
}

// MacroGoals are the configured daily macro targets from the grocy_config
// table.
type MacroGoals struct {
	Calories float64 `json:"goal_calories"`
	Carbs    float64 `json:"goal_carbs"`
	Fats     float64 `json:"goal_fats"`
	Protein  float64 `json:"goal_protein"`
}

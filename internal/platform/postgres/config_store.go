package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/store"
)

// Config keys backing the daily macro goals in grocy_config.
const (
	keyGoalCalories = "goal_calories"
	keyGoalCarbs    = "goal_carbs"
	keyGoalFats     = "goal_fats"
	keyGoalProtein  = "goal_protein"
)

// ConfigStore implements store.ConfigStore on the grocy_config key/value
// table.
type ConfigStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConfigStore creates a PostgreSQL config store.
func NewConfigStore(db *sql.DB, logger *slog.Logger) *ConfigStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "config_store")),
	}
}

var _ store.ConfigStore = (*ConfigStore)(nil)

// GetGoals implements store.ConfigStore.GetGoals. Keys missing from the
// table read as zero; the migration seeds defaults so this only happens if
// rows were deleted by hand.
func (s *ConfigStore) GetGoals(ctx context.Context) (*domain.MacroGoals, error) {
	query := `SELECT key, value FROM grocy_config WHERE key IN ($1, $2, $3, $4)`
	rows, err := s.db.QueryContext(ctx, query,
		keyGoalCalories, keyGoalCarbs, keyGoalFats, keyGoalProtein)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	goals := &domain.MacroGoals{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, MapError(err)
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			s.logger.WarnContext(ctx, "non-numeric config value skipped",
				slog.String("key", key),
				slog.String("value", value))
			continue
		}
		switch key {
		case keyGoalCalories:
			goals.Calories = parsed
		case keyGoalCarbs:
			goals.Carbs = parsed
		case keyGoalFats:
			goals.Fats = parsed
		case keyGoalProtein:
			goals.Protein = parsed
		}
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return goals, nil
}

// SetGoals implements store.ConfigStore.SetGoals. All four keys are
// upserted in one transaction so pollers never observe a half-written set.
func (s *ConfigStore) SetGoals(ctx context.Context, goals *domain.MacroGoals) error {
	pairs := map[string]float64{
		keyGoalCalories: goals.Calories,
		keyGoalCarbs:    goals.Carbs,
		keyGoalFats:     goals.Fats,
		keyGoalProtein:  goals.Protein,
	}

	err := store.RunInTransaction(ctx, s.db, s.logger, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO grocy_config (key, value)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
		for key, value := range pairs {
			if _, err := tx.ExecContext(ctx, query, key, strconv.FormatFloat(value, 'f', -1, 64)); err != nil {
				return fmt.Errorf("failed to upsert %s: %w", key, MapError(err))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "macro goals updated",
		slog.Float64("calories", goals.Calories),
		slog.Float64("protein", goals.Protein))
	return nil
}

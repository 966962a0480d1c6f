package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/store"
)

// TempItemStore implements store.TempItemStore on PostgreSQL.
type TempItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTempItemStore creates a PostgreSQL temp item store. The caller owns
// the database handle's lifecycle.
func NewTempItemStore(db store.DBTX, logger *slog.Logger) *TempItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TempItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "temp_item_store")),
	}
}

var _ store.TempItemStore = (*TempItemStore)(nil)

// Create implements store.TempItemStore.Create.
func (s *TempItemStore) Create(ctx context.Context, item *domain.TempItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO grocy_temp_items (name, calories, carbs, fats, protein, day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := s.db.QueryRowContext(ctx, query,
		item.Name, item.Calories, item.Carbs, item.Fats, item.Protein, item.Day,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create temp item",
			slog.String("name", item.Name),
			slog.Any("error", err))
		return MapError(err)
	}

	s.logger.DebugContext(ctx, "temp item created",
		slog.Int64("id", item.ID),
		slog.String("day", item.Day))
	return nil
}

// ListByDay implements store.TempItemStore.ListByDay.
func (s *TempItemStore) ListByDay(ctx context.Context, day string) ([]domain.TempItem, error) {
	query := `
		SELECT id, name, calories, carbs, fats, protein, day, created_at
		FROM grocy_temp_items
		WHERE day = $1
		ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, query, day)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	items := []domain.TempItem{}
	for rows.Next() {
		var item domain.TempItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Calories, &item.Carbs,
			&item.Fats, &item.Protein, &item.Day, &item.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return items, nil
}

// Delete implements store.TempItemStore.Delete.
func (s *TempItemStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM grocy_temp_items WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTempItemNotFound
	}

	s.logger.DebugContext(ctx, "temp item deleted", slog.Int64("id", id))
	return nil
}

package store

import (
	"context"

	"github.com/larderhq/larder-api/internal/domain"
)

// TempItemStore persists ad-hoc macro entries.
type TempItemStore interface {
	// Create saves a new temp item and fills in its assigned id.
	Create(ctx context.Context, item *domain.TempItem) error

	// ListByDay returns the temp items recorded for a tracking day,
	// oldest first.
	ListByDay(ctx context.Context, day string) ([]domain.TempItem, error)

	// Delete removes a temp item. Returns ErrTempItemNotFound when the id
	// does not exist.
	Delete(ctx context.Context, id int64) error
}

// ConfigStore reads and writes the key/value configuration table backing
// macro goals.
type ConfigStore interface {
	// GetGoals returns the configured daily macro targets.
	GetGoals(ctx context.Context) (*domain.MacroGoals, error)

	// SetGoals upserts the daily macro targets atomically.
	SetGoals(ctx context.Context, goals *domain.MacroGoals) error
}

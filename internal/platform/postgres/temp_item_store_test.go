package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/platform/postgres"
	"github.com/larderhq/larder-api/internal/store"
	"github.com/larderhq/larder-api/internal/testdb"
)

func TestTempItemStore_CreateAndListByDay(t *testing.T) {
	t.Parallel()
	db := testdb.RequireDatabase(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		s := postgres.NewTempItemStore(tx, nil)

		first := &domain.TempItem{
			Name:     "Leftover chili",
			Calories: 420,
			Carbs:    35,
			Fats:     18,
			Protein:  28,
			Day:      "2026-04-02",
		}
		require.NoError(t, s.Create(ctx, first))
		assert.NotZero(t, first.ID, "Create should fill the generated id")
		assert.False(t, first.CreatedAt.IsZero(), "Create should fill created_at")

		second := &domain.TempItem{Name: "Protein shake", Calories: 180, Protein: 30, Day: "2026-04-02"}
		require.NoError(t, s.Create(ctx, second))

		otherDay := &domain.TempItem{Name: "Toast", Calories: 90, Day: "2026-04-03"}
		require.NoError(t, s.Create(ctx, otherDay))

		items, err := s.ListByDay(ctx, "2026-04-02")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Leftover chili", items[0].Name, "items should list oldest first")
		assert.Equal(t, "Protein shake", items[1].Name)

		empty, err := s.ListByDay(ctx, "2026-04-04")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestTempItemStore_CreateRejectsInvalidItem(t *testing.T) {
	t.Parallel()
	db := testdb.RequireDatabase(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		s := postgres.NewTempItemStore(tx, nil)

		err := s.Create(ctx, &domain.TempItem{Name: "", Day: "2026-04-02"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTempItemStore_Delete(t *testing.T) {
	t.Parallel()
	db := testdb.RequireDatabase(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		s := postgres.NewTempItemStore(tx, nil)

		item := &domain.TempItem{Name: "Banana", Calories: 105, Day: "2026-04-02"}
		require.NoError(t, s.Create(ctx, item))

		require.NoError(t, s.Delete(ctx, item.ID))

		items, err := s.ListByDay(ctx, "2026-04-02")
		require.NoError(t, err)
		assert.Empty(t, items)

		err = s.Delete(ctx, item.ID)
		assert.ErrorIs(t, err, store.ErrTempItemNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

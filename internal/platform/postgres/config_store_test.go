package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larderhq/larder-api/internal/domain"
	"github.com/larderhq/larder-api/internal/platform/postgres"
	"github.com/larderhq/larder-api/internal/testdb"
)

func TestConfigStore_SetAndGetGoals(t *testing.T) {
	db := testdb.RequireDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	s := postgres.NewConfigStore(db, nil)

	// Remember the current goals so the shared table is restored afterwards.
	before, err := s.GetGoals(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.SetGoals(context.Background(), before)
	})

	want := &domain.MacroGoals{Calories: 2750, Carbs: 310, Fats: 85, Protein: 195}
	require.NoError(t, s.SetGoals(ctx, want))

	got, err := s.GetGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Upserting again overwrites rather than duplicating rows.
	want.Protein = 210
	require.NoError(t, s.SetGoals(ctx, want))

	got, err = s.GetGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 210.0, got.Protein)
}

func TestConfigStore_GetGoalsReadsSeededDefaults(t *testing.T) {
	db := testdb.RequireDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
	defer cancel()

	s := postgres.NewConfigStore(db, nil)

	goals, err := s.GetGoals(ctx)
	require.NoError(t, err)
	require.NotNil(t, goals)
	assert.GreaterOrEqual(t, goals.Calories, 0.0)
}

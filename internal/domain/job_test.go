package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScanJob(t *testing.T) {
	t.Run("valid add job", func(t *testing.T) {
		job, err := NewScanJob(1, ScanOpAdd, "0123456789012")
		require.NoError(t, err)
		assert.Equal(t, int64(1), job.ID)
		assert.Equal(t, JobStatusPending, job.Status)
		assert.Empty(t, job.Logs)
		assert.Nil(t, job.Result)
	})

	t.Run("empty barcode rejected", func(t *testing.T) {
		_, err := NewScanJob(1, ScanOpAdd, "")
		assert.ErrorIs(t, err, ErrEmptyBarcode)
	})

	t.Run("unknown op rejected", func(t *testing.T) {
		_, err := NewScanJob(1, ScanOp("toss"), "0123")
		assert.ErrorIs(t, err, ErrInvalidScanOp)
	})
}

func TestJobSnapshot_IsolatesLogs(t *testing.T) {
	job, err := NewScanJob(7, ScanOpRemove, "0123")
	require.NoError(t, err)

	job.AppendLog("looking up product")
	snap := job.Snapshot()
	job.AppendLog("product not found")

	assert.Equal(t, []string{"looking up product"}, snap.Logs)
	assert.Len(t, job.Logs, 2)
}

func TestNutritionItemDisplayName(t *testing.T) {
	tests := []struct {
		name string
		item NutritionItem
		want string
	}{
		{name: "brand and food", item: NutritionItem{BrandName: "Acme", FoodName: "Oats"}, want: "Acme Oats"},
		{name: "brand only", item: NutritionItem{BrandName: "Acme"}, want: "Acme"},
		{name: "food only", item: NutritionItem{FoodName: "Oats"}, want: "Oats"},
		{name: "neither", item: NutritionItem{}, want: "Unknown"},
		{name: "whitespace trimmed", item: NutritionItem{BrandName: "  ", FoodName: " Oats "}, want: "Oats"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.DisplayName())
		})
	}
}

func TestTempItemValidate(t *testing.T) {
	item := TempItem{Name: "late night snack", Day: "2026-08-31"}
	assert.NoError(t, item.Validate())

	item.Name = ""
	assert.ErrorIs(t, item.Validate(), ErrEmptyTempItemName)

	item.Name = "snack"
	item.Day = "08/31/2026"
	assert.ErrorIs(t, item.Validate(), ErrInvalidDay)
}

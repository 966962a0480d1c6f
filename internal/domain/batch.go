package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// BatchKind identifies the type of a background batch job.
type BatchKind string

// Known batch job kinds.
const (
	BatchKindPriceUpdate  BatchKind = "price_update"
	BatchKindSearchScrape BatchKind = "search_scrape"
	BatchKindRestock      BatchKind = "restock"
)

// BatchStatus represents the lifecycle state of a background batch job.
type BatchStatus string

// Possible batch job status values.
const (
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusError     BatchStatus = "error"
)

// ErrInvalidBatchKind is returned when constructing a batch job of an
// unknown kind.
var ErrInvalidBatchKind = errors.New("invalid batch job kind")

// BatchItemError records the failure of a single item within a batch.
type BatchItemError struct {
	ItemID  int64  `json:"item_id"`
	Message string `json:"message"`
}

// BatchJob tracks a longer batch operation (e.g. bulk price refresh) by a
// pollable progress record. The item list is snapshotted at creation time;
// Completed advances monotonically as the worker pool drains it.
type BatchJob struct {
	ID        uuid.UUID        `json:"job_id"`
	Kind      BatchKind        `json:"kind"`
	Status    BatchStatus      `json:"status"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
	Errors    []BatchItemError `json:"errors"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewBatchJob creates a running batch job for total snapshotted items.
func NewBatchJob(kind BatchKind, total int) (*BatchJob, error) {
	switch kind {
	case BatchKindPriceUpdate, BatchKindSearchScrape, BatchKindRestock:
	default:
		return nil, ErrInvalidBatchKind
	}

	return &BatchJob{
		ID:        uuid.New(),
		Kind:      kind,
		Status:    BatchStatusRunning,
		Total:     total,
		Errors:    []BatchItemError{},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Snapshot returns a copy of the batch job safe for pollers.
func (b *BatchJob) Snapshot() BatchJob {
	copied := *b
	copied.Errors = append([]BatchItemError(nil), b.Errors...)
	return copied
}

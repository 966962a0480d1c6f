package domain

import (
	"errors"
	"time"
)

// ScanOp is the requested inventory operation for a scanned barcode.
type ScanOp string

// Possible scan operations.
const (
	ScanOpAdd    ScanOp = "add"
	ScanOpRemove ScanOp = "remove"
)

// JobStatus represents the lifecycle state of a scan job.
type JobStatus string

// Possible scan job status values.
const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// Common validation errors for scan jobs.
var (
	ErrEmptyBarcode  = errors.New("barcode cannot be empty")
	ErrInvalidScanOp = errors.New("operation must be \"add\" or \"remove\"")
)

// Job is one unit of work representing a barcode event to add or remove
// inventory. Jobs are created by the queue on submission, mutated only by
// the queue's sequential worker, and retained for the process lifetime.
type Job struct {
	ID        int64        `json:"id"`
	Op        ScanOp       `json:"op"`
	Barcode   string       `json:"barcode"`
	Status    JobStatus    `json:"status"`
	Logs      []string     `json:"logs"`
	Result    *ScanOutcome `json:"result,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewScanJob creates a pending scan job with the given id, operation and
// barcode. Returns a validation error before any external call is made.
func NewScanJob(id int64, op ScanOp, barcode string) (*Job, error) {
	job := &Job{
		ID:        id,
		Op:        op,
		Barcode:   barcode,
		Status:    JobStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.Barcode == "" {
		return ErrEmptyBarcode
	}
	if j.Op != ScanOpAdd && j.Op != ScanOpRemove {
		return ErrInvalidScanOp
	}
	return nil
}

// AppendLog records a human-readable progress line on the job. The lines are
// observational output for pollers, never control flow.
func (j *Job) AppendLog(line string) {
	j.Logs = append(j.Logs, line)
	j.UpdatedAt = time.Now().UTC()
}

// Snapshot returns a shallow copy of the job safe to hand to readers while
// the worker keeps mutating the original. The logs slice is copied; the
// result is immutable once produced and shared as-is.
func (j *Job) Snapshot() Job {
	copied := *j
	copied.Logs = append([]string(nil), j.Logs...)
	return copied
}

// ScanOutcome is the immutable result of a completed pipeline run.
type ScanOutcome struct {
	Status             string  `json:"status"`
	Message            string  `json:"message"`
	Barcode            string  `json:"barcode"`
	Operation          ScanOp  `json:"operation"`
	CreatedProduct     bool    `json:"created_product"`
	MatchedPlaceholder bool    `json:"matched_placeholder"`
	AddedAmount        float64 `json:"added_amount,omitempty"`
	ConsumedAmount     float64 `json:"consumed_amount,omitempty"`
	ProductID          int64   `json:"product_id,omitempty"`
	ProductName        string  `json:"product_name,omitempty"`
}

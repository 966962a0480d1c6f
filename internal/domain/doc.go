// Package domain contains the core types of the larder API: scan jobs and
// their outcomes, background batch jobs, nutrition lookup results, and the
// macro-tracking records persisted in Postgres.
//
// Domain types carry their own validation; construction helpers (NewScanJob,
// NewBatchJob, ...) return an error rather than producing an invalid value.
package domain

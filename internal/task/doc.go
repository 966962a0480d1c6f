// Package task provides the bounded worker pool and the background batch
// jobs built on it: bulk price updates and search scrapes across the
// catalog. The pool is a generic primitive; the jobs own their pollable
// progress records.
package task

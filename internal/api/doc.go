// Package api contains the HTTP handlers: scan job submission and polling,
// serving-aware stock consumption, the inventory view, background batch
// jobs and the macro tracking endpoints.
package api

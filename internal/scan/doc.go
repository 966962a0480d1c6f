// Package scan owns the scan job lifecycle: an in-memory FIFO queue with a
// single sequential worker, and the multi-branch pipeline that turns one
// barcode event into catalog and stock mutations.
//
// The queue serializes all scan-driven stock mutations. Exactly one job is
// running at any instant, so no two scans ever interleave their catalog
// calls. Job records live for the process lifetime and are read by pollers
// through snapshots.
package scan

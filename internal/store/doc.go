// Package store defines the persistence abstractions for the macro
// tracking data: interfaces, common error sentinels and the DBTX contract
// implementations are written against. Concrete implementations live in
// internal/platform/postgres.
package store

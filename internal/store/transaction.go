package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// TxFn executes within a database transaction. The transaction commits when
// the function returns nil and rolls back otherwise.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes fn inside a transaction, rolling back on error
// or panic.
func RunInTransaction(ctx context.Context, db *sql.DB, logger *slog.Logger, fn TxFn) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorContext(ctx, "failed to roll back transaction after panic",
					slog.Any("error", rollbackErr),
					slog.Any("panic", p))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.ErrorContext(ctx, "failed to roll back transaction",
				slog.Any("rollback_error", rollbackErr),
				slog.Any("error", err))
			return fmt.Errorf("%w: rollback failed: %v (original error: %v)",
				ErrTransactionFailed, rollbackErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit: %v", ErrTransactionFailed, err)
	}
	return nil
}

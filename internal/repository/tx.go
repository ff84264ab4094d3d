package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB and *sql.Tx the stores use.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runInTx commits when fn returns nil and rolls back otherwise.
func runInTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txFn func(ctx context.Context, tx pgx.Tx) error

// inTx runs fn in its own transaction: commit when fn succeeds, rollback on
// any error. The pooled connection is released when the tx ends.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn txFn) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

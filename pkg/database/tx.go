package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a transient lock-contention failure
// that is safe to retry as a whole transaction.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}

// RunInTx executes fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. Transient failures restart the whole
// transaction up to retries additional times. fn always runs at least once.
func RunInTx(ctx context.Context, db PgxIface, retries int, log *zap.Logger, fn func(tx pgx.Tx) error) error {
	retries = max(retries, 0)

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		err = runOnce(ctx, db, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		log.Warn("Transaction aborted by lock contention, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
		)
	}
	return fmt.Errorf("transaction retries exhausted: %w", err)
}

func runOnce(ctx context.Context, db PgxIface, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Savepoint runs fn in a nested transaction when q can begin one. A failure
// inside fn rolls back only the nested part and leaves the outer transaction usable.
func Savepoint(ctx context.Context, q Querier, fn func(q Querier) error) error {
	beginner, ok := q.(interface {
		Begin(ctx context.Context) (pgx.Tx, error)
	})
	if !ok {
		return fn(q)
	}

	sp, err := beginner.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	if err := sp.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

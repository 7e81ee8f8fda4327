package repository

import (
	"context"
	"database/sql"
)

// runner is the subset of *sql.DB and *sql.Tx the repositories use.
// Every repository method resolves its runner through the request
// context, so the same method works inside and outside a transaction.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txKey struct{}

// WithTx runs fn inside a database transaction.  The transaction is
// carried on the derived context; repository methods called with that
// context automatically participate in it.  fn returning an error
// rolls the transaction back, otherwise it is committed.  Nested
// calls reuse the transaction already on the context.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// resolve returns the transaction from ctx when present, else db.
func resolve(ctx context.Context, db *sql.DB) runner {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

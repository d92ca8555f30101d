package db

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx stores a transaction in the context for repository methods to reuse.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns a transaction from context when available.
func TxFromContext(ctx context.Context) *sql.Tx {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

type TxProvider interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// RunInTx runs fn in a single transaction when s can provide one, and
// directly otherwise. The transaction commits only when fn returns nil.
func RunInTx(ctx context.Context, s Store, fn func(ctx context.Context) error) error {
	tp, ok := s.(TxProvider)
	if !ok || TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := tp.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

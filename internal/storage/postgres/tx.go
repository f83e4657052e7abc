package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"community-launchpad/internal/idhash"
	"community-launchpad/internal/storage"
)

// txKey carries the active pgx.Tx in a context.
type txKey struct{}

// Compile-time interface check.
var _ storage.Transactor = (*Pool)(nil)

// InTx runs fn inside a transaction. The transaction is carried in the
// context handed to fn, so store calls made with that context join it.
// Nested calls join the enclosing transaction rather than opening a new one.
func (p *Pool) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	tx, err := p.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// LockToken takes a transaction-scoped advisory lock keyed by the token
// address, serializing concurrent graduation checks for the same token
// across all process instances. Released automatically at transaction end.
func (p *Pool) LockToken(ctx context.Context, tokenAddress string) error {
	tx := txFrom(ctx)
	if tx == nil {
		return fmt.Errorf("token lock requires an active transaction")
	}

	key := idhash.TokenLockKey(tokenAddress)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, key); err != nil {
		return fmt.Errorf("advisory lock token %s: %w", tokenAddress, err)
	}
	return nil
}

// txFrom extracts the active transaction from a context, if any.
func txFrom(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// querier returns the context's transaction when present, otherwise the pool.
func (p *Pool) querier(ctx context.Context) Querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return p.Pool
}

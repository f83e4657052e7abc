// Package memory provides in-memory implementations of the storage
// interfaces for tests and the --use-memory mode.
package memory

import (
	"context"
	"sync"

	"community-launchpad/internal/storage"
)

// Transactor is an in-memory storage.Transactor. A single mutex serializes
// transactions, which also makes per-token locking trivially satisfied:
// no two transactions ever run concurrently.
type Transactor struct {
	mu sync.Mutex
}

// NewTransactor creates a new in-memory transactor.
func NewTransactor() *Transactor {
	return &Transactor{}
}

// Compile-time interface check.
var _ storage.Transactor = (*Transactor)(nil)

// nestedKey marks a context as already inside a transaction.
type nestedKey struct{}

// InTx serializes fn against all other transactions. There is no rollback:
// memory stores apply writes immediately, which is acceptable for the logic
// tests this backend exists for.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(nestedKey{}) != nil {
		return fn(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(context.WithValue(ctx, nestedKey{}, struct{}{}))
}

// LockToken is a no-op: InTx already serializes all transactions.
func (t *Transactor) LockToken(ctx context.Context, tokenAddress string) error {
	return nil
}

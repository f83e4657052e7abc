package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_NestedJoinsEnclosing(t *testing.T) {
	tx := NewTransactor()

	// A nested InTx must not deadlock on the serialization mutex.
	err := tx.InTx(context.Background(), func(ctx context.Context) error {
		return tx.InTx(ctx, func(ctx context.Context) error {
			return tx.LockToken(ctx, "0xtoken")
		})
	})
	require.NoError(t, err)
}

func TestTransactor_SerializesTransactions(t *testing.T) {
	tx := NewTransactor()

	inside := 0
	maxInside := 0
	var check sync.Mutex

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tx.InTx(context.Background(), func(ctx context.Context) error {
				check.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				check.Unlock()

				check.Lock()
				inside--
				check.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside)
}

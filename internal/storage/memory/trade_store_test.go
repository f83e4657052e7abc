package memory

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

func testTrade(hash string, ts int64) *domain.LaunchpadTrade {
	return &domain.LaunchpadTrade{
		EthChainID:           8453,
		TransactionHash:      hash,
		TokenAddress:         "0xtoken",
		TraderAddress:        "0xtrader",
		IsBuy:                true,
		CommunityTokenAmount: big.NewInt(1_000_000_000_000_000_000),
		Price:                0.002,
		FloatingSupply:       big.NewInt(5_000_000),
		Timestamp:            ts,
	}
}

func TestTradeStore_RecordIsIdempotent(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	created, err := store.Record(ctx, testTrade("0xaaa", 100))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Record(ctx, testTrade("0xaaa", 100))
	require.NoError(t, err)
	assert.False(t, created)

	trades, err := store.ListByToken(ctx, "0xtoken")
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestTradeStore_SameHashDifferentChain(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	first := testTrade("0xaaa", 100)
	second := testTrade("0xaaa", 100)
	second.EthChainID = 1

	created, err := store.Record(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.Record(ctx, second)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestTradeStore_GetByHash(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	_, err := store.Record(ctx, testTrade("0xaaa", 100))
	require.NoError(t, err)

	got, err := store.GetByHash(ctx, 8453, "0xaaa")
	require.NoError(t, err)
	assert.Equal(t, "0xtoken", got.TokenAddress)
	assert.Equal(t, 0, got.CommunityTokenAmount.Cmp(big.NewInt(1_000_000_000_000_000_000)))

	_, err = store.GetByHash(ctx, 8453, "0xmissing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeStore_ListByTokenOrdering(t *testing.T) {
	store := NewTradeStore()
	ctx := context.Background()

	for _, tr := range []*domain.LaunchpadTrade{
		testTrade("0xccc", 300),
		testTrade("0xaaa", 100),
		testTrade("0xbbb", 200),
	} {
		_, err := store.Record(ctx, tr)
		require.NoError(t, err)
	}

	trades, err := store.ListByToken(ctx, "0xtoken")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, "0xaaa", trades[0].TransactionHash)
	assert.Equal(t, "0xbbb", trades[1].TransactionHash)
	assert.Equal(t, "0xccc", trades[2].TransactionHash)
}

package clickhouse_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage/clickhouse"
)

func TestTradeHistoryStore_InsertAndList(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewTradeHistoryStore(conn)
	ctx := context.Background()

	points := []*domain.TradeHistoryPoint{
		{TokenAddress: "0xtoken", EthChainID: 8453, TimestampMs: 1700000300000, Price: 0.003, TokenAmount: 3, IsBuy: false},
		{TokenAddress: "0xtoken", EthChainID: 8453, TimestampMs: 1700000100000, Price: 0.001, TokenAmount: 1, IsBuy: true},
		{TokenAddress: "0xtoken", EthChainID: 8453, TimestampMs: 1700000200000, Price: 0.002, TokenAmount: 2, IsBuy: true},
	}
	for _, p := range points {
		require.NoError(t, store.Insert(ctx, p))
	}

	got, err := store.ListByToken(ctx, "0xtoken", 8453)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by timestamp regardless of insert order.
	assert.Equal(t, int64(1700000100000), got[0].TimestampMs)
	assert.Equal(t, int64(1700000200000), got[1].TimestampMs)
	assert.Equal(t, int64(1700000300000), got[2].TimestampMs)

	assert.Equal(t, 0.001, got[0].Price)
	assert.Equal(t, 1.0, got[0].TokenAmount)
	assert.True(t, got[0].IsBuy)
	assert.False(t, got[2].IsBuy)
}

func TestTradeHistoryStore_FiltersByTokenAndChain(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := clickhouse.NewTradeHistoryStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &domain.TradeHistoryPoint{
		TokenAddress: "0xtoken", EthChainID: 8453, TimestampMs: 1700000100000, Price: 0.001, TokenAmount: 1, IsBuy: true,
	}))
	require.NoError(t, store.Insert(ctx, &domain.TradeHistoryPoint{
		TokenAddress: "0xother", EthChainID: 8453, TimestampMs: 1700000200000, Price: 0.002, TokenAmount: 2, IsBuy: true,
	}))
	require.NoError(t, store.Insert(ctx, &domain.TradeHistoryPoint{
		TokenAddress: "0xtoken", EthChainID: 1, TimestampMs: 1700000300000, Price: 0.003, TokenAmount: 3, IsBuy: true,
	}))

	got, err := store.ListByToken(ctx, "0xtoken", 8453)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0xtoken", got[0].TokenAddress)
	assert.Equal(t, int64(8453), got[0].EthChainID)

	got, err = store.ListByToken(ctx, "0xmissing", 8453)
	require.NoError(t, err)
	assert.Empty(t, got)
}

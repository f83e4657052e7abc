package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore.
type TradeStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string]*domain.LaunchpadTrade // keyed by chain_id|tx_hash
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{nextID: 1, data: make(map[string]*domain.LaunchpadTrade)}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

func tradeKey(ethChainID int64, txHash string) string {
	return fmt.Sprintf("%d|%s", ethChainID, txHash)
}

// Record inserts a trade unless its natural key already exists.
func (s *TradeStore) Record(_ context.Context, t *domain.LaunchpadTrade) (bool, error) {
	if t == nil || t.TransactionHash == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := tradeKey(t.EthChainID, t.TransactionHash)
	if _, exists := s.data[key]; exists {
		return false, nil
	}

	t.ID = s.nextID
	s.nextID++
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	cp := *t
	s.data[key] = &cp
	return true, nil
}

// GetByHash retrieves a trade by its natural key.
func (s *TradeStore) GetByHash(_ context.Context, ethChainID int64, txHash string) (*domain.LaunchpadTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[tradeKey(ethChainID, txHash)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// ListByToken retrieves all trades for a token, ordered by timestamp ASC.
func (s *TradeStore) ListByToken(_ context.Context, tokenAddress string) ([]*domain.LaunchpadTrade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var trades []*domain.LaunchpadTrade
	for _, t := range s.data {
		if t.TokenAddress == tokenAddress {
			cp := *t
			trades = append(trades, &cp)
		}
	}

	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Timestamp != trades[j].Timestamp {
			return trades[i].Timestamp < trades[j].Timestamp
		}
		return trades[i].ID < trades[j].ID
	})
	return trades, nil
}

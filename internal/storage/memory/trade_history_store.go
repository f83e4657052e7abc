package memory

import (
	"context"
	"sort"
	"sync"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TradeHistoryStore is an in-memory implementation of
// storage.TradeHistoryStore.
type TradeHistoryStore struct {
	mu     sync.RWMutex
	points []*domain.TradeHistoryPoint
}

// NewTradeHistoryStore creates a new in-memory trade history store.
func NewTradeHistoryStore() *TradeHistoryStore {
	return &TradeHistoryStore{}
}

// Compile-time interface check.
var _ storage.TradeHistoryStore = (*TradeHistoryStore)(nil)

// Insert appends one history point.
func (s *TradeHistoryStore) Insert(_ context.Context, p *domain.TradeHistoryPoint) error {
	if p == nil || p.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.points = append(s.points, &cp)
	return nil
}

// ListByToken retrieves history for a token ordered by timestamp ASC.
func (s *TradeHistoryStore) ListByToken(_ context.Context, tokenAddress string, ethChainID int64) ([]*domain.TradeHistoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TradeHistoryPoint
	for _, p := range s.points {
		if p.TokenAddress == tokenAddress && p.EthChainID == ethChainID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimestampMs < out[j].TimestampMs })
	return out, nil
}

package memory

import (
	"context"
	"sync"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// ChainNodeStore is an in-memory implementation of storage.ChainNodeStore.
type ChainNodeStore struct {
	mu   sync.RWMutex
	data map[int64]*domain.ChainNode
}

// NewChainNodeStore creates a new in-memory chain node store.
func NewChainNodeStore() *ChainNodeStore {
	return &ChainNodeStore{data: make(map[int64]*domain.ChainNode)}
}

// Compile-time interface check.
var _ storage.ChainNodeStore = (*ChainNodeStore)(nil)

// Create adds a chain node. Returns ErrDuplicateKey if the chain id exists.
func (s *ChainNodeStore) Create(_ context.Context, n *domain.ChainNode) error {
	if n == nil || n.EthChainID <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[n.EthChainID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *n
	s.data[n.EthChainID] = &cp
	return nil
}

// GetByEthChainID retrieves the node for a chain id.
func (s *ChainNodeStore) GetByEthChainID(_ context.Context, ethChainID int64) (*domain.ChainNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.data[ethChainID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

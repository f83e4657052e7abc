package memory

import (
	"context"
	"math/big"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LaunchpadToken // keyed by token address
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{data: make(map[string]*domain.LaunchpadToken)}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Create adds a new token. Returns ErrDuplicateKey if the address exists.
func (s *TokenStore) Create(_ context.Context, t *domain.LaunchpadToken) error {
	if t == nil || t.TokenAddress == "" || t.LaunchpadLiquidity == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TokenAddress]; exists {
		return storage.ErrDuplicateKey
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	cp := *t
	cp.LaunchpadLiquidity = new(big.Int).Set(t.LaunchpadLiquidity)
	s.data[t.TokenAddress] = &cp
	return nil
}

// GetByAddress retrieves a token. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(_ context.Context, tokenAddress string) (*domain.LaunchpadToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[tokenAddress]
	if !ok {
		return nil, storage.ErrNotFound
	}

	cp := *t
	cp.LaunchpadLiquidity = new(big.Int).Set(t.LaunchpadLiquidity)
	return &cp, nil
}

// MarkLiquidityTransferred flips the liquidity_transferred flag, returning
// true only for the call that performs the false->true transition.
func (s *TokenStore) MarkLiquidityTransferred(_ context.Context, tokenAddress string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data[tokenAddress]
	if !ok || t.LiquidityTransferred {
		return false, nil
	}
	t.LiquidityTransferred = true
	return true, nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// CommunityStore is an in-memory implementation of storage.CommunityStore.
type CommunityStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Community // keyed by community id
}

// NewCommunityStore creates a new in-memory community store.
func NewCommunityStore() *CommunityStore {
	return &CommunityStore{data: make(map[string]*domain.Community)}
}

// Compile-time interface check.
var _ storage.CommunityStore = (*CommunityStore)(nil)

// Create adds a new community. Returns ErrDuplicateKey if the id exists.
func (s *CommunityStore) Create(_ context.Context, c *domain.Community) error {
	if c == nil || c.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ID]; exists {
		return storage.ErrDuplicateKey
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	cp := *c
	s.data[c.ID] = &cp
	return nil
}

// GetByID retrieves a community. Returns ErrNotFound if not exists.
func (s *CommunityStore) GetByID(_ context.Context, id string) (*domain.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// GetByNamespace retrieves the community owning an on-chain namespace.
func (s *CommunityStore) GetByNamespace(_ context.Context, namespace string) (*domain.Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.data {
		if c.Namespace != nil && *c.Namespace == namespace {
			cp := *c
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

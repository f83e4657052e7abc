package memory

import (
	"context"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// UserStore is an in-memory implementation of storage.UserStore.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{nextID: 1, data: make(map[int64]*domain.User)}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// Create adds a new user and sets its ID.
func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	if u == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextID
	s.nextID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	cp := *u
	s.data[u.ID] = &cp
	return nil
}

// GetByID retrieves a user. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// GetForUpdate retrieves a user. Row locking is not needed in memory: the
// memory transactor serializes transactions.
func (s *UserStore) GetForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

// UpdateTier sets the user's verification tier.
func (s *UserStore) UpdateTier(_ context.Context, id int64, tier domain.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.data[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Tier = tier
	return nil
}

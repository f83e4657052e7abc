package memory

import (
	"context"
	"sync"

	"community-launchpad/internal/storage"
)

// ActivityStore is an in-memory implementation of storage.ActivityStore.
// Tests set the activity flag per user directly.
type ActivityStore struct {
	mu   sync.RWMutex
	data map[int64]bool
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{data: make(map[int64]bool)}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// SetQualifyingTransaction sets whether a user counts as having qualifying
// on-chain activity.
func (s *ActivityStore) SetQualifyingTransaction(userID int64, has bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = has
}

// HasQualifyingTransaction reports the configured activity flag.
func (s *ActivityStore) HasQualifyingTransaction(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[userID], nil
}

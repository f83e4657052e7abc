package memory

import (
	"context"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// OutboxStore is an in-memory implementation of storage.OutboxStore.
type OutboxStore struct {
	mu     sync.RWMutex
	nextID int64
	events []*domain.OutboxEvent
}

// NewOutboxStore creates a new in-memory outbox store.
func NewOutboxStore() *OutboxStore {
	return &OutboxStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.OutboxStore = (*OutboxStore)(nil)

// Append adds an event.
func (s *OutboxStore) Append(_ context.Context, e *domain.OutboxEvent) error {
	if e == nil || e.EventName == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	cp := *e
	s.events = append(s.events, &cp)
	return nil
}

// ListPending retrieves up to limit unrelayed events, oldest first.
func (s *OutboxStore) ListPending(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*domain.OutboxEvent
	for _, e := range s.events {
		if e.RelayedAt != nil {
			continue
		}
		cp := *e
		pending = append(pending, &cp)
		if limit > 0 && len(pending) == limit {
			break
		}
	}
	return pending, nil
}

// MarkRelayed stamps events as published.
func (s *OutboxStore) MarkRelayed(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	idSet := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	for _, e := range s.events {
		if _, ok := idSet[e.ID]; ok && e.RelayedAt == nil {
			t := now
			e.RelayedAt = &t
		}
	}
	return nil
}

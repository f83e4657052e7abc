package postgres

import (
	"context"
	"fmt"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// OutboxStore implements storage.OutboxStore using PostgreSQL. Events are
// appended inside the transaction that performs the state change they
// describe, so an event can never exist without the change or vice versa.
type OutboxStore struct {
	pool *Pool
}

// NewOutboxStore creates a new OutboxStore.
func NewOutboxStore(pool *Pool) *OutboxStore {
	return &OutboxStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutboxStore = (*OutboxStore)(nil)

// Append adds an event.
func (s *OutboxStore) Append(ctx context.Context, e *domain.OutboxEvent) error {
	query := `
		INSERT INTO outbox (event_name, event_payload)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := s.pool.querier(ctx).QueryRow(ctx, query, e.EventName, e.EventPayload).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append outbox event: %w", err)
	}
	return nil
}

// ListPending retrieves up to limit unrelayed events, oldest first.
func (s *OutboxStore) ListPending(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	query := `
		SELECT id, event_name, event_payload, created_at, relayed_at
		FROM outbox
		WHERE relayed_at IS NULL
		ORDER BY id ASC
		LIMIT $1
	`

	rows, err := s.pool.querier(ctx).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	defer rows.Close()

	var events []*domain.OutboxEvent
	for rows.Next() {
		var e domain.OutboxEvent
		if err := rows.Scan(&e.ID, &e.EventName, &e.EventPayload, &e.CreatedAt, &e.RelayedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}

	return events, nil
}

// MarkRelayed stamps events as published.
func (s *OutboxStore) MarkRelayed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.pool.querier(ctx).Exec(ctx,
		`UPDATE outbox SET relayed_at = NOW() WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark outbox events relayed: %w", err)
	}
	return nil
}

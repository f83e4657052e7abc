package postgres

import (
	"context"
	"fmt"

	"community-launchpad/internal/storage"
)

// ActivityStore implements storage.ActivityStore using PostgreSQL.
// A single existence query over the tables that record qualifying on-chain
// actions for any address the user has linked.
type ActivityStore struct {
	pool *Pool
}

// NewActivityStore creates a new ActivityStore.
func NewActivityStore(pool *Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ActivityStore = (*ActivityStore)(nil)

// HasQualifyingTransaction reports whether any address owned by the user has
// created a launchpad token, traded one, traded stake, created a contest
// manager, or created a community namespace. Read-only.
func (s *ActivityStore) HasQualifyingTransaction(ctx context.Context, userID int64) (bool, error) {
	query := `
		WITH user_addresses AS (
			SELECT DISTINCT address FROM addresses WHERE user_id = $1
		)
		SELECT EXISTS (
			SELECT 1 FROM launchpad_trades t
			JOIN user_addresses ua ON ua.address = t.trader_address
		) OR EXISTS (
			SELECT 1 FROM launchpad_tokens tok
			JOIN user_addresses ua ON ua.address = tok.creator_address
		) OR EXISTS (
			SELECT 1 FROM stake_transactions st
			JOIN user_addresses ua ON ua.address = st.address
		) OR EXISTS (
			SELECT 1 FROM contest_managers cm
			JOIN user_addresses ua ON ua.address = cm.creator_address
		) OR EXISTS (
			SELECT 1 FROM communities c
			JOIN user_addresses ua ON ua.address = c.namespace_creator_address
		)
	`

	var has bool
	if err := s.pool.querier(ctx).QueryRow(ctx, query, userID).Scan(&has); err != nil {
		return false, fmt.Errorf("query qualifying transactions: %w", err)
	}
	return has, nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// UserStore implements storage.UserStore using PostgreSQL.
type UserStore struct {
	pool *Pool
}

// NewUserStore creates a new UserStore.
func NewUserStore(pool *Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Compile-time interface check.
var _ storage.UserStore = (*UserStore)(nil)

// Create adds a new user and sets its ID.
func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (tier, created_at)
		VALUES ($1, $2)
		RETURNING id
	`

	err := s.pool.querier(ctx).QueryRow(ctx, query, int(u.Tier), u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user. Returns ErrNotFound if not exists.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate retrieves a user holding a row-level lock until the enclosing
// transaction ends. FOR NO KEY UPDATE blocks concurrent tier writers without
// blocking inserts that reference the user.
func (s *UserStore) GetForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return s.get(ctx, id, true)
}

func (s *UserStore) get(ctx context.Context, id int64, forUpdate bool) (*domain.User, error) {
	query := `SELECT id, tier, created_at FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR NO KEY UPDATE`
	}

	var u domain.User
	var tier int
	err := s.pool.querier(ctx).QueryRow(ctx, query, id).Scan(&u.ID, &tier, &u.CreatedAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	u.Tier = domain.Tier(tier)

	return &u, nil
}

// UpdateTier sets the user's verification tier.
func (s *UserStore) UpdateTier(ctx context.Context, id int64, tier domain.Tier) error {
	tag, err := s.pool.querier(ctx).Exec(ctx,
		`UPDATE users SET tier = $1 WHERE id = $2`, int(tier), id)
	if err != nil {
		return fmt.Errorf("update user tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

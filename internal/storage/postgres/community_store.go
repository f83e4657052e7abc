package postgres

import (
	"context"
	"fmt"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// CommunityStore implements storage.CommunityStore using PostgreSQL.
type CommunityStore struct {
	pool *Pool
}

// NewCommunityStore creates a new CommunityStore.
func NewCommunityStore(pool *Pool) *CommunityStore {
	return &CommunityStore{pool: pool}
}

// Compile-time interface check.
var _ storage.CommunityStore = (*CommunityStore)(nil)

// Create adds a new community. Returns ErrDuplicateKey if the id exists.
func (s *CommunityStore) Create(ctx context.Context, c *domain.Community) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO communities (id, name, namespace, namespace_creator_address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.querier(ctx).Exec(ctx, query,
		c.ID, c.Name, c.Namespace, c.NamespaceCreatorAddress, c.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert community: %w", err)
	}
	return nil
}

// GetByID retrieves a community. Returns ErrNotFound if not exists.
func (s *CommunityStore) GetByID(ctx context.Context, id string) (*domain.Community, error) {
	return s.getOne(ctx, `WHERE id = $1`, id)
}

// GetByNamespace retrieves the community owning an on-chain namespace.
func (s *CommunityStore) GetByNamespace(ctx context.Context, namespace string) (*domain.Community, error) {
	return s.getOne(ctx, `WHERE namespace = $1`, namespace)
}

func (s *CommunityStore) getOne(ctx context.Context, where string, arg any) (*domain.Community, error) {
	query := `SELECT id, name, namespace, namespace_creator_address, created_at FROM communities ` + where

	var c domain.Community
	err := s.pool.querier(ctx).QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Namespace, &c.NamespaceCreatorAddress, &c.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get community: %w", err)
	}
	return &c, nil
}

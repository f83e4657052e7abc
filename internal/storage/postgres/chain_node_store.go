package postgres

import (
	"context"
	"fmt"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// ChainNodeStore implements storage.ChainNodeStore using PostgreSQL.
type ChainNodeStore struct {
	pool *Pool
}

// NewChainNodeStore creates a new ChainNodeStore.
func NewChainNodeStore(pool *Pool) *ChainNodeStore {
	return &ChainNodeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChainNodeStore = (*ChainNodeStore)(nil)

// Create adds a chain node. Returns ErrDuplicateKey if the chain id exists.
func (s *ChainNodeStore) Create(ctx context.Context, n *domain.ChainNode) error {
	query := `
		INSERT INTO chain_nodes (eth_chain_id, name, url, private_url, launchpad_address)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.querier(ctx).Exec(ctx, query,
		n.EthChainID, n.Name, n.URL, n.PrivateURL, n.LaunchpadAddress)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert chain node: %w", err)
	}
	return nil
}

// GetByEthChainID retrieves the node for a chain id.
func (s *ChainNodeStore) GetByEthChainID(ctx context.Context, ethChainID int64) (*domain.ChainNode, error) {
	query := `
		SELECT eth_chain_id, name, url, private_url, launchpad_address
		FROM chain_nodes
		WHERE eth_chain_id = $1
	`

	var n domain.ChainNode
	err := s.pool.querier(ctx).QueryRow(ctx, query, ethChainID).Scan(
		&n.EthChainID, &n.Name, &n.URL, &n.PrivateURL, &n.LaunchpadAddress,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get chain node: %w", err)
	}
	return &n, nil
}

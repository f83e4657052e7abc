package postgres

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Create adds a new token. Returns ErrDuplicateKey if the address exists.
func (s *TokenStore) Create(ctx context.Context, t *domain.LaunchpadToken) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO launchpad_tokens (
			token_address, namespace, name, symbol, creator_address,
			eth_chain_id, launchpad_liquidity, liquidity_transferred, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.querier(ctx).Exec(ctx, query,
		t.TokenAddress, t.Namespace, t.Name, t.Symbol, t.CreatorAddress,
		t.EthChainID, t.LaunchpadLiquidity.String(), t.LiquidityTransferred, t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByAddress retrieves a token. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(ctx context.Context, tokenAddress string) (*domain.LaunchpadToken, error) {
	query := `
		SELECT token_address, namespace, name, symbol, creator_address,
		       eth_chain_id, launchpad_liquidity::text, liquidity_transferred, created_at
		FROM launchpad_tokens
		WHERE token_address = $1
	`

	var t domain.LaunchpadToken
	var liquidity string
	err := s.pool.querier(ctx).QueryRow(ctx, query, tokenAddress).Scan(
		&t.TokenAddress, &t.Namespace, &t.Name, &t.Symbol, &t.CreatorAddress,
		&t.EthChainID, &liquidity, &t.LiquidityTransferred, &t.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by address: %w", err)
	}

	var ok bool
	if t.LaunchpadLiquidity, ok = new(big.Int).SetString(liquidity, 10); !ok {
		return nil, fmt.Errorf("parse launchpad_liquidity %q", liquidity)
	}

	return &t, nil
}

// MarkLiquidityTransferred flips the liquidity_transferred flag. The WHERE
// clause makes the false->true transition happen exactly once: only the call
// that performs it sees an affected row.
func (s *TokenStore) MarkLiquidityTransferred(ctx context.Context, tokenAddress string) (bool, error) {
	tag, err := s.pool.querier(ctx).Exec(ctx, `
		UPDATE launchpad_tokens
		SET liquidity_transferred = TRUE
		WHERE token_address = $1 AND NOT liquidity_transferred
	`, tokenAddress)
	if err != nil {
		return false, fmt.Errorf("mark liquidity transferred: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

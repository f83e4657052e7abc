package postgres

import (
	"context"
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL. Trades are
// append-only; the unique constraint on (eth_chain_id, transaction_hash)
// guarantees at-most-one row per on-chain transaction.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Wei-scale amounts are stored as NUMERIC(78,0) and moved through the driver
// as decimal strings to avoid float truncation.

// Record inserts a trade unless its natural key already exists. Returns true
// when a new row was created.
func (s *TradeStore) Record(ctx context.Context, t *domain.LaunchpadTrade) (bool, error) {
	query := `
		INSERT INTO launchpad_trades (
			eth_chain_id, transaction_hash, token_address, trader_address,
			is_buy, community_token_amount, price, floating_supply, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (eth_chain_id, transaction_hash) DO NOTHING
		RETURNING id
	`

	err := s.pool.querier(ctx).QueryRow(ctx, query,
		t.EthChainID, t.TransactionHash, t.TokenAddress, t.TraderAddress,
		t.IsBuy, t.CommunityTokenAmount.String(), t.Price,
		t.FloatingSupply.String(), t.Timestamp,
	).Scan(&t.ID)
	if err != nil {
		if isNotFoundError(err) {
			// Conflict: the trade was already recorded.
			return false, nil
		}
		return false, fmt.Errorf("record trade: %w", err)
	}
	return true, nil
}

// GetByHash retrieves a trade by its natural key.
func (s *TradeStore) GetByHash(ctx context.Context, ethChainID int64, txHash string) (*domain.LaunchpadTrade, error) {
	query := tradeSelect + ` WHERE eth_chain_id = $1 AND transaction_hash = $2`

	row := s.pool.querier(ctx).QueryRow(ctx, query, ethChainID, txHash)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by hash: %w", err)
	}
	return t, nil
}

// ListByToken retrieves all trades for a token, ordered by timestamp ASC.
func (s *TradeStore) ListByToken(ctx context.Context, tokenAddress string) ([]*domain.LaunchpadTrade, error) {
	query := tradeSelect + ` WHERE token_address = $1 ORDER BY timestamp ASC, id ASC`

	rows, err := s.pool.querier(ctx).Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("list trades by token: %w", err)
	}
	defer rows.Close()

	var trades []*domain.LaunchpadTrade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}

const tradeSelect = `
	SELECT id, eth_chain_id, transaction_hash, token_address, trader_address,
	       is_buy, community_token_amount::text, price, floating_supply::text,
	       timestamp, created_at
	FROM launchpad_trades`

// scanTrade scans one trade row.
func scanTrade(row pgx.Row) (*domain.LaunchpadTrade, error) {
	var t domain.LaunchpadTrade
	var tokenAmount, floatingSupply string

	err := row.Scan(
		&t.ID, &t.EthChainID, &t.TransactionHash, &t.TokenAddress,
		&t.TraderAddress, &t.IsBuy, &tokenAmount, &t.Price,
		&floatingSupply, &t.Timestamp, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var ok bool
	if t.CommunityTokenAmount, ok = new(big.Int).SetString(tokenAmount, 10); !ok {
		return nil, fmt.Errorf("parse community_token_amount %q", tokenAmount)
	}
	if t.FloatingSupply, ok = new(big.Int).SetString(floatingSupply, 10); !ok {
		return nil, fmt.Errorf("parse floating_supply %q", floatingSupply)
	}

	return &t, nil
}

package clickhouse

import (
	"context"
	"fmt"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// TradeHistoryStore implements storage.TradeHistoryStore using ClickHouse.
// The mirror is best-effort chart data; MergeTree does not enforce
// uniqueness and occasional duplicate points are tolerable for charts.
type TradeHistoryStore struct {
	conn *Conn
}

// NewTradeHistoryStore creates a new TradeHistoryStore.
func NewTradeHistoryStore(conn *Conn) *TradeHistoryStore {
	return &TradeHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeHistoryStore = (*TradeHistoryStore)(nil)

// Insert appends one history point.
func (s *TradeHistoryStore) Insert(ctx context.Context, p *domain.TradeHistoryPoint) error {
	isBuy := uint8(0)
	if p.IsBuy {
		isBuy = 1
	}

	err := s.conn.Exec(ctx, `
		INSERT INTO launchpad_trade_history (
			token_address, eth_chain_id, timestamp_ms, price, token_amount, is_buy
		) VALUES (?, ?, ?, ?, ?, ?)
	`, p.TokenAddress, uint64(p.EthChainID), uint64(p.TimestampMs), p.Price, p.TokenAmount, isBuy)
	if err != nil {
		return fmt.Errorf("insert trade history point: %w", err)
	}
	return nil
}

// ListByToken retrieves history for a token ordered by timestamp ASC.
func (s *TradeHistoryStore) ListByToken(ctx context.Context, tokenAddress string, ethChainID int64) ([]*domain.TradeHistoryPoint, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT token_address, eth_chain_id, timestamp_ms, price, token_amount, is_buy
		FROM launchpad_trade_history
		WHERE token_address = ? AND eth_chain_id = ?
		ORDER BY timestamp_ms ASC
	`, tokenAddress, uint64(ethChainID))
	if err != nil {
		return nil, fmt.Errorf("query trade history: %w", err)
	}
	defer rows.Close()

	var points []*domain.TradeHistoryPoint
	for rows.Next() {
		var p domain.TradeHistoryPoint
		var chainID, tsMs uint64
		var isBuy uint8

		if err := rows.Scan(&p.TokenAddress, &chainID, &tsMs, &p.Price, &p.TokenAmount, &isBuy); err != nil {
			return nil, fmt.Errorf("scan trade history row: %w", err)
		}
		p.EthChainID = int64(chainID)
		p.TimestampMs = int64(tsMs)
		p.IsBuy = isBuy == 1

		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade history rows: %w", err)
	}

	return points, nil
}

package domain

import (
	"math/big"
	"time"
)

// Trade side constants.
const (
	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// LaunchpadTrade is an immutable record of one on-chain trade event.
// (eth_chain_id, transaction_hash) is the natural key; redelivery of the same
// event never creates a second row.
// Corresponds to launchpad_trades table in PostgreSQL.
type LaunchpadTrade struct {
	ID                   int64    // BIGSERIAL primary key
	EthChainID           int64    // chain the trade happened on
	TransactionHash      string   // transaction hash, lowercase
	TokenAddress         string   // traded token, lowercase
	TraderAddress        string   // trader, lowercase
	IsBuy                bool     // buy vs sell
	CommunityTokenAmount *big.Int // token amount, wei scale
	Price                float64  // eth per token at execution
	FloatingSupply       *big.Int // curve floating supply after the trade
	Timestamp            int64    // block timestamp, Unix seconds
	CreatedAt            time.Time
}

// Side returns "buy" or "sell".
func (t *LaunchpadTrade) Side() string {
	if t.IsBuy {
		return TradeSideBuy
	}
	return TradeSideSell
}

package domain

// TradeHistoryPoint is one point of the per-token market history mirrored to
// ClickHouse for charting. Written best-effort after a trade commits; the
// Postgres trade record is the source of truth.
type TradeHistoryPoint struct {
	TokenAddress string  // token, lowercase
	EthChainID   int64   // chain id
	TimestampMs  int64   // block timestamp in milliseconds
	Price        float64 // execution price, eth per token
	TokenAmount  float64 // traded token amount in whole tokens
	IsBuy        bool
}

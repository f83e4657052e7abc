package ingestion

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"community-launchpad/internal/domain"
)

// wireTradeEvent is the JSON shape of a trade event on the feed. Amount
// fields arrive as decimal strings, bare JSON numbers, or 0x-prefixed hex
// depending on the emitter; they are parsed into big integers here.
type wireTradeEvent struct {
	EthChainID           int64           `json:"eth_chain_id"`
	TransactionHash      string          `json:"transaction_hash"`
	TokenAddress         string          `json:"token_address"`
	TraderAddress        string          `json:"trader_address"`
	IsBuy                bool            `json:"is_buy"`
	EthAmount            json.RawMessage `json:"eth_amount"`
	CommunityTokenAmount json.RawMessage `json:"community_token_amount"`
	FloatingSupply       json.RawMessage `json:"floating_supply"`
	BlockTimestamp       int64           `json:"block_timestamp"`
}

// DecodeTradeEvent parses one feed message into a domain trade event.
// The result is not validated; callers run Validate at the boundary.
func DecodeTradeEvent(data []byte) (*domain.TradeEvent, error) {
	var w wireTradeEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode trade event: %w", err)
	}

	ethAmount, err := parseBigInt(w.EthAmount)
	if err != nil {
		return nil, fmt.Errorf("decode eth_amount: %w", err)
	}
	tokenAmount, err := parseBigInt(w.CommunityTokenAmount)
	if err != nil {
		return nil, fmt.Errorf("decode community_token_amount: %w", err)
	}
	floatingSupply, err := parseBigInt(w.FloatingSupply)
	if err != nil {
		return nil, fmt.Errorf("decode floating_supply: %w", err)
	}

	return &domain.TradeEvent{
		EthChainID:           w.EthChainID,
		TransactionHash:      w.TransactionHash,
		TokenAddress:         w.TokenAddress,
		TraderAddress:        w.TraderAddress,
		IsBuy:                w.IsBuy,
		EthAmount:            ethAmount,
		CommunityTokenAmount: tokenAmount,
		FloatingSupply:       floatingSupply,
		BlockTimestamp:       w.BlockTimestamp,
	}, nil
}

// parseBigInt parses a raw JSON value holding a wei-scale integer. Accepts a
// bare number, a quoted decimal string, or a quoted 0x hex string. Returns
// nil for absent or null fields so Validate can report them.
func parseBigInt(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return nil, nil
	}

	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("not an integer: %q", s)
	}
	return n, nil
}

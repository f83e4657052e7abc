package domain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidEvent is returned when an inbound trade event fails validation.
// Invalid events are rejected before any state is written.
var ErrInvalidEvent = errors.New("invalid trade event")

// TradeEvent is a schema-validated trade event consumed from the chain-events
// feed. Amount fields are wei-scale integers.
type TradeEvent struct {
	EthChainID           int64
	TransactionHash      string
	TokenAddress         string
	TraderAddress        string
	IsBuy                bool
	EthAmount            *big.Int
	CommunityTokenAmount *big.Int
	FloatingSupply       *big.Int
	BlockTimestamp       int64 // Unix seconds
}

// Normalize lowercases address fields in place. Chain event sources are not
// consistent about address casing; storage keys are always lowercase.
func (e *TradeEvent) Normalize() {
	e.TransactionHash = strings.ToLower(e.TransactionHash)
	e.TokenAddress = strings.ToLower(e.TokenAddress)
	e.TraderAddress = strings.ToLower(e.TraderAddress)
}

// Validate checks that all required fields are present and well-formed.
// A zero token amount is rejected here so the price computation can never
// divide by zero.
func (e *TradeEvent) Validate() error {
	if e.EthChainID <= 0 {
		return fmt.Errorf("%w: missing eth_chain_id", ErrInvalidEvent)
	}
	if e.TransactionHash == "" {
		return fmt.Errorf("%w: missing transaction_hash", ErrInvalidEvent)
	}
	if e.TokenAddress == "" {
		return fmt.Errorf("%w: missing token_address", ErrInvalidEvent)
	}
	if e.TraderAddress == "" {
		return fmt.Errorf("%w: missing trader_address", ErrInvalidEvent)
	}
	if e.EthAmount == nil || e.EthAmount.Sign() < 0 {
		return fmt.Errorf("%w: missing eth_amount", ErrInvalidEvent)
	}
	if e.CommunityTokenAmount == nil {
		return fmt.Errorf("%w: missing community_token_amount", ErrInvalidEvent)
	}
	if e.CommunityTokenAmount.Sign() == 0 {
		return fmt.Errorf("%w: community_token_amount is zero", ErrInvalidEvent)
	}
	if e.CommunityTokenAmount.Sign() < 0 {
		return fmt.Errorf("%w: negative community_token_amount", ErrInvalidEvent)
	}
	if e.FloatingSupply == nil || e.FloatingSupply.Sign() < 0 {
		return fmt.Errorf("%w: missing floating_supply", ErrInvalidEvent)
	}
	if e.BlockTimestamp <= 0 {
		return fmt.Errorf("%w: missing block_timestamp", ErrInvalidEvent)
	}
	return nil
}

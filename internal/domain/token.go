package domain

import (
	"math/big"
	"time"
)

// LaunchpadToken represents a bonding-curve-backed token.
// Corresponds to launchpad_tokens table in PostgreSQL.
type LaunchpadToken struct {
	TokenAddress         string   // hex address, lowercase, primary key
	Namespace            string   // on-chain namespace owning the token
	Name                 string   // token name
	Symbol               string   // token symbol
	CreatorAddress       string   // address that created the token
	EthChainID           int64    // chain the token lives on
	LaunchpadLiquidity   *big.Int // total curve liquidity, wei scale
	LiquidityTransferred bool     // set exactly once when the curve graduates
	CreatedAt            time.Time
}

// RemainingLiquidity returns the curve liquidity still available given the
// current floating supply. Can go negative when supply overshoots.
func (t *LaunchpadToken) RemainingLiquidity(floatingSupply *big.Int) *big.Int {
	return new(big.Int).Sub(t.LaunchpadLiquidity, floatingSupply)
}

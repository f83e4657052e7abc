package projector

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// weiDecimals is the native decimal scale of launchpad tokens and eth.
const weiDecimals = 18

// computePrice returns the execution price in eth per whole token. Both
// amounts are wei scale, so the scales cancel and the ratio is taken at
// 18-digit precision. Callers must reject a zero token amount first.
func computePrice(ethAmount, tokenAmount *big.Int) float64 {
	eth := decimal.NewFromBigInt(ethAmount, 0)
	tokens := decimal.NewFromBigInt(tokenAmount, 0)
	return eth.DivRound(tokens, weiDecimals).InexactFloat64()
}

// wholeTokens converts a wei-scale amount to whole tokens for chart data.
func wholeTokens(amount *big.Int) float64 {
	return decimal.NewFromBigInt(amount, -weiDecimals).InexactFloat64()
}

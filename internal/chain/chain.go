// Package chain talks to EVM chains: the funded-on-exchange check and the
// operator-signed liquidity transfer that graduates a bonding curve.
package chain

import (
	"context"
	"errors"
)

// ErrMissingOperatorKey is returned when a liquidity transfer is requested
// without an operator private key configured. This is a fatal
// misconfiguration, not a retryable failure.
var ErrMissingOperatorKey = errors.New("operator private key not configured")

// Client defines the on-chain operations the graduation flow needs.
type Client interface {
	// IsFundedOnExchange reports whether the token's liquidity has already
	// been moved to the external exchange. Used as a safety net against a
	// transfer that succeeded on-chain but was never persisted.
	IsFundedOnExchange(ctx context.Context, tokenAddress string) (bool, error)

	// TransferLiquidity moves the token's curve liquidity to the external
	// exchange, signing with the operator key. Returns the transaction hash.
	TransferLiquidity(ctx context.Context, tokenAddress string) (string, error)

	// Close releases the underlying connection.
	Close()
}

// ClientFactory builds a Client for one chain node. The projector processes
// events from multiple chains; clients are created per node endpoint.
type ClientFactory func(ctx context.Context, rpcURL, launchpadAddress string) (Client, error)

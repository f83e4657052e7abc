package stub

import (
	"context"
	"sync"

	"community-launchpad/internal/chain"
)

// Client implements chain.Client for testing. Funded state is configured
// per token; transfers are recorded.
type Client struct {
	mu sync.Mutex

	Funded      map[string]bool // token address -> already funded on exchange
	Transfers   []string        // token addresses transferred, in order
	TransferErr error           // returned by TransferLiquidity when set
	FundedErr   error           // returned by IsFundedOnExchange when set
}

// NewClient creates a new stub chain client.
func NewClient() *Client {
	return &Client{Funded: make(map[string]bool)}
}

// Compile-time interface check.
var _ chain.Client = (*Client)(nil)

// IsFundedOnExchange reports the configured funded state.
func (c *Client) IsFundedOnExchange(_ context.Context, tokenAddress string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.FundedErr != nil {
		return false, c.FundedErr
	}
	return c.Funded[tokenAddress], nil
}

// TransferLiquidity records the transfer and marks the token funded.
func (c *Client) TransferLiquidity(_ context.Context, tokenAddress string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.TransferErr != nil {
		return "", c.TransferErr
	}
	c.Transfers = append(c.Transfers, tokenAddress)
	c.Funded[tokenAddress] = true
	return "0xstubtransfer", nil
}

// Close is a no-op.
func (c *Client) Close() {}

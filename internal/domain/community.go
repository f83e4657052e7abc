package domain

import "time"

// Community represents a governance community. A community backed by an
// on-chain namespace can have launchpad tokens associated with it.
// Corresponds to communities table in PostgreSQL.
type Community struct {
	ID                      string  // slug primary key
	Name                    string  // display name
	Namespace               *string // on-chain namespace, nil for off-chain communities
	NamespaceCreatorAddress *string // address that created the namespace on-chain
	CreatedAt               time.Time
}

// ChainNode is an EVM endpoint for one chain.
// Corresponds to chain_nodes table in PostgreSQL.
type ChainNode struct {
	EthChainID       int64  // chain id, primary key
	Name             string // human-readable chain name
	URL              string // public RPC endpoint
	PrivateURL       string // operator RPC endpoint used for writes
	LaunchpadAddress string // launchpad (bonding curve) contract address
}

// RPCEndpoint returns the endpoint to use for on-chain calls, preferring the
// private one when configured.
func (n *ChainNode) RPCEndpoint() string {
	if n.PrivateURL != "" {
		return n.PrivateURL
	}
	return n.URL
}

package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Default configuration values.
const (
	DefaultTransferGasLimit = uint64(600_000)
)

// Launchpad contract function signatures.
const (
	sigFundedTokens      = "fundedTokens(address)"
	sigTransferLiquidity = "transferLiquidity(address)"
)

// EthClient implements Client against an EVM JSON-RPC endpoint.
type EthClient struct {
	client      *ethclient.Client
	launchpad   common.Address // launchpad (bonding curve) contract
	operatorKey string         // hex private key, may be empty for read-only use
	gasLimit    uint64
}

// Option configures EthClient.
type Option func(*EthClient)

// WithOperatorKey sets the hex-encoded operator private key used to sign
// liquidity transfers.
func WithOperatorKey(key string) Option {
	return func(c *EthClient) {
		c.operatorKey = key
	}
}

// WithGasLimit sets the gas limit for liquidity transfer transactions.
func WithGasLimit(limit uint64) Option {
	return func(c *EthClient) {
		c.gasLimit = limit
	}
}

// NewEthClient dials an EVM endpoint for the given launchpad contract.
func NewEthClient(ctx context.Context, rpcURL, launchpadAddress string, opts ...Option) (*EthClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial evm endpoint: %w", err)
	}

	c := &EthClient{
		client:    client,
		launchpad: common.HexToAddress(launchpadAddress),
		gasLimit:  DefaultTransferGasLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Compile-time interface check.
var _ Client = (*EthClient)(nil)

// IsFundedOnExchange calls fundedTokens(token) on the launchpad contract.
func (c *EthClient) IsFundedOnExchange(ctx context.Context, tokenAddress string) (bool, error) {
	data := packAddressCall(sigFundedTokens, common.HexToAddress(tokenAddress))

	out, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &c.launchpad,
		Data: data,
	}, nil)
	if err != nil {
		return false, fmt.Errorf("call %s: %w", sigFundedTokens, err)
	}
	if len(out) == 0 {
		return false, nil
	}

	return new(big.Int).SetBytes(out).Sign() != 0, nil
}

// TransferLiquidity submits transferLiquidity(token) signed with the
// operator key and waits for the transaction to be mined.
func (c *EthClient) TransferLiquidity(ctx context.Context, tokenAddress string) (string, error) {
	if c.operatorKey == "" {
		return "", ErrMissingOperatorKey
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.operatorKey, "0x"))
	if err != nil {
		return "", fmt.Errorf("parse operator key: %w", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("get chain id: %w", err)
	}
	nonce, err := c.client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.launchpad,
		Gas:      c.gasLimit,
		GasPrice: gasPrice,
		Data:     packAddressCall(sigTransferLiquidity, common.HexToAddress(tokenAddress)),
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return "", fmt.Errorf("sign transfer: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transfer: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, c.client, signed)
	if err != nil {
		return "", fmt.Errorf("wait for transfer %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transfer %s reverted", signed.Hash().Hex())
	}

	return signed.Hash().Hex(), nil
}

// Close releases the underlying connection.
func (c *EthClient) Close() {
	c.client.Close()
}

// packAddressCall builds calldata for a single-address-argument function:
// 4-byte keccak selector followed by the address left-padded to 32 bytes.
func packAddressCall(signature string, addr common.Address) []byte {
	selector := crypto.Keccak256([]byte(signature))[:4]
	return append(selector, common.LeftPadBytes(addr.Bytes(), 32)...)
}

// Package graduation decides, after each trade, whether a bonding curve has
// crossed its liquidity threshold and performs the one-time transfer that
// moves the token's liquidity to the external exchange.
package graduation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"

	"community-launchpad/internal/chain"
	"community-launchpad/internal/domain"
	"community-launchpad/internal/notify"
	"community-launchpad/internal/storage"
)

// DefaultLiquidityThreshold is the remaining-liquidity level (wei scale)
// below which a curve graduates: 1000 whole tokens.
var DefaultLiquidityThreshold = new(big.Int).Mul(
	big.NewInt(1000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// Handler runs the cap-reached check for one trade.
type Handler struct {
	tx          storage.Transactor
	tokens      storage.TokenStore
	addresses   storage.AddressStore
	communities storage.CommunityStore
	outbox      storage.OutboxStore
	clients     chain.ClientFactory
	notifier    notify.Notifier
	operatorKey string
	threshold   *big.Int
	logger      *log.Logger
}

// Options contains dependencies for creating a Handler.
type Options struct {
	Transactor  storage.Transactor
	Tokens      storage.TokenStore
	Addresses   storage.AddressStore
	Communities storage.CommunityStore
	Outbox      storage.OutboxStore
	Clients     chain.ClientFactory
	Notifier    notify.Notifier
	OperatorKey string   // hex private key; required for transfers
	Threshold   *big.Int // default: DefaultLiquidityThreshold
	Logger      *log.Logger
}

// NewHandler creates a cap-reached handler.
func NewHandler(opts Options) *Handler {
	threshold := opts.Threshold
	if threshold == nil {
		threshold = DefaultLiquidityThreshold
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		tx:          opts.Transactor,
		tokens:      opts.Tokens,
		addresses:   opts.Addresses,
		communities: opts.Communities,
		outbox:      opts.Outbox,
		clients:     opts.Clients,
		notifier:    notifier,
		operatorKey: opts.OperatorKey,
		threshold:   threshold,
		logger:      logger,
	}
}

// HandleTrade notifies community holders of the trade and, when remaining
// liquidity falls below the threshold, performs the one-time liquidity
// transfer.
//
// The transfer path serializes on a per-token advisory lock: the token row
// is re-read and the transferred flag re-checked under the lock, then the
// on-chain transfer (or the funded-on-exchange confirmation of an earlier
// crashed attempt) runs while the lock is held, and the flag update plus
// outbox event commit together. Repeat invocations after graduation are
// no-ops.
func (h *Handler) HandleTrade(ctx context.Context, ev *domain.TradeEvent, node *domain.ChainNode) error {
	token, err := h.tokens.GetByAddress(ctx, ev.TokenAddress)
	if err != nil {
		return fmt.Errorf("look up token %s: %w", ev.TokenAddress, err)
	}

	recipients := h.holderIDs(ctx, token, ev.TraderAddress)
	h.trigger(ctx, &notify.Workflow{
		Key:     notify.WorkflowLaunchpadTrade,
		UserIDs: recipients,
		Data: map[string]any{
			"token_address":    token.TokenAddress,
			"symbol":           token.Symbol,
			"transaction_hash": ev.TransactionHash,
			"is_buy":           ev.IsBuy,
		},
	})

	if token.LiquidityTransferred {
		return nil
	}
	if token.RemainingLiquidity(ev.FloatingSupply).Cmp(h.threshold) >= 0 {
		return nil
	}

	if h.operatorKey == "" {
		return chain.ErrMissingOperatorKey
	}

	client, err := h.clients(ctx, node.RPCEndpoint(), node.LaunchpadAddress)
	if err != nil {
		return fmt.Errorf("create chain client for %d: %w", node.EthChainID, err)
	}
	defer client.Close()

	graduated := false
	err = h.tx.InTx(ctx, func(ctx context.Context) error {
		if err := h.tx.LockToken(ctx, token.TokenAddress); err != nil {
			return err
		}

		fresh, err := h.tokens.GetByAddress(ctx, token.TokenAddress)
		if err != nil {
			return fmt.Errorf("re-read token %s: %w", token.TokenAddress, err)
		}
		if fresh.LiquidityTransferred {
			return nil
		}

		funded, err := client.IsFundedOnExchange(ctx, token.TokenAddress)
		if err != nil {
			return fmt.Errorf("check exchange funding for %s: %w", token.TokenAddress, err)
		}
		if funded {
			// An earlier transfer succeeded on-chain but its flag update
			// never committed. Persist the flag without transferring again.
			h.logger.Printf("token %s already funded on exchange, reconciling flag", token.TokenAddress)
		} else {
			txHash, err := client.TransferLiquidity(ctx, token.TokenAddress)
			if err != nil {
				return fmt.Errorf("transfer liquidity for %s: %w", token.TokenAddress, err)
			}
			h.logger.Printf("transferred liquidity for %s in %s", token.TokenAddress, txHash)
		}

		flipped, err := h.tokens.MarkLiquidityTransferred(ctx, token.TokenAddress)
		if err != nil {
			return err
		}
		if !flipped {
			return fmt.Errorf("token %s transferred flag already set under lock", token.TokenAddress)
		}

		fresh.LiquidityTransferred = true
		payload, err := json.Marshal(map[string]any{"token": fresh})
		if err != nil {
			return fmt.Errorf("marshal graduation payload: %w", err)
		}
		if err := h.outbox.Append(ctx, &domain.OutboxEvent{
			EventName:    domain.EventLaunchpadTokenGraduated,
			EventPayload: payload,
		}); err != nil {
			return err
		}

		graduated = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("graduate token %s: %w", token.TokenAddress, err)
	}

	if graduated {
		h.trigger(ctx, &notify.Workflow{
			Key:     notify.WorkflowLaunchpadCapReached,
			UserIDs: recipients,
			Data: map[string]any{
				"token_address": token.TokenAddress,
				"symbol":        token.Symbol,
			},
		})
	}
	return nil
}

// holderIDs lists the notification recipients: users holding an address in
// the token's community, excluding the trader. Lookup failures degrade to an
// empty recipient set.
func (h *Handler) holderIDs(ctx context.Context, token *domain.LaunchpadToken, traderAddress string) []int64 {
	community, err := h.communities.GetByNamespace(ctx, token.Namespace)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.logger.Printf("look up community for namespace %s: %v", token.Namespace, err)
		}
		return nil
	}

	ids, err := h.addresses.ListCommunityUserIDs(ctx, community.ID, traderAddress)
	if err != nil {
		h.logger.Printf("list holders of %s: %v", community.ID, err)
		return nil
	}
	return ids
}

// trigger fires a workflow best-effort.
func (h *Handler) trigger(ctx context.Context, wf *notify.Workflow) {
	if err := h.notifier.TriggerWorkflow(ctx, wf); err != nil {
		h.logger.Printf("trigger workflow %s: %v", wf.Key, err)
	}
}

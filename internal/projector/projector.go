// Package projector turns chain trade events into durable launchpad state:
// an idempotent trade record, community auto-join for the trader, and a
// chain-verified tier upgrade, all in one transaction.
package projector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
	"community-launchpad/internal/tier"
)

// Projector processes trade events.
type Projector struct {
	tx          storage.Transactor
	trades      storage.TradeStore
	tokens      storage.TokenStore
	addresses   storage.AddressStore
	communities storage.CommunityStore
	tiers       *tier.Engine
	history     storage.TradeHistoryStore // optional chart mirror
	logger      *log.Logger
}

// Options contains dependencies for creating a Projector.
type Options struct {
	Transactor  storage.Transactor
	Trades      storage.TradeStore
	Tokens      storage.TokenStore
	Addresses   storage.AddressStore
	Communities storage.CommunityStore
	Tiers       *tier.Engine
	History     storage.TradeHistoryStore // optional
	Logger      *log.Logger
}

// New creates a projector.
func New(opts Options) *Projector {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Projector{
		tx:          opts.Transactor,
		trades:      opts.Trades,
		tokens:      opts.Tokens,
		addresses:   opts.Addresses,
		communities: opts.Communities,
		tiers:       opts.Tiers,
		history:     opts.History,
		logger:      logger,
	}
}

// ProcessTrade validates and projects one trade event. The trade record,
// community auto-join, and tier upgrade commit atomically; the chart mirror
// is written best-effort after the commit. Redelivered events are tolerated:
// the trade insert is suppressed by its natural key and the other steps are
// idempotent.
func (p *Projector) ProcessTrade(ctx context.Context, ev *domain.TradeEvent) error {
	ev.Normalize()
	if err := ev.Validate(); err != nil {
		return err
	}

	trade := &domain.LaunchpadTrade{
		EthChainID:           ev.EthChainID,
		TransactionHash:      ev.TransactionHash,
		TokenAddress:         ev.TokenAddress,
		TraderAddress:        ev.TraderAddress,
		IsBuy:                ev.IsBuy,
		CommunityTokenAmount: ev.CommunityTokenAmount,
		Price:                computePrice(ev.EthAmount, ev.CommunityTokenAmount),
		FloatingSupply:       ev.FloatingSupply,
		Timestamp:            ev.BlockTimestamp,
	}

	var created bool
	err := p.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.trades.Record(ctx, trade)
		if err != nil {
			return err
		}

		if err := p.autoJoin(ctx, ev); err != nil {
			return err
		}

		return p.tiers.Upgrade(ctx, domain.ByAddress(ev.TraderAddress), domain.TierChainVerified)
	})
	if err != nil {
		return fmt.Errorf("project trade %s: %w", ev.TransactionHash, err)
	}

	if !created {
		p.logger.Printf("trade %s on chain %d already recorded", ev.TransactionHash, ev.EthChainID)
		return nil
	}

	p.mirrorHistory(ctx, ev, trade.Price)
	return nil
}

// autoJoin links the trader to the token's community when the trader is
// already known elsewhere: a community-scoped address row is created,
// carrying the role and ban/ghost flags of the trader's existing record.
// Missing token, community, or trader identity all skip the join silently;
// events routinely reference tokens and traders the platform does not track.
func (p *Projector) autoJoin(ctx context.Context, ev *domain.TradeEvent) error {
	token, err := p.tokens.GetByAddress(ctx, ev.TokenAddress)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up token %s: %w", ev.TokenAddress, err)
	}

	community, err := p.communities.GetByNamespace(ctx, token.Namespace)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up community for namespace %s: %w", token.Namespace, err)
	}

	existing, err := p.addresses.GetLinkedByAddress(ctx, ev.TraderAddress)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("look up trader %s: %w", ev.TraderAddress, err)
	}

	lastActive := time.Unix(ev.BlockTimestamp, 0).UTC()
	joined := &domain.Address{
		CommunityID:  community.ID,
		Address:      existing.Address,
		UserID:       existing.UserID,
		WalletID:     existing.WalletID,
		Role:         existing.Role,
		IsBanned:     existing.IsBanned,
		GhostAddress: existing.GhostAddress,
		LastActive:   &lastActive,
	}

	wasCreated, err := p.addresses.FindOrCreate(ctx, joined)
	if err != nil {
		return fmt.Errorf("auto-join trader %s to %s: %w", ev.TraderAddress, community.ID, err)
	}
	if wasCreated {
		p.logger.Printf("auto-joined %s to community %s", ev.TraderAddress, community.ID)
	}
	return nil
}

// mirrorHistory appends the chart point. Failures are logged, never
// propagated: the Postgres trade row is the source of truth.
func (p *Projector) mirrorHistory(ctx context.Context, ev *domain.TradeEvent, price float64) {
	if p.history == nil {
		return
	}

	point := &domain.TradeHistoryPoint{
		TokenAddress: ev.TokenAddress,
		EthChainID:   ev.EthChainID,
		TimestampMs:  ev.BlockTimestamp * 1000,
		Price:        price,
		TokenAmount:  wholeTokens(ev.CommunityTokenAmount),
		IsBuy:        ev.IsBuy,
	}
	if err := p.history.Insert(ctx, point); err != nil {
		p.logger.Printf("mirror trade history for %s: %v", ev.TransactionHash, err)
	}
}

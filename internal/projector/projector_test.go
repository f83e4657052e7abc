package projector

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage/memory"
	"community-launchpad/internal/tier"
)

func wei(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

type fixture struct {
	users     *memory.UserStore
	addrs     *memory.AddressStore
	comms     *memory.CommunityStore
	tokens    *memory.TokenStore
	trades    *memory.TradeStore
	activity  *memory.ActivityStore
	history   *memory.TradeHistoryStore
	projector *Projector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users:    memory.NewUserStore(),
		comms:    memory.NewCommunityStore(),
		tokens:   memory.NewTokenStore(),
		trades:   memory.NewTradeStore(),
		activity: memory.NewActivityStore(),
		history:  memory.NewTradeHistoryStore(),
	}
	f.addrs = memory.NewAddressStore(f.users)

	ns := "testdao"
	require.NoError(t, f.comms.Create(ctx, &domain.Community{
		ID:        "testdao-community",
		Name:      "Test DAO",
		Namespace: &ns,
	}))
	require.NoError(t, f.comms.Create(ctx, &domain.Community{
		ID:   "home-community",
		Name: "Home",
	}))
	require.NoError(t, f.tokens.Create(ctx, &domain.LaunchpadToken{
		TokenAddress:       "0xtoken",
		Namespace:          ns,
		Symbol:             "TDAO",
		EthChainID:         8453,
		LaunchpadLiquidity: wei(1_000_000),
	}))

	f.projector = New(Options{
		Transactor:  memory.NewTransactor(),
		Trades:      f.trades,
		Tokens:      f.tokens,
		Addresses:   f.addrs,
		Communities: f.comms,
		Tiers: tier.NewEngine(tier.EngineOptions{
			Users:     f.users,
			Addresses: f.addrs,
			Activity:  f.activity,
		}),
		History: f.history,
	})
	return f
}

// addTrader creates a user with a linked address in the home community.
func (f *fixture) addTrader(t *testing.T, address string) *domain.User {
	t.Helper()
	u := &domain.User{Tier: domain.TierUnverified, CreatedAt: time.Now().Add(-30 * 24 * time.Hour)}
	require.NoError(t, f.users.Create(context.Background(), u))
	require.NoError(t, f.addrs.Create(context.Background(), &domain.Address{
		CommunityID: "home-community",
		Address:     address,
		UserID:      &u.ID,
		WalletID:    domain.WalletMetamask,
		Role:        domain.RoleModerator,
	}))
	return u
}

func buyEvent() *domain.TradeEvent {
	return &domain.TradeEvent{
		EthChainID:           8453,
		TransactionHash:      "0xabc123",
		TokenAddress:         "0xtoken",
		TraderAddress:        "0xtrader",
		IsBuy:                true,
		EthAmount:            big.NewInt(2_000_000_000_000_000), // 0.002 eth
		CommunityTokenAmount: wei(1),
		FloatingSupply:       wei(500_000),
		BlockTimestamp:       1700000000,
	}
}

func TestProcessTrade_RecordsTradeWithPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))

	trade, err := f.trades.GetByHash(ctx, 8453, "0xabc123")
	require.NoError(t, err)

	assert.Equal(t, "0xtoken", trade.TokenAddress)
	assert.Equal(t, "0xtrader", trade.TraderAddress)
	assert.True(t, trade.IsBuy)
	assert.Equal(t, 0, trade.CommunityTokenAmount.Cmp(wei(1)))
	assert.Equal(t, 0, trade.FloatingSupply.Cmp(wei(500_000)))
	assert.InDelta(t, 0.002, trade.Price, 1e-12)
}

func TestProcessTrade_RedeliveryIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))
	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))

	trades, err := f.trades.ListByToken(ctx, "0xtoken")
	require.NoError(t, err)
	assert.Len(t, trades, 1)

	// The chart mirror is also written once: redelivery stops at the
	// suppressed insert.
	points, err := f.history.ListByToken(ctx, "0xtoken", 8453)
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestProcessTrade_NormalizesAddressCasing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ev := buyEvent()
	ev.TransactionHash = "0xABC123"
	ev.TokenAddress = "0xTOKEN"
	ev.TraderAddress = "0xTrader"
	require.NoError(t, f.projector.ProcessTrade(ctx, ev))

	trade, err := f.trades.GetByHash(ctx, 8453, "0xabc123")
	require.NoError(t, err)
	assert.Equal(t, "0xtoken", trade.TokenAddress)
	assert.Equal(t, "0xtrader", trade.TraderAddress)

	// Mixed-case redelivery of the same hash is still a duplicate.
	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))
	trades, err := f.trades.ListByToken(ctx, "0xtoken")
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestProcessTrade_RejectsInvalidEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, mutate := range map[string]func(*domain.TradeEvent){
		"missing hash":      func(ev *domain.TradeEvent) { ev.TransactionHash = "" },
		"missing token":     func(ev *domain.TradeEvent) { ev.TokenAddress = "" },
		"missing trader":    func(ev *domain.TradeEvent) { ev.TraderAddress = "" },
		"nil eth amount":    func(ev *domain.TradeEvent) { ev.EthAmount = nil },
		"zero token amount": func(ev *domain.TradeEvent) { ev.CommunityTokenAmount = big.NewInt(0) },
		"negative amount":   func(ev *domain.TradeEvent) { ev.CommunityTokenAmount = big.NewInt(-1) },
		"nil supply":        func(ev *domain.TradeEvent) { ev.FloatingSupply = nil },
		"no timestamp":      func(ev *domain.TradeEvent) { ev.BlockTimestamp = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			ev := buyEvent()
			mutate(ev)
			err := f.projector.ProcessTrade(ctx, ev)
			assert.ErrorIs(t, err, domain.ErrInvalidEvent)
		})
	}

	trades, err := f.trades.ListByToken(ctx, "0xtoken")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestProcessTrade_AutoJoinsKnownTrader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addTrader(t, "0xtrader")
	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))

	joined, err := f.addrs.ListCommunityUserIDs(ctx, "testdao-community", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{u.ID}, joined)

	// The joined row carries the trader's existing role and wallet.
	row, err := f.addrs.GetLinkedByAddress(ctx, "0xtrader")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, row.Role)
	assert.Equal(t, domain.WalletMetamask, row.WalletID)
}

func TestProcessTrade_UpgradesTraderTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.addTrader(t, "0xtrader")
	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))

	after, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TierChainVerified, after.Tier)
}

func TestProcessTrade_UnknownTraderStillRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.projector.ProcessTrade(ctx, buyEvent()))

	_, err := f.trades.GetByHash(ctx, 8453, "0xabc123")
	require.NoError(t, err)

	joined, err := f.addrs.ListCommunityUserIDs(ctx, "testdao-community", "")
	require.NoError(t, err)
	assert.Empty(t, joined)
}

func TestProcessTrade_UntrackedTokenStillRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addTrader(t, "0xtrader")
	ev := buyEvent()
	ev.TokenAddress = "0xunknown"
	require.NoError(t, f.projector.ProcessTrade(ctx, ev))

	_, err := f.trades.GetByHash(ctx, 8453, "0xabc123")
	require.NoError(t, err)
}

func TestProcessTrade_WorksWithoutHistoryMirror(t *testing.T) {
	f := newFixture(t)
	f.projector = New(Options{
		Transactor:  memory.NewTransactor(),
		Trades:      f.trades,
		Tokens:      f.tokens,
		Addresses:   f.addrs,
		Communities: f.comms,
		Tiers: tier.NewEngine(tier.EngineOptions{
			Users:     f.users,
			Addresses: f.addrs,
			Activity:  f.activity,
		}),
	})

	require.NoError(t, f.projector.ProcessTrade(context.Background(), buyEvent()))
}

func TestComputePrice(t *testing.T) {
	// 0.002 eth for one whole token.
	price := computePrice(big.NewInt(2_000_000_000_000_000), wei(1))
	assert.InDelta(t, 0.002, price, 1e-12)

	// Scales cancel: a trade of 250 tokens at the same unit price.
	price = computePrice(new(big.Int).Mul(big.NewInt(250), big.NewInt(2_000_000_000_000_000)), wei(250))
	assert.InDelta(t, 0.002, price, 1e-12)

	// Free mint.
	assert.Zero(t, computePrice(big.NewInt(0), wei(1)))
}

func TestWholeTokens(t *testing.T) {
	assert.InDelta(t, 1.0, wholeTokens(wei(1)), 1e-12)
	assert.InDelta(t, 0.5, wholeTokens(big.NewInt(500_000_000_000_000_000)), 1e-12)
}

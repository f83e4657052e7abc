package graduation

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-launchpad/internal/chain"
	chainstub "community-launchpad/internal/chain/stub"
	"community-launchpad/internal/domain"
	"community-launchpad/internal/notify"
	"community-launchpad/internal/storage"
	"community-launchpad/internal/storage/memory"
)

func wei(whole int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(whole), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

type fixture struct {
	users    *memory.UserStore
	addrs    *memory.AddressStore
	comms    *memory.CommunityStore
	tokens   *memory.TokenStore
	outbox   *memory.OutboxStore
	client   *chainstub.Client
	notifier *notify.Recorder
	handler  *Handler
}

// newFixture builds a handler over a token with 2000 tokens of curve
// liquidity and the default 1000-token graduation threshold.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		users:    memory.NewUserStore(),
		comms:    memory.NewCommunityStore(),
		tokens:   memory.NewTokenStore(),
		outbox:   memory.NewOutboxStore(),
		client:   chainstub.NewClient(),
		notifier: notify.NewRecorder(),
	}
	f.addrs = memory.NewAddressStore(f.users)

	ns := "testdao"
	require.NoError(t, f.comms.Create(ctx, &domain.Community{
		ID:        "testdao-community",
		Name:      "Test DAO",
		Namespace: &ns,
	}))
	require.NoError(t, f.tokens.Create(ctx, &domain.LaunchpadToken{
		TokenAddress:       "0xtoken",
		Namespace:          ns,
		Symbol:             "TDAO",
		EthChainID:         8453,
		LaunchpadLiquidity: wei(2000),
	}))

	f.handler = NewHandler(Options{
		Transactor:  memory.NewTransactor(),
		Tokens:      f.tokens,
		Addresses:   f.addrs,
		Communities: f.comms,
		Outbox:      f.outbox,
		Clients: func(ctx context.Context, rpcURL, launchpadAddress string) (chain.Client, error) {
			return f.client, nil
		},
		Notifier:    f.notifier,
		OperatorKey: "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
	})
	return f
}

// addHolder links a new user to an address in the token's community.
func (f *fixture) addHolder(t *testing.T, address string) *domain.User {
	t.Helper()
	u := &domain.User{CreatedAt: time.Now()}
	require.NoError(t, f.users.Create(context.Background(), u))
	require.NoError(t, f.addrs.Create(context.Background(), &domain.Address{
		CommunityID: "testdao-community",
		Address:     address,
		UserID:      &u.ID,
		WalletID:    domain.WalletMetamask,
		Role:        domain.RoleMember,
	}))
	return u
}

func testNode() *domain.ChainNode {
	return &domain.ChainNode{
		EthChainID:       8453,
		Name:             "base",
		URL:              "http://localhost:8545",
		LaunchpadAddress: "0xlaunchpad",
	}
}

// tradeEvent returns an event leaving the given remaining liquidity, in
// whole tokens, on the curve.
func tradeEvent(remainingTokens int64) *domain.TradeEvent {
	return &domain.TradeEvent{
		EthChainID:           8453,
		TransactionHash:      "0xabc123",
		TokenAddress:         "0xtoken",
		TraderAddress:        "0xtrader",
		IsBuy:                true,
		EthAmount:            big.NewInt(2_000_000_000_000_000),
		CommunityTokenAmount: wei(1),
		FloatingSupply:       wei(2000 - remainingTokens),
		BlockTimestamp:       1700000000,
	}
}

func TestHandleTrade_BelowThresholdGraduates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(500), testNode()))

	assert.Equal(t, []string{"0xtoken"}, f.client.Transfers)

	token, err := f.tokens.GetByAddress(ctx, "0xtoken")
	require.NoError(t, err)
	assert.True(t, token.LiquidityTransferred)

	pending, err := f.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.EventLaunchpadTokenGraduated, pending[0].EventName)
	assert.JSONEq(t, `{"token":{
		"TokenAddress":"0xtoken","Namespace":"testdao","Name":"","Symbol":"TDAO",
		"CreatorAddress":"","EthChainID":8453,
		"LaunchpadLiquidity":2000000000000000000000,
		"LiquidityTransferred":true,
		"CreatedAt":"`+token.CreatedAt.Format(time.RFC3339Nano)+`"}}`,
		string(pending[0].EventPayload))

	assert.Len(t, f.notifier.ByKey(notify.WorkflowLaunchpadCapReached), 1)
}

func TestHandleTrade_AboveThresholdDoesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(1500), testNode()))

	assert.Empty(t, f.client.Transfers)

	token, err := f.tokens.GetByAddress(ctx, "0xtoken")
	require.NoError(t, err)
	assert.False(t, token.LiquidityTransferred)

	pending, err := f.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Empty(t, f.notifier.ByKey(notify.WorkflowLaunchpadCapReached))
}

func TestHandleTrade_TransfersExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(500), testNode()))
	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(400), testNode()))
	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(300), testNode()))

	assert.Len(t, f.client.Transfers, 1)

	pending, err := f.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Len(t, f.notifier.ByKey(notify.WorkflowLaunchpadCapReached), 1)
}

func TestHandleTrade_AlreadyFundedReconcilesFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A previous transfer succeeded on-chain but the flag update was lost.
	f.client.Funded["0xtoken"] = true

	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(500), testNode()))

	// No second transfer, but the flag and outbox event land.
	assert.Empty(t, f.client.Transfers)

	token, err := f.tokens.GetByAddress(ctx, "0xtoken")
	require.NoError(t, err)
	assert.True(t, token.LiquidityTransferred)

	pending, err := f.outbox.ListPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestHandleTrade_MissingOperatorKeyIsFatal(t *testing.T) {
	f := newFixture(t)
	f.handler = NewHandler(Options{
		Transactor:  memory.NewTransactor(),
		Tokens:      f.tokens,
		Addresses:   f.addrs,
		Communities: f.comms,
		Outbox:      f.outbox,
		Clients: func(ctx context.Context, rpcURL, launchpadAddress string) (chain.Client, error) {
			return f.client, nil
		},
		Notifier: f.notifier,
	})

	err := f.handler.HandleTrade(context.Background(), tradeEvent(500), testNode())
	assert.ErrorIs(t, err, chain.ErrMissingOperatorKey)
	assert.Empty(t, f.client.Transfers)
}

func TestHandleTrade_TransferFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.client.TransferErr = assert.AnError
	err := f.handler.HandleTrade(ctx, tradeEvent(500), testNode())
	assert.ErrorIs(t, err, assert.AnError)

	// A later trade retries the transfer.
	f.client.TransferErr = nil
	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(400), testNode()))
	assert.Equal(t, []string{"0xtoken"}, f.client.Transfers)
}

func TestHandleTrade_UnknownTokenErrors(t *testing.T) {
	f := newFixture(t)

	ev := tradeEvent(500)
	ev.TokenAddress = "0xunknown"
	err := f.handler.HandleTrade(context.Background(), ev, testNode())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHandleTrade_NotifiesHoldersExcludingTrader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addHolder(t, "0xtrader")
	other := f.addHolder(t, "0xother")

	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(1500), testNode()))

	trade := f.notifier.ByKey(notify.WorkflowLaunchpadTrade)
	require.Len(t, trade, 1)
	assert.Equal(t, []int64{other.ID}, trade[0].UserIDs)
	assert.Equal(t, "0xtoken", trade[0].Data["token_address"])
}

func TestHandleTrade_NotifierFailureTolerated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.notifier.Err = assert.AnError
	require.NoError(t, f.handler.HandleTrade(ctx, tradeEvent(500), testNode()))

	// The transfer and flag flip are unaffected by notification failures.
	assert.Len(t, f.client.Transfers, 1)
	token, err := f.tokens.GetByAddress(ctx, "0xtoken")
	require.NoError(t, err)
	assert.True(t, token.LiquidityTransferred)
}

package storage

import (
	"context"

	"community-launchpad/internal/domain"
)

// Transactor runs a function within a storage transaction. All store calls
// made with the context passed to fn join the same transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
// Nested InTx calls join the enclosing transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	// LockToken serializes concurrent work on one token for the duration of
	// the enclosing transaction. Must be called inside InTx.
	LockToken(ctx context.Context, tokenAddress string) error
}

// UserStore provides access to users storage.
type UserStore interface {
	// Create adds a new user and sets its ID.
	Create(ctx context.Context, u *domain.User) error

	// GetByID retrieves a user. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetForUpdate retrieves a user and holds a row-level lock on it until
	// the enclosing transaction ends. Must be called inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*domain.User, error)

	// UpdateTier sets the user's verification tier.
	UpdateTier(ctx context.Context, id int64, tier domain.Tier) error
}

// AddressStore provides access to addresses storage.
type AddressStore interface {
	// Create adds a new address row and sets its ID. Returns ErrDuplicateKey
	// if (community_id, address) exists.
	Create(ctx context.Context, a *domain.Address) error

	// GetLinkedByAddress retrieves the most recently active row for an
	// address that is linked to a non-banned user, across all communities.
	// Returns ErrNotFound if the address is unclaimed or unknown.
	GetLinkedByAddress(ctx context.Context, address string) (*domain.Address, error)

	// FindOrCreate inserts the address unless (community_id, address) already
	// exists. Returns true when a new row was created.
	FindOrCreate(ctx context.Context, a *domain.Address) (bool, error)

	// ResolveUserID resolves a user reference to a user id, excluding banned
	// users and unclaimed addresses. Returns ErrNotFound when no user matches.
	ResolveUserID(ctx context.Context, ref domain.UserRef) (int64, error)

	// ResolveRoles derives the magic and active address roles for a user.
	// Either role may be nil in the result.
	ResolveRoles(ctx context.Context, userID int64) (*domain.UserRoles, error)

	// ListCommunityUserIDs returns distinct user ids holding an address in
	// the community, excluding rows for excludeAddress.
	ListCommunityUserIDs(ctx context.Context, communityID, excludeAddress string) ([]int64, error)
}

// CommunityStore provides access to communities storage.
type CommunityStore interface {
	// Create adds a new community. Returns ErrDuplicateKey if the id exists.
	Create(ctx context.Context, c *domain.Community) error

	// GetByID retrieves a community. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Community, error)

	// GetByNamespace retrieves the community owning an on-chain namespace.
	// Returns ErrNotFound if no community claims it.
	GetByNamespace(ctx context.Context, namespace string) (*domain.Community, error)
}

// ChainNodeStore provides access to chain_nodes storage.
type ChainNodeStore interface {
	// Create adds a chain node. Returns ErrDuplicateKey if the chain id exists.
	Create(ctx context.Context, n *domain.ChainNode) error

	// GetByEthChainID retrieves the node for a chain id. Returns ErrNotFound
	// if the chain is not configured.
	GetByEthChainID(ctx context.Context, ethChainID int64) (*domain.ChainNode, error)
}

// TokenStore provides access to launchpad_tokens storage.
type TokenStore interface {
	// Create adds a new token. Returns ErrDuplicateKey if the address exists.
	Create(ctx context.Context, t *domain.LaunchpadToken) error

	// GetByAddress retrieves a token. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, tokenAddress string) (*domain.LaunchpadToken, error)

	// MarkLiquidityTransferred flips the liquidity_transferred flag.
	// Returns true only for the invocation that performs the false->true
	// transition; later calls and unknown tokens return false.
	MarkLiquidityTransferred(ctx context.Context, tokenAddress string) (bool, error)
}

// TradeStore provides access to launchpad_trades storage.
type TradeStore interface {
	// Record inserts a trade unless (eth_chain_id, transaction_hash) already
	// exists. Returns true when a new row was created. The insert is atomic
	// under concurrent redelivery.
	Record(ctx context.Context, t *domain.LaunchpadTrade) (bool, error)

	// GetByHash retrieves a trade by its natural key. Returns ErrNotFound
	// if not exists.
	GetByHash(ctx context.Context, ethChainID int64, txHash string) (*domain.LaunchpadTrade, error)

	// ListByToken retrieves all trades for a token, ordered by timestamp ASC.
	ListByToken(ctx context.Context, tokenAddress string) ([]*domain.LaunchpadTrade, error)
}

// ActivityStore answers whether a user has any qualifying on-chain
// transaction: launchpad token creation or trade, stake trade, contest
// creation, or namespace creation. Read-only.
type ActivityStore interface {
	HasQualifyingTransaction(ctx context.Context, userID int64) (bool, error)
}

// OutboxStore provides access to the transactional outbox.
type OutboxStore interface {
	// Append adds an event. Called inside the transaction that performs the
	// state change the event describes.
	Append(ctx context.Context, e *domain.OutboxEvent) error

	// ListPending retrieves up to limit unrelayed events, oldest first.
	ListPending(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)

	// MarkRelayed stamps events as published.
	MarkRelayed(ctx context.Context, ids []int64) error
}

// TradeHistoryStore provides access to the per-token market history mirror.
type TradeHistoryStore interface {
	// Insert appends one history point.
	Insert(ctx context.Context, p *domain.TradeHistoryPoint) error

	// ListByToken retrieves history for a token ordered by timestamp ASC.
	ListByToken(ctx context.Context, tokenAddress string, ethChainID int64) ([]*domain.TradeHistoryPoint, error)
}

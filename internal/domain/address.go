package domain

import "time"

// Wallet kinds. WalletMagic marks a custodial (managed) wallet; everything
// else is treated as self-custodied.
const (
	WalletMagic    = "magic"
	WalletMetamask = "metamask"
	WalletKeplr    = "keplr"
)

// Community role constants.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Address is a blockchain address linked to at most one user, scoped to a
// community. The same address string may appear in several communities, each
// as its own row.
// Corresponds to addresses table in PostgreSQL.
type Address struct {
	ID           int64      // BIGSERIAL primary key
	CommunityID  string     // FK to communities
	Address      string     // hex address, lowercase
	UserID       *int64     // owning user, nil while unclaimed
	WalletID     string     // wallet kind, e.g. "magic"
	Role         string     // community role
	IsBanned     bool       // banned within the community
	GhostAddress bool       // placeholder created by imports, not user-claimed
	LastActive   *time.Time // last activity in the community
	CreatedAt    time.Time
}

// AddressRole is an address selected for tier computation, joined with the
// owning user's current tier and signup time.
type AddressRole struct {
	UserID        int64
	Address       string
	Tier          Tier
	UserCreatedAt time.Time
}

// UserRoles holds the two derived address roles used by the tier merge:
// a custodial "magic" address, and an address that stayed active at least a
// week past signup. Either may be nil.
type UserRoles struct {
	Magic  *AddressRole
	Active *AddressRole
}

// ActiveAddressWindow is the minimum gap between account creation and an
// address's last activity for the address to count as sustained engagement.
const ActiveAddressWindow = 7 * 24 * time.Hour

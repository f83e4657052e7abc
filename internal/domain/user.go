package domain

import "time"

// Tier is a user verification tier. Tiers are ordered: automated upgrades
// never move a user to a lower tier, and TierBanned is absorbing.
type Tier int

// Verification tiers, lowest to highest. TierBanned sorts last but is not
// part of the upgrade ordering; once set it never changes.
const (
	TierUnverified Tier = iota
	TierVerifiedWallet
	TierSocialVerified
	TierChainVerified
	TierFullyVerified
	TierBanned
)

// String returns the tier name used in logs and event payloads.
func (t Tier) String() string {
	switch t {
	case TierUnverified:
		return "unverified"
	case TierVerifiedWallet:
		return "verified_wallet"
	case TierSocialVerified:
		return "social_verified"
	case TierChainVerified:
		return "chain_verified"
	case TierFullyVerified:
		return "fully_verified"
	case TierBanned:
		return "banned"
	default:
		return "unknown"
	}
}

// User represents a platform identity.
// Corresponds to users table in PostgreSQL.
type User struct {
	ID        int64     // BIGSERIAL primary key
	Tier      Tier      // current verification tier
	CreatedAt time.Time // account creation time
}

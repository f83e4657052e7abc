// Package tier computes and persists user verification tier upgrades.
//
// Wallet, social, and chain verification are orthogonal signals. Holding two
// of them, with supporting evidence (a custodial address, a sustained-activity
// address, or a qualifying on-chain transaction), promotes a user to
// TierFullyVerified. Upgrades are monotonic and TierBanned is absorbing.
package tier

import (
	"fmt"

	"community-launchpad/internal/domain"
)

// activityFn reports whether the user has any qualifying on-chain
// transaction. Evaluated lazily: only the merge branches that need the signal
// run the query.
type activityFn func() (bool, error)

// resolve computes the tier resulting from a new qualifying event, given the
// currently held tier and the user's derived address roles.
func resolve(current, proposed domain.Tier, roles *domain.UserRoles, hasChainTx activityFn) (domain.Tier, error) {
	hasMagic := roles != nil && roles.Magic != nil
	hasActive := roles != nil && roles.Active != nil

	switch proposed {
	case domain.TierChainVerified:
		if current == domain.TierSocialVerified && hasActive {
			return domain.TierFullyVerified, nil
		}
		if current == domain.TierVerifiedWallet && hasMagic {
			return domain.TierFullyVerified, nil
		}
		return domain.TierChainVerified, nil

	case domain.TierSocialVerified:
		if current == domain.TierChainVerified && hasActive {
			return domain.TierFullyVerified, nil
		}
		if current == domain.TierVerifiedWallet {
			ok, err := hasChainTx()
			if err != nil {
				return current, fmt.Errorf("check qualifying transactions: %w", err)
			}
			if ok {
				return domain.TierFullyVerified, nil
			}
		}
		return domain.TierSocialVerified, nil

	case domain.TierVerifiedWallet:
		if current == domain.TierChainVerified && hasMagic {
			return domain.TierFullyVerified, nil
		}
		if current == domain.TierSocialVerified {
			ok, err := hasChainTx()
			if err != nil {
				return current, fmt.Errorf("check qualifying transactions: %w", err)
			}
			if ok {
				return domain.TierFullyVerified, nil
			}
		}
		return domain.TierVerifiedWallet, nil

	default:
		return current, fmt.Errorf("tier %s cannot be proposed by automated upgrades", proposed)
	}
}

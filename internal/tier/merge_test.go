package tier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community-launchpad/internal/domain"
)

func rolesWith(magic, active bool) *domain.UserRoles {
	roles := &domain.UserRoles{}
	if magic {
		roles.Magic = &domain.AddressRole{Address: "0xmagic"}
	}
	if active {
		roles.Active = &domain.AddressRole{Address: "0xactive"}
	}
	return roles
}

func TestResolve_Combinations(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.Tier
		proposed   domain.Tier
		magic      bool
		active     bool
		hasChainTx bool
		want       domain.Tier
	}{
		// Chain verification arriving.
		{
			name:     "chain over social with active address",
			current:  domain.TierSocialVerified,
			proposed: domain.TierChainVerified,
			active:   true,
			want:     domain.TierFullyVerified,
		},
		{
			name:     "chain over social without active address",
			current:  domain.TierSocialVerified,
			proposed: domain.TierChainVerified,
			want:     domain.TierChainVerified,
		},
		{
			name:     "chain over wallet with magic address",
			current:  domain.TierVerifiedWallet,
			proposed: domain.TierChainVerified,
			magic:    true,
			want:     domain.TierFullyVerified,
		},
		{
			name:     "chain over wallet without magic address",
			current:  domain.TierVerifiedWallet,
			proposed: domain.TierChainVerified,
			want:     domain.TierChainVerified,
		},
		{
			name:     "chain over unverified",
			current:  domain.TierUnverified,
			proposed: domain.TierChainVerified,
			magic:    true,
			active:   true,
			want:     domain.TierChainVerified,
		},
		{
			name:     "chain over fully verified resolves to chain",
			current:  domain.TierFullyVerified,
			proposed: domain.TierChainVerified,
			want:     domain.TierChainVerified,
		},

		// Social verification arriving.
		{
			name:     "social over chain with active address",
			current:  domain.TierChainVerified,
			proposed: domain.TierSocialVerified,
			active:   true,
			want:     domain.TierFullyVerified,
		},
		{
			name:     "social over chain without active address",
			current:  domain.TierChainVerified,
			proposed: domain.TierSocialVerified,
			want:     domain.TierSocialVerified,
		},
		{
			name:       "social over wallet with qualifying transaction",
			current:    domain.TierVerifiedWallet,
			proposed:   domain.TierSocialVerified,
			hasChainTx: true,
			want:       domain.TierFullyVerified,
		},
		{
			name:     "social over wallet without qualifying transaction",
			current:  domain.TierVerifiedWallet,
			proposed: domain.TierSocialVerified,
			want:     domain.TierSocialVerified,
		},
		{
			name:     "social over unverified",
			current:  domain.TierUnverified,
			proposed: domain.TierSocialVerified,
			want:     domain.TierSocialVerified,
		},

		// Wallet verification arriving.
		{
			name:     "wallet over chain with magic address",
			current:  domain.TierChainVerified,
			proposed: domain.TierVerifiedWallet,
			magic:    true,
			want:     domain.TierFullyVerified,
		},
		{
			name:     "wallet over chain without magic address",
			current:  domain.TierChainVerified,
			proposed: domain.TierVerifiedWallet,
			want:     domain.TierVerifiedWallet,
		},
		{
			name:       "wallet over social with qualifying transaction",
			current:    domain.TierSocialVerified,
			proposed:   domain.TierVerifiedWallet,
			hasChainTx: true,
			want:       domain.TierFullyVerified,
		},
		{
			name:     "wallet over social without qualifying transaction",
			current:  domain.TierSocialVerified,
			proposed: domain.TierVerifiedWallet,
			want:     domain.TierVerifiedWallet,
		},
		{
			name:     "wallet over unverified",
			current:  domain.TierUnverified,
			proposed: domain.TierVerifiedWallet,
			want:     domain.TierVerifiedWallet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(tt.current, tt.proposed, rolesWith(tt.magic, tt.active), func() (bool, error) {
				return tt.hasChainTx, nil
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_NonProposableTiers(t *testing.T) {
	for _, proposed := range []domain.Tier{
		domain.TierUnverified,
		domain.TierFullyVerified,
		domain.TierBanned,
	} {
		_, err := resolve(domain.TierUnverified, proposed, rolesWith(false, false), func() (bool, error) {
			return false, nil
		})
		assert.Error(t, err, "tier %s should not be proposable", proposed)
	}
}

func TestResolve_ActivityQueriedLazily(t *testing.T) {
	queried := false
	fn := func() (bool, error) {
		queried = true
		return true, nil
	}

	// Branches resolved from address roles alone never run the activity query.
	got, err := resolve(domain.TierSocialVerified, domain.TierChainVerified, rolesWith(false, true), fn)
	require.NoError(t, err)
	assert.Equal(t, domain.TierFullyVerified, got)
	assert.False(t, queried)

	// The wallet+social combination needs it.
	got, err = resolve(domain.TierVerifiedWallet, domain.TierSocialVerified, rolesWith(false, false), fn)
	require.NoError(t, err)
	assert.Equal(t, domain.TierFullyVerified, got)
	assert.True(t, queried)
}

func TestResolve_NilRoles(t *testing.T) {
	got, err := resolve(domain.TierSocialVerified, domain.TierChainVerified, nil, func() (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TierChainVerified, got)
}

func TestResolve_ActivityQueryError(t *testing.T) {
	wantErr := assert.AnError
	_, err := resolve(domain.TierVerifiedWallet, domain.TierSocialVerified, rolesWith(false, false), func() (bool, error) {
		return false, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// AddressStore implements storage.AddressStore using PostgreSQL.
type AddressStore struct {
	pool *Pool
}

// NewAddressStore creates a new AddressStore.
func NewAddressStore(pool *Pool) *AddressStore {
	return &AddressStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AddressStore = (*AddressStore)(nil)

const addressColumns = `id, community_id, address, user_id, wallet_id, role, is_banned, ghost_address, last_active, created_at`

// Create adds a new address row. Returns ErrDuplicateKey if
// (community_id, address) exists.
func (s *AddressStore) Create(ctx context.Context, a *domain.Address) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO addresses (
			community_id, address, user_id, wallet_id, role, is_banned, ghost_address, last_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := s.pool.querier(ctx).QueryRow(ctx, query,
		a.CommunityID, a.Address, a.UserID, a.WalletID, a.Role,
		a.IsBanned, a.GhostAddress, a.LastActive, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

// FindOrCreate inserts the address unless (community_id, address) already
// exists. The insert is atomic under concurrent delivery: the unique
// constraint decides which writer creates the row.
func (s *AddressStore) FindOrCreate(ctx context.Context, a *domain.Address) (bool, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO addresses (
			community_id, address, user_id, wallet_id, role, is_banned, ghost_address, last_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (community_id, address) DO NOTHING
		RETURNING id
	`

	err := s.pool.querier(ctx).QueryRow(ctx, query,
		a.CommunityID, a.Address, a.UserID, a.WalletID, a.Role,
		a.IsBanned, a.GhostAddress, a.LastActive, a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isNotFoundError(err) {
			// Conflict: the row already existed.
			return false, nil
		}
		return false, fmt.Errorf("find or create address: %w", err)
	}
	return true, nil
}

// GetLinkedByAddress retrieves the most recently active row for an address
// linked to a user, across all communities. Banned address rows are skipped.
func (s *AddressStore) GetLinkedByAddress(ctx context.Context, address string) (*domain.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE address = $1 AND user_id IS NOT NULL AND NOT is_banned
		ORDER BY last_active DESC NULLS LAST, id ASC
		LIMIT 1
	`

	var a domain.Address
	err := s.pool.querier(ctx).QueryRow(ctx, query, address).Scan(
		&a.ID, &a.CommunityID, &a.Address, &a.UserID, &a.WalletID, &a.Role,
		&a.IsBanned, &a.GhostAddress, &a.LastActive, &a.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get linked address: %w", err)
	}
	return &a, nil
}

// ResolveUserID resolves a user reference to a user id. Address references
// skip banned and unclaimed address rows; tier-level banning is the tier
// engine's concern.
func (s *AddressStore) ResolveUserID(ctx context.Context, ref domain.UserRef) (int64, error) {
	if err := ref.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	if ref.UserID > 0 {
		var id int64
		err := s.pool.querier(ctx).QueryRow(ctx,
			`SELECT id FROM users WHERE id = $1`, ref.UserID).Scan(&id)
		if err != nil {
			if isNotFoundError(err) {
				return 0, storage.ErrNotFound
			}
			return 0, fmt.Errorf("resolve user by id: %w", err)
		}
		return id, nil
	}

	a, err := s.GetLinkedByAddress(ctx, ref.Address)
	if err != nil {
		return 0, err
	}
	return *a.UserID, nil
}

// ResolveRoles derives the magic and active address roles for a user.
func (s *AddressStore) ResolveRoles(ctx context.Context, userID int64) (*domain.UserRoles, error) {
	roles := &domain.UserRoles{}

	magicQuery := `
		SELECT u.id, a.address, u.tier, u.created_at
		FROM addresses a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1 AND a.wallet_id = $2 AND NOT a.is_banned
		ORDER BY a.last_active DESC NULLS LAST, a.id ASC
		LIMIT 1
	`
	magic, err := s.scanRole(ctx, magicQuery, userID, domain.WalletMagic)
	if err != nil {
		return nil, fmt.Errorf("resolve magic role: %w", err)
	}
	roles.Magic = magic

	activeQuery := `
		SELECT u.id, a.address, u.tier, u.created_at
		FROM addresses a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		  AND NOT a.is_banned
		  AND a.last_active IS NOT NULL
		  AND a.last_active >= u.created_at + make_interval(secs => $2)
		ORDER BY a.last_active DESC, a.id ASC
		LIMIT 1
	`
	active, err := s.scanRole(ctx, activeQuery, userID, domain.ActiveAddressWindow.Seconds())
	if err != nil {
		return nil, fmt.Errorf("resolve active role: %w", err)
	}
	roles.Active = active

	return roles, nil
}

// scanRole runs a single-row role query, mapping no-rows to a nil role.
func (s *AddressStore) scanRole(ctx context.Context, query string, args ...any) (*domain.AddressRole, error) {
	var r domain.AddressRole
	var tier int
	err := s.pool.querier(ctx).QueryRow(ctx, query, args...).Scan(
		&r.UserID, &r.Address, &tier, &r.UserCreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	r.Tier = domain.Tier(tier)
	return &r, nil
}

// ListCommunityUserIDs returns distinct user ids holding an address in the
// community, excluding rows for excludeAddress.
func (s *AddressStore) ListCommunityUserIDs(ctx context.Context, communityID, excludeAddress string) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM addresses
		WHERE community_id = $1 AND user_id IS NOT NULL AND address <> $2
		ORDER BY user_id ASC
	`

	rows, err := s.pool.querier(ctx).Query(ctx, query, communityID, excludeAddress)
	if err != nil {
		return nil, fmt.Errorf("list community user ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}

	return ids, nil
}

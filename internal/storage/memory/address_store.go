package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// AddressStore is an in-memory implementation of storage.AddressStore.
// Role resolution joins through the user store it was created with.
type AddressStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string]*domain.Address // keyed by community_id|address
	users  *UserStore
}

// NewAddressStore creates a new in-memory address store.
func NewAddressStore(users *UserStore) *AddressStore {
	return &AddressStore{nextID: 1, data: make(map[string]*domain.Address), users: users}
}

// Compile-time interface check.
var _ storage.AddressStore = (*AddressStore)(nil)

func addressKey(communityID, address string) string {
	return fmt.Sprintf("%s|%s", communityID, address)
}

// Create adds a new address row. Returns ErrDuplicateKey if
// (community_id, address) exists.
func (s *AddressStore) Create(_ context.Context, a *domain.Address) error {
	if a == nil || a.CommunityID == "" || a.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := addressKey(a.CommunityID, a.Address)
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	a.ID = s.nextID
	s.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	cp := *a
	s.data[key] = &cp
	return nil
}

// FindOrCreate inserts the address unless (community_id, address) exists.
func (s *AddressStore) FindOrCreate(_ context.Context, a *domain.Address) (bool, error) {
	if a == nil || a.CommunityID == "" || a.Address == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := addressKey(a.CommunityID, a.Address)
	if _, exists := s.data[key]; exists {
		return false, nil
	}

	a.ID = s.nextID
	s.nextID++
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	cp := *a
	s.data[key] = &cp
	return true, nil
}

// GetLinkedByAddress retrieves the most recently active linked, non-banned
// row for an address across all communities.
func (s *AddressStore) GetLinkedByAddress(_ context.Context, address string) (*domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := s.bestLinked(address)
	if match == nil {
		return nil, storage.ErrNotFound
	}
	cp := *match
	return &cp, nil
}

// bestLinked picks the linked, non-banned row with the latest activity.
// Callers must hold the read lock.
func (s *AddressStore) bestLinked(address string) *domain.Address {
	var best *domain.Address
	for _, a := range s.data {
		if a.Address != address || a.UserID == nil || a.IsBanned {
			continue
		}
		if best == nil || laterActive(a, best) {
			best = a
		}
	}
	return best
}

func laterActive(a, b *domain.Address) bool {
	switch {
	case a.LastActive == nil:
		return false
	case b.LastActive == nil:
		return true
	default:
		return a.LastActive.After(*b.LastActive)
	}
}

// ResolveUserID resolves a user reference to a user id.
func (s *AddressStore) ResolveUserID(ctx context.Context, ref domain.UserRef) (int64, error) {
	if err := ref.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	if ref.UserID > 0 {
		if _, err := s.users.GetByID(ctx, ref.UserID); err != nil {
			return 0, err
		}
		return ref.UserID, nil
	}

	a, err := s.GetLinkedByAddress(ctx, ref.Address)
	if err != nil {
		return 0, err
	}
	return *a.UserID, nil
}

// ResolveRoles derives the magic and active address roles for a user.
func (s *AddressStore) ResolveRoles(ctx context.Context, userID int64) (*domain.UserRoles, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if err == storage.ErrNotFound {
			return &domain.UserRoles{}, nil
		}
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	roles := &domain.UserRoles{}
	var magic, active *domain.Address

	for _, a := range s.data {
		if a.UserID == nil || *a.UserID != userID || a.IsBanned {
			continue
		}
		if a.WalletID == domain.WalletMagic {
			if magic == nil || laterActive(a, magic) {
				magic = a
			}
		}
		if a.LastActive != nil && !a.LastActive.Before(user.CreatedAt.Add(domain.ActiveAddressWindow)) {
			if active == nil || laterActive(a, active) {
				active = a
			}
		}
	}

	if magic != nil {
		roles.Magic = roleFor(user, magic)
	}
	if active != nil {
		roles.Active = roleFor(user, active)
	}
	return roles, nil
}

func roleFor(u *domain.User, a *domain.Address) *domain.AddressRole {
	return &domain.AddressRole{
		UserID:        u.ID,
		Address:       a.Address,
		Tier:          u.Tier,
		UserCreatedAt: u.CreatedAt,
	}
}

// ListCommunityUserIDs returns distinct user ids holding an address in the
// community, excluding rows for excludeAddress.
func (s *AddressStore) ListCommunityUserIDs(_ context.Context, communityID, excludeAddress string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{})
	for _, a := range s.data {
		if a.CommunityID != communityID || a.UserID == nil || a.Address == excludeAddress {
			continue
		}
		seen[*a.UserID] = struct{}{}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

package tier

import (
	"context"
	"errors"
	"fmt"
	"log"

	"community-launchpad/internal/domain"
	"community-launchpad/internal/storage"
)

// Engine applies tier upgrades. Upgrade must run inside the caller's
// transaction so the tier update commits atomically with the event that
// triggered it; the engine takes a row-level lock on the user to serialize
// concurrent qualifying events.
type Engine struct {
	users     storage.UserStore
	addresses storage.AddressStore
	activity  storage.ActivityStore
	logger    *log.Logger
}

// EngineOptions contains dependencies for creating an Engine.
type EngineOptions struct {
	Users     storage.UserStore
	Addresses storage.AddressStore
	Activity  storage.ActivityStore
	Logger    *log.Logger
}

// NewEngine creates a tier engine.
func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		users:     opts.Users,
		addresses: opts.Addresses,
		activity:  opts.Activity,
		logger:    logger,
	}
}

// Upgrade computes and persists the tier resulting from a new qualifying
// event for the referenced user.
//
// An unknown reference is tolerated: events may mention addresses that never
// onboarded, so resolution failure is logged and skipped rather than
// surfaced. Query errors propagate to abort the caller's transaction.
func (e *Engine) Upgrade(ctx context.Context, ref domain.UserRef, proposed domain.Tier) error {
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}

	userID, err := e.addresses.ResolveUserID(ctx, ref)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			e.logger.Printf("tier upgrade skipped, no user for %s", ref)
			return nil
		}
		return fmt.Errorf("resolve user for %s: %w", ref, err)
	}

	// Lock the user row for the rest of the transaction. Without it two
	// concurrent qualifying events could both read the pre-upgrade tier and
	// miss the fully-verified combination.
	user, err := e.users.GetForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("lock user %d: %w", userID, err)
	}

	if user.Tier == domain.TierBanned {
		return nil
	}

	roles, err := e.addresses.ResolveRoles(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve address roles for user %d: %w", userID, err)
	}

	resolved, err := resolve(user.Tier, proposed, roles, func() (bool, error) {
		return e.activity.HasQualifyingTransaction(ctx, userID)
	})
	if err != nil {
		return err
	}

	if resolved <= user.Tier {
		e.logger.Printf("tier upgrade skipped for user %d: %s -> %s would not raise %s",
			userID, proposed, resolved, user.Tier)
		return nil
	}

	if err := e.users.UpdateTier(ctx, userID, resolved); err != nil {
		return fmt.Errorf("update tier for user %d: %w", userID, err)
	}

	e.logger.Printf("user %d tier %s -> %s (event %s)", userID, user.Tier, resolved, proposed)
	return nil
}

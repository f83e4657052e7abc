// Package ingestion consumes launchpad trade events from external sources
// and drives them through projection and graduation.
package ingestion

import (
	"context"

	"community-launchpad/internal/domain"
)

// TradeEventSource provides raw trade events from an external feed.
type TradeEventSource interface {
	// Subscribe returns a channel of trade events. The channel is closed when
	// the context is cancelled or the feed ends. Events are delivered
	// at-least-once; downstream consumers deduplicate.
	Subscribe(ctx context.Context) (<-chan *domain.TradeEvent, error)
}

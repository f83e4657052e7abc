// Package stub provides in-memory trade event sources for testing.
package stub

import (
	"context"

	"community-launchpad/internal/domain"
)

// StubTradeEventSource replays a fixed slice of trade events and then closes
// the channel. Implements ingestion.TradeEventSource.
type StubTradeEventSource struct {
	events []*domain.TradeEvent
}

// NewStubTradeEventSource creates a stub source with the given events.
func NewStubTradeEventSource(events []*domain.TradeEvent) *StubTradeEventSource {
	return &StubTradeEventSource{events: events}
}

// Subscribe returns a channel that yields copies of the configured events in
// order, then closes.
func (s *StubTradeEventSource) Subscribe(ctx context.Context) (<-chan *domain.TradeEvent, error) {
	eventsCh := make(chan *domain.TradeEvent, len(s.events))
	go func() {
		defer close(eventsCh)
		for _, ev := range s.events {
			e := *ev
			select {
			case eventsCh <- &e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return eventsCh, nil
}

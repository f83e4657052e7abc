package ingestion

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"community-launchpad/internal/domain"
)

const (
	baseReconnectDelay = 500 * time.Millisecond
	maxReconnectDelay  = 30 * time.Second
	wsReadLimit        = 1 << 20 // 1 MiB per frame
)

// WSTradeEventSource provides real-time trade events via a WebSocket feed.
// It reconnects with exponential backoff when the connection drops, so a
// flaky feed looks like a slow one to consumers. Messages that fail to
// decode are logged and skipped.
type WSTradeEventSource struct {
	url    string
	dialer *websocket.Dialer
	logger *log.Logger
}

// NewWSTradeEventSource creates a WebSocket-based trade event source.
func NewWSTradeEventSource(url string, logger *log.Logger) *WSTradeEventSource {
	if logger == nil {
		logger = log.Default()
	}
	return &WSTradeEventSource{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: logger,
	}
}

// Subscribe connects to the feed and returns a channel of trade events.
// The channel is closed when the context is cancelled.
func (s *WSTradeEventSource) Subscribe(ctx context.Context) (<-chan *domain.TradeEvent, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[ws-trades] connected to %s", s.url)

	eventsCh := make(chan *domain.TradeEvent, 100)

	go func() {
		defer close(eventsCh)
		defer func() {
			if conn != nil {
				conn.Close()
			}
		}()

		delay := baseReconnectDelay
		for {
			if ctx.Err() != nil {
				return
			}

			if conn == nil {
				var err error
				conn, err = s.dial(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.Printf("[ws-trades] reconnect to %s failed, retrying in %v: %v", s.url, delay, err)
					select {
					case <-time.After(delay):
					case <-ctx.Done():
						return
					}
					delay = min(delay*2, maxReconnectDelay)
					continue
				}
				s.logger.Printf("[ws-trades] reconnected to %s", s.url)
			}

			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Printf("[ws-trades] read failed: %v", err)
				conn.Close()
				conn = nil
				continue
			}
			delay = baseReconnectDelay

			ev, err := DecodeTradeEvent(data)
			if err != nil {
				s.logger.Printf("[ws-trades] SKIP undecodable message: %v", err)
				continue
			}

			select {
			case eventsCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return eventsCh, nil
}

func (s *WSTradeEventSource) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(wsReadLimit)
	return conn, nil
}

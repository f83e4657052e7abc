package domain

import (
	"encoding/json"
	"time"
)

// Domain event names emitted through the outbox.
const (
	EventLaunchpadTokenGraduated = "LaunchpadTokenGraduated"
)

// OutboxEvent is a durable domain event appended in the same transaction as
// the state change it describes. A separate relay publishes pending rows.
// Corresponds to outbox table in PostgreSQL.
type OutboxEvent struct {
	ID           int64           // BIGSERIAL primary key
	EventName    string          // e.g. EventLaunchpadTokenGraduated
	EventPayload json.RawMessage // JSON payload
	CreatedAt    time.Time
	RelayedAt    *time.Time // nil until the relay publishes the row
}

package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have been handled so a
// redelivered event is processed at most once within the TTL window.
type IdempotencyStore interface {
	// MarkProcessed records the event ID. It reports true when this
	// call was the first to record it, false when the ID was already
	// present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has been recorded and
	// has not yet expired.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes duplicate suppression for event handlers.
type IdempotencyConfig struct {
	// TTL bounds how long a processed event ID is remembered. Past the
	// TTL a redelivery of the same ID is treated as new.
	TTL time.Duration

	// Enabled turns the duplicate check off entirely when false.
	Enabled bool
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}

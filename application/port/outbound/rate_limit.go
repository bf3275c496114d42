package outbound

import (
	"context"
	"time"
)

// RateLimitService throttles repeated failed actions (login attempts) per
// key. Implementations may be no-ops when throttling is disabled.
type RateLimitService interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Increment(ctx context.Context, key string, window time.Duration) error
	Block(ctx context.Context, key string, duration time.Duration, reason string) error
	IsBlocked(ctx context.Context, key string) (bool, error)
}

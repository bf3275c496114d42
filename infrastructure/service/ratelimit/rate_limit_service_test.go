package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

func newTestService(t *testing.T) (outbound.RateLimitService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	log := logger.NewStructuredLogger(logger.Config{Level: "error", Format: "text", ServiceName: "test"})
	return NewRateLimitServiceWithClient(client, log), mr
}

func TestCheckLimit_UnderLimit(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	allowed, err := service.CheckLimit(ctx, "ip:10.0.0.1", 5, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestCheckLimit_AfterIncrements(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.NoError(t, service.Increment(ctx, "ip:10.0.0.1", time.Minute))
	}

	allowed, err := service.CheckLimit(ctx, "ip:10.0.0.1", 5, time.Minute)
	assert.NoError(t, err)
	assert.False(t, allowed)

	// A different key is unaffected.
	allowed, err = service.CheckLimit(ctx, "ip:10.0.0.2", 5, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestIncrement_CounterExpires(t *testing.T) {
	service, mr := newTestService(t)
	ctx := context.Background()

	assert.NoError(t, service.Increment(ctx, "ip:10.0.0.1", time.Minute))
	mr.FastForward(2 * time.Minute)

	allowed, err := service.CheckLimit(ctx, "ip:10.0.0.1", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestBlock_AndExpiry(t *testing.T) {
	service, mr := newTestService(t)
	ctx := context.Background()

	blocked, err := service.IsBlocked(ctx, "ip:10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, blocked)

	assert.NoError(t, service.Block(ctx, "ip:10.0.0.1", 30*time.Minute, "too many attempts"))

	blocked, err = service.IsBlocked(ctx, "ip:10.0.0.1")
	assert.NoError(t, err)
	assert.True(t, blocked)

	mr.FastForward(31 * time.Minute)

	blocked, err = service.IsBlocked(ctx, "ip:10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, blocked)
}

func TestNoopService_AlwaysAllows(t *testing.T) {
	log := logger.NewStructuredLogger(logger.Config{Level: "error", Format: "text", ServiceName: "test"})
	service, err := NewRateLimitService(Config{Enabled: false}, log)
	assert.NoError(t, err)

	ctx := context.Background()
	allowed, err := service.CheckLimit(ctx, "ip:10.0.0.1", 0, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed)

	blocked, err := service.IsBlocked(ctx, "ip:10.0.0.1")
	assert.NoError(t, err)
	assert.False(t, blocked)
}

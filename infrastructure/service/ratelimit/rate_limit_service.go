package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

type Config struct {
	Enabled       bool
	RedisURL      string
	IPAttempts    int
	IPWindow      time.Duration
	BlockDuration time.Duration
}

type rateLimitService struct {
	redisClient *redis.Client
	logger      logger.Logger
}

// NewRateLimitService builds a redis-backed limiter, or a no-op one when
// throttling is disabled.
func NewRateLimitService(config Config, log logger.Logger) (outbound.RateLimitService, error) {
	if !config.Enabled {
		log.Info(context.Background(), "Rate limiting disabled", nil)
		return &noopRateLimitService{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(context.Background(), "Rate limiting service initialized", map[string]interface{}{
		"ip_attempts":    config.IPAttempts,
		"ip_window":      config.IPWindow.String(),
		"block_duration": config.BlockDuration.String(),
	})

	return &rateLimitService{
		redisClient: redisClient,
		logger:      log,
	}, nil
}

// NewRateLimitServiceWithClient wires an existing client; used by tests.
func NewRateLimitServiceWithClient(client *redis.Client, log logger.Logger) outbound.RateLimitService {
	return &rateLimitService{redisClient: client, logger: log}
}

func (s *rateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := s.attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return count < limit, nil
}

func (s *rateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	pipeline := s.redisClient.Pipeline()
	pipeline.Incr(ctx, s.attemptKey(key))
	pipeline.Expire(ctx, s.attemptKey(key), window)
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}
	return nil
}

func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := s.blockKey(key)
	blockData := map[string]interface{}{
		"reason":     reason,
		"blocked_at": time.Now().Unix(),
		"duration":   duration.Seconds(),
	}

	pipeline := s.redisClient.Pipeline()
	pipeline.HSet(ctx, blockKey, blockData)
	pipeline.Expire(ctx, blockKey, duration)
	if _, err := pipeline.Exec(ctx); err != nil {
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.Warn(ctx, "Rate limit key blocked", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})
	return nil
}

func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, s.blockKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *rateLimitService) attempts(ctx context.Context, key string) (int, error) {
	count, err := s.redisClient.Get(ctx, s.attemptKey(key)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rate limit counter: %w", err)
	}
	return count, nil
}

func (s *rateLimitService) attemptKey(key string) string {
	return fmt.Sprintf("attempts:%s", key)
}

func (s *rateLimitService) blockKey(key string) string {
	return fmt.Sprintf("blocked:%s", key)
}

// noopRateLimitService is used when throttling is disabled.
type noopRateLimitService struct{}

func (s *noopRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (s *noopRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (s *noopRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (s *noopRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}

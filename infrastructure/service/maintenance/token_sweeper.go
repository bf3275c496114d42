package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

// TokenSweeper periodically deletes refresh tokens that expired or were
// revoked past the retention window. Keeping them for a while preserves the
// forensic trail around forced sign-outs.
type TokenSweeper struct {
	repo      outbound.RefreshTokenRepository
	logger    logger.Logger
	schedule  string
	retention time.Duration
	cron      *cron.Cron
}

func NewTokenSweeper(repo outbound.RefreshTokenRepository, log logger.Logger, schedule string, retention time.Duration) *TokenSweeper {
	return &TokenSweeper{
		repo:      repo,
		logger:    log,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(),
	}
}

func (s *TokenSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info(context.Background(), "Token sweeper started", map[string]interface{}{
		"schedule":  s.schedule,
		"retention": s.retention.String(),
	})
	return nil
}

func (s *TokenSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *TokenSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	deleted, err := s.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error(ctx, "Token sweep failed", err, nil)
		return
	}

	s.logger.Info(ctx, "Token sweep completed", map[string]interface{}{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	})
}

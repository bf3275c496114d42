package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/clinora/clinora/domain/entity"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeByProfileID(ctx context.Context, profileID string) error
	// DeleteExpiredBefore removes tokens that expired or were revoked before
	// the cutoff. Used by the maintenance sweeper only.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

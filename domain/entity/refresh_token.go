package entity

import (
	"time"
)

// RefreshToken is an opaque, revocable token tied to one profile. Expired and
// revoked tokens are kept until the maintenance sweeper removes them.
type RefreshToken struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"profile_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func NewRefreshToken(id, profileID, token string, expiresAt time.Time) *RefreshToken {
	return &RefreshToken{
		ID:        id,
		ProfileID: profileID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

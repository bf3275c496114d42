package inbound

import (
	"context"

	"github.com/clinora/clinora/domain/entity"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"`
	Profile      ProfileResponse `json:"profile"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	ProfileID    string `json:"-"`
}

type ProfileResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name,omitempty"`
	Role      entity.Role `json:"role"`
	Phone     string      `json:"phone,omitempty"`
	Active    bool        `json:"active"`
	CreatedAt string      `json:"created_at"`
}

type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	// ResolveProfile is the session/profile resolution step: it loads the
	// profile for an authenticated identity and force-terminates the session
	// when the profile is inactive or missing.
	ResolveProfile(ctx context.Context, profileID string) (*entity.Profile, error)
}

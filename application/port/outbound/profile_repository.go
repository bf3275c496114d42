package outbound

import (
	"context"
	"errors"

	"github.com/clinora/clinora/domain/entity"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type ProfileFilters struct {
	Role   entity.Role
	Active *bool
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Profile, error)
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	Create(ctx context.Context, profile *entity.Profile) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	FindAll(ctx context.Context, offset, limit int, filters ProfileFilters) ([]*entity.Profile, int, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

package inbound

import (
	"context"

	"github.com/clinora/clinora/domain/entity"
)

type UpdateRoleRequest struct {
	TargetProfileID string      `json:"-"`
	NewRole         entity.Role `json:"new_role"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// CreateUserResponse carries the plaintext password for the creating
// clinician's immediate display only; it is never persisted.
type CreateUserResponse struct {
	ProfileID string `json:"profile_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type ListProfilesRequest struct {
	Page  int
	Limit int
	Role  entity.Role
}

type ListProfilesResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type ListAuditRequest struct {
	Page  int
	Limit int
}

type ListAuditResponse struct {
	Entries []*entity.AuditEntry `json:"entries"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
}

// AdminUseCase groups the clinician-only procedures: role mutation, user
// provisioning, profile listing, and the audit trail.
type AdminUseCase interface {
	UpdateUserRole(ctx context.Context, actor *entity.Profile, req UpdateRoleRequest) (*entity.Profile, error)
	CreateUser(ctx context.Context, actor *entity.Profile, req CreateUserRequest) (*CreateUserResponse, error)
	ListProfiles(ctx context.Context, actor *entity.Profile, req ListProfilesRequest) (*ListProfilesResponse, error)
	ListAuditEntries(ctx context.Context, actor *entity.Profile, req ListAuditRequest) (*ListAuditResponse, error)
}

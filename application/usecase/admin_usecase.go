package usecase

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type AdminUseCase struct {
	profileRepo     outbound.ProfileRepository
	auditRepo       outbound.AuditRepository
	passwordService outbound.PasswordService
	audit           outbound.AuditRecorder
	logger          logger.Logger
}

func NewAdminUseCase(
	profileRepo outbound.ProfileRepository,
	auditRepo outbound.AuditRepository,
	passwordService outbound.PasswordService,
	audit outbound.AuditRecorder,
	log logger.Logger,
) inbound.AdminUseCase {
	return &AdminUseCase{
		profileRepo:     profileRepo,
		auditRepo:       auditRepo,
		passwordService: passwordService,
		audit:           audit,
		logger:          log,
	}
}

// UpdateUserRole changes the role of another user's profile. Only an active
// clinician may call it, and never against their own profile: demoting
// yourself mid-session would leave the UI holding permissions the server no
// longer honors.
func (uc *AdminUseCase) UpdateUserRole(ctx context.Context, actor *entity.Profile, req inbound.UpdateRoleRequest) (*entity.Profile, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		logger.LogSecurityEvent(ctx, uc.logger, "role_change_denied", "MEDIUM", map[string]interface{}{
			"actor_id":   actor.ID,
			"actor_role": actor.Role,
		})
		return nil, apperror.Unauthorized("clinician role required")
	}
	if !req.NewRole.IsValid() {
		return nil, apperror.InvalidArgument("role must be clinician or assistant")
	}
	if req.TargetProfileID == "" {
		return nil, apperror.InvalidArgument("target profile id is required")
	}
	if req.TargetProfileID == actor.ID {
		logger.LogSecurityEvent(ctx, uc.logger, "self_role_change_attempt", "MEDIUM", map[string]interface{}{
			"actor_id": actor.ID,
		})
		return nil, apperror.Forbidden("cannot change your own role")
	}

	target, err := uc.profileRepo.FindByID(ctx, req.TargetProfileID)
	if err != nil {
		if errors.Is(err, outbound.ErrProfileNotFound) {
			return nil, apperror.NotFound("profile not found")
		}
		return nil, apperror.Transient("failed to fetch target profile", err)
	}

	oldRole := target.Role
	if err := uc.profileRepo.UpdateRole(ctx, target.ID, req.NewRole); err != nil {
		if errors.Is(err, outbound.ErrProfileNotFound) {
			return nil, apperror.NotFound("profile not found")
		}
		return nil, apperror.Transient("failed to update role", err)
	}
	target.Role = req.NewRole

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditRoleChanged,
		TableName: profilesTable,
		RecordID:  target.ID,
		ActorID:   actor.ID,
		OldValues: map[string]interface{}{"role": oldRole},
		NewValues: map[string]interface{}{"role": req.NewRole},
	})

	uc.logger.Info(ctx, "Role changed", map[string]interface{}{
		"actor_id":  actor.ID,
		"target_id": target.ID,
		"old_role":  oldRole,
		"new_role":  req.NewRole,
	})

	return target, nil
}

// CreateUser provisions a credential and profile for a new staff member in a
// single step. New users always start as assistants; a clinician promotes
// them afterwards via UpdateUserRole.
func (uc *AdminUseCase) CreateUser(ctx context.Context, actor *entity.Profile, req inbound.CreateUserRequest) (*inbound.CreateUserResponse, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		logger.LogSecurityEvent(ctx, uc.logger, "user_creation_denied", "MEDIUM", map[string]interface{}{
			"actor_id":   actor.ID,
			"actor_role": actor.Role,
		})
		return nil, apperror.Unauthorized("clinician role required")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, apperror.InvalidArgument("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.InvalidArgument("password must be at least 8 characters")
	}

	exists, err := uc.profileRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Transient("failed to check email", err)
	}
	if exists {
		return nil, apperror.Conflict("a user with this email already exists")
	}

	hash, err := uc.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Transient("failed to hash password", err)
	}

	profile := entity.NewProfile(uuid.New().String(), req.Email, hash, entity.RoleAssistant)
	profile.FullName = req.FullName

	if err := uc.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, outbound.ErrEmailTaken) {
			return nil, apperror.Conflict("a user with this email already exists")
		}
		return nil, apperror.Transient("failed to create profile", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUserCreatedByAdmin,
		TableName: profilesTable,
		RecordID:  profile.ID,
		ActorID:   actor.ID,
		NewValues: map[string]interface{}{
			"email": profile.Email,
			"role":  profile.Role,
		},
	})

	uc.logger.Info(ctx, "User provisioned", map[string]interface{}{
		"actor_id":   actor.ID,
		"profile_id": profile.ID,
		"email":      profile.Email,
	})

	return &inbound.CreateUserResponse{
		ProfileID: profile.ID,
		Email:     profile.Email,
		Password:  req.Password,
	}, nil
}

func (uc *AdminUseCase) ListProfiles(ctx context.Context, actor *entity.Profile, req inbound.ListProfilesRequest) (*inbound.ListProfilesResponse, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		return nil, apperror.Unauthorized("clinician role required")
	}

	page, limit := normalizePage(req.Page, req.Limit)
	filters := outbound.ProfileFilters{Role: req.Role}

	profiles, total, err := uc.profileRepo.FindAll(ctx, (page-1)*limit, limit, filters)
	if err != nil {
		return nil, apperror.Transient("failed to list profiles", err)
	}

	responses := make([]inbound.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, toProfileResponse(p))
	}

	return &inbound.ListProfilesResponse{
		Profiles: responses,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (uc *AdminUseCase) ListAuditEntries(ctx context.Context, actor *entity.Profile, req inbound.ListAuditRequest) (*inbound.ListAuditResponse, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		return nil, apperror.Unauthorized("clinician role required")
	}

	page, limit := normalizePage(req.Page, req.Limit)

	entries, total, err := uc.auditRepo.FindRecent(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, apperror.Transient("failed to list audit entries", err)
	}

	return &inbound.ListAuditResponse{
		Entries: entries,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

const profilesTable = "profiles"

type AuthUseCase struct {
	profileRepo      outbound.ProfileRepository
	refreshTokenRepo outbound.RefreshTokenRepository
	tokenService     outbound.TokenService
	passwordService  outbound.PasswordService
	rateLimitService outbound.RateLimitService
	audit            outbound.AuditRecorder
	logger           logger.Logger
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthUseCase(
	profileRepo outbound.ProfileRepository,
	refreshTokenRepo outbound.RefreshTokenRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	rateLimitService outbound.RateLimitService,
	audit outbound.AuditRecorder,
	log logger.Logger,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		profileRepo:      profileRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokenService:     tokenService,
		passwordService:  passwordService,
		rateLimitService: rateLimitService,
		audit:            audit,
		logger:           log,
		accessTokenTTL:   accessTokenTTL,
		refreshTokenTTL:  refreshTokenTTL,
	}
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperror.InvalidArgument("email and password are required")
	}

	ip := ClientIPFromContext(ctx)
	if uc.rateLimitService != nil {
		blocked, err := uc.rateLimitService.IsBlocked(ctx, fmt.Sprintf("ip:%s", ip))
		if err != nil {
			uc.logger.Error(ctx, "Failed to check IP block status", err, map[string]interface{}{"ip": ip})
		}
		if blocked {
			logger.LogSecurityEvent(ctx, uc.logger, "blocked_ip_login_attempt", "MEDIUM", map[string]interface{}{
				"ip":    ip,
				"email": req.Email,
			})
			return nil, apperror.Unauthorized("too many failed attempts, try again later")
		}

		allowed, err := uc.rateLimitService.CheckLimit(ctx, fmt.Sprintf("ip:%s", ip), 5, 15*time.Minute)
		if err != nil {
			uc.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"ip": ip})
		}
		if !allowed {
			uc.rateLimitService.Block(ctx, fmt.Sprintf("ip:%s", ip), 30*time.Minute, "login rate limit exceeded")
			logger.LogSecurityEvent(ctx, uc.logger, "ip_rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip":    ip,
				"email": req.Email,
			})
			return nil, apperror.Unauthorized("too many failed attempts, try again later")
		}
	}

	profile, err := uc.profileRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, outbound.ErrProfileNotFound) {
			uc.recordFailedAttempt(ctx, ip)
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_unknown_email", "", ip, false, map[string]interface{}{
				"email": req.Email,
			})
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, apperror.Transient("failed to look up profile", err)
	}

	if !profile.Active {
		logger.LogSecurityEvent(ctx, uc.logger, "inactive_profile_login_attempt", "MEDIUM", map[string]interface{}{
			"profile_id": profile.ID,
		})
		return nil, apperror.Unauthorized("account is inactive")
	}

	valid, err := uc.passwordService.VerifyPassword(req.Password, profile.PasswordHash)
	if err != nil {
		return nil, apperror.Transient("password verification failed", err)
	}
	if !valid {
		uc.recordFailedAttempt(ctx, ip)
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", profile.ID, ip, false, nil)
		return nil, apperror.Unauthorized("invalid email or password")
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(outbound.TokenClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
	})
	if err != nil {
		return nil, apperror.Transient("failed to generate access token", err)
	}

	refreshToken, err := uc.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, apperror.Transient("failed to generate refresh token", err)
	}

	tokenEntity := entity.NewRefreshToken(uuid.New().String(), profile.ID, refreshToken, time.Now().Add(uc.refreshTokenTTL))
	if err := uc.refreshTokenRepo.Create(ctx, tokenEntity); err != nil {
		return nil, apperror.Transient("failed to store refresh token", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUserLogin,
		TableName: profilesTable,
		RecordID:  profile.ID,
		ActorID:   profile.ID,
	})

	logger.LogAuthEvent(ctx, uc.logger, "login_successful", profile.ID, ip, true, map[string]interface{}{
		"email": req.Email,
	})

	return &inbound.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(uc.accessTokenTTL.Seconds()),
		Profile:      toProfileResponse(profile),
	}, nil
}

func (uc *AuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.RefreshResponse, error) {
	if req.RefreshToken == "" {
		return nil, apperror.InvalidArgument("refresh token is required")
	}

	tokenEntity, err := uc.refreshTokenRepo.FindByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
			return nil, apperror.Unauthorized("invalid refresh token")
		}
		return nil, apperror.Transient("failed to look up refresh token", err)
	}

	if tokenEntity.IsExpired() {
		return nil, apperror.Unauthorized("refresh token expired")
	}
	if tokenEntity.IsRevoked() {
		logger.LogSecurityEvent(ctx, uc.logger, "revoked_refresh_token_used", "HIGH", map[string]interface{}{
			"profile_id": tokenEntity.ProfileID,
		})
		return nil, apperror.Unauthorized("refresh token revoked")
	}

	profile, err := uc.ResolveProfile(ctx, tokenEntity.ProfileID)
	if err != nil {
		return nil, err
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(outbound.TokenClaims{
		ProfileID: profile.ID,
		Email:     profile.Email,
	})
	if err != nil {
		return nil, apperror.Transient("failed to generate access token", err)
	}

	return &inbound.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(uc.accessTokenTTL.Seconds()),
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, req inbound.LogoutRequest) error {
	// Logout audit is best-effort and recorded before invalidation so the
	// actor is still resolvable.
	if req.ProfileID != "" {
		uc.audit.Record(ctx, &entity.AuditEntry{
			Action:    entity.AuditUserLogout,
			TableName: profilesTable,
			RecordID:  req.ProfileID,
			ActorID:   req.ProfileID,
		})
	}

	if req.RefreshToken != "" {
		if err := uc.refreshTokenRepo.Revoke(ctx, req.RefreshToken); err != nil {
			if errors.Is(err, outbound.ErrRefreshTokenNotFound) {
				return apperror.NotFound("refresh token not found")
			}
			return apperror.Transient("failed to revoke refresh token", err)
		}
		logger.LogAuthEvent(ctx, uc.logger, "logout_successful", req.ProfileID, "", true, nil)
		return nil
	}

	if req.ProfileID != "" {
		if err := uc.refreshTokenRepo.RevokeByProfileID(ctx, req.ProfileID); err != nil {
			return apperror.Transient("failed to revoke refresh tokens", err)
		}
		logger.LogAuthEvent(ctx, uc.logger, "logout_successful", req.ProfileID, "", true, nil)
		return nil
	}

	return apperror.InvalidArgument("refresh token or profile id required")
}

// ResolveProfile loads the profile behind an authenticated identity and
// enforces the session/profile state machine: an inactive profile terminates
// the session unilaterally, and a missing profile row is treated as an
// orphaned identity rather than a provisioning race (provisioning creates
// both rows in one transaction). Both paths revoke every refresh token the
// identity holds; revoking an already-revoked set is a no-op, so repeated
// fetches after the forced sign-out stay idempotent.
func (uc *AuthUseCase) ResolveProfile(ctx context.Context, profileID string) (*entity.Profile, error) {
	if profileID == "" {
		return nil, apperror.Unauthorized("no authenticated identity")
	}

	profile, err := uc.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, outbound.ErrProfileNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, "orphaned_identity", "HIGH", map[string]interface{}{
				"profile_id": profileID,
			})
			uc.forceSignOut(ctx, profileID)
			return nil, apperror.Unauthorized("no profile for this identity")
		}
		return nil, apperror.Transient("failed to fetch profile", err)
	}

	if !profile.Active {
		logger.LogSecurityEvent(ctx, uc.logger, "inactive_profile_session_terminated", "MEDIUM", map[string]interface{}{
			"profile_id": profileID,
		})
		uc.forceSignOut(ctx, profileID)
		return nil, apperror.Unauthorized("account is inactive")
	}

	return profile, nil
}

func (uc *AuthUseCase) forceSignOut(ctx context.Context, profileID string) {
	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUserLogout,
		TableName: profilesTable,
		RecordID:  profileID,
		ActorID:   profileID,
	})
	if err := uc.refreshTokenRepo.RevokeByProfileID(ctx, profileID); err != nil {
		uc.logger.Error(ctx, "Failed to revoke tokens during forced sign-out", err, map[string]interface{}{
			"profile_id": profileID,
		})
	}
}

func (uc *AuthUseCase) recordFailedAttempt(ctx context.Context, ip string) {
	if uc.rateLimitService == nil {
		return
	}
	if err := uc.rateLimitService.Increment(ctx, fmt.Sprintf("ip:%s", ip), 15*time.Minute); err != nil {
		uc.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"ip": ip})
	}
}

func toProfileResponse(p *entity.Profile) inbound.ProfileResponse {
	return inbound.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      p.Role,
		Phone:     p.Phone,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

type clientIPKey struct{}

// ContextWithClientIP attaches the caller's remote IP for rate limiting and
// auth event logs.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext returns the caller IP, or "unknown".
func ClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}

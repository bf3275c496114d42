package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/application/usecase"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type profileKey struct{}

type AuthMiddleware struct {
	tokenService outbound.TokenService
	authUseCase  inbound.AuthUseCase
}

func NewAuthMiddleware(tokenService outbound.TokenService, authUseCase inbound.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		authUseCase:  authUseCase,
	}
}

// RequireAuth validates the bearer token and resolves the caller's profile.
// Resolution runs on every request so a deactivated profile is cut off
// mid-session, not just at the next login.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "authorization header required")
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		profile, err := m.authUseCase.ResolveProfile(r.Context(), claims.ProfileID)
		if err != nil {
			response.FromError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), profileKey{}, profile)
		ctx = usecase.ContextWithClientIP(ctx, clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireClinician layers the role gate on top of RequireAuth.
func (m *AuthMiddleware) RequireClinician(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		profile := ProfileFromContext(r.Context())
		if profile == nil || profile.Role != entity.RoleClinician {
			response.Unauthorized(w, "clinician role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProfileFromContext returns the resolved caller profile, or nil.
func ProfileFromContext(ctx context.Context) *entity.Profile {
	profile, _ := ctx.Value(profileKey{}).(*entity.Profile)
	return profile
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

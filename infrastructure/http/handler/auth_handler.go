package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/usecase"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	ctx := usecase.ContextWithClientIP(r.Context(), clientIP(r))

	res, err := h.authUseCase.Login(ctx, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "login successful", res)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req inbound.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	res, err := h.authUseCase.Refresh(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "token refreshed", res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req inbound.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if profile := middleware.ProfileFromContext(r.Context()); profile != nil {
		req.ProfileID = profile.ID
	}

	if err := h.authUseCase.Logout(r.Context(), req); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "logout successful", nil)
}

// Me returns the caller's resolved profile. The middleware already ran the
// session/profile resolution, so reaching this handler implies an active
// profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	response.Success(w, http.StatusOK, "profile", profile)
}

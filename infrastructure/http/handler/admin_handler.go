package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type AdminHandler struct {
	adminUseCase inbound.AdminUseCase
}

func NewAdminHandler(adminUseCase inbound.AdminUseCase) *AdminHandler {
	return &AdminHandler{adminUseCase: adminUseCase}
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	req.TargetProfileID = mux.Vars(r)["id"]

	actor := middleware.ProfileFromContext(r.Context())

	updated, err := h.adminUseCase.UpdateUserRole(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "role updated", updated)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	created, err := h.adminUseCase.CreateUser(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "user created", created)
}

func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListProfilesRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
		Role:  entity.Role(r.URL.Query().Get("role")),
	}

	actor := middleware.ProfileFromContext(r.Context())

	res, err := h.adminUseCase.ListProfiles(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "profiles", res)
}

func (h *AdminHandler) ListAuditEntries(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListAuditRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}

	actor := middleware.ProfileFromContext(r.Context())

	res, err := h.adminUseCase.ListAuditEntries(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "audit entries", res)
}

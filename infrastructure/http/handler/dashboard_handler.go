package handler

import (
	"net/http"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type DashboardHandler struct {
	dashboardUseCase inbound.DashboardUseCase
}

func NewDashboardHandler(dashboardUseCase inbound.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboardUseCase: dashboardUseCase}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardUseCase.GetStats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "dashboard stats", stats)
}

package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type AppointmentHandler struct {
	appointmentUseCase inbound.AppointmentUseCase
}

func NewAppointmentHandler(appointmentUseCase inbound.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{appointmentUseCase: appointmentUseCase}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	appointment, err := h.appointmentUseCase.CreateAppointment(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "appointment created", appointment)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	appointment, err := h.appointmentUseCase.UpdateAppointment(r.Context(), actor, mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment updated", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	if err := h.appointmentUseCase.CancelAppointment(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment cancelled", nil)
}

// ListByDate serves the daily agenda; defaults to today.
func (h *AppointmentHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if dateParam := r.URL.Query().Get("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			response.BadRequest(w, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	appointments, err := h.appointmentUseCase.ListByDate(r.Context(), day)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointments", appointments)
}

func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUseCase.ListByPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointments", appointments)
}

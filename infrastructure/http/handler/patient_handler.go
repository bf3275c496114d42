package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
)

type PatientHandler struct {
	patientUseCase inbound.PatientUseCase
}

func NewPatientHandler(patientUseCase inbound.PatientUseCase) *PatientHandler {
	return &PatientHandler{patientUseCase: patientUseCase}
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	patient, err := h.patientUseCase.CreatePatient(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "patient created", patient)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	patient, err := h.patientUseCase.UpdatePatient(r.Context(), actor, mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "patient updated", patient)
}

func (h *PatientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	if err := h.patientUseCase.DeactivatePatient(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "patient deactivated", nil)
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUseCase.GetPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "patient", patient)
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListPatientsRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
		Name:  r.URL.Query().Get("name"),
	}

	res, err := h.patientUseCase.ListPatients(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "patients", res)
}

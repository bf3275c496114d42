package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/http/middleware"
	"github.com/clinora/clinora/infrastructure/http/response"
)

const maxImageUpload = 10 << 20

type ConsultationHandler struct {
	consultationUseCase inbound.ConsultationUseCase
}

func NewConsultationHandler(consultationUseCase inbound.ConsultationUseCase) *ConsultationHandler {
	return &ConsultationHandler{consultationUseCase: consultationUseCase}
}

func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	consultation, err := h.consultationUseCase.CreateConsultation(r.Context(), actor, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "consultation created", consultation)
}

func (h *ConsultationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	consultation, err := h.consultationUseCase.UpdateConsultation(r.Context(), actor, mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "consultation updated", consultation)
}

func (h *ConsultationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ProfileFromContext(r.Context())

	if err := h.consultationUseCase.DeleteConsultation(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "consultation deleted", nil)
}

func (h *ConsultationHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	consultations, err := h.consultationUseCase.ListByPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "consultations", consultations)
}

// AttachImage accepts a multipart upload with an "image" file part plus
// image_type and description form fields.
func (h *ConsultationHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageUpload+1))
	if err != nil {
		response.BadRequest(w, "failed to read image")
		return
	}

	actor := middleware.ProfileFromContext(r.Context())

	image, err := h.consultationUseCase.AttachImage(r.Context(), actor, inbound.AttachImageRequest{
		ConsultationID: mux.Vars(r)["id"],
		ImageType:      entity.ImageType(r.FormValue("image_type")),
		Description:    r.FormValue("description"),
		FileName:       header.Filename,
		Data:           data,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "image attached", image)
}

func (h *ConsultationHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.consultationUseCase.ListImages(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "images", images)
}

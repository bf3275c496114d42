package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

const (
	consultationsTable = "consultations"
	maxImageBytes      = 10 << 20
)

type ConsultationUseCase struct {
	consultationRepo outbound.ConsultationRepository
	patientRepo      outbound.PatientRepository
	imageStore       outbound.ImageStore
	audit            outbound.AuditRecorder
	logger           logger.Logger
}

func NewConsultationUseCase(
	consultationRepo outbound.ConsultationRepository,
	patientRepo outbound.PatientRepository,
	imageStore outbound.ImageStore,
	audit outbound.AuditRecorder,
	log logger.Logger,
) inbound.ConsultationUseCase {
	return &ConsultationUseCase{
		consultationRepo: consultationRepo,
		patientRepo:      patientRepo,
		imageStore:       imageStore,
		audit:            audit,
		logger:           log,
	}
}

// CreateConsultation records a performed treatment. Both roles operate
// clinically: any authenticated active caller may write consultation records.
func (uc *ConsultationUseCase) CreateConsultation(ctx context.Context, actor *entity.Profile, req inbound.CreateConsultationRequest) (*entity.Consultation, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if req.PatientID == "" || req.Diagnosis == "" {
		return nil, apperror.InvalidArgument("patient id and diagnosis are required")
	}

	consultationDate := time.Now()
	if req.ConsultationDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ConsultationDate)
		if err != nil {
			return nil, apperror.InvalidArgument("consultation date must be YYYY-MM-DD")
		}
		consultationDate = parsed
	}

	paymentStatus := entity.PaymentPending
	if req.PaymentStatus != "" {
		paymentStatus = entity.PaymentStatus(req.PaymentStatus)
		if !paymentStatus.IsValid() {
			return nil, apperror.InvalidArgument("payment status must be pending, paid or partial")
		}
	}

	var nextAppointment *time.Time
	if req.NextAppointment != "" {
		parsed, err := time.Parse("2006-01-02", req.NextAppointment)
		if err != nil {
			return nil, apperror.InvalidArgument("next appointment must be YYYY-MM-DD")
		}
		nextAppointment = &parsed
	}

	if _, err := uc.patientRepo.FindByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, outbound.ErrPatientNotFound) {
			return nil, apperror.NotFound("patient not found")
		}
		return nil, apperror.Transient("failed to fetch patient", err)
	}

	consultation := &entity.Consultation{
		ID:                 uuid.New().String(),
		PatientID:          req.PatientID,
		ConsultationDate:   consultationDate,
		Diagnosis:          req.Diagnosis,
		TreatmentPerformed: req.TreatmentPerformed,
		Observations:       req.Observations,
		Cost:               req.Cost,
		PaymentStatus:      paymentStatus,
		NextAppointment:    nextAppointment,
		CreatedBy:          actor.ID,
		CreatedAt:          time.Now(),
	}

	if err := uc.consultationRepo.Create(ctx, consultation); err != nil {
		return nil, apperror.Transient("failed to create consultation", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditCreated,
		TableName: consultationsTable,
		RecordID:  consultation.ID,
		ActorID:   actor.ID,
		NewValues: map[string]interface{}{"patient_id": consultation.PatientID},
	})

	return consultation, nil
}

func (uc *ConsultationUseCase) UpdateConsultation(ctx context.Context, actor *entity.Profile, consultationID string, req inbound.UpdateConsultationRequest) (*entity.Consultation, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	consultation, err := uc.consultationRepo.FindByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, outbound.ErrConsultationNotFound) {
			return nil, apperror.NotFound("consultation not found")
		}
		return nil, apperror.Transient("failed to fetch consultation", err)
	}

	if req.Diagnosis != nil {
		consultation.Diagnosis = *req.Diagnosis
	}
	if req.TreatmentPerformed != nil {
		consultation.TreatmentPerformed = *req.TreatmentPerformed
	}
	if req.Observations != nil {
		consultation.Observations = *req.Observations
	}
	if req.Cost != nil {
		consultation.Cost = *req.Cost
	}
	if req.PaymentStatus != nil {
		status := entity.PaymentStatus(*req.PaymentStatus)
		if !status.IsValid() {
			return nil, apperror.InvalidArgument("payment status must be pending, paid or partial")
		}
		consultation.PaymentStatus = status
	}

	if err := uc.consultationRepo.Update(ctx, consultation); err != nil {
		return nil, apperror.Transient("failed to update consultation", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUpdated,
		TableName: consultationsTable,
		RecordID:  consultation.ID,
		ActorID:   actor.ID,
	})

	return consultation, nil
}

// DeleteConsultation removes a consultation and its image records. Like
// patient deactivation, destructive actions stay clinician-gated.
func (uc *ConsultationUseCase) DeleteConsultation(ctx context.Context, actor *entity.Profile, consultationID string) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		return apperror.Unauthorized("clinician role required")
	}

	consultation, err := uc.consultationRepo.FindByID(ctx, consultationID)
	if err != nil {
		if errors.Is(err, outbound.ErrConsultationNotFound) {
			return apperror.NotFound("consultation not found")
		}
		return apperror.Transient("failed to fetch consultation", err)
	}

	if err := uc.consultationRepo.Delete(ctx, consultationID); err != nil {
		if errors.Is(err, outbound.ErrConsultationNotFound) {
			return apperror.NotFound("consultation not found")
		}
		return apperror.Transient("failed to delete consultation", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditDeleted,
		TableName: consultationsTable,
		RecordID:  consultation.ID,
		ActorID:   actor.ID,
		OldValues: map[string]interface{}{
			"patient_id": consultation.PatientID,
			"diagnosis":  consultation.Diagnosis,
		},
	})

	return nil
}

func (uc *ConsultationUseCase) ListByPatient(ctx context.Context, patientID string) ([]*entity.Consultation, error) {
	consultations, err := uc.consultationRepo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Transient("failed to list consultations", err)
	}
	return consultations, nil
}

func (uc *ConsultationUseCase) AttachImage(ctx context.Context, actor *entity.Profile, req inbound.AttachImageRequest) (*entity.ConsultationImage, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if !req.ImageType.IsValid() {
		return nil, apperror.InvalidArgument("image type must be before, after, xray or other")
	}
	if len(req.Data) == 0 {
		return nil, apperror.InvalidArgument("image data is required")
	}
	if len(req.Data) > maxImageBytes {
		return nil, apperror.InvalidArgument("image exceeds 10MB limit")
	}

	consultation, err := uc.consultationRepo.FindByID(ctx, req.ConsultationID)
	if err != nil {
		if errors.Is(err, outbound.ErrConsultationNotFound) {
			return nil, apperror.NotFound("consultation not found")
		}
		return nil, apperror.Transient("failed to fetch consultation", err)
	}

	imageID := uuid.New().String()
	storedName := fmt.Sprintf("%s/%s%s", consultation.ID, imageID, filepath.Ext(req.FileName))
	url, err := uc.imageStore.Store(ctx, storedName, req.Data)
	if err != nil {
		return nil, apperror.Transient("failed to store image", err)
	}

	image := &entity.ConsultationImage{
		ID:             imageID,
		ConsultationID: consultation.ID,
		ImageType:      req.ImageType,
		ImageURL:       url,
		Description:    req.Description,
		CreatedAt:      time.Now(),
	}

	if err := uc.consultationRepo.AddImage(ctx, image); err != nil {
		return nil, apperror.Transient("failed to record image", err)
	}

	uc.logger.Info(ctx, "Consultation image attached", map[string]interface{}{
		"consultation_id": consultation.ID,
		"image_id":        image.ID,
		"image_type":      image.ImageType,
	})

	return image, nil
}

func (uc *ConsultationUseCase) ListImages(ctx context.Context, consultationID string) ([]*entity.ConsultationImage, error) {
	images, err := uc.consultationRepo.FindImages(ctx, consultationID)
	if err != nil {
		return nil, apperror.Transient("failed to list images", err)
	}
	return images, nil
}

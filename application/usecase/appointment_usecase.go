package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
	"github.com/clinora/clinora/infrastructure/service/logger"
)

const appointmentsTable = "appointments"

type AppointmentUseCase struct {
	appointmentRepo outbound.AppointmentRepository
	patientRepo     outbound.PatientRepository
	audit           outbound.AuditRecorder
	logger          logger.Logger
}

func NewAppointmentUseCase(
	appointmentRepo outbound.AppointmentRepository,
	patientRepo outbound.PatientRepository,
	audit outbound.AuditRecorder,
	log logger.Logger,
) inbound.AppointmentUseCase {
	return &AppointmentUseCase{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		audit:           audit,
		logger:          log,
	}
}

func (uc *AppointmentUseCase) CreateAppointment(ctx context.Context, actor *entity.Profile, req inbound.CreateAppointmentRequest) (*entity.Appointment, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if req.PatientID == "" {
		return nil, apperror.InvalidArgument("patient id is required")
	}

	date, err := time.Parse("2006-01-02", req.AppointmentDate)
	if err != nil {
		return nil, apperror.InvalidArgument("appointment date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.AppointmentTime); err != nil {
		return nil, apperror.InvalidArgument("appointment time must be HH:MM")
	}

	if _, err := uc.patientRepo.FindByID(ctx, req.PatientID); err != nil {
		if errors.Is(err, outbound.ErrPatientNotFound) {
			return nil, apperror.NotFound("patient not found")
		}
		return nil, apperror.Transient("failed to fetch patient", err)
	}

	appointment := entity.NewAppointment(uuid.New().String(), req.PatientID, date, req.AppointmentTime, req.Treatment, actor.ID)
	if req.DurationMinutes > 0 {
		appointment.DurationMinutes = req.DurationMinutes
	}
	appointment.Notes = req.Notes

	if err := uc.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, apperror.Transient("failed to create appointment", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditCreated,
		TableName: appointmentsTable,
		RecordID:  appointment.ID,
		ActorID:   actor.ID,
		NewValues: map[string]interface{}{
			"patient_id": appointment.PatientID,
			"date":       req.AppointmentDate,
			"time":       req.AppointmentTime,
		},
	})

	return appointment, nil
}

func (uc *AppointmentUseCase) UpdateAppointment(ctx context.Context, actor *entity.Profile, appointmentID string, req inbound.UpdateAppointmentRequest) (*entity.Appointment, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	appointment, err := uc.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, outbound.ErrAppointmentNotFound) {
			return nil, apperror.NotFound("appointment not found")
		}
		return nil, apperror.Transient("failed to fetch appointment", err)
	}

	oldStatus := appointment.Status
	if req.AppointmentDate != nil {
		date, err := time.Parse("2006-01-02", *req.AppointmentDate)
		if err != nil {
			return nil, apperror.InvalidArgument("appointment date must be YYYY-MM-DD")
		}
		appointment.AppointmentDate = date
	}
	if req.AppointmentTime != nil {
		if _, err := time.Parse("15:04", *req.AppointmentTime); err != nil {
			return nil, apperror.InvalidArgument("appointment time must be HH:MM")
		}
		appointment.AppointmentTime = *req.AppointmentTime
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, apperror.InvalidArgument("duration must be positive")
		}
		appointment.DurationMinutes = *req.DurationMinutes
	}
	if req.Treatment != nil {
		appointment.Treatment = *req.Treatment
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, apperror.InvalidArgument("status must be scheduled, completed or cancelled")
		}
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, apperror.Transient("failed to update appointment", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUpdated,
		TableName: appointmentsTable,
		RecordID:  appointment.ID,
		ActorID:   actor.ID,
		OldValues: map[string]interface{}{"status": oldStatus},
		NewValues: map[string]interface{}{"status": appointment.Status},
	})

	return appointment, nil
}

func (uc *AppointmentUseCase) CancelAppointment(ctx context.Context, actor *entity.Profile, appointmentID string) error {
	cancelled := entity.AppointmentCancelled
	_, err := uc.UpdateAppointment(ctx, actor, appointmentID, inbound.UpdateAppointmentRequest{Status: &cancelled})
	return err
}

func (uc *AppointmentUseCase) ListByDate(ctx context.Context, day time.Time) ([]*entity.Appointment, error) {
	appointments, err := uc.appointmentRepo.FindByDate(ctx, day)
	if err != nil {
		return nil, apperror.Transient("failed to list appointments", err)
	}
	return appointments, nil
}

func (uc *AppointmentUseCase) ListByPatient(ctx context.Context, patientID string) ([]*entity.Appointment, error) {
	appointments, err := uc.appointmentRepo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, apperror.Transient("failed to list appointments", err)
	}
	return appointments, nil
}

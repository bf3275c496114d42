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

const patientsTable = "patients"

type PatientUseCase struct {
	patientRepo outbound.PatientRepository
	audit       outbound.AuditRecorder
	logger      logger.Logger
}

func NewPatientUseCase(patientRepo outbound.PatientRepository, audit outbound.AuditRecorder, log logger.Logger) inbound.PatientUseCase {
	return &PatientUseCase{
		patientRepo: patientRepo,
		audit:       audit,
		logger:      log,
	}
}

func (uc *PatientUseCase) CreatePatient(ctx context.Context, actor *entity.Profile, req inbound.CreatePatientRequest) (*entity.Patient, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if req.FullName == "" || req.Phone == "" {
		return nil, apperror.InvalidArgument("full name and phone are required")
	}

	birthDate, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		return nil, apperror.InvalidArgument("birth date must be YYYY-MM-DD")
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return nil, apperror.InvalidArgument("invalid email format")
	}

	patient := entity.NewPatient(uuid.New().String(), req.FullName, birthDate, req.Phone)
	patient.Email = req.Email
	patient.Address = req.Address
	patient.EmergencyContact = req.EmergencyContact
	patient.EmergencyPhone = req.EmergencyPhone
	patient.MedicalHistory = req.MedicalHistory
	patient.Allergies = req.Allergies

	if err := uc.patientRepo.Create(ctx, patient); err != nil {
		return nil, apperror.Transient("failed to create patient", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditCreated,
		TableName: patientsTable,
		RecordID:  patient.ID,
		ActorID:   actor.ID,
		NewValues: map[string]interface{}{"full_name": patient.FullName},
	})

	return patient, nil
}

func (uc *PatientUseCase) UpdatePatient(ctx context.Context, actor *entity.Profile, patientID string, req inbound.UpdatePatientRequest) (*entity.Patient, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("authentication required")
	}

	patient, err := uc.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, outbound.ErrPatientNotFound) {
			return nil, apperror.NotFound("patient not found")
		}
		return nil, apperror.Transient("failed to fetch patient", err)
	}

	old := *patient
	if req.FullName != nil {
		patient.FullName = *req.FullName
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		if *req.Email != "" && !emailPattern.MatchString(*req.Email) {
			return nil, apperror.InvalidArgument("invalid email format")
		}
		patient.Email = *req.Email
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.EmergencyPhone != nil {
		patient.EmergencyPhone = *req.EmergencyPhone
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}

	if err := uc.patientRepo.Update(ctx, patient); err != nil {
		return nil, apperror.Transient("failed to update patient", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditUpdated,
		TableName: patientsTable,
		RecordID:  patient.ID,
		ActorID:   actor.ID,
		OldValues: map[string]interface{}{"full_name": old.FullName, "phone": old.Phone},
		NewValues: map[string]interface{}{"full_name": patient.FullName, "phone": patient.Phone},
	})

	return patient, nil
}

// DeactivatePatient soft-deletes: the row stays for history and audit.
func (uc *PatientUseCase) DeactivatePatient(ctx context.Context, actor *entity.Profile, patientID string) error {
	if actor == nil {
		return apperror.Unauthorized("authentication required")
	}
	if actor.Role != entity.RoleClinician {
		return apperror.Unauthorized("clinician role required")
	}

	if err := uc.patientRepo.SetActive(ctx, patientID, false); err != nil {
		if errors.Is(err, outbound.ErrPatientNotFound) {
			return apperror.NotFound("patient not found")
		}
		return apperror.Transient("failed to deactivate patient", err)
	}

	uc.audit.Record(ctx, &entity.AuditEntry{
		Action:    entity.AuditDeleted,
		TableName: patientsTable,
		RecordID:  patientID,
		ActorID:   actor.ID,
	})

	return nil
}

func (uc *PatientUseCase) GetPatient(ctx context.Context, patientID string) (*entity.Patient, error) {
	patient, err := uc.patientRepo.FindByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, outbound.ErrPatientNotFound) {
			return nil, apperror.NotFound("patient not found")
		}
		return nil, apperror.Transient("failed to fetch patient", err)
	}
	return patient, nil
}

func (uc *PatientUseCase) ListPatients(ctx context.Context, req inbound.ListPatientsRequest) (*inbound.ListPatientsResponse, error) {
	page, limit := normalizePage(req.Page, req.Limit)
	active := true
	filters := outbound.PatientFilters{Name: req.Name, Active: &active}

	patients, total, err := uc.patientRepo.FindAll(ctx, (page-1)*limit, limit, filters)
	if err != nil {
		return nil, apperror.Transient("failed to list patients", err)
	}

	return &inbound.ListPatientsResponse{
		Patients: patients,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

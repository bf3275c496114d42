package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/clinora/clinora/application/port/inbound"
	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/application/usecase"
	"github.com/clinora/clinora/domain/apperror"
	"github.com/clinora/clinora/domain/entity"
)

func newPatientUseCase(patientRepo *MockPatientRepository, audit *capturingAuditRecorder) inbound.PatientUseCase {
	return usecase.NewPatientUseCase(patientRepo, audit, testLogger())
}

func testPatient() *entity.Patient {
	birth := time.Date(1987, 6, 12, 0, 0, 0, 0, time.UTC)
	p := entity.NewPatient("pat-1", "Carla Ortiz", birth, "555-0101")
	return p
}

func TestCreatePatient_Success(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)
	audit := &capturingAuditRecorder{}

	patientRepo.On("Create", ctx, mock.MatchedBy(func(p *entity.Patient) bool {
		return p.FullName == "Carla Ortiz" && p.Phone == "555-0101" && p.Active
	})).Return(nil)

	uc := newPatientUseCase(patientRepo, audit)

	patient, err := uc.CreatePatient(ctx, activeClinician(), inbound.CreatePatientRequest{
		FullName:  "Carla Ortiz",
		BirthDate: "1987-06-12",
		Phone:     "555-0101",
		Allergies: "penicillin",
	})

	assert.NoError(t, err)
	assert.Equal(t, "penicillin", patient.Allergies)
	patientRepo.AssertExpectations(t)

	entries := audit.Entries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, entity.AuditCreated, entries[0].Action)
		assert.Equal(t, "patients", entries[0].TableName)
	}
}

func TestCreatePatient_AssistantCanCreate(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)
	patientRepo.On("Create", ctx, mock.AnythingOfType("*entity.Patient")).Return(nil)

	uc := newPatientUseCase(patientRepo, &capturingAuditRecorder{})

	_, err := uc.CreatePatient(ctx, assistantProfile(), inbound.CreatePatientRequest{
		FullName:  "Carla Ortiz",
		BirthDate: "1987-06-12",
		Phone:     "555-0101",
	})

	assert.NoError(t, err)
}

func TestCreatePatient_BadBirthDate(t *testing.T) {
	uc := newPatientUseCase(new(MockPatientRepository), &capturingAuditRecorder{})

	_, err := uc.CreatePatient(context.Background(), activeClinician(), inbound.CreatePatientRequest{
		FullName:  "Carla Ortiz",
		BirthDate: "12/06/1987",
		Phone:     "555-0101",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}

func TestCreatePatient_InvalidEmail(t *testing.T) {
	uc := newPatientUseCase(new(MockPatientRepository), &capturingAuditRecorder{})

	_, err := uc.CreatePatient(context.Background(), activeClinician(), inbound.CreatePatientRequest{
		FullName:  "Carla Ortiz",
		BirthDate: "1987-06-12",
		Phone:     "555-0101",
		Email:     "not-an-email",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}

func TestCreatePatient_MissingPhone(t *testing.T) {
	uc := newPatientUseCase(new(MockPatientRepository), &capturingAuditRecorder{})

	_, err := uc.CreatePatient(context.Background(), activeClinician(), inbound.CreatePatientRequest{
		FullName:  "Carla Ortiz",
		BirthDate: "1987-06-12",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindInvalidArgument))
}

func TestUpdatePatient_PatchesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)
	audit := &capturingAuditRecorder{}

	patient := testPatient()
	patientRepo.On("FindByID", ctx, patient.ID).Return(patient, nil)
	patientRepo.On("Update", ctx, patient).Return(nil)

	uc := newPatientUseCase(patientRepo, audit)

	newPhone := "555-0202"
	updated, err := uc.UpdatePatient(ctx, assistantProfile(), patient.ID, inbound.UpdatePatientRequest{
		Phone: &newPhone,
	})

	assert.NoError(t, err)
	assert.Equal(t, "555-0202", updated.Phone)
	assert.Equal(t, "Carla Ortiz", updated.FullName)

	entries := audit.Entries()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, entity.AuditUpdated, entries[0].Action)
		assert.Equal(t, "555-0101", entries[0].OldValues["phone"])
		assert.Equal(t, "555-0202", entries[0].NewValues["phone"])
	}
}

func TestUpdatePatient_NotFound(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)
	patientRepo.On("FindByID", ctx, "missing").Return(nil, outbound.ErrPatientNotFound)

	uc := newPatientUseCase(patientRepo, &capturingAuditRecorder{})

	_, err := uc.UpdatePatient(ctx, activeClinician(), "missing", inbound.UpdatePatientRequest{})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeactivatePatient_AssistantUnauthorized(t *testing.T) {
	patientRepo := new(MockPatientRepository)
	audit := &capturingAuditRecorder{}
	uc := newPatientUseCase(patientRepo, audit)

	err := uc.DeactivatePatient(context.Background(), assistantProfile(), "pat-1")

	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
	patientRepo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, audit.Entries())
}

func TestDeactivatePatient_Success(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)
	audit := &capturingAuditRecorder{}
	patientRepo.On("SetActive", ctx, "pat-1", false).Return(nil)

	uc := newPatientUseCase(patientRepo, audit)

	err := uc.DeactivatePatient(ctx, activeClinician(), "pat-1")

	assert.NoError(t, err)
	patientRepo.AssertExpectations(t)
	assert.Equal(t, []string{entity.AuditDeleted}, audit.Actions())
}

func TestListPatients_FiltersActiveOnly(t *testing.T) {
	ctx := context.Background()
	patientRepo := new(MockPatientRepository)

	patientRepo.On("FindAll", ctx, 0, 20, mock.MatchedBy(func(f outbound.PatientFilters) bool {
		return f.Active != nil && *f.Active
	})).Return([]*entity.Patient{testPatient()}, 1, nil)

	uc := newPatientUseCase(patientRepo, &capturingAuditRecorder{})

	resp, err := uc.ListPatients(ctx, inbound.ListPatientsRequest{})

	assert.NoError(t, err)
	assert.Len(t, resp.Patients, 1)
	assert.Equal(t, 1, resp.Total)
}

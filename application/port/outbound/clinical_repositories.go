package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/clinora/clinora/domain/entity"
)

var (
	ErrPatientNotFound      = errors.New("patient not found")
	ErrAppointmentNotFound  = errors.New("appointment not found")
	ErrConsultationNotFound = errors.New("consultation not found")
)

type PatientFilters struct {
	Name   string
	Active *bool
}

type PatientRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Patient, error)
	Create(ctx context.Context, patient *entity.Patient) error
	Update(ctx context.Context, patient *entity.Patient) error
	SetActive(ctx context.Context, id string, active bool) error
	FindAll(ctx context.Context, offset, limit int, filters PatientFilters) ([]*entity.Patient, int, error)
	CountActive(ctx context.Context) (int, error)
}

type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	Create(ctx context.Context, appointment *entity.Appointment) error
	Update(ctx context.Context, appointment *entity.Appointment) error
	FindByDate(ctx context.Context, day time.Time) ([]*entity.Appointment, error)
	FindByPatient(ctx context.Context, patientID string) ([]*entity.Appointment, error)
	// CountByDateRange counts non-cancelled appointments with from <= date < to.
	CountByDateRange(ctx context.Context, from, to time.Time) (int, error)
}

type ConsultationRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Consultation, error)
	Create(ctx context.Context, consultation *entity.Consultation) error
	Update(ctx context.Context, consultation *entity.Consultation) error
	Delete(ctx context.Context, id string) error
	FindByPatient(ctx context.Context, patientID string) ([]*entity.Consultation, error)
	AddImage(ctx context.Context, image *entity.ConsultationImage) error
	FindImages(ctx context.Context, consultationID string) ([]*entity.ConsultationImage, error)
	CountByPaymentStatus(ctx context.Context, status entity.PaymentStatus) (int, error)
}

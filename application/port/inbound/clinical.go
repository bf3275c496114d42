package inbound

import (
	"context"
	"time"

	"github.com/clinora/clinora/domain/entity"
)

type CreatePatientRequest struct {
	FullName         string `json:"full_name"`
	BirthDate        string `json:"birth_date"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	MedicalHistory   string `json:"medical_history"`
	Allergies        string `json:"allergies"`
}

type UpdatePatientRequest struct {
	FullName         *string `json:"full_name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	Address          *string `json:"address"`
	EmergencyContact *string `json:"emergency_contact"`
	EmergencyPhone   *string `json:"emergency_phone"`
	MedicalHistory   *string `json:"medical_history"`
	Allergies        *string `json:"allergies"`
}

type ListPatientsRequest struct {
	Page  int
	Limit int
	Name  string
}

type ListPatientsResponse struct {
	Patients []*entity.Patient `json:"patients"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

type PatientUseCase interface {
	CreatePatient(ctx context.Context, actor *entity.Profile, req CreatePatientRequest) (*entity.Patient, error)
	UpdatePatient(ctx context.Context, actor *entity.Profile, patientID string, req UpdatePatientRequest) (*entity.Patient, error)
	DeactivatePatient(ctx context.Context, actor *entity.Profile, patientID string) error
	GetPatient(ctx context.Context, patientID string) (*entity.Patient, error)
	ListPatients(ctx context.Context, req ListPatientsRequest) (*ListPatientsResponse, error)
}

type CreateAppointmentRequest struct {
	PatientID       string `json:"patient_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Treatment       string `json:"treatment"`
	Notes           string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	AppointmentDate *string                   `json:"appointment_date"`
	AppointmentTime *string                   `json:"appointment_time"`
	DurationMinutes *int                      `json:"duration_minutes"`
	Treatment       *string                   `json:"treatment"`
	Status          *entity.AppointmentStatus `json:"status"`
	Notes           *string                   `json:"notes"`
}

type AppointmentUseCase interface {
	CreateAppointment(ctx context.Context, actor *entity.Profile, req CreateAppointmentRequest) (*entity.Appointment, error)
	UpdateAppointment(ctx context.Context, actor *entity.Profile, appointmentID string, req UpdateAppointmentRequest) (*entity.Appointment, error)
	CancelAppointment(ctx context.Context, actor *entity.Profile, appointmentID string) error
	ListByDate(ctx context.Context, day time.Time) ([]*entity.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]*entity.Appointment, error)
}

type CreateConsultationRequest struct {
	PatientID          string  `json:"patient_id"`
	ConsultationDate   string  `json:"consultation_date"`
	Diagnosis          string  `json:"diagnosis"`
	TreatmentPerformed string  `json:"treatment_performed"`
	Observations       string  `json:"observations"`
	Cost               float64 `json:"cost"`
	PaymentStatus      string  `json:"payment_status"`
	NextAppointment    string  `json:"next_appointment"`
}

type UpdateConsultationRequest struct {
	Diagnosis          *string  `json:"diagnosis"`
	TreatmentPerformed *string  `json:"treatment_performed"`
	Observations       *string  `json:"observations"`
	Cost               *float64 `json:"cost"`
	PaymentStatus      *string  `json:"payment_status"`
}

type AttachImageRequest struct {
	ConsultationID string
	ImageType      entity.ImageType
	Description    string
	FileName       string
	Data           []byte
}

type ConsultationUseCase interface {
	CreateConsultation(ctx context.Context, actor *entity.Profile, req CreateConsultationRequest) (*entity.Consultation, error)
	UpdateConsultation(ctx context.Context, actor *entity.Profile, consultationID string, req UpdateConsultationRequest) (*entity.Consultation, error)
	DeleteConsultation(ctx context.Context, actor *entity.Profile, consultationID string) error
	ListByPatient(ctx context.Context, patientID string) ([]*entity.Consultation, error)
	AttachImage(ctx context.Context, actor *entity.Profile, req AttachImageRequest) (*entity.ConsultationImage, error)
	ListImages(ctx context.Context, consultationID string) ([]*entity.ConsultationImage, error)
}

// DashboardStats mirrors the front-desk overview: today's schedule, the
// current week's load, the active patient base and outstanding payments.
type DashboardStats struct {
	TodayAppointments int `json:"today_appointments"`
	WeekAppointments  int `json:"week_appointments"`
	TotalPatients     int `json:"total_patients"`
	PendingPayments   int `json:"pending_payments"`
}

type DashboardUseCase interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}

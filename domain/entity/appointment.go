package entity

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID              string            `json:"id"`
	PatientID       string            `json:"patient_id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	AppointmentTime string            `json:"appointment_time"`
	DurationMinutes int               `json:"duration_minutes"`
	Treatment       string            `json:"treatment"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CreatedBy       string            `json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
}

func NewAppointment(id, patientID string, date time.Time, timeOfDay, treatment, createdBy string) *Appointment {
	return &Appointment{
		ID:              id,
		PatientID:       patientID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		DurationMinutes: 30,
		Treatment:       treatment,
		Status:          AppointmentScheduled,
		CreatedBy:       createdBy,
		CreatedAt:       time.Now(),
	}
}

package entity

import (
	"time"
)

type Patient struct {
	ID               string    `json:"id"`
	FullName         string    `json:"full_name"`
	BirthDate        time.Time `json:"birth_date"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `json:"emergency_phone,omitempty"`
	MedicalHistory   string    `json:"medical_history,omitempty"`
	Allergies        string    `json:"allergies,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewPatient(id, fullName string, birthDate time.Time, phone string) *Patient {
	return &Patient{
		ID:        id,
		FullName:  fullName,
		BirthDate: birthDate,
		Phone:     phone,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

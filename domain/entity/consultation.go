package entity

import (
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentPartial PaymentStatus = "partial"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial:
		return true
	}
	return false
}

type Consultation struct {
	ID                 string        `json:"id"`
	PatientID          string        `json:"patient_id"`
	ConsultationDate   time.Time     `json:"consultation_date"`
	Diagnosis          string        `json:"diagnosis"`
	TreatmentPerformed string        `json:"treatment_performed"`
	Observations       string        `json:"observations,omitempty"`
	Cost               float64       `json:"cost,omitempty"`
	PaymentStatus      PaymentStatus `json:"payment_status"`
	NextAppointment    *time.Time    `json:"next_appointment,omitempty"`
	CreatedBy          string        `json:"created_by"`
	CreatedAt          time.Time     `json:"created_at"`
}

type ImageType string

const (
	ImageBefore ImageType = "before"
	ImageAfter  ImageType = "after"
	ImageXRay   ImageType = "xray"
	ImageOther  ImageType = "other"
)

func (t ImageType) IsValid() bool {
	switch t {
	case ImageBefore, ImageAfter, ImageXRay, ImageOther:
		return true
	}
	return false
}

// ConsultationImage references a stored image by its retrievable URL; the
// bytes themselves live behind the image store.
type ConsultationImage struct {
	ID             string    `json:"id"`
	ConsultationID string    `json:"consultation_id"`
	ImageType      ImageType `json:"image_type"`
	ImageURL       string    `json:"image_url"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

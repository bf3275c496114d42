package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/entity"
)

type consultationRepository struct {
	db *sql.DB
}

func NewConsultationRepository(db *sql.DB) outbound.ConsultationRepository {
	return &consultationRepository{db: db}
}

const consultationColumns = `id, patient_id, consultation_date, diagnosis,
	treatment_performed, observations, cost, payment_status, next_appointment,
	created_by, created_at`

func scanConsultation(scanner interface{ Scan(...interface{}) error }) (*entity.Consultation, error) {
	var c entity.Consultation
	err := scanner.Scan(
		&c.ID,
		&c.PatientID,
		&c.ConsultationDate,
		&c.Diagnosis,
		&c.TreatmentPerformed,
		&c.Observations,
		&c.Cost,
		&c.PaymentStatus,
		&c.NextAppointment,
		&c.CreatedBy,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consultationRepository) FindByID(ctx context.Context, id string) (*entity.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`

	consultation, err := scanConsultation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrConsultationNotFound
		}
		return nil, fmt.Errorf("failed to find consultation by ID: %w", err)
	}
	return consultation, nil
}

func (r *consultationRepository) Create(ctx context.Context, consultation *entity.Consultation) error {
	query := `
		INSERT INTO consultations (id, patient_id, consultation_date, diagnosis,
			treatment_performed, observations, cost, payment_status, next_appointment,
			created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		consultation.ID,
		consultation.PatientID,
		consultation.ConsultationDate,
		consultation.Diagnosis,
		consultation.TreatmentPerformed,
		consultation.Observations,
		consultation.Cost,
		consultation.PaymentStatus,
		consultation.NextAppointment,
		consultation.CreatedBy,
		consultation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consultation: %w", err)
	}
	return nil
}

func (r *consultationRepository) Update(ctx context.Context, consultation *entity.Consultation) error {
	query := `
		UPDATE consultations
		SET diagnosis = $1, treatment_performed = $2, observations = $3,
			cost = $4, payment_status = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		consultation.Diagnosis,
		consultation.TreatmentPerformed,
		consultation.Observations,
		consultation.Cost,
		consultation.PaymentStatus,
		consultation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update consultation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return outbound.ErrConsultationNotFound
	}
	return nil
}

// Delete removes the consultation row; image rows go with it via the
// ON DELETE CASCADE on consultation_images.
func (r *consultationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete consultation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return outbound.ErrConsultationNotFound
	}
	return nil
}

func (r *consultationRepository) CountByPaymentStatus(ctx context.Context, status entity.PaymentStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM consultations WHERE payment_status = $1`
	if err := r.db.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count consultations by payment status: %w", err)
	}
	return count, nil
}

func (r *consultationRepository) FindByPatient(ctx context.Context, patientID string) ([]*entity.Consultation, error) {
	query := `SELECT ` + consultationColumns + `
		FROM consultations
		WHERE patient_id = $1
		ORDER BY consultation_date DESC`

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	defer rows.Close()

	var consultations []*entity.Consultation
	for rows.Next() {
		consultation, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultation: %w", err)
		}
		consultations = append(consultations, consultation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consultations: %w", err)
	}

	return consultations, nil
}

func (r *consultationRepository) AddImage(ctx context.Context, image *entity.ConsultationImage) error {
	query := `
		INSERT INTO consultation_images (id, consultation_id, image_type, image_url, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		image.ID,
		image.ConsultationID,
		image.ImageType,
		image.ImageURL,
		image.Description,
		image.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add consultation image: %w", err)
	}
	return nil
}

func (r *consultationRepository) FindImages(ctx context.Context, consultationID string) ([]*entity.ConsultationImage, error) {
	query := `
		SELECT id, consultation_id, image_type, image_url, description, created_at
		FROM consultation_images
		WHERE consultation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, consultationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultation images: %w", err)
	}
	defer rows.Close()

	var images []*entity.ConsultationImage
	for rows.Next() {
		var image entity.ConsultationImage
		if err := rows.Scan(
			&image.ID,
			&image.ConsultationID,
			&image.ImageType,
			&image.ImageURL,
			&image.Description,
			&image.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan consultation image: %w", err)
		}
		images = append(images, &image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consultation images: %w", err)
	}

	return images, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/entity"
)

type patientRepository struct {
	db *sql.DB
}

func NewPatientRepository(db *sql.DB) outbound.PatientRepository {
	return &patientRepository{db: db}
}

const patientColumns = `id, full_name, birth_date, phone, email, address,
	emergency_contact, emergency_phone, medical_history, allergies, active, created_at`

func scanPatient(scanner interface{ Scan(...interface{}) error }) (*entity.Patient, error) {
	var p entity.Patient
	err := scanner.Scan(
		&p.ID,
		&p.FullName,
		&p.BirthDate,
		&p.Phone,
		&p.Email,
		&p.Address,
		&p.EmergencyContact,
		&p.EmergencyPhone,
		&p.MedicalHistory,
		&p.Allergies,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepository) FindByID(ctx context.Context, id string) (*entity.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	patient, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to find patient by ID: %w", err)
	}
	return patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	query := `
		INSERT INTO patients (id, full_name, birth_date, phone, email, address,
			emergency_contact, emergency_phone, medical_history, allergies, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FullName,
		patient.BirthDate,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.EmergencyContact,
		patient.EmergencyPhone,
		patient.MedicalHistory,
		patient.Allergies,
		patient.Active,
		patient.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	query := `
		UPDATE patients
		SET full_name = $1, phone = $2, email = $3, address = $4,
			emergency_contact = $5, emergency_phone = $6,
			medical_history = $7, allergies = $8
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		patient.FullName,
		patient.Phone,
		patient.Email,
		patient.Address,
		patient.EmergencyContact,
		patient.EmergencyPhone,
		patient.MedicalHistory,
		patient.Allergies,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return outbound.ErrPatientNotFound
	}
	return nil
}

func (r *patientRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE patients SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update patient active flag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return outbound.ErrPatientNotFound
	}
	return nil
}

func (r *patientRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.PatientFilters) ([]*entity.Patient, int, error) {
	where := ""
	args := []interface{}{}
	argPos := 1

	if filters.Name != "" {
		where += fmt.Sprintf(" AND full_name ILIKE $%d", argPos)
		args = append(args, "%"+filters.Name+"%")
		argPos++
	}
	if filters.Active != nil {
		where += fmt.Sprintf(" AND active = $%d", argPos)
		args = append(args, *filters.Active)
		argPos++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM patients WHERE 1=1` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := `SELECT ` + patientColumns + ` FROM patients WHERE 1=1` + where +
		fmt.Sprintf(` ORDER BY full_name ASC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []*entity.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, patient)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate patients: %w", err)
	}

	return patients, total, nil
}

func (r *patientRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM patients WHERE active = TRUE`
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active patients: %w", err)
	}
	return count, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clinora/clinora/application/port/outbound"
	"github.com/clinora/clinora/domain/entity"
)

type appointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(db *sql.DB) outbound.AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentColumns = `id, patient_id, appointment_date, appointment_time,
	duration_minutes, treatment, status, notes, created_by, created_at`

func scanAppointment(scanner interface{ Scan(...interface{}) error }) (*entity.Appointment, error) {
	var a entity.Appointment
	err := scanner.Scan(
		&a.ID,
		&a.PatientID,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.DurationMinutes,
		&a.Treatment,
		&a.Status,
		&a.Notes,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appointment, err := scanAppointment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to find appointment by ID: %w", err)
	}
	return appointment, nil
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, appointment_date, appointment_time,
			duration_minutes, treatment, status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.DurationMinutes,
		appointment.Treatment,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedBy,
		appointment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, duration_minutes = $3,
			treatment = $4, status = $5, notes = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.DurationMinutes,
		appointment.Treatment,
		appointment.Status,
		appointment.Notes,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return outbound.ErrAppointmentNotFound
	}
	return nil
}

func (r *appointmentRepository) FindByDate(ctx context.Context, day time.Time) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appointment_date = $1
		ORDER BY appointment_time ASC`

	rows, err := r.db.QueryContext(ctx, query, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by date: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, patientID string) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC, appointment_time DESC`

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments by patient: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows *sql.Rows) ([]*entity.Appointment, error) {
	var appointments []*entity.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountByDateRange(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE appointment_date >= $1 AND appointment_date < $2 AND status <> 'cancelled'
	`
	if err := r.db.QueryRowContext(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02")).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count appointments by date range: %w", err)
	}
	return count, nil
}

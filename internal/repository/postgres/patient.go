package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

const patientColumns = `
	id, name, phone, age, doctor_id, queue_number, queue_status,
	appointment_id, waiting_time, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, name, phone, age, doctor_id, queue_number, queue_status,
			appointment_id, waiting_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	if patient.QueueStatus == "" {
		patient.QueueStatus = model.QueueStatusWaiting
	}

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.Name,
		patient.Phone,
		patient.Age,
		patient.DoctorID,
		patient.QueueNumber,
		patient.QueueStatus,
		patient.AppointmentID,
		patient.WaitingTime,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []interface{}{}

	if doctorID != uuid.Nil {
		query += ` WHERE doctor_id = $1`
		args = append(args, doctorID)
	}
	query += ` ORDER BY queue_number ASC, created_at ASC`

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, phone = $2, age = $3, updated_at = $4
		WHERE id = $5
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Phone,
		patient.Age,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) GetByDoctorAndPhone(ctx context.Context, doctorID uuid.UUID, phone string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE doctor_id = $1 AND phone = $2`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, doctorID, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by phone: %w", err)
	}
	return &patient, nil
}

// NextQueueNumber is best effort: two concurrent bookings for the same
// doctor and day can read the same maximum and hand out duplicates. There is
// no uniqueness constraint backing this on purpose.
func (r *patientRepository) NextQueueNumber(ctx context.Context, doctorID uuid.UUID, dayStart time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(queue_number), 0)
		FROM patients
		WHERE doctor_id = $1 AND created_at >= $2
	`
	var max int
	if err := r.db.GetContext(ctx, &max, query, doctorID, dayStart); err != nil {
		return 0, fmt.Errorf("failed to compute next queue number: %w", err)
	}
	return max + 1, nil
}

func (r *patientRepository) ResetQueueEntry(ctx context.Context, id, doctorID uuid.UUID, queueNumber int) error {
	query := `
		UPDATE patients
		SET doctor_id = $1, queue_number = $2, queue_status = $3,
			appointment_id = NULL, waiting_time = 0, updated_at = $4
		WHERE id = $5
	`
	result, err := r.db.ExecContext(ctx, query, doctorID, queueNumber, model.QueueStatusWaiting, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to reset queue entry: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) LinkAppointment(ctx context.Context, id, appointmentID uuid.UUID) error {
	query := `UPDATE patients SET appointment_id = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, appointmentID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to link appointment: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) error {
	query := `UPDATE patients SET doctor_id = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, doctorID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to assign doctor: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) UpdateWaitingTime(ctx context.Context, id uuid.UUID, minutes int) error {
	query := `UPDATE patients SET waiting_time = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, minutes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update waiting time: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 FOR UPDATE`

	var patient model.Patient
	err := tx.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) UpdateQueueStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.QueueStatus) error {
	query := `UPDATE patients SET queue_status = $1, updated_at = $2 WHERE id = $3`

	result, err := tx.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update queue status: %w", err)
	}
	return checkFound(result, "patient")
}

func (r *patientRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return checkFound(result, "patient")
}

func checkFound(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound(resource, nil)
	}
	return nil
}

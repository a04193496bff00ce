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

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, specialization, gender, location, email, phone,
			notes, availability, is_active, current_patients,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Name,
		doctor.Specialization,
		doctor.Gender,
		doctor.Location,
		doctor.Email,
		doctor.Phone,
		doctor.Notes,
		doctor.Availability,
		doctor.IsActive,
		doctor.CurrentPatients,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, gender, location, email, phone,
			   notes, availability, is_active, current_patients,
			   created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context, filters model.DoctorFilters) ([]*model.Doctor, error) {
	query := `
		SELECT id, name, specialization, gender, location, email, phone,
			   notes, availability, is_active, current_patients,
			   created_at, updated_at
		FROM doctors
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters.Specialization != "" {
		query += fmt.Sprintf(" AND specialization = $%d", argCount)
		args = append(args, filters.Specialization)
		argCount++
	}

	if filters.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argCount)
		args = append(args, filters.Location)
		argCount++
	}

	if filters.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argCount)
		args = append(args, *filters.IsActive)
		argCount++
	}

	query += " ORDER BY name ASC"

	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, specialization = $2, gender = $3, location = $4,
			email = $5, phone = $6, notes = $7, availability = $8,
			is_active = $9, updated_at = $10
		WHERE id = $11
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Name,
		doctor.Specialization,
		doctor.Gender,
		doctor.Location,
		doctor.Email,
		doctor.Phone,
		doctor.Notes,
		doctor.Availability,
		doctor.IsActive,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM doctors WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (r *doctorRepository) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND app_status = 'booked') +
			(SELECT COUNT(*) FROM patients WHERE doctor_id = $1 AND queue_status IN ('waiting', 'with-doctor'))
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count doctor references: %w", err)
	}
	return count, nil
}

func (r *doctorRepository) IncrementLoad(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE doctors
		SET current_patients = current_patients + 1, updated_at = $1
		WHERE id = $2
	`
	return r.execLoadUpdate(ctx, r.db, query, id)
}

// DecrementLoadFloored clamps at zero; the counter is never allowed to go
// negative regardless of how many release paths race.
func (r *doctorRepository) DecrementLoadFloored(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE doctors
		SET current_patients = GREATEST(current_patients - 1, 0), updated_at = $1
		WHERE id = $2
	`
	return r.execLoadUpdate(ctx, r.db, query, id)
}

func (r *doctorRepository) DecrementLoadFlooredTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `
		UPDATE doctors
		SET current_patients = GREATEST(current_patients - 1, 0), updated_at = $1
		WHERE id = $2
	`
	return r.execLoadUpdate(ctx, tx, query, id)
}

func (r *doctorRepository) execLoadUpdate(ctx context.Context, ext sqlx.ExtContext, query string, id uuid.UUID) error {
	result, err := ext.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update doctor load: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

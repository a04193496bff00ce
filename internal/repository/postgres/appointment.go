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

const appointmentColumns = `
	id, doctor_id, patient_id, reason, notes, date, time, app_status,
	created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, reason, notes, date, time, app_status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	if appointment.AppStatus == "" {
		appointment.AppStatus = model.AppointmentStatusBooked
	}

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.Reason,
		appointment.Notes,
		appointment.Date,
		appointment.Time,
		appointment.AppStatus,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	appointment, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := r.populate(ctx, []*model.Appointment{appointment})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (r *appointmentRepository) List(ctx context.Context, filters model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND app_status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}

	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += " ORDER BY date ASC, time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return r.populate(ctx, appointments)
}

// populate attaches doctors and queue entries in two batched lookups
func (r *appointmentRepository) populate(ctx context.Context, appointments []*model.Appointment) ([]*model.AppointmentDetail, error) {
	details := make([]*model.AppointmentDetail, 0, len(appointments))
	if len(appointments) == 0 {
		return details, nil
	}

	doctorIDs := make([]uuid.UUID, 0, len(appointments))
	patientIDs := make([]uuid.UUID, 0, len(appointments))
	for _, apt := range appointments {
		doctorIDs = append(doctorIDs, apt.DoctorID)
		if apt.PatientID != nil {
			patientIDs = append(patientIDs, *apt.PatientID)
		}
	}

	doctors := map[uuid.UUID]*model.Doctor{}
	query, args, err := sqlx.In(`
		SELECT id, name, specialization, gender, location, email, phone,
			   notes, availability, is_active, current_patients,
			   created_at, updated_at
		FROM doctors WHERE id IN (?)`, doctorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build doctor lookup: %w", err)
	}
	var doctorRows []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctorRows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load doctors: %w", err)
	}
	for _, d := range doctorRows {
		doctors[d.ID] = d
	}

	patients := map[uuid.UUID]*model.Patient{}
	if len(patientIDs) > 0 {
		query, args, err = sqlx.In(`SELECT `+patientColumns+` FROM patients WHERE id IN (?)`, patientIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to build patient lookup: %w", err)
		}
		var patientRows []*model.Patient
		if err := r.db.SelectContext(ctx, &patientRows, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("failed to load patients: %w", err)
		}
		for _, p := range patientRows {
			patients[p.ID] = p
		}
	}

	for _, apt := range appointments {
		detail := &model.AppointmentDetail{Appointment: *apt}
		detail.Doctor = doctors[apt.DoctorID]
		if apt.PatientID != nil {
			detail.Patient = patients[*apt.PatientID]
		}
		details = append(details, detail)
	}
	return details, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET doctor_id = $1, patient_id = $2, reason = $3, notes = $4,
			date = $5, time = $6, app_status = $7, updated_at = $8
		WHERE id = $9
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.Reason,
		appointment.Notes,
		appointment.Date,
		appointment.Time,
		appointment.AppStatus,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return checkFound(result, "appointment")
}

func (r *appointmentRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`

	var appointment model.Appointment
	err := tx.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET app_status = $1, updated_at = $2 WHERE id = $3`

	result, err := tx.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return checkFound(result, "appointment")
}

func (r *appointmentRepository) DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return checkFound(result, "appointment")
}

package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

// Service is the status-transition coordinator. It is the single place that
// keeps Patient.queue_status, Appointment.app_status and the doctor's live
// counter mutually consistent, and the only code path that writes all three.
type Service struct {
	patientRepo repository.PatientRepository
	apptRepo    repository.AppointmentRepository
	doctorRepo  repository.DoctorRepository
	tx          repository.TxRunner
}

func NewService(
	patientRepo repository.PatientRepository,
	apptRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	tx repository.TxRunner,
) *Service {
	return &Service{
		patientRepo: patientRepo,
		apptRepo:    apptRepo,
		doctorRepo:  doctorRepo,
		tx:          tx,
	}
}

// UpdateQueueStatus applies a queue-status change for one patient as a
// single all-or-nothing transaction:
//
//  1. the patient's queue_status is set to newStatus,
//  2. the appointment status is re-derived from newStatus (unknown values
//     leave it untouched),
//  3. if the appointment moved into completed or cancelled from a different
//     value, the doctor's counter is released once.
//
// Any failure rolls the whole transition back; no partial update is visible.
func (s *Service) UpdateQueueStatus(ctx context.Context, patientID uuid.UUID, newStatus model.QueueStatus) (*model.AppointmentDetail, error) {
	var appointmentID uuid.UUID

	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		patient, err := s.patientRepo.GetTx(ctx, tx, patientID)
		if err != nil {
			return err
		}
		if patient.AppointmentID == nil {
			return apperrors.NotFound("appointment", nil)
		}

		appointment, err := s.apptRepo.GetTx(ctx, tx, *patient.AppointmentID)
		if err != nil {
			return err
		}
		appointmentID = appointment.ID
		oldAppStatus := appointment.AppStatus

		if err := s.patientRepo.UpdateQueueStatusTx(ctx, tx, patient.ID, newStatus); err != nil {
			return err
		}

		newAppStatus, mapped := model.AppointmentStatusForQueue(newStatus)
		if !mapped {
			// unmapped queue statuses leave the booking lifecycle alone
			return nil
		}

		if err := s.apptRepo.UpdateStatusTx(ctx, tx, appointment.ID, newAppStatus); err != nil {
			return err
		}

		if model.ReleasesDoctor(oldAppStatus, newAppStatus) {
			if err := s.doctorRepo.DecrementLoadFlooredTx(ctx, tx, appointment.DoctorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, fmt.Errorf("queue status transition failed: %w", err)
	}

	return s.apptRepo.GetDetail(ctx, appointmentID)
}

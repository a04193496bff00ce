package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/frontdesk-api/internal/email"
	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Service owns the booking lifecycle: creation with queue-number assignment,
// doctor reassignment, and deletion with its cascade.
type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	tx          repository.TxRunner
	mailer      email.Service
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	tx repository.TxRunner,
	mailer email.Service,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		tx:          tx,
		mailer:      mailer,
	}
}

// CreateAppointment books a visit: assigns the next queue number for the
// doctor's day, reuses an existing queue entry when the phone number is
// already known to this doctor, links patient and appointment both ways, and
// bumps the doctor's live counter.
//
// The steps are deliberately not wrapped in one transaction; a crash between
// the appointment insert and the counter increment leaves the counter
// under-counted. That matches the established behavior of the booking path.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.AppointmentDetail, error) {
	doctor, err := s.doctorRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment date", err)
	}

	queueNumber, err := s.patientRepo.NextQueueNumber(ctx, req.DoctorID, startOfDay(date))
	if err != nil {
		return nil, err
	}

	patient, err := s.patientRepo.GetByDoctorAndPhone(ctx, req.DoctorID, req.Patient.Phone)
	switch {
	case err == nil:
		// returning patient: reuse the queue entry instead of duplicating it
		if err := s.patientRepo.ResetQueueEntry(ctx, patient.ID, req.DoctorID, queueNumber); err != nil {
			return nil, err
		}
		patient.QueueNumber = queueNumber
		patient.QueueStatus = model.QueueStatusWaiting
		patient.AppointmentID = nil
	case apperrors.IsNotFound(err):
		patient = &model.Patient{
			Name:        req.Patient.Name,
			Phone:       req.Patient.Phone,
			Age:         req.Patient.Age,
			DoctorID:    req.DoctorID,
			QueueNumber: queueNumber,
			QueueStatus: model.QueueStatusWaiting,
		}
		if err := s.patientRepo.Create(ctx, patient); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	appointment := &model.Appointment{
		DoctorID:  req.DoctorID,
		PatientID: &patient.ID,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Date:      date,
		Time:      req.Time,
		AppStatus: model.AppointmentStatusBooked,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	if err := s.patientRepo.LinkAppointment(ctx, patient.ID, appointment.ID); err != nil {
		return nil, err
	}

	if err := s.doctorRepo.IncrementLoad(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	if err := s.mailer.SendAppointmentBooked(ctx, doctor, appointment, patient.Name); err != nil {
		log.Warn().Err(err).Str("doctor", doctor.Name).Msg("booking notification failed")
	}

	return s.repo.GetDetail(ctx, appointment.ID)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	return s.repo.GetDetail(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filters model.AppointmentFilters) ([]*model.AppointmentDetail, error) {
	return s.repo.List(ctx, filters)
}

// UpdateAppointment edits visit metadata. Reassigning the doctor moves the
// load accounting: the old doctor is released (floored) and the new one
// charged, and the linked queue entry follows the appointment.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.AppointmentDetail, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorID != nil && *req.DoctorID != appointment.DoctorID {
		if _, err := s.doctorRepo.Get(ctx, *req.DoctorID); err != nil {
			return nil, err
		}

		oldDoctorID := appointment.DoctorID
		appointment.DoctorID = *req.DoctorID

		if appointment.PatientID != nil {
			if err := s.patientRepo.AssignDoctor(ctx, *appointment.PatientID, *req.DoctorID); err != nil {
				return nil, err
			}
		}

		if err := s.doctorRepo.DecrementLoadFloored(ctx, oldDoctorID); err != nil {
			return nil, err
		}
		if err := s.doctorRepo.IncrementLoad(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
	}

	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, apperrors.BadRequest("invalid appointment date", err)
		}
		appointment.Date = date
	}
	if req.Time != nil {
		appointment.Time = *req.Time
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	return s.repo.GetDetail(ctx, id)
}

// DeleteAppointment removes the appointment and cascades to its linked queue
// entry inside one transaction; the owning doctor's counter is decremented
// with the floored expression so it never goes negative.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.DeleteTx(ctx, tx, id); err != nil {
			return err
		}
		if appointment.PatientID != nil {
			if err := s.patientRepo.DeleteTx(ctx, tx, *appointment.PatientID); err != nil && !apperrors.IsNotFound(err) {
				return err
			}
		}
		return s.doctorRepo.DecrementLoadFlooredTx(ctx, tx, appointment.DoctorID)
	})
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	if doctor, derr := s.doctorRepo.Get(ctx, appointment.DoctorID); derr == nil {
		if merr := s.mailer.SendAppointmentCancelled(ctx, doctor, appointment); merr != nil {
			log.Warn().Err(merr).Str("doctor", doctor.Name).Msg("cancellation notification failed")
		}
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

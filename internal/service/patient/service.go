package patient

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
)

// Service owns queue entries created outside the booking flow (walk-ins)
// and the direct queue manipulation operations.
type Service struct {
	repo       repository.PatientRepository
	doctorRepo repository.DoctorRepository
}

func NewService(repo repository.PatientRepository, doctorRepo repository.DoctorRepository) *Service {
	return &Service{
		repo:       repo,
		doctorRepo: doctorRepo,
	}
}

// CreatePatient checks in a walk-in: assigns the next queue number for the
// doctor's day and bumps the doctor's live counter.
func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	dayStart := startOfDay(time.Now())
	queueNumber, err := s.repo.NextQueueNumber(ctx, req.DoctorID, dayStart)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		Name:        req.Name,
		Phone:       req.Phone,
		Age:         req.Age,
		DoctorID:    req.DoctorID,
		QueueNumber: queueNumber,
		QueueStatus: model.QueueStatusWaiting,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	if err := s.doctorRepo.IncrementLoad(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error) {
	return s.repo.List(ctx, doctorID)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// DeletePatient removes the queue entry. The linked appointment, if any,
// stays in place and keeps a dangling patient reference until it is deleted
// itself.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) (*model.Patient, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	if err := s.repo.AssignDoctor(ctx, id, doctorID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdateWaitingTime(ctx context.Context, id uuid.UUID, minutes int) (*model.Patient, error) {
	if err := s.repo.UpdateWaitingTime(ctx, id, minutes); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

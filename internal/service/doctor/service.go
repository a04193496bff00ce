package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

const (
	cacheTTL     = 30 * time.Second
	listCacheKey = "doctors:list:"
)

// Service owns doctor profiles. Reads go through a short-lived in-process
// cache; any write flushes it.
type Service struct {
	repo  repository.DoctorRepository
	cache *gocache.Cache
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		Gender:         req.Gender,
		Location:       req.Location,
		Email:          req.Email,
		Phone:          req.Phone,
		Notes:          req.Notes,
		Availability:   req.Availability,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cloneDoctor(cached.(*model.Doctor)), nil
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// cache entries are never handed out; callers may mutate what they get
	s.cache.SetDefault(id.String(), cloneDoctor(doctor))
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context, filters model.DoctorFilters) ([]*model.Doctor, error) {
	key := listKey(filters)
	if cached, ok := s.cache.Get(key); ok {
		return cloneDoctors(cached.([]*model.Doctor)), nil
	}

	doctors, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(key, cloneDoctors(doctors))
	return doctors, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Gender != nil {
		doctor.Gender = *req.Gender
	}
	if req.Location != nil {
		doctor.Location = *req.Location
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Notes != nil {
		doctor.Notes = *req.Notes
	}
	if req.Availability != nil {
		doctor.Availability = *req.Availability
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.cache.Flush()
	return doctor, nil
}

// DeleteDoctor rejects deletion while booked appointments or unfinished
// queue entries still reference the doctor.
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperrors.Conflict(
			fmt.Sprintf("doctor has %d active appointments or queue entries", refs), nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Flush()
	return nil
}

func cloneDoctor(d *model.Doctor) *model.Doctor {
	cp := *d
	if d.Availability != nil {
		cp.Availability = append(model.AvailabilityList(nil), d.Availability...)
	}
	return &cp
}

func cloneDoctors(doctors []*model.Doctor) []*model.Doctor {
	out := make([]*model.Doctor, len(doctors))
	for i, d := range doctors {
		out[i] = cloneDoctor(d)
	}
	return out
}

func listKey(filters model.DoctorFilters) string {
	active := "any"
	if filters.IsActive != nil {
		active = fmt.Sprintf("%t", *filters.IsActive)
	}
	return listCacheKey + filters.Specialization + ":" + filters.Location + ":" + active
}

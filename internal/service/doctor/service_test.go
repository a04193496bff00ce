package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

type fakeRepo struct {
	repository.DoctorRepository

	doctors   map[uuid.UUID]*model.Doctor
	refs      map[uuid.UUID]int
	getCalls  int
	listCalls int
	deleted   []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors: make(map[uuid.UUID]*model.Doctor),
		refs:    make(map[uuid.UUID]int),
	}
}

func (f *fakeRepo) Create(ctx context.Context, d *model.Doctor) error {
	d.ID = uuid.New()
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	f.getCalls++
	d, ok := f.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return d, nil
}

func (f *fakeRepo) List(ctx context.Context, filters model.DoctorFilters) ([]*model.Doctor, error) {
	f.listCalls++
	out := make([]*model.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, d *model.Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return apperrors.NotFound("doctor", nil)
	}
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.doctors[id]; !ok {
		return apperrors.NotFound("doctor", nil)
	}
	delete(f.doctors, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	return f.refs[id], nil
}

func createRequest() *model.CreateDoctorRequest {
	return &model.CreateDoctorRequest{
		Name:           "Dr. Vega",
		Specialization: "Cardiology",
		Gender:         "Female",
		Location:       "Main clinic",
		Email:          "vega@clinic.test",
		Phone:          "+15550001111",
	}
}

func TestCreateDoctorActiveByDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	doctor, err := svc.CreateDoctor(context.Background(), createRequest())
	require.NoError(t, err)
	assert.True(t, doctor.IsActive)
	assert.NotEqual(t, uuid.Nil, doctor.ID)
}

func TestGetDoctorUsesCache(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)

	_, err = svc.GetDoctor(ctx, doctor.ID)
	require.NoError(t, err)
	_, err = svc.GetDoctor(ctx, doctor.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getCalls, "second read served from cache")
}

func TestGetDoctorCacheIsolatedFromCallerMutation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)

	first, err := svc.GetDoctor(ctx, created.ID)
	require.NoError(t, err)
	first.Name = "Dr. Scribbled-On"

	second, err := svc.GetDoctor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Vega", second.Name, "caller mutation must not leak into the cache")
}

func TestListDoctorsCacheIsolatedFromCallerMutation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)

	first, err := svc.ListDoctors(ctx, model.DoctorFilters{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	first[0].Specialization = "Scribbled"

	second, err := svc.ListDoctors(ctx, model.DoctorFilters{})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Cardiology", second[0].Specialization)
	assert.Equal(t, 1, repo.listCalls, "second list still served from cache")
}

func TestUpdateDoctorFlushesCache(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)

	_, err = svc.GetDoctor(ctx, doctor.ID)
	require.NoError(t, err)

	name := "Dr. V. Vega"
	_, err = svc.UpdateDoctor(ctx, doctor.ID, &model.UpdateDoctorRequest{Name: &name})
	require.NoError(t, err)

	got, err := svc.GetDoctor(ctx, doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name, "stale cache entry was flushed on update")
}

func TestDeleteDoctorRejectedWhileReferenced(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)
	repo.refs[doctor.ID] = 2

	err = svc.DeleteDoctor(ctx, doctor.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestDeleteDoctorUnreferenced(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor, err := svc.CreateDoctor(ctx, createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDoctor(ctx, doctor.ID))
	assert.Equal(t, []uuid.UUID{doctor.ID}, repo.deleted)

	_, err = svc.GetDoctor(ctx, doctor.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

package queue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
)

// state is shared by the fakes so one transition can be observed across
// patients, appointments and the doctor counter at once.
type state struct {
	patients     map[uuid.UUID]*model.Patient
	appointments map[uuid.UUID]*model.Appointment
	doctors      map[uuid.UUID]*model.Doctor
}

func newState() *state {
	return &state{
		patients:     make(map[uuid.UUID]*model.Patient),
		appointments: make(map[uuid.UUID]*model.Appointment),
		doctors:      make(map[uuid.UUID]*model.Doctor),
	}
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type fakePatientRepo struct {
	repository.PatientRepository
	st *state
}

func (f *fakePatientRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.st.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePatientRepo) UpdateQueueStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.QueueStatus) error {
	p, ok := f.st.patients[id]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	p.QueueStatus = status
	return nil
}

type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	st *state
}

func (f *fakeAppointmentRepo) GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.st.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAppointmentRepo) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.AppointmentStatus) error {
	a, ok := f.st.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	a.AppStatus = status
	return nil
}

func (f *fakeAppointmentRepo) GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	a, ok := f.st.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	detail := &model.AppointmentDetail{Appointment: *a}
	if d, ok := f.st.doctors[a.DoctorID]; ok {
		cp := *d
		detail.Doctor = &cp
	}
	if a.PatientID != nil {
		if p, ok := f.st.patients[*a.PatientID]; ok {
			cp := *p
			detail.Patient = &cp
		}
	}
	return detail, nil
}

type fakeDoctorRepo struct {
	repository.DoctorRepository
	st *state
}

func (f *fakeDoctorRepo) DecrementLoadFlooredTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	d, ok := f.st.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	if d.CurrentPatients > 0 {
		d.CurrentPatients--
	}
	return nil
}

func newTestService(st *state) *Service {
	return NewService(
		&fakePatientRepo{st: st},
		&fakeAppointmentRepo{st: st},
		&fakeDoctorRepo{st: st},
		fakeTxRunner{},
	)
}

func seedVisit(st *state, appStatus model.AppointmentStatus, queueStatus model.QueueStatus, load int) (patientID, doctorID uuid.UUID) {
	doctorID = uuid.New()
	patientID = uuid.New()
	appointmentID := uuid.New()

	st.doctors[doctorID] = &model.Doctor{
		Base:            model.Base{ID: doctorID},
		Name:            "Dr. Vega",
		CurrentPatients: load,
	}
	st.appointments[appointmentID] = &model.Appointment{
		Base:      model.Base{ID: appointmentID},
		DoctorID:  doctorID,
		PatientID: &patientID,
		AppStatus: appStatus,
	}
	st.patients[patientID] = &model.Patient{
		Base:          model.Base{ID: patientID},
		Name:          "Ada",
		DoctorID:      doctorID,
		QueueNumber:   1,
		QueueStatus:   queueStatus,
		AppointmentID: &appointmentID,
	}
	return patientID, doctorID
}

func TestUpdateQueueStatusCompletedReleasesDoctor(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusBooked, model.QueueStatusWithDoctor, 1)
	svc := newTestService(st)

	detail, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, model.QueueStatusCompleted, st.patients[patientID].QueueStatus)
	assert.Equal(t, model.AppointmentStatusCompleted, detail.AppStatus)
	assert.Equal(t, 0, st.doctors[doctorID].CurrentPatients)
}

func TestUpdateQueueStatusSkippedCancels(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusBooked, model.QueueStatusWaiting, 1)
	svc := newTestService(st)

	detail, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusSkipped)
	require.NoError(t, err)

	assert.Equal(t, model.QueueStatusSkipped, st.patients[patientID].QueueStatus)
	assert.Equal(t, model.AppointmentStatusCancelled, detail.AppStatus)
	assert.Equal(t, 0, st.doctors[doctorID].CurrentPatients)
}

func TestUpdateQueueStatusWithDoctorKeepsBooked(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusBooked, model.QueueStatusWaiting, 1)
	svc := newTestService(st)

	detail, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusWithDoctor)
	require.NoError(t, err)

	assert.Equal(t, model.QueueStatusWithDoctor, st.patients[patientID].QueueStatus)
	assert.Equal(t, model.AppointmentStatusBooked, detail.AppStatus)
	assert.Equal(t, 1, st.doctors[doctorID].CurrentPatients, "doctor stays charged until the visit ends")
}

func TestUpdateQueueStatusReleaseIsIdempotent(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusBooked, model.QueueStatusWithDoctor, 1)
	svc := newTestService(st)

	_, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, 0, st.doctors[doctorID].CurrentPatients)

	// completed -> completed again: already-terminated appointments must not
	// release the doctor a second time
	_, err = svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 0, st.doctors[doctorID].CurrentPatients)
}

func TestUpdateQueueStatusTerminalSwapDoesNotRelease(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusCancelled, model.QueueStatusSkipped, 3)
	svc := newTestService(st)

	// cancelled -> completed moves between terminal states; the release
	// already happened when the appointment was cancelled
	_, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 3, st.doctors[doctorID].CurrentPatients)
}

func TestUpdateQueueStatusFloorsAtZero(t *testing.T) {
	st := newState()
	patientID, doctorID := seedVisit(st, model.AppointmentStatusBooked, model.QueueStatusWaiting, 0)
	svc := newTestService(st)

	_, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 0, st.doctors[doctorID].CurrentPatients)
}

func TestUpdateQueueStatusPatientNotFound(t *testing.T) {
	st := newState()
	svc := newTestService(st)

	_, err := svc.UpdateQueueStatus(context.Background(), uuid.New(), model.QueueStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateQueueStatusWalkInWithoutAppointment(t *testing.T) {
	st := newState()
	patientID := uuid.New()
	st.patients[patientID] = &model.Patient{
		Base:        model.Base{ID: patientID},
		Name:        "Walk-in",
		QueueStatus: model.QueueStatusWaiting,
	}
	svc := newTestService(st)

	_, err := svc.UpdateQueueStatus(context.Background(), patientID, model.QueueStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, model.QueueStatusWaiting, st.patients[patientID].QueueStatus, "failed transition leaves the entry untouched")
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicdesk/frontdesk-api/internal/model"
)

// TxRunner executes a function within a database transaction
type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// DoctorRepository owns doctor rows and the live patient counter. Every
// mutation of current_patients in the system goes through IncrementLoad or
// DecrementLoadFloored; there is no other write path for the counter.
type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	List(ctx context.Context, filters model.DoctorFilters) ([]*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountReferences returns how many booked appointments and unfinished
	// queue entries still point at the doctor.
	CountReferences(ctx context.Context, id uuid.UUID) (int, error)

	IncrementLoad(ctx context.Context, id uuid.UUID) error
	DecrementLoadFloored(ctx context.Context, id uuid.UUID) error
	DecrementLoadFlooredTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, doctorID uuid.UUID) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByDoctorAndPhone(ctx context.Context, doctorID uuid.UUID, phone string) (*model.Patient, error)
	NextQueueNumber(ctx context.Context, doctorID uuid.UUID, dayStart time.Time) (int, error)
	ResetQueueEntry(ctx context.Context, id, doctorID uuid.UUID, queueNumber int) error
	LinkAppointment(ctx context.Context, id, appointmentID uuid.UUID) error
	AssignDoctor(ctx context.Context, id, doctorID uuid.UUID) error
	UpdateWaitingTime(ctx context.Context, id uuid.UUID, minutes int) error

	GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Patient, error)
	UpdateQueueStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.QueueStatus) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error)
	List(ctx context.Context, filters model.AppointmentFilters) ([]*model.AppointmentDetail, error)
	Update(ctx context.Context, appointment *model.Appointment) error

	GetTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*model.Appointment, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status model.AppointmentStatus) error
	DeleteTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByUsername(ctx context.Context, username string) (*model.Staff, error)
}

// TokenStore holds revoked tokens until they would have expired anyway
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

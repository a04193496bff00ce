package model

import (
	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusWaiting    QueueStatus = "waiting"
	QueueStatusWithDoctor QueueStatus = "with-doctor"
	QueueStatusCompleted  QueueStatus = "completed"
	QueueStatusSkipped    QueueStatus = "skipped"
)

// Patient is one queue entry: a checked-in visitor attributed to a doctor
type Patient struct {
	Base
	Name          string      `db:"name" json:"name"`
	Phone         string      `db:"phone" json:"phone"`
	Age           int         `db:"age" json:"age"`
	DoctorID      uuid.UUID   `db:"doctor_id" json:"doctor_id"`
	QueueNumber   int         `db:"queue_number" json:"queue_number"`
	QueueStatus   QueueStatus `db:"queue_status" json:"queue_status"`
	AppointmentID *uuid.UUID  `db:"appointment_id" json:"appointment_id,omitempty"`
	WaitingTime   int         `db:"waiting_time" json:"waiting_time"`
}

type CreatePatientRequest struct {
	Name     string    `json:"name" binding:"required"`
	Phone    string    `json:"phone" binding:"required,clinicphone"`
	Age      int       `json:"age" binding:"required,gt=0"`
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
}

type UpdatePatientRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone" binding:"omitempty,clinicphone"`
	Age   *int    `json:"age" binding:"omitempty,gt=0"`
}

type AssignDoctorRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
}

type UpdateWaitingTimeRequest struct {
	WaitingTime int `json:"waiting_time" binding:"gte=0"`
}

type UpdateQueueStatusRequest struct {
	QueueStatus QueueStatus `json:"queue_status" binding:"required,oneof=waiting with-doctor completed skipped"`
}

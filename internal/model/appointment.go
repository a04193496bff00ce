package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	Base
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID *uuid.UUID        `db:"patient_id" json:"patient_id,omitempty"`
	Reason    string            `db:"reason" json:"reason"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	Date      time.Time         `db:"date" json:"date"`
	Time      string            `db:"time" json:"time"`
	AppStatus AppointmentStatus `db:"app_status" json:"app_status"`
}

// AppointmentDetail is an appointment with its doctor and queue entry populated
type AppointmentDetail struct {
	Appointment
	Doctor  *Doctor  `json:"doctor,omitempty"`
	Patient *Patient `json:"patient,omitempty"`
}

type BookPatient struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required,clinicphone"`
	Age   int    `json:"age" binding:"required,gt=0"`
}

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID   `json:"doctor" binding:"required"`
	Patient  BookPatient `json:"patient" binding:"required"`
	Reason   string      `json:"reason" binding:"required"`
	Notes    string      `json:"notes"`
	Date     string      `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string      `json:"time" binding:"required"`
}

type UpdateAppointmentRequest struct {
	DoctorID *uuid.UUID `json:"doctor"`
	Reason   *string    `json:"reason"`
	Notes    *string    `json:"notes"`
	Date     *string    `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time     *string    `json:"time"`
}

// AppointmentFilters narrows appointment list queries
type AppointmentFilters struct {
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}

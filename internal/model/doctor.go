package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AvailabilityWindow is one weekly availability slot for a doctor
type AvailabilityWindow struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// AvailabilityList is stored as a JSONB column
type AvailabilityList []AvailabilityWindow

func (a AvailabilityList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

func (a *AvailabilityList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for AvailabilityList: %T", src)
	}
}

type Doctor struct {
	Base
	Name            string           `db:"name" json:"name"`
	Specialization  string           `db:"specialization" json:"specialization"`
	Gender          string           `db:"gender" json:"gender"`
	Location        string           `db:"location" json:"location"`
	Email           string           `db:"email" json:"email"`
	Phone           string           `db:"phone" json:"phone"`
	Notes           string           `db:"notes" json:"notes,omitempty"`
	Availability    AvailabilityList `db:"availability" json:"availability"`
	IsActive        bool             `db:"is_active" json:"is_active"`
	CurrentPatients int              `db:"current_patients" json:"current_patients"`
}

type CreateDoctorRequest struct {
	Name           string               `json:"name" binding:"required"`
	Specialization string               `json:"specialization" binding:"required"`
	Gender         string               `json:"gender" binding:"required,oneof=Male Female Other"`
	Location       string               `json:"location" binding:"required"`
	Email          string               `json:"email" binding:"required,email"`
	Phone          string               `json:"phone" binding:"required,clinicphone"`
	Notes          string               `json:"notes"`
	Availability   []AvailabilityWindow `json:"availability"`
}

type UpdateDoctorRequest struct {
	Name           *string               `json:"name"`
	Specialization *string               `json:"specialization"`
	Gender         *string               `json:"gender" binding:"omitempty,oneof=Male Female Other"`
	Location       *string               `json:"location"`
	Email          *string               `json:"email" binding:"omitempty,email"`
	Phone          *string               `json:"phone" binding:"omitempty,clinicphone"`
	Notes          *string               `json:"notes"`
	Availability   *[]AvailabilityWindow `json:"availability"`
	IsActive       *bool                 `json:"is_active"`
}

// DoctorFilters narrows doctor list queries
type DoctorFilters struct {
	Specialization string `form:"specialization"`
	Location       string `form:"location"`
	IsActive       *bool  `form:"is_active"`
}

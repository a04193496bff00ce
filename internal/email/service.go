package email

import (
	"context"

	"github.com/clinicdesk/frontdesk-api/internal/model"
)

// Service notifies doctors about bookings against their schedule. All sends
// are best effort; callers log failures and move on.
type Service interface {
	SendAppointmentBooked(ctx context.Context, doctor *model.Doctor, appointment *model.Appointment, patientName string) error
	SendAppointmentCancelled(ctx context.Context, doctor *model.Doctor, appointment *model.Appointment) error
}

type noopService struct{}

// NewNoopService returns a mailer that silently drops everything. Used when
// SMTP is not configured.
func NewNoopService() Service {
	return noopService{}
}

func (noopService) SendAppointmentBooked(context.Context, *model.Doctor, *model.Appointment, string) error {
	return nil
}

func (noopService) SendAppointmentCancelled(context.Context, *model.Doctor, *model.Appointment) error {
	return nil
}

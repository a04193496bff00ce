package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/clinicdesk/frontdesk-api/internal/config"
	"github.com/clinicdesk/frontdesk-api/internal/model"
)

type gomailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailService(cfg config.SMTPConfig) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *gomailService) SendAppointmentBooked(ctx context.Context, doctor *model.Doctor, appointment *model.Appointment, patientName string) error {
	subject := "New appointment booked"
	body := fmt.Sprintf(
		"Dr. %s,\n\nA new appointment was booked for %s on %s at %s.\nReason: %s\n",
		doctor.Name,
		patientName,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
		appointment.Reason,
	)
	return s.send(doctor.Email, subject, body)
}

func (s *gomailService) SendAppointmentCancelled(ctx context.Context, doctor *model.Doctor, appointment *model.Appointment) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Dr. %s,\n\nThe appointment on %s at %s was cancelled.\n",
		doctor.Name,
		appointment.Date.Format("2006-01-02"),
		appointment.Time,
	)
	return s.send(doctor.Email, subject, body)
}

func (s *gomailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

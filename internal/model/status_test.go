package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusForQueue(t *testing.T) {
	tests := []struct {
		queue  QueueStatus
		want   AppointmentStatus
		mapped bool
	}{
		{QueueStatusCompleted, AppointmentStatusCompleted, true},
		{QueueStatusSkipped, AppointmentStatusCancelled, true},
		{QueueStatusWaiting, AppointmentStatusBooked, true},
		{QueueStatusWithDoctor, AppointmentStatusBooked, true},
		{QueueStatus("on-hold"), "", false},
		{QueueStatus(""), "", false},
	}

	for _, tt := range tests {
		got, ok := AppointmentStatusForQueue(tt.queue)
		assert.Equal(t, tt.mapped, ok, "queue status %q", tt.queue)
		assert.Equal(t, tt.want, got, "queue status %q", tt.queue)
	}
}

func TestReleasesDoctor(t *testing.T) {
	assert.True(t, ReleasesDoctor(AppointmentStatusBooked, AppointmentStatusCompleted))
	assert.True(t, ReleasesDoctor(AppointmentStatusBooked, AppointmentStatusCancelled))

	// an already-terminated appointment was released when it first
	// terminated; no transition out of a terminal state releases again
	assert.False(t, ReleasesDoctor(AppointmentStatusCancelled, AppointmentStatusCompleted))
	assert.False(t, ReleasesDoctor(AppointmentStatusCompleted, AppointmentStatusCompleted))
	assert.False(t, ReleasesDoctor(AppointmentStatusCancelled, AppointmentStatusCancelled))

	// moving back to booked never releases
	assert.False(t, ReleasesDoctor(AppointmentStatusCompleted, AppointmentStatusBooked))
	assert.False(t, ReleasesDoctor(AppointmentStatusBooked, AppointmentStatusBooked))
}

package model

// AppointmentStatusForQueue derives the appointment status from a queue
// status. Every write path that touches app_status goes through this mapping.
// Unknown queue statuses return ok=false; callers leave the appointment
// status unchanged so unrecognized queue states never clobber the booking
// lifecycle.
func AppointmentStatusForQueue(qs QueueStatus) (AppointmentStatus, bool) {
	switch qs {
	case QueueStatusCompleted:
		return AppointmentStatusCompleted, true
	case QueueStatusSkipped:
		return AppointmentStatusCancelled, true
	case QueueStatusWaiting, QueueStatusWithDoctor:
		return AppointmentStatusBooked, true
	default:
		return "", false
	}
}

// ReleasesDoctor reports whether a transition from old to new appointment
// status frees the patient's slot on the doctor's live counter. Only the
// first move into a terminal status counts; repeating it must not decrement
// again.
func ReleasesDoctor(old, new AppointmentStatus) bool {
	if new != AppointmentStatusCompleted && new != AppointmentStatusCancelled {
		return false
	}
	return old != AppointmentStatusCompleted && old != AppointmentStatusCancelled
}

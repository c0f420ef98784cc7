package entities

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCancelled: true, StatusCompleted: true},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether the appointment still holds its provider slot.
// Cancelled and completed rows release the slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) CanTransitionTo(next Status) bool {
	return allowedTransitions[s][next]
}

// Appointment binds a patient to a provider at one instant. A provider
// holds at most one active appointment per instant; the repository
// enforces that.
type Appointment struct {
	AppointmentID string
	PatientID     string
	ProviderID    string
	ScheduledAt   time.Time
	Status        Status
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owners returns the authorization owner set: the patient and the
// provider both own the record.
func (a Appointment) Owners() []string {
	return []string{a.PatientID, a.ProviderID}
}

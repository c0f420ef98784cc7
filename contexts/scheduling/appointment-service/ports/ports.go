package ports

import (
	"context"
	"time"

	"caregate/contexts/scheduling/appointment-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for appointment ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AuditRecorder appends one immutable trail entry after a primary
// effect commits.
type AuditRecorder interface {
	Record(ctx context.Context, actorID string, action string, details map[string]any) error
}

// Repository is the appointment record boundary. CreateAppointment and
// UpdateAppointment must fail with the scheduling-conflict error when a
// save would give a provider two active appointments at one instant,
// even under concurrent callers.
type Repository interface {
	CreateAppointment(ctx context.Context, appt entities.Appointment) error
	GetAppointment(ctx context.Context, appointmentID string) (entities.Appointment, error)
	UpdateAppointment(ctx context.Context, appt entities.Appointment) error
	ListByProvider(ctx context.Context, providerID string) ([]entities.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]entities.Appointment, error)
	HasActiveSlot(ctx context.Context, providerID string, at time.Time, excludeID string) (bool, error)
}

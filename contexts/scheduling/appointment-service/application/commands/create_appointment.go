package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/scheduling/appointment-service/application"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	"caregate/contexts/scheduling/appointment-service/ports"
	"caregate/internal/shared/authz"
)

type CreateAppointmentCommand struct {
	Actor       authz.Actor
	PatientID   string
	ProviderID  string
	ScheduledAt time.Time
	Notes       string
}

// CreateAppointmentUseCase books a provider slot for a patient. The
// pre-check catches most conflicts cheaply; the repository constraint is
// the arbiter under concurrent callers.
type CreateAppointmentUseCase struct {
	Repository  ports.Repository
	Audit       ports.AuditRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u CreateAppointmentUseCase) Execute(ctx context.Context, cmd CreateAppointmentCommand) (entities.Appointment, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(cmd.Actor, authz.ActionCreateAppointment, []string{cmd.PatientID}).Err(); err != nil {
		return entities.Appointment{}, err
	}
	if strings.TrimSpace(cmd.PatientID) == "" || strings.TrimSpace(cmd.ProviderID) == "" || cmd.ScheduledAt.IsZero() {
		return entities.Appointment{}, domainerrors.ErrInvalidAppointmentInput
	}

	taken, err := u.Repository.HasActiveSlot(ctx, cmd.ProviderID, cmd.ScheduledAt, "")
	if err != nil {
		return entities.Appointment{}, err
	}
	if taken {
		return entities.Appointment{}, domainerrors.ErrSchedulingConflict
	}

	appointmentID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Appointment{}, err
	}
	now := u.Clock.Now().UTC()
	appt := entities.Appointment{
		AppointmentID: appointmentID,
		PatientID:     cmd.PatientID,
		ProviderID:    cmd.ProviderID,
		ScheduledAt:   cmd.ScheduledAt.UTC(),
		Status:        entities.StatusPending,
		Notes:         cmd.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.Repository.CreateAppointment(ctx, appt); err != nil {
		return entities.Appointment{}, err
	}

	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionCreateAppointment), map[string]any{
		"appointment_id": appt.AppointmentID,
		"patient_id":     appt.PatientID,
		"provider_id":    appt.ProviderID,
		"scheduled_at":   appt.ScheduledAt.Format(time.RFC3339),
	}); err != nil {
		logger.Error("create audit write failed",
			"event", "scheduling_create_audit_write_failed",
			"module", "scheduling/appointment-service",
			"layer", "application",
			"appointment_id", appt.AppointmentID,
			"error", err.Error(),
		)
	}

	logger.Info("appointment created",
		"event", "scheduling_appointment_created",
		"module", "scheduling/appointment-service",
		"layer", "application",
		"appointment_id", appt.AppointmentID,
		"provider_id", appt.ProviderID,
	)
	return appt, nil
}

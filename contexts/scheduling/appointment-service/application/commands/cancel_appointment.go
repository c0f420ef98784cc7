package commands

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/scheduling/appointment-service/application"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	"caregate/contexts/scheduling/appointment-service/ports"
	"caregate/internal/shared/authz"
)

type CancelAppointmentCommand struct {
	Actor         authz.Actor
	AppointmentID string
}

// CancelAppointmentUseCase releases the provider slot. Cancelling an
// already-cancelled appointment succeeds without a second write;
// cancelling a completed one is rejected.
type CancelAppointmentUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u CancelAppointmentUseCase) Execute(ctx context.Context, cmd CancelAppointmentCommand) (entities.Appointment, error) {
	logger := application.ResolveLogger(u.Logger)

	appt, err := u.Repository.GetAppointment(ctx, cmd.AppointmentID)
	if err != nil {
		return entities.Appointment{}, err
	}
	if err := authz.Authorize(cmd.Actor, authz.ActionCancelAppointment, appt.Owners()).Err(); err != nil {
		return entities.Appointment{}, err
	}

	switch appt.Status {
	case entities.StatusCancelled:
		// idempotent; every attempt still lands in the trail below
	case entities.StatusCompleted:
		return entities.Appointment{}, domainerrors.ErrInvalidTransition
	default:
		appt.Status = entities.StatusCancelled
		appt.UpdatedAt = u.Clock.Now().UTC()
		if err := u.Repository.UpdateAppointment(ctx, appt); err != nil {
			return entities.Appointment{}, err
		}
	}

	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionCancelAppointment), map[string]any{
		"appointment_id": appt.AppointmentID,
		"provider_id":    appt.ProviderID,
	}); err != nil {
		logger.Error("cancel audit write failed",
			"event", "scheduling_cancel_audit_write_failed",
			"module", "scheduling/appointment-service",
			"layer", "application",
			"appointment_id", appt.AppointmentID,
			"error", err.Error(),
		)
	}

	return appt, nil
}

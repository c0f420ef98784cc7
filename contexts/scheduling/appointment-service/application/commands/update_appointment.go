package commands

import (
	"context"
	"log/slog"
	"time"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/scheduling/appointment-service/application"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	"caregate/contexts/scheduling/appointment-service/ports"
	"caregate/internal/shared/authz"
)

// UpdateAppointmentCommand patches an appointment. Nil pointers leave
// the field untouched.
type UpdateAppointmentCommand struct {
	Actor         authz.Actor
	AppointmentID string
	ScheduledAt   *time.Time
	Status        *entities.Status
	Notes         *string
}

type UpdateAppointmentUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u UpdateAppointmentUseCase) Execute(ctx context.Context, cmd UpdateAppointmentCommand) (entities.Appointment, error) {
	logger := application.ResolveLogger(u.Logger)

	appt, err := u.Repository.GetAppointment(ctx, cmd.AppointmentID)
	if err != nil {
		return entities.Appointment{}, err
	}
	if err := authz.Authorize(cmd.Actor, authz.ActionUpdateAppointment, appt.Owners()).Err(); err != nil {
		return entities.Appointment{}, err
	}

	var changed []string
	if cmd.ScheduledAt != nil && !cmd.ScheduledAt.UTC().Equal(appt.ScheduledAt) {
		if cmd.ScheduledAt.IsZero() {
			return entities.Appointment{}, domainerrors.ErrInvalidAppointmentInput
		}
		// moving an active appointment must not land on a taken slot
		if appt.Status.Active() {
			taken, err := u.Repository.HasActiveSlot(ctx, appt.ProviderID, *cmd.ScheduledAt, appt.AppointmentID)
			if err != nil {
				return entities.Appointment{}, err
			}
			if taken {
				return entities.Appointment{}, domainerrors.ErrSchedulingConflict
			}
		}
		appt.ScheduledAt = cmd.ScheduledAt.UTC()
		changed = append(changed, "scheduled_at")
	}
	if cmd.Status != nil && *cmd.Status != appt.Status {
		if !cmd.Status.Valid() {
			return entities.Appointment{}, domainerrors.ErrInvalidAppointmentInput
		}
		if !appt.Status.CanTransitionTo(*cmd.Status) {
			return entities.Appointment{}, domainerrors.ErrInvalidTransition
		}
		appt.Status = *cmd.Status
		changed = append(changed, "status")
	}
	if cmd.Notes != nil && *cmd.Notes != appt.Notes {
		appt.Notes = *cmd.Notes
		changed = append(changed, "notes")
	}
	if len(changed) == 0 {
		return appt, nil
	}

	appt.UpdatedAt = u.Clock.Now().UTC()
	if err := u.Repository.UpdateAppointment(ctx, appt); err != nil {
		return entities.Appointment{}, err
	}

	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionUpdateAppointment), map[string]any{
		"appointment_id": appt.AppointmentID,
		"fields":         changed,
	}); err != nil {
		logger.Error("update audit write failed",
			"event", "scheduling_update_audit_write_failed",
			"module", "scheduling/appointment-service",
			"layer", "application",
			"appointment_id", appt.AppointmentID,
			"error", err.Error(),
		)
	}

	return appt, nil
}

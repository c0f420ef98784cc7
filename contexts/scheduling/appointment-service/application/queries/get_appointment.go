package queries

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/scheduling/appointment-service/application"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	"caregate/contexts/scheduling/appointment-service/ports"
	"caregate/internal/shared/authz"
)

type GetAppointmentQuery struct {
	Actor         authz.Actor
	AppointmentID string
}

type GetAppointmentUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

// Execute returns one appointment. Admin reads of records they do not
// own land in the trail; owner reads do not.
func (u GetAppointmentUseCase) Execute(ctx context.Context, q GetAppointmentQuery) (entities.Appointment, error) {
	logger := application.ResolveLogger(u.Logger)

	appt, err := u.Repository.GetAppointment(ctx, q.AppointmentID)
	if err != nil {
		return entities.Appointment{}, err
	}
	if err := authz.Authorize(q.Actor, authz.ActionViewAppointment, appt.Owners()).Err(); err != nil {
		return entities.Appointment{}, err
	}

	if q.Actor.ID != appt.PatientID && q.Actor.ID != appt.ProviderID {
		if err := u.Audit.Record(ctx, q.Actor.ID, string(auditentities.ActionViewAppointment), map[string]any{
			"appointment_id": appt.AppointmentID,
			"patient_id":     appt.PatientID,
		}); err != nil {
			logger.Error("view audit write failed",
				"event", "scheduling_view_audit_write_failed",
				"module", "scheduling/appointment-service",
				"layer", "application",
				"appointment_id", appt.AppointmentID,
				"error", err.Error(),
			)
		}
	}

	return appt, nil
}

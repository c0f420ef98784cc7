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

type ListByProviderQuery struct {
	Actor      authz.Actor
	ProviderID string
}

type ListByPatientQuery struct {
	Actor     authz.Actor
	PatientID string
}

type ListAppointmentsUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

// ByProvider returns a provider's appointments sorted by scheduled
// instant. Admin cross-actor reads land in the trail with the result
// count.
func (u ListAppointmentsUseCase) ByProvider(ctx context.Context, q ListByProviderQuery) ([]entities.Appointment, error) {
	if err := authz.Authorize(q.Actor, authz.ActionListProviderAppointments, []string{q.ProviderID}).Err(); err != nil {
		return nil, err
	}
	items, err := u.Repository.ListByProvider(ctx, q.ProviderID)
	if err != nil {
		return nil, err
	}
	if q.Actor.ID != q.ProviderID {
		u.recordListView(ctx, q.Actor.ID, auditentities.ActionViewProviderAppointments, map[string]any{
			"provider_id": q.ProviderID,
			"count":       len(items),
		})
	}
	return items, nil
}

// ByPatient mirrors ByProvider for the patient side of the record.
func (u ListAppointmentsUseCase) ByPatient(ctx context.Context, q ListByPatientQuery) ([]entities.Appointment, error) {
	if err := authz.Authorize(q.Actor, authz.ActionListPatientAppointments, []string{q.PatientID}).Err(); err != nil {
		return nil, err
	}
	items, err := u.Repository.ListByPatient(ctx, q.PatientID)
	if err != nil {
		return nil, err
	}
	if q.Actor.ID != q.PatientID {
		u.recordListView(ctx, q.Actor.ID, auditentities.ActionViewPatientAppointments, map[string]any{
			"patient_id": q.PatientID,
			"count":      len(items),
		})
	}
	return items, nil
}

func (u ListAppointmentsUseCase) recordListView(ctx context.Context, actorID string, action auditentities.Action, details map[string]any) {
	if err := u.Audit.Record(ctx, actorID, string(action), details); err != nil {
		application.ResolveLogger(u.Logger).Error("list audit write failed",
			"event", "scheduling_list_audit_write_failed",
			"module", "scheduling/appointment-service",
			"layer", "application",
			"actor_id", actorID,
			"error", err.Error(),
		)
	}
}

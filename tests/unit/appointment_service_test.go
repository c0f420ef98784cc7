package unit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	audit "caregate/contexts/compliance/audit-service"
	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	scheduling "caregate/contexts/scheduling/appointment-service"
	"caregate/contexts/scheduling/appointment-service/application/commands"
	"caregate/contexts/scheduling/appointment-service/application/queries"
	"caregate/contexts/scheduling/appointment-service/domain/entities"
	domainerrors "caregate/contexts/scheduling/appointment-service/domain/errors"
	"caregate/internal/shared/authz"
)

func newSchedulingModule(t *testing.T) (scheduling.Module, audit.Module) {
	t.Helper()
	auditModule := newAuditModule(t)
	return scheduling.NewInMemoryModule(auditModule.Recorder(), nil), auditModule
}

func bookAppointment(t *testing.T, module scheduling.Module, patientID, providerID string, at time.Time) entities.Appointment {
	t.Helper()
	appt, err := module.Create.Execute(context.Background(), commands.CreateAppointmentCommand{
		Actor:       authz.Actor{ID: patientID, Role: authz.RolePatient},
		PatientID:   patientID,
		ProviderID:  providerID,
		ScheduledAt: at,
	})
	if err != nil {
		t.Fatalf("create appointment failed: %v", err)
	}
	return appt
}

func TestCreateAppointment(t *testing.T) {
	module, auditModule := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	appt := bookAppointment(t, module, "patient-1", "provider-1", slot)
	if appt.Status != entities.StatusPending {
		t.Fatalf("new appointments start pending, got %s", appt.Status)
	}
	if got := countTrail(auditModule, string(auditentities.ActionCreateAppointment)); got != 1 {
		t.Fatalf("expected 1 create_appointment entry, got %d", got)
	}

	// a patient cannot book on someone else's behalf
	_, err := module.Create.Execute(context.Background(), commands.CreateAppointmentCommand{
		Actor:       authz.Actor{ID: "patient-2", Role: authz.RolePatient},
		PatientID:   "patient-1",
		ProviderID:  "provider-1",
		ScheduledAt: slot.Add(time.Hour),
	})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	_, err = module.Create.Execute(context.Background(), commands.CreateAppointmentCommand{
		Actor:     authz.Actor{ID: "patient-1", Role: authz.RolePatient},
		PatientID: "patient-1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidAppointmentInput) {
		t.Fatalf("expected ErrInvalidAppointmentInput, got %v", err)
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	module, _ := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	bookAppointment(t, module, "patient-1", "provider-1", slot)

	_, err := module.Create.Execute(context.Background(), commands.CreateAppointmentCommand{
		Actor:       authz.Actor{ID: "patient-2", Role: authz.RolePatient},
		PatientID:   "patient-2",
		ProviderID:  "provider-1",
		ScheduledAt: slot,
	})
	if !errors.Is(err, domainerrors.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}

	// another provider at the same instant is fine
	bookAppointment(t, module, "patient-2", "provider-2", slot)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	module, _ := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			patientID := "patient-" + string(rune('a'+n))
			_, err := module.Create.Execute(context.Background(), commands.CreateAppointmentCommand{
				Actor:       authz.Actor{ID: patientID, Role: authz.RolePatient},
				PatientID:   patientID,
				ProviderID:  "provider-1",
				ScheduledAt: slot,
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrSchedulingConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != callers-1 {
		t.Fatalf("expected exactly one winner, got %d wins and %d conflicts", wins, conflicts)
	}
}

func TestCancelIdempotentAndReleasesSlot(t *testing.T) {
	module, auditModule := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	appt := bookAppointment(t, module, "patient-1", "provider-1", slot)
	actor := authz.Actor{ID: "patient-1", Role: authz.RolePatient}

	cancelled, err := module.Cancel.Execute(context.Background(), commands.CancelAppointmentCommand{
		Actor:         actor,
		AppointmentID: appt.AppointmentID,
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entities.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	// second cancel succeeds without complaint
	if _, err := module.Cancel.Execute(context.Background(), commands.CancelAppointmentCommand{
		Actor:         actor,
		AppointmentID: appt.AppointmentID,
	}); err != nil {
		t.Fatalf("repeat cancel failed: %v", err)
	}
	if got := countTrail(auditModule, string(auditentities.ActionCancelAppointment)); got != 2 {
		t.Fatalf("every cancel call lands in the trail, got %d entries", got)
	}

	// the slot is free again
	bookAppointment(t, module, "patient-2", "provider-1", slot)
}

func TestCancelCompletedRejected(t *testing.T) {
	module, _ := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	appt := bookAppointment(t, module, "patient-1", "provider-1", slot)
	provider := authz.Actor{ID: "provider-1", Role: authz.RoleProvider}

	for _, status := range []entities.Status{entities.StatusConfirmed, entities.StatusCompleted} {
		status := status
		if _, err := module.Update.Execute(context.Background(), commands.UpdateAppointmentCommand{
			Actor:         provider,
			AppointmentID: appt.AppointmentID,
			Status:        &status,
		}); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	_, err := module.Cancel.Execute(context.Background(), commands.CancelAppointmentCommand{
		Actor:         provider,
		AppointmentID: appt.AppointmentID,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestUpdateRejectsIllegalTransition(t *testing.T) {
	module, _ := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	appt := bookAppointment(t, module, "patient-1", "provider-1", slot)

	completed := entities.StatusCompleted
	_, err := module.Update.Execute(context.Background(), commands.UpdateAppointmentCommand{
		Actor:         authz.Actor{ID: "provider-1", Role: authz.RoleProvider},
		AppointmentID: appt.AppointmentID,
		Status:        &completed,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("pending cannot complete directly, got %v", err)
	}
}

func TestUpdateRescheduleConflict(t *testing.T) {
	module, _ := newSchedulingModule(t)
	slotA := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	slotB := slotA.Add(time.Hour)
	bookAppointment(t, module, "patient-1", "provider-1", slotA)
	second := bookAppointment(t, module, "patient-2", "provider-1", slotB)

	_, err := module.Update.Execute(context.Background(), commands.UpdateAppointmentCommand{
		Actor:         authz.Actor{ID: "patient-2", Role: authz.RolePatient},
		AppointmentID: second.AppointmentID,
		ScheduledAt:   &slotA,
	})
	if !errors.Is(err, domainerrors.ErrSchedulingConflict) {
		t.Fatalf("expected ErrSchedulingConflict, got %v", err)
	}

	// re-saving its own instant is not a conflict
	if _, err := module.Update.Execute(context.Background(), commands.UpdateAppointmentCommand{
		Actor:         authz.Actor{ID: "patient-2", Role: authz.RolePatient},
		AppointmentID: second.AppointmentID,
		ScheduledAt:   &slotB,
	}); err != nil {
		t.Fatalf("no-op reschedule failed: %v", err)
	}
}

func TestAppointmentViewPolicy(t *testing.T) {
	module, auditModule := newSchedulingModule(t)
	slot := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	appt := bookAppointment(t, module, "patient-1", "provider-1", slot)

	// both owners can read, nothing audited
	for _, actor := range []authz.Actor{
		{ID: "patient-1", Role: authz.RolePatient},
		{ID: "provider-1", Role: authz.RoleProvider},
	} {
		if _, err := module.Get.Execute(context.Background(), queries.GetAppointmentQuery{
			Actor:         actor,
			AppointmentID: appt.AppointmentID,
		}); err != nil {
			t.Fatalf("owner %s read failed: %v", actor.ID, err)
		}
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewAppointment)); got != 0 {
		t.Fatalf("owner reads must not audit, got %d entries", got)
	}

	_, err := module.Get.Execute(context.Background(), queries.GetAppointmentQuery{
		Actor:         authz.Actor{ID: "patient-2", Role: authz.RolePatient},
		AppointmentID: appt.AppointmentID,
	})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	if _, err := module.Get.Execute(context.Background(), queries.GetAppointmentQuery{
		Actor:         authz.Actor{ID: "admin-1", Role: authz.RoleAdmin},
		AppointmentID: appt.AppointmentID,
	}); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewAppointment)); got != 1 {
		t.Fatalf("expected 1 view_appointment entry, got %d", got)
	}
}

func TestListAppointmentsSortedAscending(t *testing.T) {
	module, auditModule := newSchedulingModule(t)
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	bookAppointment(t, module, "patient-1", "provider-1", base.Add(2*time.Hour))
	bookAppointment(t, module, "patient-1", "provider-1", base)
	bookAppointment(t, module, "patient-2", "provider-1", base.Add(time.Hour))

	// owner list, no trail entry
	mine, err := module.List.ByPatient(context.Background(), queries.ListByPatientQuery{
		Actor:     authz.Actor{ID: "patient-1", Role: authz.RolePatient},
		PatientID: "patient-1",
	})
	if err != nil {
		t.Fatalf("patient list failed: %v", err)
	}
	if len(mine) != 2 || !mine[0].ScheduledAt.Before(mine[1].ScheduledAt) {
		t.Fatalf("expected 2 appointments ascending, got %+v", mine)
	}

	_, err = module.List.ByProvider(context.Background(), queries.ListByProviderQuery{
		Actor:      authz.Actor{ID: "patient-1", Role: authz.RolePatient},
		ProviderID: "provider-1",
	})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	all, err := module.List.ByProvider(context.Background(), queries.ListByProviderQuery{
		Actor:      authz.Actor{ID: "admin-1", Role: authz.RoleAdmin},
		ProviderID: "provider-1",
	})
	if err != nil {
		t.Fatalf("admin provider list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(all))
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewProviderAppointments)); got != 1 {
		t.Fatalf("expected 1 view_provider_appointments entry, got %d", got)
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewPatientAppointments)); got != 0 {
		t.Fatalf("owner patient list must not audit, got %d", got)
	}
}

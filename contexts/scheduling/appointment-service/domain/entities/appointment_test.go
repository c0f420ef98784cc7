package entities

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Fatalf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestStatusActive(t *testing.T) {
	if !StatusPending.Active() || !StatusConfirmed.Active() {
		t.Fatal("pending and confirmed must hold the slot")
	}
	if StatusCancelled.Active() || StatusCompleted.Active() {
		t.Fatal("terminal statuses must release the slot")
	}
}

func TestAppointmentOwners(t *testing.T) {
	appt := Appointment{PatientID: "patient-1", ProviderID: "provider-1"}
	owners := appt.Owners()
	if len(owners) != 2 || owners[0] != "patient-1" || owners[1] != "provider-1" {
		t.Fatalf("unexpected owners %v", owners)
	}
}

package authz

import "errors"

// Package authz is the shared access-policy kernel. Every application
// use case consults Authorize before mutating state or reading another
// actor's records; the function is pure and never touches storage.

type Role string

const (
	RolePatient  Role = "patient"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// Actor is the authenticated identity attached to a request by the
// identity-verification collaborator.
type Actor struct {
	ID   string
	Role Role
}

type Action string

const (
	ActionViewProfile              Action = "view_profile"
	ActionUpdateProfile            Action = "update_profile"
	ActionDeleteUser               Action = "delete_user"
	ActionUpdateUserRole           Action = "update_user_role"
	ActionListUsers                Action = "list_users"
	ActionCreateAppointment        Action = "create_appointment"
	ActionUpdateAppointment        Action = "update_appointment"
	ActionCancelAppointment        Action = "cancel_appointment"
	ActionViewAppointment          Action = "view_appointment"
	ActionListProviderAppointments Action = "list_provider_appointments"
	ActionListPatientAppointments  Action = "list_patient_appointments"
	ActionViewAuditLogs            Action = "view_audit_logs"
)

// selfProtected actions are denied when the actor targets their own
// account, admins included. An admin cannot delete themselves or change
// their own role.
var selfProtected = map[Action]bool{
	ActionDeleteUser:     true,
	ActionUpdateUserRole: true,
}

var (
	ErrNotAuthorized  = errors.New("not authorized")
	ErrSelfProtection = errors.New("self-protection")
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err maps a deny decision to its sentinel error. Allowed decisions
// return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == "self-protection" {
		return ErrSelfProtection
	}
	return ErrNotAuthorized
}

// Authorize evaluates (actor, action, owners), first match wins:
//
//  1. self-protected action targeting the actor -> deny, even for admins
//  2. admin -> allow
//  3. actor among the resource owners -> allow
//  4. deny
func Authorize(actor Actor, action Action, owners []string) Decision {
	if selfProtected[action] && contains(owners, actor.ID) {
		return Decision{Allowed: false, Reason: "self-protection"}
	}
	if actor.Role == RoleAdmin {
		return Decision{Allowed: true, Reason: "admin"}
	}
	if contains(owners, actor.ID) {
		return Decision{Allowed: true, Reason: "owner"}
	}
	return Decision{Allowed: false, Reason: "not authorized"}
}

func contains(owners []string, id string) bool {
	if id == "" {
		return false
	}
	for _, owner := range owners {
		if owner == id {
			return true
		}
	}
	return false
}

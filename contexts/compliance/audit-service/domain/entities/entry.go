package entities

import "time"

// Action is the closed set of auditable action kinds.
type Action string

const (
	ActionLogin                    Action = "login"
	ActionLogout                   Action = "logout"
	ActionRegisterUser             Action = "register_user"
	ActionUpdateUser               Action = "update_user"
	ActionDeleteUser               Action = "delete_user"
	ActionCreateAppointment        Action = "create_appointment"
	ActionUpdateAppointment        Action = "update_appointment"
	ActionCancelAppointment        Action = "cancel_appointment"
	ActionViewAppointment          Action = "view_appointment"
	ActionViewPatientData          Action = "view_patient_data"
	ActionViewAllUsers             Action = "view_all_users"
	ActionViewProviderAppointments Action = "view_provider_appointments"
	ActionViewPatientAppointments  Action = "view_patient_appointments"
	ActionViewAuditLogs            Action = "view_audit_logs"
	ActionUpdateUserRole           Action = "update_user_role"
	ActionUpdateSystemConfig       Action = "update_system_config"
)

var knownActions = map[Action]bool{
	ActionLogin:                    true,
	ActionLogout:                   true,
	ActionRegisterUser:             true,
	ActionUpdateUser:               true,
	ActionDeleteUser:               true,
	ActionCreateAppointment:        true,
	ActionUpdateAppointment:        true,
	ActionCancelAppointment:        true,
	ActionViewAppointment:          true,
	ActionViewPatientData:          true,
	ActionViewAllUsers:             true,
	ActionViewProviderAppointments: true,
	ActionViewPatientAppointments:  true,
	ActionViewAuditLogs:            true,
	ActionUpdateUserRole:           true,
	ActionUpdateSystemConfig:       true,
}

func (a Action) Valid() bool {
	return knownActions[a]
}

// Entry is one immutable audit record. Entries are only ever appended;
// no interface in this context exposes update or delete.
type Entry struct {
	EntryID    string
	ActorID    string
	Action     Action
	Details    map[string]any
	RecordedAt time.Time
}

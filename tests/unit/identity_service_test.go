package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	audit "caregate/contexts/compliance/audit-service"
	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	identity "caregate/contexts/identity-access/identity-service"
	"caregate/contexts/identity-access/identity-service/application/commands"
	"caregate/contexts/identity-access/identity-service/application/queries"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	"caregate/internal/shared/authz"
)

func newIdentityModule(t *testing.T) (identity.Module, audit.Module) {
	t.Helper()
	auditModule := newAuditModule(t)
	return identity.NewInMemoryModule(auditModule.Recorder(), nil), auditModule
}

func registerUser(t *testing.T, module identity.Module, role authz.Role, email string) entities.User {
	t.Helper()
	result, err := module.Register.Execute(context.Background(), commands.RegisterCommand{
		Role:     role,
		Email:    email,
		Password: "open sesame",
		Name:     "Ada Obi",
		Phone:    "+2348012345678",
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", email, err)
	}
	return result.User
}

func TestRegisterAndAuthenticate(t *testing.T) {
	module, auditModule := newIdentityModule(t)

	user := registerUser(t, module, authz.RolePatient, "Ada@Example.COM")
	if user.Email != "ada@example.com" {
		t.Fatalf("email not lowercased: %s", user.Email)
	}
	if user.CredentialHash != "" {
		t.Fatal("credential hash leaked from register")
	}

	assertion, err := module.Authenticate.Execute(context.Background(), commands.AuthenticateCommand{
		Email:    "ada@example.com",
		Password: "open sesame",
	})
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if assertion.UserID != user.UserID || assertion.Role != authz.RolePatient {
		t.Fatalf("unexpected assertion: %+v", assertion)
	}

	if got := countTrail(auditModule, string(auditentities.ActionRegisterUser)); got != 1 {
		t.Fatalf("expected 1 register_user entry, got %d", got)
	}
	if got := countTrail(auditModule, string(auditentities.ActionLogin)); got != 1 {
		t.Fatalf("expected 1 login entry, got %d", got)
	}
}

func TestAuthenticateDoesNotLeakWhichFieldFailed(t *testing.T) {
	module, _ := newIdentityModule(t)
	registerUser(t, module, authz.RolePatient, "ada@example.com")

	_, err := module.Authenticate.Execute(context.Background(), commands.AuthenticateCommand{
		Email:    "nobody@example.com",
		Password: "open sesame",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	_, err = module.Authenticate.Execute(context.Background(), commands.AuthenticateCommand{
		Email:    "ada@example.com",
		Password: "wrong password",
	})
	if !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	module, _ := newIdentityModule(t)

	cases := []struct {
		name string
		cmd  commands.RegisterCommand
		want error
	}{
		{"bad role", commands.RegisterCommand{Role: "root", Email: "a@b.co", Password: "open sesame", Name: "A", Phone: "+2348012345678"}, domainerrors.ErrInvalidRole},
		{"bad email", commands.RegisterCommand{Role: authz.RolePatient, Email: "not-an-email", Password: "open sesame", Name: "A", Phone: "+2348012345678"}, domainerrors.ErrInvalidUserInput},
		{"short password", commands.RegisterCommand{Role: authz.RolePatient, Email: "a@b.co", Password: "short", Name: "A", Phone: "+2348012345678"}, domainerrors.ErrInvalidUserInput},
		{"bad phone", commands.RegisterCommand{Role: authz.RolePatient, Email: "a@b.co", Password: "open sesame", Name: "A", Phone: "12345"}, domainerrors.ErrInvalidUserInput},
		{"missing name", commands.RegisterCommand{Role: authz.RolePatient, Email: "a@b.co", Password: "open sesame", Name: "  ", Phone: "+2348012345678"}, domainerrors.ErrInvalidUserInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := module.Register.Execute(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	module, _ := newIdentityModule(t)
	registerUser(t, module, authz.RolePatient, "ada@example.com")

	_, err := module.Register.Execute(context.Background(), commands.RegisterCommand{
		Role:     authz.RoleProvider,
		Email:    "ADA@example.com",
		Password: "open sesame",
		Name:     "Imposter",
		Phone:    "+2348012345678",
	})
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterNormalizesRolePayload(t *testing.T) {
	module, _ := newIdentityModule(t)
	result, err := module.Register.Execute(context.Background(), commands.RegisterCommand{
		Role:     authz.RolePatient,
		Email:    "ada@example.com",
		Password: "open sesame",
		Name:     "Ada Obi",
		Phone:    "+2348012345678",
		Medical:  &entities.MedicalInfo{BloodType: "O+"},
		Provider: &entities.ProviderInfo{Specialization: "cardiology"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.Medical == nil || result.User.Medical.BloodType != "O+" {
		t.Fatal("patient payload dropped")
	}
	if result.User.Provider != nil {
		t.Fatal("provider payload must be discarded for a patient")
	}
}

func TestProfileAccessPolicy(t *testing.T) {
	module, auditModule := newIdentityModule(t)
	patient := registerUser(t, module, authz.RolePatient, "ada@example.com")
	registerUser(t, module, authz.RolePatient, "eve@example.com")

	// owner read, no trail entry
	_, err := module.GetProfile.Execute(context.Background(), queries.GetProfileQuery{
		Actor:  authz.Actor{ID: patient.UserID, Role: authz.RolePatient},
		UserID: patient.UserID,
	})
	if err != nil {
		t.Fatalf("self read failed: %v", err)
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewPatientData)); got != 0 {
		t.Fatalf("self read must not audit, got %d entries", got)
	}

	// stranger denied
	_, err = module.GetProfile.Execute(context.Background(), queries.GetProfileQuery{
		Actor:  authz.Actor{ID: "someone-else", Role: authz.RolePatient},
		UserID: patient.UserID,
	})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// admin cross-actor read lands in the trail
	got, err := module.GetProfile.Execute(context.Background(), queries.GetProfileQuery{
		Actor:  authz.Actor{ID: "admin-1", Role: authz.RoleAdmin},
		UserID: patient.UserID,
	})
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if got.CredentialHash != "" {
		t.Fatal("credential hash leaked from profile read")
	}
	if entries := countTrail(auditModule, string(auditentities.ActionViewPatientData)); entries != 1 {
		t.Fatalf("expected 1 view_patient_data entry, got %d", entries)
	}
}

func TestUpdateProfileTracksChangedFieldNames(t *testing.T) {
	module, auditModule := newIdentityModule(t)
	patient := registerUser(t, module, authz.RolePatient, "ada@example.com")

	newName := "Ada O. Obi"
	newPhone := "+2348098765432"
	updated, err := module.UpdateProfile.Execute(context.Background(), commands.UpdateProfileCommand{
		Actor:  authz.Actor{ID: patient.UserID, Role: authz.RolePatient},
		UserID: patient.UserID,
		Name:   &newName,
		Phone:  &newPhone,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != newName || updated.Phone != newPhone {
		t.Fatalf("update not applied: %+v", updated)
	}

	admin := authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}
	items, err := auditModule.Query.Execute(context.Background(), auditQueryFor(string(auditentities.ActionUpdateUser), admin))
	if err != nil {
		t.Fatalf("trail query failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 update_user entry, got %d", len(items))
	}
	fields, ok := items[0].Details["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 changed field names, got %v", items[0].Details["fields"])
	}
	for _, field := range fields {
		if field == newName || field == newPhone {
			t.Fatal("trail must carry field names, not values")
		}
	}
}

func TestDeleteUserSelfProtection(t *testing.T) {
	module, auditModule := newIdentityModule(t)
	admin := registerUser(t, module, authz.RoleAdmin, "root@example.com")
	patient := registerUser(t, module, authz.RolePatient, "ada@example.com")
	actor := authz.Actor{ID: admin.UserID, Role: authz.RoleAdmin}

	err := module.DeleteUser.Execute(context.Background(), commands.DeleteUserCommand{
		Actor:  actor,
		UserID: admin.UserID,
	})
	if !errors.Is(err, authz.ErrSelfProtection) {
		t.Fatalf("expected ErrSelfProtection, got %v", err)
	}

	// patients cannot delete anyone
	err = module.DeleteUser.Execute(context.Background(), commands.DeleteUserCommand{
		Actor:  authz.Actor{ID: patient.UserID, Role: authz.RolePatient},
		UserID: admin.UserID,
	})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	if err := module.DeleteUser.Execute(context.Background(), commands.DeleteUserCommand{
		Actor:  actor,
		UserID: patient.UserID,
	}); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	_, err = module.GetProfile.Execute(context.Background(), queries.GetProfileQuery{Actor: actor, UserID: patient.UserID})
	if !errors.Is(err, domainerrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound after delete, got %v", err)
	}
	if got := countTrail(auditModule, string(auditentities.ActionDeleteUser)); got != 1 {
		t.Fatalf("expected 1 delete_user entry, got %d", got)
	}
}

func TestUpdateRoleRenormalizesPayload(t *testing.T) {
	module, auditModule := newIdentityModule(t)
	admin := registerUser(t, module, authz.RoleAdmin, "root@example.com")
	patientResult, err := module.Register.Execute(context.Background(), commands.RegisterCommand{
		Role:     authz.RolePatient,
		Email:    "ada@example.com",
		Password: "open sesame",
		Name:     "Ada Obi",
		Phone:    "+2348012345678",
		Medical:  &entities.MedicalInfo{BloodType: "AB-"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	actor := authz.Actor{ID: admin.UserID, Role: authz.RoleAdmin}

	// admin cannot change their own role
	_, err = module.UpdateRole.Execute(context.Background(), commands.UpdateRoleCommand{
		Actor:   actor,
		UserID:  admin.UserID,
		NewRole: authz.RolePatient,
	})
	if !errors.Is(err, authz.ErrSelfProtection) {
		t.Fatalf("expected ErrSelfProtection, got %v", err)
	}

	updated, err := module.UpdateRole.Execute(context.Background(), commands.UpdateRoleCommand{
		Actor:   actor,
		UserID:  patientResult.User.UserID,
		NewRole: authz.RoleProvider,
	})
	if err != nil {
		t.Fatalf("role update failed: %v", err)
	}
	if updated.Role != authz.RoleProvider {
		t.Fatalf("role not changed: %s", updated.Role)
	}
	if updated.Medical != nil {
		t.Fatal("medical payload must be discarded when the user stops being a patient")
	}
	if got := countTrail(auditModule, string(auditentities.ActionUpdateUserRole)); got != 1 {
		t.Fatalf("expected 1 update_user_role entry, got %d", got)
	}
}

func TestListUsersAdminOnlyNewestFirst(t *testing.T) {
	module, auditModule := newIdentityModule(t)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	module.Store.NowFunc = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	registerUser(t, module, authz.RolePatient, "first@example.com")
	registerUser(t, module, authz.RolePatient, "second@example.com")

	_, err := module.ListUsers.Execute(context.Background(), authz.Actor{ID: "user-1", Role: authz.RolePatient})
	if !errors.Is(err, authz.ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	users, err := module.ListUsers.Execute(context.Background(), authz.Actor{ID: "admin-1", Role: authz.RoleAdmin})
	if err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Email != "second@example.com" {
		t.Fatalf("expected newest first, got %s", users[0].Email)
	}
	for _, user := range users {
		if user.CredentialHash != "" {
			t.Fatal("credential hash leaked from list")
		}
	}
	if got := countTrail(auditModule, string(auditentities.ActionViewAllUsers)); got != 1 {
		t.Fatalf("expected 1 view_all_users entry, got %d", got)
	}
}

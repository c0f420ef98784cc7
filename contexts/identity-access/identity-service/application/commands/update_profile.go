package commands

import (
	"context"
	"log/slog"
	"strings"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/identity-access/identity-service/application"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/shared/authz"
)

// UpdateProfileCommand patches the mutable profile surface: name,
// phone, address and the role-specific payload. Nil pointers leave the
// field untouched. Email, role and credential are not mutable here.
type UpdateProfileCommand struct {
	Actor    authz.Actor
	UserID   string
	Name     *string
	Phone    *string
	Address  *entities.Address
	Medical  *entities.MedicalInfo
	Provider *entities.ProviderInfo
}

type UpdateProfileUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u UpdateProfileUseCase) Execute(ctx context.Context, cmd UpdateProfileCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(cmd.Actor, authz.ActionUpdateProfile, []string{cmd.UserID}).Err(); err != nil {
		return entities.User{}, err
	}

	user, err := u.Repository.GetUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}

	var changed []string
	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return entities.User{}, domainerrors.ErrInvalidUserInput
		}
		user.Name = name
		changed = append(changed, "name")
	}
	if cmd.Phone != nil {
		if !entities.ValidPhone(*cmd.Phone) {
			return entities.User{}, domainerrors.ErrInvalidUserInput
		}
		user.Phone = strings.TrimSpace(*cmd.Phone)
		changed = append(changed, "phone")
	}
	if cmd.Address != nil {
		user.Address = *cmd.Address
		changed = append(changed, "address")
	}
	if cmd.Medical != nil {
		if !cmd.Medical.Valid() {
			return entities.User{}, domainerrors.ErrInvalidUserInput
		}
		user.Medical = cmd.Medical
		changed = append(changed, "medicalInfo")
	}
	if cmd.Provider != nil {
		user.Provider = cmd.Provider
		changed = append(changed, "providerInfo")
	}
	if len(changed) == 0 {
		return user.WithoutCredential(), nil
	}

	user.NormalizePayload()
	user.UpdatedAt = u.Clock.Now().UTC()
	if err := u.Repository.UpdateUser(ctx, user); err != nil {
		return entities.User{}, err
	}

	// field names only, never values
	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionUpdateUser), map[string]any{
		"user_id": user.UserID,
		"fields":  changed,
	}); err != nil {
		logger.Error("profile update audit write failed",
			"event", "identity_update_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
	}

	return user.WithoutCredential(), nil
}

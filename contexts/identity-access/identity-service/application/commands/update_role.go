package commands

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/identity-access/identity-service/application"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/shared/authz"
)

type UpdateRoleCommand struct {
	Actor   authz.Actor
	UserID  string
	NewRole authz.Role
}

// UpdateRoleUseCase transitions a user between roles. Admin-only, and
// blocked when the admin targets their own account. The role-specific
// payload is re-normalized so the record never carries fields from the
// previous role.
type UpdateRoleUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (u UpdateRoleUseCase) Execute(ctx context.Context, cmd UpdateRoleCommand) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(cmd.Actor, authz.ActionUpdateUserRole, []string{cmd.UserID}).Err(); err != nil {
		return entities.User{}, err
	}
	if !cmd.NewRole.Valid() {
		return entities.User{}, domainerrors.ErrInvalidRole
	}

	user, err := u.Repository.GetUser(ctx, cmd.UserID)
	if err != nil {
		return entities.User{}, err
	}
	oldRole := user.Role
	if oldRole == cmd.NewRole {
		return user.WithoutCredential(), nil
	}

	user.Role = cmd.NewRole
	user.NormalizePayload()
	user.UpdatedAt = u.Clock.Now().UTC()
	if err := u.Repository.UpdateUser(ctx, user); err != nil {
		return entities.User{}, err
	}

	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionUpdateUserRole), map[string]any{
		"user_id":  user.UserID,
		"old_role": string(oldRole),
		"new_role": string(cmd.NewRole),
	}); err != nil {
		logger.Error("role update audit write failed",
			"event", "identity_role_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
	}

	return user.WithoutCredential(), nil
}

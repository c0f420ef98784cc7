package commands

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/identity-access/identity-service/application"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/shared/authz"
)

type DeleteUserCommand struct {
	Actor  authz.Actor
	UserID string
}

// DeleteUserUseCase removes a user record. The policy restricts this to
// admins and blocks self-deletion even for them; a denied call leaves
// no trace in the store or the trail.
type DeleteUserUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

func (u DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(cmd.Actor, authz.ActionDeleteUser, []string{cmd.UserID}).Err(); err != nil {
		return err
	}

	// role and email are captured before the delete for forensics
	user, err := u.Repository.GetUser(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if err := u.Repository.DeleteUser(ctx, cmd.UserID); err != nil {
		return err
	}

	if err := u.Audit.Record(ctx, cmd.Actor.ID, string(auditentities.ActionDeleteUser), map[string]any{
		"user_id": user.UserID,
		"role":    string(user.Role),
		"email":   user.Email,
	}); err != nil {
		logger.Error("delete audit write failed",
			"event", "identity_delete_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
	}

	logger.Info("user deleted",
		"event", "identity_user_deleted",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", user.UserID,
		"actor_id", cmd.Actor.ID,
	)
	return nil
}

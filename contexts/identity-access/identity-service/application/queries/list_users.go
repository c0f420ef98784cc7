package queries

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/identity-access/identity-service/application"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/shared/authz"
)

type ListUsersUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

// Execute returns every user record, newest first, admin only.
func (u ListUsersUseCase) Execute(ctx context.Context, actor authz.Actor) ([]entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(actor, authz.ActionListUsers, nil).Err(); err != nil {
		return nil, err
	}

	users, err := u.Repository.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = users[i].WithoutCredential()
	}

	if err := u.Audit.Record(ctx, actor.ID, string(auditentities.ActionViewAllUsers), map[string]any{
		"count": len(users),
	}); err != nil {
		logger.Error("user list audit write failed",
			"event", "identity_list_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"actor_id", actor.ID,
			"error", err.Error(),
		)
	}

	return users, nil
}

package commands

import (
	"context"
	"log/slog"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/shared/authz"
)

// LogoutUseCase records the end of a session. Token revocation is the
// transport collaborator's concern; the trail entry is ours.
type LogoutUseCase struct {
	Audit  ports.AuditRecorder
	Logger *slog.Logger
}

func (u LogoutUseCase) Execute(ctx context.Context, actor authz.Actor) error {
	return u.Audit.Record(ctx, actor.ID, string(auditentities.ActionLogout), map[string]any{})
}

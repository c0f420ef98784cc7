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

type GetProfileQuery struct {
	Actor  authz.Actor
	UserID string
}

type GetProfileUseCase struct {
	Repository ports.Repository
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

// Execute returns a user record with the credential hash stripped.
// Reading someone else's record is an admin privilege and lands in the
// trail; reading your own record does not.
func (u GetProfileUseCase) Execute(ctx context.Context, q GetProfileQuery) (entities.User, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(q.Actor, authz.ActionViewProfile, []string{q.UserID}).Err(); err != nil {
		return entities.User{}, err
	}

	user, err := u.Repository.GetUser(ctx, q.UserID)
	if err != nil {
		return entities.User{}, err
	}

	if q.Actor.ID != q.UserID {
		if err := u.Audit.Record(ctx, q.Actor.ID, string(auditentities.ActionViewPatientData), map[string]any{
			"user_id": user.UserID,
			"role":    string(user.Role),
		}); err != nil {
			logger.Error("profile read audit write failed",
				"event", "identity_view_audit_write_failed",
				"module", "identity-access/identity-service",
				"layer", "application",
				"user_id", user.UserID,
				"error", err.Error(),
			)
		}
	}

	return user.WithoutCredential(), nil
}

package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	auditentities "caregate/contexts/compliance/audit-service/domain/entities"
	application "caregate/contexts/identity-access/identity-service/application"
	"caregate/contexts/identity-access/identity-service/domain/entities"
	domainerrors "caregate/contexts/identity-access/identity-service/domain/errors"
	"caregate/contexts/identity-access/identity-service/ports"
)

type AuthenticateCommand struct {
	Email    string
	Password string
}

type AuthenticateUseCase struct {
	Repository ports.Repository
	Hasher     ports.CredentialHasher
	Audit      ports.AuditRecorder
	Logger     *slog.Logger
}

// Execute verifies a credential and returns an identity assertion for
// the external token-issuance collaborator. Unknown email and wrong
// password surface the same error so neither is leaked.
func (u AuthenticateUseCase) Execute(ctx context.Context, cmd AuthenticateCommand) (ports.Assertion, error) {
	logger := application.ResolveLogger(u.Logger)

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if email == "" || cmd.Password == "" {
		return ports.Assertion{}, domainerrors.ErrInvalidCredentials
	}

	user, err := u.Repository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return ports.Assertion{}, domainerrors.ErrInvalidCredentials
		}
		return ports.Assertion{}, err
	}
	if !u.Hasher.Verify(ctx, user.CredentialHash, cmd.Password) {
		return ports.Assertion{}, domainerrors.ErrInvalidCredentials
	}

	if err := u.Audit.Record(ctx, user.UserID, string(auditentities.ActionLogin), map[string]any{
		"email": user.Email,
	}); err != nil {
		logger.Error("login audit write failed",
			"event", "identity_login_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
	}

	return assertionFor(user), nil
}

func assertionFor(user entities.User) ports.Assertion {
	return ports.Assertion{
		UserID: user.UserID,
		Role:   user.Role,
		Name:   user.Name,
		Email:  user.Email,
	}
}

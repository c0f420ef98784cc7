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

// RegisterCommand carries a new-user registration. Role-specific
// payload that does not match the role is discarded, not rejected.
type RegisterCommand struct {
	Role     authz.Role
	Email    string
	Password string
	Name     string
	Phone    string
	Address  entities.Address
	Medical  *entities.MedicalInfo
	Provider *entities.ProviderInfo
}

type RegisterResult struct {
	User entities.User
}

type RegisterUseCase struct {
	Repository  ports.Repository
	Hasher      ports.CredentialHasher
	Audit       ports.AuditRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (RegisterResult, error) {
	logger := application.ResolveLogger(u.Logger)

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if !cmd.Role.Valid() {
		return RegisterResult{}, domainerrors.ErrInvalidRole
	}
	if !entities.ValidEmail(email) {
		return RegisterResult{}, domainerrors.ErrInvalidUserInput
	}
	if len(cmd.Password) < 8 {
		return RegisterResult{}, domainerrors.ErrInvalidUserInput
	}
	if strings.TrimSpace(cmd.Name) == "" || !entities.ValidPhone(cmd.Phone) {
		return RegisterResult{}, domainerrors.ErrInvalidUserInput
	}
	if cmd.Medical != nil && !cmd.Medical.Valid() {
		return RegisterResult{}, domainerrors.ErrInvalidUserInput
	}

	hash, err := u.Hasher.Hash(ctx, cmd.Password)
	if err != nil {
		return RegisterResult{}, err
	}
	userID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return RegisterResult{}, err
	}

	now := u.Clock.Now().UTC()
	user := entities.User{
		UserID:         userID,
		Email:          email,
		Role:           cmd.Role,
		Name:           strings.TrimSpace(cmd.Name),
		Phone:          strings.TrimSpace(cmd.Phone),
		Address:        cmd.Address,
		Medical:        cmd.Medical,
		Provider:       cmd.Provider,
		CredentialHash: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	user.NormalizePayload()

	if err := u.Repository.CreateUser(ctx, user); err != nil {
		return RegisterResult{}, err
	}

	if err := u.Audit.Record(ctx, user.UserID, string(auditentities.ActionRegisterUser), map[string]any{
		"role":  string(user.Role),
		"email": user.Email,
	}); err != nil {
		logger.Error("register audit write failed",
			"event", "identity_register_audit_write_failed",
			"module", "identity-access/identity-service",
			"layer", "application",
			"user_id", user.UserID,
			"error", err.Error(),
		)
	}

	logger.Info("user registered",
		"event", "identity_user_registered",
		"module", "identity-access/identity-service",
		"layer", "application",
		"user_id", user.UserID,
		"role", string(user.Role),
	)
	return RegisterResult{User: user.WithoutCredential()}, nil
}

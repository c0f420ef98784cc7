package ports

import (
	"context"
	"time"

	"caregate/contexts/identity-access/identity-service/domain/entities"
	"caregate/internal/shared/authz"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for user ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CredentialHasher is the externally supplied one-way hashing
// primitive. The service never sees or stores raw credentials.
type CredentialHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, hash, secret string) bool
}

// AuditRecorder appends one immutable trail entry after a primary
// effect commits. Implementations must not be able to mutate the trail.
type AuditRecorder interface {
	Record(ctx context.Context, actorID string, action string, details map[string]any) error
}

// Assertion is the verified-identity statement returned on successful
// authentication, handed to the external token-issuance collaborator.
type Assertion struct {
	UserID string
	Role   authz.Role
	Name   string
	Email  string
}

// Repository is the user record boundary. Sensitive fields are sealed
// at rest by the durable adapter.
type Repository interface {
	CreateUser(ctx context.Context, user entities.User) error
	GetUser(ctx context.Context, userID string) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	UpdateUser(ctx context.Context, user entities.User) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]entities.User, error)
}

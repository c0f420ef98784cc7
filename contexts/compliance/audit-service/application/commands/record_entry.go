package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "caregate/contexts/compliance/audit-service/application"
	"caregate/contexts/compliance/audit-service/domain/entities"
	domainerrors "caregate/contexts/compliance/audit-service/domain/errors"
	"caregate/contexts/compliance/audit-service/ports"
	"caregate/internal/platform/fieldcipher"
)

// RecordEntryCommand captures one auditable action. Details may carry
// arbitrary structured context; it is sealed before persistence.
type RecordEntryCommand struct {
	ActorID string
	Action  entities.Action
	Details map[string]any
}

// RecordEntryUseCase appends an immutable audit entry. Callers invoke
// it strictly after their primary effect is durable; a failure here is
// an infrastructure failure for the caller to surface, never a reason
// to unwind the primary mutation.
type RecordEntryUseCase struct {
	Repository  ports.Repository
	Cipher      *fieldcipher.Cipher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u RecordEntryUseCase) Execute(ctx context.Context, cmd RecordEntryCommand) (entities.Entry, error) {
	logger := application.ResolveLogger(u.Logger)

	actorID := strings.TrimSpace(cmd.ActorID)
	if actorID == "" {
		return entities.Entry{}, domainerrors.ErrInvalidActor
	}
	if !cmd.Action.Valid() {
		return entities.Entry{}, domainerrors.ErrUnknownAction
	}

	details := cmd.Details
	if details == nil {
		details = map[string]any{}
	}
	payload, err := json.Marshal(details)
	if err != nil {
		return entities.Entry{}, err
	}
	sealed, err := u.Cipher.Seal(payload)
	if err != nil {
		return entities.Entry{}, err
	}

	entryID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Entry{}, err
	}
	recordedAt := u.Clock.Now().UTC()

	if err := u.Repository.AppendEntry(ctx, ports.SealedEntry{
		EntryID:       entryID,
		ActorID:       actorID,
		Action:        string(cmd.Action),
		SealedDetails: sealed,
		RecordedAt:    recordedAt,
	}); err != nil {
		logger.Error("audit append failed",
			"event", "audit_append_failed",
			"module", "compliance/audit-service",
			"layer", "application",
			"actor_id", actorID,
			"action", string(cmd.Action),
			"error", err.Error(),
		)
		return entities.Entry{}, err
	}

	return entities.Entry{
		EntryID:    entryID,
		ActorID:    actorID,
		Action:     cmd.Action,
		Details:    details,
		RecordedAt: recordedAt,
	}, nil
}

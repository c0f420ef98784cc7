package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	application "caregate/contexts/compliance/audit-service/application"
	"caregate/contexts/compliance/audit-service/application/commands"
	"caregate/contexts/compliance/audit-service/domain/entities"
	domainerrors "caregate/contexts/compliance/audit-service/domain/errors"
	"caregate/contexts/compliance/audit-service/ports"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

// QueryEntriesQuery filters the audit trail. Time bounds are inclusive.
type QueryEntriesQuery struct {
	Actor  authz.Actor
	Filter ports.QueryFilter
}

// QueryEntriesUseCase serves admin-only audit review, newest first.
// The query itself is audited as view_audit_logs.
type QueryEntriesUseCase struct {
	Repository ports.Repository
	Cipher     *fieldcipher.Cipher
	Recorder   commands.RecordEntryUseCase
	Logger     *slog.Logger
}

func (u QueryEntriesUseCase) Execute(ctx context.Context, q QueryEntriesQuery) ([]entities.Entry, error) {
	logger := application.ResolveLogger(u.Logger)

	if err := authz.Authorize(q.Actor, authz.ActionViewAuditLogs, nil).Err(); err != nil {
		return nil, err
	}
	if action := strings.TrimSpace(q.Filter.Action); action != "" && !entities.Action(action).Valid() {
		return nil, domainerrors.ErrInvalidQuery
	}
	if q.Filter.From != nil && q.Filter.To != nil && q.Filter.To.Before(*q.Filter.From) {
		return nil, domainerrors.ErrInvalidQuery
	}

	rows, err := u.Repository.ListEntries(ctx, q.Filter)
	if err != nil {
		return nil, err
	}

	items := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		payload, err := u.Cipher.Open(row.SealedDetails)
		if err != nil {
			// fail closed: a single corrupt entry poisons the result
			return nil, err
		}
		var details map[string]any
		if err := json.Unmarshal(payload, &details); err != nil {
			return nil, err
		}
		items = append(items, entities.Entry{
			EntryID:    row.EntryID,
			ActorID:    row.ActorID,
			Action:     entities.Action(row.Action),
			Details:    details,
			RecordedAt: row.RecordedAt,
		})
	}

	if _, err := u.Recorder.Execute(ctx, commands.RecordEntryCommand{
		ActorID: q.Actor.ID,
		Action:  entities.ActionViewAuditLogs,
		Details: map[string]any{
			"actor_filter":  q.Filter.ActorID,
			"action_filter": q.Filter.Action,
			"count":         len(items),
		},
	}); err != nil {
		logger.Error("audit query self-entry failed",
			"event", "audit_query_audit_write_failed",
			"module", "compliance/audit-service",
			"layer", "application",
			"actor_id", q.Actor.ID,
			"error", err.Error(),
		)
	}

	return items, nil
}

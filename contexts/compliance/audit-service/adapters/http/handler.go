package httpadapter

import (
	"context"
	"log/slog"

	"caregate/contexts/compliance/audit-service/application/queries"
	"caregate/contexts/compliance/audit-service/ports"
	httptransport "caregate/contexts/compliance/audit-service/transport/http"
	"caregate/internal/shared/authz"
)

type Handler struct {
	QueryEntries queries.QueryEntriesUseCase
	Logger       *slog.Logger
}

func (h Handler) QueryAuditLogsHandler(
	ctx context.Context,
	actor authz.Actor,
	req httptransport.QueryAuditLogsRequest,
) (httptransport.QueryAuditLogsResponse, error) {
	items, err := h.QueryEntries.Execute(ctx, queries.QueryEntriesQuery{
		Actor: actor,
		Filter: ports.QueryFilter{
			ActorID: req.ActorID,
			Action:  req.Action,
			From:    req.From,
			To:      req.To,
		},
	})
	if err != nil {
		return httptransport.QueryAuditLogsResponse{}, err
	}

	entries := make([]httptransport.AuditEntryDTO, 0, len(items))
	for _, item := range items {
		entries = append(entries, httptransport.AuditEntryDTO{
			EntryID:    item.EntryID,
			ActorID:    item.ActorID,
			Action:     string(item.Action),
			Details:    item.Details,
			RecordedAt: item.RecordedAt,
		})
	}
	return httptransport.QueryAuditLogsResponse{Entries: entries}, nil
}

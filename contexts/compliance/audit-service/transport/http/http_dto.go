package httptransport

import "time"

// QueryAuditLogsRequest is the request body for admin audit review.
// Time bounds are inclusive.
type QueryAuditLogsRequest struct {
	ActorID string     `json:"actor_id,omitempty"`
	Action  string     `json:"action,omitempty"`
	From    *time.Time `json:"from,omitempty"`
	To      *time.Time `json:"to,omitempty"`
}

type AuditEntryDTO struct {
	EntryID    string         `json:"entry_id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details"`
	RecordedAt time.Time      `json:"recorded_at"`
}

type QueryAuditLogsResponse struct {
	Entries []AuditEntryDTO `json:"entries"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package ports

import (
	"context"
	"time"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for entry ids.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// SealedEntry is the at-rest shape of an audit record: the details
// payload is authenticated ciphertext produced by the field cipher.
type SealedEntry struct {
	EntryID       string
	ActorID       string
	Action        string
	SealedDetails []byte
	RecordedAt    time.Time
}

// QueryFilter narrows an audit query. Zero values match everything;
// time bounds are inclusive.
type QueryFilter struct {
	ActorID string
	Action  string
	From    *time.Time
	To      *time.Time
}

// Repository is the insert-only boundary for audit state. There are
// deliberately no update or delete operations.
type Repository interface {
	AppendEntry(ctx context.Context, entry SealedEntry) error
	ListEntries(ctx context.Context, filter QueryFilter) ([]SealedEntry, error)
}

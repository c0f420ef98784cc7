package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"caregate/contexts/compliance/audit-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the audit repository plus
// clock/id ports. It is intended for tests and local development
// wiring; like the durable adapter it only ever appends.
type Store struct {
	mu      sync.RWMutex
	entries []ports.SealedEntry

	// NowFunc overrides the clock for deterministic tests.
	NowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AppendEntry(_ context.Context, entry ports.SealedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.SealedDetails = append([]byte(nil), entry.SealedDetails...)
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) ListEntries(_ context.Context, filter ports.QueryFilter) ([]ports.SealedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.SealedEntry, 0)
	for _, entry := range s.entries {
		if filter.ActorID != "" && entry.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && entry.Action != filter.Action {
			continue
		}
		if filter.From != nil && entry.RecordedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.RecordedAt.After(*filter.To) {
			continue
		}
		items = append(items, entry)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecordedAt.After(items[j].RecordedAt)
	})
	return items, nil
}

// Entries snapshots the full trail for test assertions.
func (s *Store) Entries() []ports.SealedEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.SealedEntry(nil), s.entries...)
}

func (s *Store) Now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

package audit

import (
	"context"
	"log/slog"

	httpadapter "caregate/contexts/compliance/audit-service/adapters/http"
	"caregate/contexts/compliance/audit-service/adapters/memory"
	"caregate/contexts/compliance/audit-service/application/commands"
	"caregate/contexts/compliance/audit-service/application/queries"
	"caregate/contexts/compliance/audit-service/domain/entities"
	"caregate/contexts/compliance/audit-service/ports"
	"caregate/internal/platform/fieldcipher"
)

// Module is the audit-service composition root exposed to runtime
// wiring. Other contexts depend on it only through Recorder.
type Module struct {
	Handler httpadapter.Handler
	Record  commands.RecordEntryUseCase
	Query   queries.QueryEntriesUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Cipher      *fieldcipher.Cipher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	record := commands.RecordEntryUseCase{
		Repository:  deps.Repository,
		Cipher:      deps.Cipher,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	query := queries.QueryEntriesUseCase{
		Repository: deps.Repository,
		Cipher:     deps.Cipher,
		Recorder:   record,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{QueryEntries: query, Logger: deps.Logger},
		Record:  record,
		Query:   query,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(cipher *fieldcipher.Cipher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Cipher:      cipher,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

// Recorder adapts the record use case to the AuditRecorder port the
// identity and scheduling contexts consume.
type Recorder struct {
	record commands.RecordEntryUseCase
}

func (m Module) Recorder() Recorder {
	return Recorder{record: m.Record}
}

func (r Recorder) Record(ctx context.Context, actorID string, action string, details map[string]any) error {
	_, err := r.record.Execute(ctx, commands.RecordEntryCommand{
		ActorID: actorID,
		Action:  entities.Action(action),
		Details: details,
	})
	return err
}

package scheduling

import (
	"log/slog"

	httpadapter "caregate/contexts/scheduling/appointment-service/adapters/http"
	"caregate/contexts/scheduling/appointment-service/adapters/memory"
	"caregate/contexts/scheduling/appointment-service/application/commands"
	"caregate/contexts/scheduling/appointment-service/application/queries"
	"caregate/contexts/scheduling/appointment-service/ports"
)

// Module is the appointment-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Create  commands.CreateAppointmentUseCase
	Update  commands.UpdateAppointmentUseCase
	Cancel  commands.CancelAppointmentUseCase
	Get     queries.GetAppointmentUseCase
	List    queries.ListAppointmentsUseCase
	Store   *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Audit       ports.AuditRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	create := commands.CreateAppointmentUseCase{
		Repository:  deps.Repository,
		Audit:       deps.Audit,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	update := commands.UpdateAppointmentUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	cancel := commands.CancelAppointmentUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	get := queries.GetAppointmentUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	list := queries.ListAppointmentsUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Create: create,
			Update: update,
			Cancel: cancel,
			Get:    get,
			List:   list,
			Logger: deps.Logger,
		},
		Create: create,
		Update: update,
		Cancel: cancel,
		Get:    get,
		List:   list,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters.
func NewInMemoryModule(audit ports.AuditRecorder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Audit:       audit,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

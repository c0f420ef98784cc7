package identity

import (
	"log/slog"

	httpadapter "caregate/contexts/identity-access/identity-service/adapters/http"
	"caregate/contexts/identity-access/identity-service/adapters/memory"
	"caregate/contexts/identity-access/identity-service/application/commands"
	"caregate/contexts/identity-access/identity-service/application/queries"
	"caregate/contexts/identity-access/identity-service/ports"
	"caregate/internal/platform/credentials"
)

// Module is the identity-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler       httpadapter.Handler
	Register      commands.RegisterUseCase
	Authenticate  commands.AuthenticateUseCase
	Logout        commands.LogoutUseCase
	UpdateProfile commands.UpdateProfileUseCase
	DeleteUser    commands.DeleteUserUseCase
	UpdateRole    commands.UpdateRoleUseCase
	GetProfile    queries.GetProfileUseCase
	ListUsers     queries.ListUsersUseCase
	Store         *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Hasher      ports.CredentialHasher
	Audit       ports.AuditRecorder
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUseCase{
		Repository:  deps.Repository,
		Hasher:      deps.Hasher,
		Audit:       deps.Audit,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	authenticate := commands.AuthenticateUseCase{
		Repository: deps.Repository,
		Hasher:     deps.Hasher,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	logout := commands.LogoutUseCase{
		Audit:  deps.Audit,
		Logger: deps.Logger,
	}
	updateProfile := commands.UpdateProfileUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	deleteUser := commands.DeleteUserUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	updateRole := commands.UpdateRoleUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	getProfile := queries.GetProfileUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}
	listUsers := queries.ListUsersUseCase{
		Repository: deps.Repository,
		Audit:      deps.Audit,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Register:      register,
			Authenticate:  authenticate,
			Logout:        logout,
			UpdateProfile: updateProfile,
			DeleteUser:    deleteUser,
			UpdateRole:    updateRole,
			GetProfile:    getProfile,
			ListUsers:     listUsers,
			Logger:        deps.Logger,
		},
		Register:      register,
		Authenticate:  authenticate,
		Logout:        logout,
		UpdateProfile: updateProfile,
		DeleteUser:    deleteUser,
		UpdateRole:    updateRole,
		GetProfile:    getProfile,
		ListUsers:     listUsers,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and the default credential hasher.
func NewInMemoryModule(audit ports.AuditRecorder, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Hasher:      credentials.BcryptHasher{},
		Audit:       audit,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}

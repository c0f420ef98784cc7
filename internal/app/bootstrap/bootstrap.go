package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	audit "caregate/contexts/compliance/audit-service"
	auditpostgres "caregate/contexts/compliance/audit-service/adapters/postgres"
	identity "caregate/contexts/identity-access/identity-service"
	identitypostgres "caregate/contexts/identity-access/identity-service/adapters/postgres"
	scheduling "caregate/contexts/scheduling/appointment-service"
	schedulingpostgres "caregate/contexts/scheduling/appointment-service/adapters/postgres"
	"caregate/internal/platform/config"
	"caregate/internal/platform/credentials"
	"caregate/internal/platform/db"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/platform/httpserver"
	"caregate/internal/platform/token"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	cipher, err := fieldcipher.New(fieldcipher.Keys{
		Encryption: cfg.EncryptionKey,
		Signing:    cfg.SigningKey,
	})
	if err != nil {
		return nil, err
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := auditpostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}
	if err := identitypostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}
	if err := schedulingpostgres.Migrate(pg.DB); err != nil {
		return nil, err
	}

	auditModule := audit.NewModule(audit.Dependencies{
		Repository:  auditpostgres.NewRepository(pg.DB, logger),
		Cipher:      cipher,
		Clock:       auditpostgres.SystemClock{},
		IDGenerator: auditpostgres.UUIDGenerator{},
		Logger:      logger,
	})
	recorder := auditModule.Recorder()

	identityModule := identity.NewModule(identity.Dependencies{
		Repository:  identitypostgres.NewRepository(pg.DB, cipher, logger),
		Hasher:      credentials.BcryptHasher{},
		Audit:       recorder,
		Clock:       identitypostgres.SystemClock{},
		IDGenerator: identitypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	schedulingModule := scheduling.NewModule(scheduling.Dependencies{
		Repository:  schedulingpostgres.NewRepository(pg.DB, cipher, logger),
		Audit:       recorder,
		Clock:       schedulingpostgres.SystemClock{},
		IDGenerator: schedulingpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	tokens := token.NewSigner(cfg.JWTSecret, cfg.AssertionTTL)
	server := httpserver.New(
		identityModule,
		schedulingModule,
		auditModule,
		tokens,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

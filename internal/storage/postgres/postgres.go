// Package postgres implements the storage.Backend interface on PostgreSQL.
// Game writes are delegated to the shared GORM backend; this package owns the connection.
package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/database"
	gormstorage "github.com/zmaniacz/lfstats-chomper/internal/storage/gorm"

	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the postgres storage backend.
// When DB is nil, Init connects using DBConfig.
type Dependencies struct {
	DB              *gorm.DB
	DBConfig        config.DBConfig
	Logger          *slog.Logger
	ActionChunkSize int
	StateChunkSize  int
}

// Backend wraps the GORM backend with connection management.
type Backend struct {
	*gormstorage.Backend
	deps  Dependencies
	sqlDB *sql.DB
	owned bool
}

// New creates a new postgres storage backend. No connection is made until Init.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{deps: deps}
}

// Init connects (unless a DB was injected), validates the connection and migrates the schema.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		cfg, err := database.ResolveCredentials(b.deps.DBConfig)
		if err != nil {
			return err
		}
		db, err := database.GetPostgresDB(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
		b.sqlDB = sqlDB
		b.owned = true
		b.deps.Logger.Info("Connected to database", "host", cfg.Host, "database", cfg.Database)
	}

	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:              b.deps.DB,
		Logger:          b.deps.Logger,
		ActionChunkSize: b.deps.ActionChunkSize,
		StateChunkSize:  b.deps.StateChunkSize,
	})
	if err := b.Backend.Init(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return nil
}

// Close releases the connection pool if this backend opened it.
func (b *Backend) Close() error {
	if b.owned && b.sqlDB != nil {
		return b.sqlDB.Close()
	}
	return nil
}

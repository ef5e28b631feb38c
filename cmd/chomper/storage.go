package main

import (
	"fmt"

	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/database"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/internal/storage/memory"
	pgstorage "github.com/zmaniacz/lfstats-chomper/internal/storage/postgres"
	sqlitestorage "github.com/zmaniacz/lfstats-chomper/internal/storage/sqlite"
)

// openStorage creates and initializes the configured backend. The returned
// close func releases the backend and any connection opened for it.
func openStorage(storageCfg config.StorageConfig) (storage.Backend, func() error, error) {
	backend, closeConn, err := createStorageBackend(storageCfg)
	if err != nil {
		return nil, nil, err
	}
	if err := backend.Init(); err != nil {
		Logger.Error("Failed to initialize storage backend", "error", err)
		_ = backend.Close()
		_ = closeConn()
		return nil, nil, err
	}

	closeAll := func() error {
		if err := backend.Close(); err != nil {
			return err
		}
		return closeConn()
	}
	return backend, closeAll, nil
}

func createStorageBackend(storageCfg config.StorageConfig) (storage.Backend, func() error, error) {
	noop := func() error { return nil }
	ingestCfg := config.GetIngestConfig()

	switch storageCfg.Type {
	case "postgres":
		mgr := database.NewManager(ZLogger)
		if err := mgr.ConnectPostgres(config.GetDBConfig()); err != nil {
			return nil, nil, err
		}
		Logger.Info("Postgres storage backend initialized")
		return pgstorage.New(pgstorage.Dependencies{
			DB:              mgr.DB,
			Logger:          Logger,
			ActionChunkSize: ingestCfg.ActionChunkSize,
			StateChunkSize:  ingestCfg.StateChunkSize,
		}), mgr.Close, nil

	case "sqlite":
		backend, err := sqlitestorage.New(storageCfg.SQLite, Logger, ingestCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		Logger.Info("SQLite storage backend initialized", "path", storageCfg.SQLite.Path)
		return backend, noop, nil

	case "memory":
		Logger.Info("Memory storage backend initialized", "outputDir", storageCfg.Memory.OutputDir)
		return memory.New(storageCfg.Memory), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", storageCfg.Type)
	}
}

package postgres

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/database"
	"github.com/zmaniacz/lfstats-chomper/internal/model"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
	"gorm.io/gorm"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func TestNew(t *testing.T) {
	b := New(Dependencies{})
	require.NotNil(t, b)
	assert.NotNil(t, b.deps.Logger)
	assert.NoError(t, b.Close())
}

func TestInit_InjectedDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "pg.db")), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	b := New(Dependencies{DB: db})
	require.NoError(t, b.Init())
	assert.True(t, db.Migrator().HasTable(&model.GameEntityState{}))

	result := &core.GameResult{
		Meta: core.GameMetaData{RegionCode: "1", SiteCode: "2", ChomperVersion: "v"},
		Game: core.Game{MissionStartTime: time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, b.SaveGame(context.Background(), result))
	assert.ErrorIs(t, b.SaveGame(context.Background(), result), storage.ErrGameExists)

	// injected connections belong to the caller
	require.NoError(t, b.Close())
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestInit_SecretUnavailable(t *testing.T) {
	b := New(Dependencies{DBConfig: config.DBConfig{
		Host:       "localhost",
		SecretFile: filepath.Join(t.TempDir(), "missing.json"),
	}})

	err := b.Init()
	require.Error(t, err)
	assert.True(t, errors.Is(err, database.ErrSecretUnavailable))
}

package sqlitestorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/database"
	"github.com/zmaniacz/lfstats-chomper/internal/model"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Compile-time interface check
var _ storage.Backend = (*Backend)(nil)

func testResult() *core.GameResult {
	return &core.GameResult{
		Meta: core.GameMetaData{RegionCode: "3", SiteCode: "42", ChomperVersion: "1.0.0"},
		Game: core.Game{MissionStartTime: time.Date(2022, 3, 4, 19, 30, 0, 0, time.UTC)},
		Teams: []*core.Team{
			{Index: 1, Desc: "Fire", ColorEnum: 11},
		},
	}
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	b, err := New(config.SQLiteConfig{Path: path}, nil, config.IngestConfig{})
	require.NoError(t, err)
	require.NoError(t, b.Init())

	require.NoError(t, b.SaveGame(context.Background(), testResult()))
	require.NoError(t, b.Close())

	db, err := database.GetSqliteDB(path)
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(&model.GameTeam{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestDumpRequiresPath(t *testing.T) {
	b, err := New(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "games.db")}, nil, config.IngestConfig{})
	require.NoError(t, err)
	defer b.Close()

	assert.Error(t, b.Dump())
}

func TestDumpWritesSnapshot(t *testing.T) {
	dump := filepath.Join(t.TempDir(), "dump.db")
	b, err := New(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "games.db"), DumpPath: dump}, nil, config.IngestConfig{})
	require.NoError(t, err)
	defer b.Close()
	require.NoError(t, b.Init())
	require.NoError(t, b.SaveGame(context.Background(), testResult()))

	require.NoError(t, b.Dump())
	_, err = os.Stat(dump)
	require.NoError(t, err)

	db, err := database.GetSqliteDB(dump)
	require.NoError(t, err)
	var n int64
	require.NoError(t, db.Model(&model.Game{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

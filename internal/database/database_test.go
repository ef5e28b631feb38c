package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/model"
)

func writeSecret(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "h", Port: "5432", Username: "u", Password: "p", Database: "d"})
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", dsn)

	dsn = DSN(config.DBConfig{Host: "h", Port: "5432", Username: "u", Password: "p", Database: "d", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}

func TestLoadSecret(t *testing.T) {
	path := writeSecret(t, `{"username":"chomper","password":"pw","host":"db.example","port":5433,"dbname":"lfstats"}`)

	cfg, err := LoadSecret(path)
	require.NoError(t, err)
	assert.Equal(t, "chomper", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)
	assert.Equal(t, "db.example", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "lfstats", cfg.Database)
}

func TestLoadSecret_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"invalid json", func(t *testing.T) string { return writeSecret(t, `{`) }},
		{"no host", func(t *testing.T) string { return writeSecret(t, `{"username":"u"}`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSecret(tt.path(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSecretUnavailable))
		})
	}
}

func TestResolveCredentials(t *testing.T) {
	base := config.DBConfig{Host: "localhost", Port: "5432", Username: "postgres", Password: "postgres", Database: "lfstats"}

	got, err := ResolveCredentials(base)
	require.NoError(t, err)
	assert.Equal(t, base, got)

	base.SecretFile = writeSecret(t, `{"username":"chomper","password":"pw","host":"db.example"}`)
	got, err = ResolveCredentials(base)
	require.NoError(t, err)
	assert.Equal(t, "db.example", got.Host)
	assert.Equal(t, "chomper", got.Username)
	assert.Equal(t, "5432", got.Port)
	assert.Equal(t, "lfstats", got.Database)
}

func TestManager_SqliteSetup(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.ConnectSqlite(filepath.Join(t.TempDir(), "chomper.db")))
	defer m.Close()

	require.NoError(t, m.Setup())
	assert.True(t, m.IsValid)

	for _, table := range model.DatabaseModels {
		assert.True(t, m.DB.Migrator().HasTable(table), "%T not migrated", table)
	}

	var tag model.Tag
	require.NoError(t, m.DB.First(&tag, model.SocialTagID).Error)
	assert.Equal(t, "Social", tag.Name)

	// second setup must not duplicate the seeded tag
	require.NoError(t, m.Setup())
	var count int64
	m.DB.Model(&model.Tag{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := GetSqliteDB(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.Error(t, DumpMemoryDBToDisk(db, ""))

	out := filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))
	require.NoError(t, DumpMemoryDBToDisk(db, out))

	dumped, err := GetSqliteDB(out)
	require.NoError(t, err)
	assert.True(t, dumped.Migrator().HasTable(&model.Game{}))
}

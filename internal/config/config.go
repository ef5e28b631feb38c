package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is looked up in the directory passed to Load.
const ConfigFileName = "chomper.cfg.json"

// SQLiteConfig holds SQLite storage backend settings.
// An empty Path selects a shared in-memory database, dumped to DumpPath on close.
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
}

// DBConfig holds Postgres connection settings. When SecretFile is set the
// credentials in it take precedence over the individual fields.
type DBConfig struct {
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Username   string `json:"username" mapstructure:"username"`
	Password   string `json:"password" mapstructure:"password"`
	Database   string `json:"database" mapstructure:"database"`
	SSLMode    string `json:"sslmode" mapstructure:"sslmode"`
	SecretFile string `json:"secretFile" mapstructure:"secretFile"`
}

// IngestConfig tunes the chomp pipeline.
type IngestConfig struct {
	ActionChunkSize int `json:"actionChunkSize" mapstructure:"actionChunkSize"`
	StateChunkSize  int `json:"stateChunkSize" mapstructure:"stateChunkSize"`
	Workers         int `json:"workers" mapstructure:"workers"`
}

// SourceConfig says where TDF files come from and how they are encoded.
type SourceConfig struct {
	Type      string `json:"type" mapstructure:"type"`
	Dir       string `json:"dir" mapstructure:"dir"`
	Encoding  string `json:"encoding" mapstructure:"encoding"`
	ServerURL string `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey    string `json:"apiKey" mapstructure:"apiKey"`
}

type MVPConfig struct {
	ModelFile     string `json:"modelFile" mapstructure:"modelFile"`
	ClampNegative bool   `json:"clampNegative" mapstructure:"clampNegative"`
}

type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file is not an error;
// defaults and CHOMPER_* environment variables still apply.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./chomplogs")

	viper.SetDefault("source.type", "file")
	viper.SetDefault("source.dir", ".")
	viper.SetDefault("source.encoding", "utf-16le")

	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")

	viper.SetDefault("storage.type", "postgres")
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.memory.outputDir", "./chomped")
	viper.SetDefault("storage.memory.compressOutput", true)

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "lfstats")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("db.secretFile", "")

	viper.SetDefault("ingest.actionChunkSize", 1000)
	viper.SetDefault("ingest.stateChunkSize", 500)
	viper.SetDefault("ingest.workers", 1)

	viper.SetDefault("mvp.modelFile", "")
	viper.SetDefault("mvp.clampNegative", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "lfstats")
	viper.SetDefault("influx.bucket", "chomper")
	viper.SetDefault("influx.backupPath", "")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetEnvPrefix("CHOMPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
	}
}

func GetDBConfig() DBConfig {
	return DBConfig{
		Host:       viper.GetString("db.host"),
		Port:       viper.GetString("db.port"),
		Username:   viper.GetString("db.username"),
		Password:   viper.GetString("db.password"),
		Database:   viper.GetString("db.database"),
		SSLMode:    viper.GetString("db.sslmode"),
		SecretFile: viper.GetString("db.secretFile"),
	}
}

// GetIngestConfig returns the pipeline settings. Non-positive values fall back to defaults.
func GetIngestConfig() IngestConfig {
	cfg := IngestConfig{
		ActionChunkSize: viper.GetInt("ingest.actionChunkSize"),
		StateChunkSize:  viper.GetInt("ingest.stateChunkSize"),
		Workers:         viper.GetInt("ingest.workers"),
	}
	if cfg.ActionChunkSize <= 0 {
		cfg.ActionChunkSize = 1000
	}
	if cfg.StateChunkSize <= 0 {
		cfg.StateChunkSize = 500
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return cfg
}

func GetSourceConfig() SourceConfig {
	return SourceConfig{
		Type:      viper.GetString("source.type"),
		Dir:       viper.GetString("source.dir"),
		Encoding:  strings.ToLower(viper.GetString("source.encoding")),
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
	}
}

func GetMVPConfig() MVPConfig {
	return MVPConfig{
		ModelFile:     viper.GetString("mvp.modelFile"),
		ClampNegative: viper.GetBool("mvp.clampNegative"),
	}
}

func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

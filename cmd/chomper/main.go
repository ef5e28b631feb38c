package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/logging"
)

// module defs - ChomperVersion and BuildDate can be set at build time via ldflags.
// ChomperVersion is stored with every game and decides whether a re-chomp replaces it.
var (
	ChomperVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "chomper"
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger = slog.New(slog.DiscardHandler)

	// ZLogger is handed to the database and influx managers
	ZLogger zerolog.Logger = zerolog.Nop()

	SessionStartTime time.Time = time.Now()

	logFile *os.File
)

const usage = `usage:
  chomper chomp [-config dir] <tdfId>...    replay and store games
  chomper export [-config dir] [-out dir] <tdfId>...    replay games to JSON files
  chomper version`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one command and returns the process exit status.
func run(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, usage)
		return 2
	}

	switch strings.ToLower(args[0]) {
	case "version":
		fmt.Fprintf(stdout, "%s %s (built %s)\n", AppName, ChomperVersion, BuildDate)
		return 0
	case "chomp":
		return chompCommand(args[1:], stdout)
	case "export":
		return exportCommand(args[1:], stdout)
	default:
		fmt.Fprintf(stdout, "unknown command %q\n%s\n", args[0], usage)
		return 2
	}
}

// setup loads the config and starts logging for this run.
func setup(configDir string) error {
	SessionStartTime = time.Now()
	if err := config.Load(configDir); err != nil {
		return err
	}

	level := config.GetString("logLevel")
	file, err := logging.OpenLogFile(config.GetString("logsDir"), AppName, SessionStartTime)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = file

	graylogAddress := ""
	if config.GetBool("graylog.enabled") {
		graylogAddress = config.GetString("graylog.address")
	}
	SlogManager = logging.NewSlogManager()
	if err := SlogManager.Setup(logFile, level, graylogAddress); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	Logger = SlogManager.Logger()

	zlvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		zlvl = zerolog.InfoLevel
	}
	mlw := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339},
		zerolog.ConsoleWriter{Out: logFile, TimeFormat: time.RFC3339, NoColor: true},
	)
	ZLogger = zerolog.New(mlw).With().Timestamp().Str("app", AppName).Logger().Level(zlvl)

	Logger.Info("Starting up", "version", ChomperVersion, "build", BuildDate)
	return nil
}

// teardown releases what setup opened.
func teardown() {
	if SlogManager != nil {
		if err := SlogManager.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "failed to close logging:", err)
		}
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/influx"
	"github.com/zmaniacz/lfstats-chomper/internal/ingest"
	"github.com/zmaniacz/lfstats-chomper/internal/metrics"
	"github.com/zmaniacz/lfstats-chomper/internal/mvp"
	"github.com/zmaniacz/lfstats-chomper/internal/source"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/internal/storage/memory"
)

func chompCommand(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("chomp", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configDir := fs.String("config", ".", "directory holding "+config.ConfigFileName)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ids := fs.Args()
	if len(ids) == 0 {
		fmt.Fprintln(stdout, "No TDF ids provided.")
		return 2
	}

	if err := setup(*configDir); err != nil {
		fmt.Fprintln(stdout, "setup failed:", err)
		return ingest.OutcomeInternalError.ExitCode()
	}
	defer teardown()

	backend, closeStorage, err := openStorage(config.GetStorageConfig())
	if err != nil {
		Logger.Error("Storage unavailable", "error", err)
		fmt.Fprintln(stdout, "storage unavailable:", err)
		return ingest.OutcomeDependencyUnavailable.ExitCode()
	}
	defer func() {
		if err := closeStorage(); err != nil {
			Logger.Error("Failed to close storage", "error", err)
		}
	}()

	return runBatch(backend, ids, stdout)
}

func exportCommand(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configDir := fs.String("config", ".", "directory holding "+config.ConfigFileName)
	outDir := fs.String("out", "", "output directory (default storage.memory.outputDir)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ids := fs.Args()
	if len(ids) == 0 {
		fmt.Fprintln(stdout, "No TDF ids provided.")
		return 2
	}

	if err := setup(*configDir); err != nil {
		fmt.Fprintln(stdout, "setup failed:", err)
		return ingest.OutcomeInternalError.ExitCode()
	}
	defer teardown()

	memCfg := config.GetStorageConfig().Memory
	if *outDir != "" {
		memCfg.OutputDir = *outDir
	}
	if memCfg.OutputDir == "" {
		fmt.Fprintln(stdout, "No output directory configured.")
		return 2
	}

	backend := memory.New(memCfg)
	code := runBatch(backend, ids, stdout)
	for _, path := range backend.ExportedFilePaths() {
		fmt.Fprintln(stdout, path)
	}
	return code
}

// runBatch chomps ids into backend, prints one line per game and returns
// the exit status of the worst outcome.
func runBatch(backend storage.Backend, ids []string, stdout io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, closeSvc, err := newIngestService(ctx, backend)
	if err != nil {
		Logger.Error("Failed to create ingest service", "error", err)
		fmt.Fprintln(stdout, "setup failed:", err)
		return ingest.OutcomeInternalError.ExitCode()
	}
	defer closeSvc()

	reports := svc.ChompAll(ctx, ids)
	for _, r := range reports {
		switch r.Outcome {
		case ingest.OutcomeSuccess:
			fmt.Fprintf(stdout, "%s: chomped\n", r.TdfID)
		case ingest.OutcomeDuplicateGame:
			fmt.Fprintf(stdout, "%s: game exists\n", r.TdfID)
		default:
			fmt.Fprintf(stdout, "%s: %s: %v\n", r.TdfID, r.Outcome, r.Err)
		}
	}
	return ingest.Worst(reports).ExitCode()
}

// newIngestService wires the source, scorer, metrics and optional influx
// summaries around backend.
func newIngestService(ctx context.Context, backend storage.Backend) (*ingest.Service, func(), error) {
	sourceCfg := config.GetSourceConfig()
	src, err := source.New(sourceCfg)
	if err != nil {
		return nil, nil, err
	}

	mvpCfg := config.GetMVPConfig()
	models, err := mvp.LoadModels(mvpCfg.ModelFile)
	if err != nil {
		return nil, nil, err
	}

	recorder, err := metrics.New()
	if err != nil {
		return nil, nil, err
	}

	deps := ingest.Dependencies{
		Logger:         Logger,
		Source:         src,
		Encoding:       sourceCfg.Encoding,
		Backend:        backend,
		Scorer:         mvp.NewEvaluator(models, mvpCfg.ClampNegative),
		ChomperVersion: ChomperVersion,
		Metrics:        recorder,
		Workers:        config.GetIngestConfig().Workers,
	}

	closeFn := func() {}
	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		mgr := influx.NewManager(ZLogger, influxCfg)
		if err := mgr.Connect(ctx); err != nil {
			Logger.Warn("InfluxDB unavailable, game summaries disabled", "error", err)
		} else {
			deps.Summaries = mgr
			closeFn = func() {
				if err := mgr.Close(); err != nil {
					Logger.Warn("Failed to close InfluxDB manager", "error", err)
				}
			}
		}
	}

	return ingest.New(deps), closeFn, nil
}

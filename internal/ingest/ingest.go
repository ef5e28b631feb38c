// Package ingest runs one TDF through the whole chomp: read, parse,
// synthesize, replay, score and store.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zmaniacz/lfstats-chomper/internal/metrics"
	"github.com/zmaniacz/lfstats-chomper/internal/parser"
	"github.com/zmaniacz/lfstats-chomper/internal/replay"
	"github.com/zmaniacz/lfstats-chomper/internal/source"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/internal/synth"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// SummaryWriter receives a summary of every stored game.
type SummaryWriter interface {
	WriteGameSummary(ctx context.Context, r *core.GameResult, outcome string) error
}

// Dependencies holds everything a Service needs.
type Dependencies struct {
	Logger         *slog.Logger
	Source         source.Source
	Encoding       string
	Backend        storage.Backend
	Scorer         replay.Scorer
	ChomperVersion string
	Metrics        *metrics.Recorder
	Summaries      SummaryWriter
	Workers        int
	// NewID overrides the state-history identifiers.
	NewID func() uuid.UUID
}

// Service chomps TDFs. It is safe for concurrent use when its backend is.
type Service struct {
	deps Dependencies
}

// Report is the result of chomping one TDF in a batch.
type Report struct {
	TdfID   string
	Outcome Outcome
	Err     error
	Result  *core.GameResult
}

func New(deps Dependencies) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Workers <= 0 {
		deps.Workers = 1
	}
	return &Service{deps: deps}
}

// Build replays an already decoded TDF stream into a GameResult.
// Nothing is stored.
func (s *Service) Build(ctx context.Context, r io.Reader, tdfKey string) (*core.GameResult, error) {
	start := time.Now()
	log := s.deps.Logger.With("tdf", tdfKey)

	parsed, err := parser.NewParser(log, s.deps.ChomperVersion).Parse(r, tdfKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tdfKey, err)
	}
	gameEnd := parsed.GameEnd()

	actions, err := synth.New(log, parsed.Registry, gameEnd).Run(parsed.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize actions: %w", err)
	}

	var opts []replay.Option
	if s.deps.Scorer != nil {
		opts = append(opts, replay.WithScorer(s.deps.Scorer))
	}
	if s.deps.NewID != nil {
		opts = append(opts, replay.WithIDGenerator(s.deps.NewID))
	}
	res, err := replay.New(log, parsed.Registry, parsed.Game, gameEnd, opts...).Run(actions)
	if err != nil {
		return nil, fmt.Errorf("failed to replay: %w", err)
	}

	result := &core.GameResult{
		Meta:        parsed.Meta,
		Game:        parsed.Game,
		Teams:       parsed.Registry.Teams(),
		Entities:    parsed.Registry.Entities(),
		Actions:     actions,
		History:     res.History,
		ScoreDeltas: parsed.ScoreDeltas,
	}

	s.deps.Metrics.RecordReplay(ctx, len(actions), len(res.History), time.Since(start))
	log.Debug("Built game",
		"raw", len(parsed.Actions),
		"synthetic", len(actions)-len(parsed.Actions),
		"states", len(res.History),
		"duration", time.Since(start))
	return result, nil
}

// Chomp reads tdfID from the source, replays it and stores the result.
// The result is returned whenever the replay succeeded, even if storing it did not.
func (s *Service) Chomp(ctx context.Context, tdfID string) (*core.GameResult, error) {
	result, err := s.chomp(ctx, tdfID)
	outcome := Classify(err)
	s.deps.Metrics.RecordOutcome(ctx, outcome.String())

	if result != nil && s.deps.Summaries != nil {
		if serr := s.deps.Summaries.WriteGameSummary(ctx, result, outcome.String()); serr != nil {
			s.deps.Logger.Warn("Failed to write game summary", "tdf", tdfID, "error", serr)
		}
	}

	switch outcome {
	case OutcomeSuccess:
		s.deps.Logger.Info("Chomped game", "tdf", tdfID)
	case OutcomeDuplicateGame:
		s.deps.Logger.Info("Game exists", "tdf", tdfID)
	default:
		s.deps.Logger.Error("Failed to chomp game", "tdf", tdfID, "outcome", outcome.String(), "error", err)
	}
	return result, err
}

func (s *Service) chomp(ctx context.Context, tdfID string) (*core.GameResult, error) {
	if s.deps.Source == nil || s.deps.Backend == nil {
		return nil, fmt.Errorf("ingest service needs a source and a backend")
	}

	rc, err := source.OpenDecoded(ctx, s.deps.Source, tdfID, s.deps.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", tdfID, err)
	}
	defer rc.Close()

	result, err := s.Build(ctx, rc, tdfID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Backend.SaveGame(ctx, result); err != nil {
		return result, fmt.Errorf("failed to save %s: %w", tdfID, err)
	}
	return result, nil
}

// ChompAll chomps every id with at most Workers in flight. One failing game
// does not stop the others. Reports keep the order of ids.
func (s *Service) ChompAll(ctx context.Context, ids []string) []Report {
	reports := make([]Report, len(ids))

	var g errgroup.Group
	g.SetLimit(s.deps.Workers)
	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = Report{TdfID: id, Outcome: Classify(err), Err: err}
				return nil
			}
			result, err := s.Chomp(ctx, id)
			reports[i] = Report{TdfID: id, Outcome: Classify(err), Err: err, Result: result}
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

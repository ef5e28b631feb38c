// Package synth derives the actions a TDF does not record:
// eliminations, reactivations and assists.
package synth

import (
	"log/slog"
	"math"

	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

const (
	// ReactivationDelay is how long a deactivated player stays down.
	ReactivationDelay int64 = 8000
	// AssistWindow is the longest gap between a damaging hit and the takedown it assists.
	AssistWindow int64 = 4000
)

// Synthesizer produces synthetic actions for one game.
type Synthesizer struct {
	logger  *slog.Logger
	reg     *registry.Registry
	gameEnd int64
}

// New creates a Synthesizer. gameEnd stands in for the end time of entities
// that never received an entity-end record; zero means unknown.
func New(logger *slog.Logger, reg *registry.Registry, gameEnd int64) *Synthesizer {
	return &Synthesizer{
		logger:  logger,
		reg:     reg,
		gameEnd: gameEnd,
	}
}

// EndOf returns the end time of an entity, falling back to gameEnd and then to "never".
func EndOf(e *core.Entity, gameEnd int64) int64 {
	if e.EndTime.Valid {
		return e.EndTime.Int64
	}
	if gameEnd > 0 {
		return gameEnd
	}
	return math.MaxInt64
}

// Run merges all synthetic actions into actions. Passes run in a fixed order,
// re-sorting after each: eliminations, reactivations, assists.
// The input slice is not modified.
func (s *Synthesizer) Run(actions []core.GameAction) ([]core.GameAction, error) {
	out := make([]core.GameAction, len(actions))
	copy(out, actions)
	core.SortActions(out)
	seq := core.NextSeq(out)

	elims := s.Eliminations(seq)
	seq += len(elims)
	out = append(out, elims...)
	core.SortActions(out)

	reacs, err := s.Reactivations(out, seq)
	if err != nil {
		return nil, err
	}
	seq += len(reacs)
	out = append(out, reacs...)
	core.SortActions(out)

	assists, err := s.Assists(out, seq)
	if err != nil {
		return nil, err
	}
	out = append(out, assists...)
	core.SortActions(out)

	s.logger.Debug("Synthesized actions",
		"eliminations", len(elims),
		"reactivations", len(reacs),
		"assists", len(assists))
	return out, nil
}

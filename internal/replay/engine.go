// Package replay walks the merged action list and rebuilds every player's
// state history.
package replay

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Scorer evaluates the MVP value of a snapshot.
type Scorer interface {
	Score(state *core.EntityState, role core.Role, team *core.Team, game *core.Game) core.MVPScore
}

// Engine replays one game. A single Engine may Run more than once;
// every run starts from the entities' initial states.
type Engine struct {
	logger  *slog.Logger
	reg     *registry.Registry
	game    core.Game
	gameEnd int64
	scorer  Scorer
	newID   func() uuid.UUID
}

type Option func(*Engine)

// WithScorer attaches an MVP value to every snapshot.
func WithScorer(s Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithIDGenerator replaces the random snapshot identifiers.
func WithIDGenerator(f func() uuid.UUID) Option {
	return func(e *Engine) { e.newID = f }
}

// New creates an engine. gameEnd is the end time used for entities that
// never received an entity-end record.
func New(logger *slog.Logger, reg *registry.Registry, game core.Game, gameEnd int64, opts ...Option) *Engine {
	e := &Engine{
		logger:  logger,
		reg:     reg,
		game:    game,
		gameEnd: gameEnd,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one replay.
type Result struct {
	History []core.StateSnapshot
	// Final holds the terminal state of every player, keyed by entity id.
	Final map[string]core.EntityState
}

// session is the mutable state of one run.
type session struct {
	engine  *Engine
	states  map[string]*core.EntityState
	history []core.StateSnapshot
}

// Run replays actions, which must already be time ordered and include the
// synthetic actions. It sets FinalState on every player entity.
func (e *Engine) Run(actions []core.GameAction) (*Result, error) {
	s := &session{
		engine: e,
		states: make(map[string]*core.EntityState),
	}
	for _, ent := range e.reg.Entities() {
		st := ent.InitialState
		s.states[ent.ID] = &st
	}

	for _, p := range e.reg.Players() {
		s.snapshot(p)
	}

	for _, a := range actions {
		if err := s.apply(a); err != nil {
			return nil, fmt.Errorf("error replaying %s at %d: %w", a.Type, a.Time, err)
		}
	}

	res := &Result{Final: make(map[string]core.EntityState)}
	for _, p := range e.reg.Players() {
		st := s.states[p.ID]
		prev := *st
		st.StateTime = e.endTime(p, st.StateTime)
		st.IsFinal = true
		if cancelNuke(st) {
			st.OwnNukeCanceledByGameEnd++
		}
		s.push(p, prev)

		final := *st
		p.FinalState = &final
		res.Final[p.ID] = final
	}
	res.History = s.history

	e.logger.Debug("Replay complete",
		"actions", len(actions),
		"snapshots", len(res.History))
	return res, nil
}

func (e *Engine) endTime(ent *core.Entity, fallback int64) int64 {
	if ent.EndTime.Valid {
		return ent.EndTime.Int64
	}
	if e.gameEnd > 0 {
		return e.gameEnd
	}
	return fallback
}

// push appends a snapshot of ent if its state moved away from prev,
// crediting the elapsed time to uptime or the matching downtime bucket.
func (s *session) push(ent *core.Entity, prev core.EntityState) {
	if !ent.IsPlayer() {
		return
	}
	st := s.states[ent.ID]
	if *st == prev {
		return
	}
	accrue(st, &prev)
	s.snapshot(ent)
}

func (s *session) snapshot(ent *core.Entity) {
	st := s.states[ent.ID]
	snap := core.StateSnapshot{
		ID:    s.engine.newID(),
		State: *st,
	}
	if s.engine.scorer != nil && ent.Role != core.RoleNone {
		team, _ := s.engine.reg.TeamOf(ent)
		snap.MVP = s.engine.scorer.Score(st, ent.Role, team, &s.engine.game)
	}
	s.history = append(s.history, snap)
}

// accrue adds the time since prev to st.
func accrue(st, prev *core.EntityState) {
	delta := st.StateTime - prev.StateTime
	if prev.IsActive {
		st.Uptime += delta
		return
	}
	switch prev.LastDeacType {
	case core.DeacNuke:
		st.NukeDowntime += delta
	case core.DeacOpponent:
		st.OppDeacDowntime += delta
	case core.DeacPenalty:
		st.PenaltyDowntime += delta
	case core.DeacResupply:
		st.ResupplyDowntime += delta
	case core.DeacTeam:
		st.TeamDeacDowntime += delta
	}
}

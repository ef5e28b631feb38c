// Package registry owns the static roster of one game: its teams and entities.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

var (
	ErrUnknownEntity   = errors.New("unknown entity")
	ErrUnknownTeam     = errors.New("unknown team")
	ErrDuplicateEntity = errors.New("duplicate entity")
)

// Registry holds teams and entities keyed by their TDF identifiers.
// Iteration helpers return declaration order so replay output is deterministic.
type Registry struct {
	teams       map[int]*core.Team
	teamOrder   []int
	entities    map[string]*core.Entity
	entityOrder []string
}

func New() *Registry {
	return &Registry{
		teams:    make(map[int]*core.Team),
		entities: make(map[string]*core.Entity),
	}
}

// AddTeam registers a team. A later declaration with the same index replaces the earlier one.
func (r *Registry) AddTeam(t *core.Team) {
	if _, ok := r.teams[t.Index]; !ok {
		r.teamOrder = append(r.teamOrder, t.Index)
	}
	r.teams[t.Index] = t
}

// AddEntity registers an entity. Its team must already be declared.
func (r *Registry) AddEntity(e *core.Entity) error {
	if _, ok := r.entities[e.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateEntity, e.ID)
	}
	if _, ok := r.teams[e.Team]; !ok {
		return fmt.Errorf("%w: %d (entity %s)", ErrUnknownTeam, e.Team, e.ID)
	}
	r.entities[e.ID] = e
	r.entityOrder = append(r.entityOrder, e.ID)
	return nil
}

// EndEntity records the termination time and code of an entity.
func (r *Registry) EndEntity(id string, endTime int64, endCode string) error {
	e, err := r.Entity(id)
	if err != nil {
		return err
	}
	e.EndTime.Int64 = endTime
	e.EndTime.Valid = true
	e.EndCode = endCode
	return nil
}

func (r *Registry) Entity(id string) (*core.Entity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, id)
	}
	return e, nil
}

func (r *Registry) Team(index int) (*core.Team, error) {
	t, ok := r.teams[index]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTeam, index)
	}
	return t, nil
}

// TeamOf returns the team an entity belongs to.
func (r *Registry) TeamOf(e *core.Entity) (*core.Team, error) {
	return r.Team(e.Team)
}

// Entities returns every entity in declaration order.
func (r *Registry) Entities() []*core.Entity {
	out := make([]*core.Entity, 0, len(r.entityOrder))
	for _, id := range r.entityOrder {
		out = append(out, r.entities[id])
	}
	return out
}

// Players returns the player entities in declaration order.
func (r *Registry) Players() []*core.Entity {
	var out []*core.Entity
	for _, id := range r.entityOrder {
		if e := r.entities[id]; e.IsPlayer() {
			out = append(out, e)
		}
	}
	return out
}

// PlayersWhere returns the players matching pred, in declaration order.
func (r *Registry) PlayersWhere(pred func(*core.Entity) bool) []*core.Entity {
	var out []*core.Entity
	for _, e := range r.Players() {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Teams returns the teams in declaration order.
func (r *Registry) Teams() []*core.Team {
	out := make([]*core.Team, 0, len(r.teamOrder))
	for _, idx := range r.teamOrder {
		out = append(out, r.teams[idx])
	}
	return out
}

// SortedPlayerIDs returns player ids in lexical order.
func (r *Registry) SortedPlayerIDs() []string {
	var ids []string
	for _, e := range r.Players() {
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return ids
}

// Finalize derives team elimination once every entity-end record is applied.
// Neutral teams and teams without players take no part: they are never
// eliminated and do not count as opponents.
func (r *Registry) Finalize() {
	players := make(map[int]int)
	survivors := make(map[int]int)
	for _, e := range r.Players() {
		players[e.Team]++
		if e.Survived() {
			survivors[e.Team]++
		}
	}

	contending := func(t *core.Team) bool {
		return !t.IsNeutral() && players[t.Index] > 0
	}

	for _, t := range r.Teams() {
		t.IsEliminated = contending(t) && survivors[t.Index] == 0
	}

	for _, t := range r.Teams() {
		t.OppEliminated = false
		t.ElimBonus = 0
		if !contending(t) {
			continue
		}
		opponents := 0
		allOut := true
		for _, o := range r.Teams() {
			if o.Index == t.Index || !contending(o) {
				continue
			}
			opponents++
			if !o.IsEliminated {
				allOut = false
			}
		}
		if opponents > 0 && allOut {
			t.OppEliminated = true
			t.ElimBonus = core.TeamElimBonus
		}
	}
}

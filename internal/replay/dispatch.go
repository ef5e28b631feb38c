package replay

import (
	"fmt"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Context is what a transition rule sees: the action, its actor and,
// for paired rules, its target.
type Context struct {
	Action      core.GameAction
	Actor       *core.Entity
	ActorState  *core.EntityState
	Target      *core.Entity
	TargetState *core.EntityState

	sameTeam bool
}

// SameTeam reports whether actor and target are teammates.
func (c *Context) SameTeam() bool {
	return c.sameTeam
}

// ActorRule mutates the actor alone.
type ActorRule func(c *Context)

// PairRule mutates an actor and a target.
type PairRule func(c *Context)

// BroadcastRule mutates every recipient picked by its predicate.
// The actor is never a recipient of its own broadcast.
type BroadcastRule struct {
	Recipient func(c *Context, e *core.Entity, st *core.EntityState) bool
	Apply     func(c *Context, e *core.Entity, st *core.EntityState)
}

var actorRules = map[string]ActorRule{
	core.EventShotMiss:         shotMiss,
	core.EventShotGenMiss:      shotGenMiss,
	core.EventShotGenDamage:    shotGenDamage,
	core.EventShotGenDestroy:   shotGenDestroy,
	core.EventMslGenMiss:       missileSpent,
	core.EventMslMiss:          missileSpent,
	core.EventMslGenDestroy:    missileGenDestroy,
	core.EventBaseAwarded:      baseAwarded,
	core.EventRapidAct:         rapidActivate,
	core.EventRapidDeac:        rapidDeactivate,
	core.EventNukeAct:          nukeActivate,
	core.EventNukeDeton:        nukeDetonate,
	core.EventResupplyTeamAmmo: ammoBoost,
	core.EventResupplyTeamLife: lifeBoost,
	core.EventPenalty:          penalty,
	core.EventReactivate:       reactivate,
	core.EventEliminate:        eliminate,
	core.EventAssist:           assist,
}

var pairRules = map[string]PairRule{
	core.EventShotOppDamage: shotOppDamage,
	core.EventShotOppDown:   shotOppDown,
	core.EventMslOppDown:    missileOppDown,
	core.EventMslOwnDown:    missileOwnDown,
	core.EventResupplyShots: resupplyShots,
	core.EventResupplyLives: resupplyLives,
}

var broadcastRules = map[string]BroadcastRule{
	core.EventNukeDeton:        nukeBlast,
	core.EventResupplyTeamAmmo: ammoBoostReceived,
	core.EventResupplyTeamLife: lifeBoostReceived,
}

// handled reports whether any rule reacts to the action type.
func handled(typ string) bool {
	_, a := actorRules[typ]
	_, p := pairRules[typ]
	_, b := broadcastRules[typ]
	return a || p || b
}

// apply runs every rule registered for the action. Action types without a
// rule, such as mission start and end, leave every state untouched.
func (s *session) apply(a core.GameAction) error {
	if !handled(a.Type) {
		return nil
	}

	actor, err := s.engine.reg.Entity(a.Player)
	if err != nil {
		return fmt.Errorf("actor: %w", err)
	}
	c := &Context{
		Action:     a,
		Actor:      actor,
		ActorState: s.states[actor.ID],
	}
	prevActor := *c.ActorState
	c.ActorState.StateTime = a.Time

	pair, isPair := pairRules[a.Type]
	var prevTarget core.EntityState
	if isPair {
		target, err := s.engine.reg.Entity(a.Target)
		if err != nil {
			return fmt.Errorf("target: %w", err)
		}
		c.Target = target
		c.TargetState = s.states[target.ID]
		c.sameTeam = actor.Team == target.Team
		prevTarget = *c.TargetState
		c.TargetState.StateTime = a.Time
	}

	if rule, ok := actorRules[a.Type]; ok {
		rule(c)
	}

	if b, ok := broadcastRules[a.Type]; ok {
		for _, e := range s.engine.reg.Players() {
			if e.ID == actor.ID {
				continue
			}
			st := s.states[e.ID]
			if !b.Recipient(c, e, st) {
				continue
			}
			prev := *st
			st.StateTime = a.Time
			b.Apply(c, e, st)
			s.push(e, prev)
		}
	}

	if isPair {
		pair(c)
		s.push(c.Target, prevTarget)
	}
	s.push(actor, prevActor)
	return nil
}

package replay

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// spendShot uses one shot. Ammo carriers never run dry.
func spendShot(e *core.Entity, st *core.EntityState) {
	if e.Role == core.RoleAmmo {
		st.Shots = e.InitialShots
		return
	}
	st.Shots = clamp(st.Shots-1, 0, e.MaxShots)
}

func spendMissile(e *core.Entity, st *core.EntityState) {
	st.MissilesLeft = clamp(st.MissilesLeft-1, 0, e.InitialMissiles)
}

func cancelNuke(st *core.EntityState) bool {
	if !st.IsNuking {
		return false
	}
	st.IsNuking = false
	return true
}

func fire(c *Context) {
	spendShot(c.Actor, c.ActorState)
	c.ActorState.ShotsFired++
	if c.ActorState.IsRapid {
		c.ActorState.ShotsFiredDuringRapid++
	}
}

func shotMiss(c *Context) {
	fire(c)
}

func shotGenMiss(c *Context) {
	fire(c)
	c.ActorState.MissBase++
}

func shotGenDamage(c *Context) {
	fire(c)
	c.ActorState.ShotsHit++
	c.ActorState.ShotBase++
}

// shotGenDestroy earns its special points even during rapid fire.
func shotGenDestroy(c *Context) {
	shotGenDamage(c)
	c.ActorState.DestroyBase++
	c.ActorState.SPEarned += 5
	c.ActorState.Score += 1001
}

func missileSpent(c *Context) {
	spendMissile(c.Actor, c.ActorState)
}

func missileGenDestroy(c *Context) {
	spendMissile(c.Actor, c.ActorState)
	c.ActorState.DestroyBase++
	c.ActorState.MissileBase++
	c.ActorState.Score += 1001
	c.ActorState.SPEarned += 5
}

func baseAwarded(c *Context) {
	c.ActorState.AwardBase++
	c.ActorState.Score += 1001
}

func rapidActivate(c *Context) {
	c.ActorState.RapidFires++
	c.ActorState.IsRapid = true
	c.ActorState.SPSpent += 10
}

func rapidDeactivate(c *Context) {
	c.ActorState.IsRapid = false
}

func nukeActivate(c *Context) {
	c.ActorState.IsNuking = true
	c.ActorState.SPSpent += 20
	c.ActorState.NukesActivated++
}

func nukeDetonate(c *Context) {
	c.ActorState.IsNuking = false
	c.ActorState.NukesDetonated++
	c.ActorState.Score += 500
}

func ammoBoost(c *Context) {
	c.ActorState.AmmoBoosts++
	c.ActorState.SPSpent += 15
}

func lifeBoost(c *Context) {
	c.ActorState.LifeBoosts++
	c.ActorState.SPSpent += 10
}

func penalty(c *Context) {
	c.ActorState.Deactivate(c.Action.Time, core.DeacPenalty)
	c.ActorState.Penalties++
	if cancelNuke(c.ActorState) {
		c.ActorState.OwnNukeCanceledByPenalty++
	}
}

func reactivate(c *Context) {
	c.ActorState.IsActive = true
}

func eliminate(c *Context) {
	c.ActorState.IsActive = false
	c.ActorState.IsEliminated = true
}

func assist(c *Context) {
	c.ActorState.Assists++
	if c.ActorState.IsRapid {
		c.ActorState.AssistsDuringRapid++
	}
}

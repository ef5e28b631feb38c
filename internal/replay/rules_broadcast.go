package replay

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// nukeBlast takes down every opposing player still in the game.
var nukeBlast = BroadcastRule{
	Recipient: func(c *Context, e *core.Entity, st *core.EntityState) bool {
		return e.Team != c.Actor.Team && !st.IsEliminated
	},
	Apply: func(c *Context, e *core.Entity, st *core.EntityState) {
		if e.Role == core.RoleMedic {
			c.ActorState.NukeMedicHits += min(st.Lives, 3)
		}
		if cancelNuke(st) {
			st.OwnNukeCanceledByNuke++
			c.ActorState.CancelOpponentNuke++
		}
		st.Deactivate(c.Action.Time, core.DeacNuke)
		st.Lives = clamp(st.Lives-3, 0, e.MaxLives)
		st.CurrentHP = e.MaxHP
	},
}

// ammoBoostReceived tops up shots of every active teammate. Ammo carriers are skipped.
var ammoBoostReceived = BroadcastRule{
	Recipient: func(c *Context, e *core.Entity, st *core.EntityState) bool {
		return e.Team == c.Actor.Team && st.IsActive && e.Role != core.RoleAmmo
	},
	Apply: func(c *Context, e *core.Entity, st *core.EntityState) {
		st.Shots = clamp(st.Shots+e.ResupplyShots, 0, e.MaxShots)
		st.AmmoBoostReceived++
		c.ActorState.AmmoBoostedPlayers++
	},
}

// lifeBoostReceived tops up lives of every active teammate. Medics are skipped.
var lifeBoostReceived = BroadcastRule{
	Recipient: func(c *Context, e *core.Entity, st *core.EntityState) bool {
		return e.Team == c.Actor.Team && st.IsActive && e.Role != core.RoleMedic
	},
	Apply: func(c *Context, e *core.Entity, st *core.EntityState) {
		st.Lives = clamp(st.Lives+e.ResupplyLives, 0, e.MaxLives)
		st.LifeBoostReceived++
		c.ActorState.LifeBoostedPlayers++
	},
}

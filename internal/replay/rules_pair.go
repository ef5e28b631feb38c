package replay

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// deacCause is the deactivation cause a hit from the actor inflicts on the target.
func deacCause(c *Context) core.DeacType {
	if c.SameTeam() {
		return core.DeacTeam
	}
	return core.DeacOpponent
}

// creditNukeCancel records a takedown that interrupted the target's nuke.
func creditNukeCancel(c *Context) {
	if !cancelNuke(c.TargetState) {
		return
	}
	if c.SameTeam() {
		c.TargetState.OwnNukeCanceledByTeam++
		c.ActorState.CancelTeamNuke++
	} else {
		c.TargetState.OwnNukeCanceledByOpponent++
		c.ActorState.CancelOpponentNuke++
	}
}

// shotOppDamage is a non-deactivating hit on a three-hit player.
func shotOppDamage(c *Context) {
	actor := c.ActorState
	spendShot(c.Actor, actor)
	actor.ShotsFired++
	actor.ShotsHit++

	if c.SameTeam() {
		actor.ShotTeam++
		actor.Score -= 100
	} else {
		actor.ShotOpponent++
		actor.Shot3Hit++
		actor.Score += 100
	}

	if actor.IsRapid {
		actor.ShotsFiredDuringRapid++
		actor.ShotsHitDuringRapid++
		if c.SameTeam() {
			actor.ShotTeamDuringRapid++
		} else {
			actor.ShotOpponentDuringRapid++
			actor.Shot3HitDuringRapid++
		}
	} else if !c.SameTeam() {
		actor.SPEarned++
	}

	target := c.TargetState
	target.SelfHit++
	target.CurrentHP = clamp(target.CurrentHP-c.Actor.ShotPower, 0, c.Target.MaxHP)
	target.Score -= 20
}

func shotOppDown(c *Context) {
	actor := c.ActorState
	spendShot(c.Actor, actor)
	actor.ShotsFired++
	actor.ShotsHit++

	if c.SameTeam() {
		actor.ShotTeam++
		actor.DeacTeam++
		actor.Score -= 100
	} else {
		actor.ShotOpponent++
		actor.DeacOpponent++
		actor.Score += 100
	}

	if actor.IsRapid {
		actor.ShotsFiredDuringRapid++
		actor.ShotsHitDuringRapid++
		if c.SameTeam() {
			actor.ShotTeamDuringRapid++
			actor.DeacTeamDuringRapid++
		} else {
			actor.ShotOpponentDuringRapid++
			actor.DeacOpponentDuringRapid++
		}
	} else if !c.SameTeam() {
		actor.SPEarned++
	}

	if !c.SameTeam() && c.Target.Role.IsThreeHit() {
		actor.Shot3Hit++
		actor.Deac3Hit++
		if actor.IsRapid {
			actor.Shot3HitDuringRapid++
			actor.Deac3HitDuringRapid++
		}
	}

	if c.Target.Role == core.RoleMedic {
		if c.SameTeam() {
			actor.OwnMedicHits++
		} else {
			actor.MedicHits++
			if actor.IsRapid {
				actor.MedicHitsDuringRapid++
			}
		}
	}

	target := c.TargetState
	target.SelfHit++
	// HP is reset so it can be tracked while down
	target.CurrentHP = c.Target.MaxHP
	target.Lives = clamp(target.Lives-1, 0, c.Target.MaxLives)
	target.SelfDeac++
	target.Deactivate(c.Action.Time, deacCause(c))
	target.Score -= 20
	if target.IsRapid {
		target.SelfHitDuringRapid++
		target.SelfDeacDuringRapid++
	}
	creditNukeCancel(c)
}

// missileDown is the shared target side of both missile takedowns.
func missileDown(c *Context) {
	target := c.TargetState
	target.Score -= 100
	target.Lives = clamp(target.Lives-2, 0, c.Target.MaxLives)
	target.CurrentHP = c.Target.MaxHP
	target.Deactivate(c.Action.Time, deacCause(c))
	target.SelfDeac++
	if c.SameTeam() {
		target.SelfTeamMissile++
	} else {
		target.SelfMissile++
	}
	if target.IsRapid {
		target.SelfDeacDuringRapid++
		target.SelfMissileDuringRapid++
	}
	creditNukeCancel(c)
}

func missileOppDown(c *Context) {
	actor := c.ActorState
	spendMissile(c.Actor, actor)
	if c.SameTeam() {
		actor.Score -= 500
		actor.DeacTeam++
		actor.MissileTeam++
	} else {
		actor.Score += 500
		actor.DeacOpponent++
		actor.MissileOpponent++
		actor.SPEarned += 2
	}
	if c.Target.Role.IsThreeHit() {
		actor.Deac3Hit++
	}
	if c.Target.Role == core.RoleMedic {
		actor.MedicHits += 2
	}
	missileDown(c)
}

// missileOwnDown is a missile takedown of a teammate.
func missileOwnDown(c *Context) {
	c.sameTeam = true
	actor := c.ActorState
	spendMissile(c.Actor, actor)
	actor.Score -= 500
	actor.DeacTeam++
	actor.MissileTeam++
	missileDown(c)
}

// resupplyNukeCancel credits a resupply that interrupted a teammate's nuke.
func resupplyNukeCancel(c *Context) {
	if !cancelNuke(c.TargetState) {
		return
	}
	c.TargetState.OwnNukeCanceledByTeam++
	c.TargetState.OwnNukeCanceledByResupply++
	c.ActorState.CancelTeamNukeByResupply++
	c.ActorState.CancelTeamNuke++
}

func resupply(c *Context) {
	c.ActorState.ShotsFired++
	c.ActorState.ShotsHit++

	target := c.TargetState
	target.Deactivate(c.Action.Time, core.DeacResupply)
	target.IsRapid = false
	resupplyNukeCancel(c)
}

func resupplyShots(c *Context) {
	resupply(c)
	c.ActorState.ResupplyShots++
	c.TargetState.SelfResupplyShots++
	c.TargetState.Shots = clamp(c.TargetState.Shots+c.Target.ResupplyShots, 0, c.Target.MaxShots)
}

func resupplyLives(c *Context) {
	resupply(c)
	c.ActorState.ResupplyLives++
	c.TargetState.SelfResupplyLives++
	c.TargetState.Lives = clamp(c.TargetState.Lives+c.Target.ResupplyLives, 0, c.Target.MaxLives)
}

// pkg/core/state.go
package core

import "database/sql"

// DeacType is the cause of the most recent deactivation.
type DeacType string

const (
	DeacNone     DeacType = ""
	DeacResupply DeacType = "resupply"
	DeacNuke     DeacType = "nuke"
	DeacOpponent DeacType = "opponent"
	DeacTeam     DeacType = "team"
	DeacPenalty  DeacType = "penalty"
)

// EntityState is a point-in-time snapshot of one entity during replay.
// Every field is a plain value so two snapshots compare with ==.
// Fields tagged mvp:"-" are never weighted by the MVP evaluator.
type EntityState struct {
	EntityID  string `json:"iplId" mvp:"-"`
	StateTime int64  `json:"stateTime" mvp:"-"`
	IsFinal   bool   `json:"isFinal"`

	Score        int           `json:"score"`
	IsActive     bool          `json:"isActive"`
	IsNuking     bool          `json:"isNuking"`
	IsEliminated bool          `json:"isEliminated"`
	IsRapid      bool          `json:"isRapid"`
	Lives        int           `json:"lives"`
	Shots        int           `json:"shots"`
	MissilesLeft int           `json:"missilesLeft"`
	CurrentHP    int           `json:"currentHP"`
	LastDeacTime sql.NullInt64 `json:"lastDeacTime" mvp:"-"`
	LastDeacType DeacType      `json:"lastDeacType" mvp:"-"`

	ShotsFired   int `json:"shotsFired"`
	ShotsHit     int `json:"shotsHit"`
	ShotTeam     int `json:"shotTeam"`
	DeacTeam     int `json:"deacTeam"`
	Shot3Hit     int `json:"shot3Hit"`
	Deac3Hit     int `json:"deac3Hit"`
	ShotOpponent int `json:"shotOpponent"`
	DeacOpponent int `json:"deacOpponent"`
	Assists      int `json:"assists"`
	ShotBase     int `json:"shotBase"`
	MissBase     int `json:"missBase"`
	DestroyBase  int `json:"destroyBase"`
	AwardBase    int `json:"awardBase"`
	MedicHits    int `json:"medicHits"`
	OwnMedicHits int `json:"ownMedicHits"`
	SelfHit      int `json:"selfHit"`
	SelfDeac     int `json:"selfDeac"`

	MissileBase     int `json:"missileBase"`
	MissileTeam     int `json:"missileTeam"`
	MissileOpponent int `json:"missileOpponent"`
	SelfMissile     int `json:"selfMissile"`
	SelfTeamMissile int `json:"selfTeamMissile"`

	SPSpent  int `json:"spSpent"`
	SPEarned int `json:"spEarned"`

	ResupplyShots      int `json:"resupplyShots"`
	SelfResupplyShots  int `json:"selfResupplyShots"`
	ResupplyLives      int `json:"resupplyLives"`
	SelfResupplyLives  int `json:"selfResupplyLives"`
	AmmoBoosts         int `json:"ammoBoosts"`
	LifeBoosts         int `json:"lifeBoosts"`
	AmmoBoostedPlayers int `json:"ammoBoostedPlayers"`
	LifeBoostedPlayers int `json:"lifeBoostedPlayers"`
	AmmoBoostReceived  int `json:"ammoBoostReceived"`
	LifeBoostReceived  int `json:"lifeBoostReceived"`

	RapidFires              int `json:"rapidFires"`
	ShotsFiredDuringRapid   int `json:"shotsFiredDuringRapid"`
	ShotsHitDuringRapid     int `json:"shotsHitDuringRapid"`
	ShotTeamDuringRapid     int `json:"shotTeamDuringRapid"`
	DeacTeamDuringRapid     int `json:"deacTeamDuringRapid"`
	Shot3HitDuringRapid     int `json:"shot3HitDuringRapid"`
	Deac3HitDuringRapid     int `json:"deac3HitDuringRapid"`
	ShotOpponentDuringRapid int `json:"shotOpponentDuringRapid"`
	DeacOpponentDuringRapid int `json:"deacOpponentDuringRapid"`
	AssistsDuringRapid      int `json:"assistsDuringRapid"`
	MedicHitsDuringRapid    int `json:"medicHitsDuringRapid"`
	SelfHitDuringRapid      int `json:"selfHitDuringRapid"`
	SelfDeacDuringRapid     int `json:"selfDeacDuringRapid"`
	SelfMissileDuringRapid  int `json:"selfMissileDuringRapid"`

	NukesActivated            int `json:"nukesActivated"`
	NukesDetonated            int `json:"nukesDetonated"`
	NukeMedicHits             int `json:"nukeMedicHits"`
	OwnNukeCanceledByNuke     int `json:"ownNukeCanceledByNuke"`
	OwnNukeCanceledByGameEnd  int `json:"ownNukeCanceledByGameEnd"`
	OwnNukeCanceledByTeam     int `json:"ownNukeCanceledByTeam"`
	OwnNukeCanceledByResupply int `json:"ownNukeCanceledByResupply"`
	OwnNukeCanceledByOpponent int `json:"ownNukeCanceledByOpponent"`
	OwnNukeCanceledByPenalty  int `json:"ownNukeCanceledByPenalty"`
	CancelOpponentNuke        int `json:"cancelOpponentNuke"`
	CancelTeamNuke            int `json:"cancelTeamNuke"`
	CancelTeamNukeByResupply  int `json:"cancelTeamNukeByResupply"`

	// durations in milliseconds
	Uptime           int64 `json:"uptime"`
	ResupplyDowntime int64 `json:"resupplyDowntime"`
	NukeDowntime     int64 `json:"nukeDowntime"`
	TeamDeacDowntime int64 `json:"teamDeacDowntime"`
	OppDeacDowntime  int64 `json:"oppDeacDowntime"`
	PenaltyDowntime  int64 `json:"penaltyDowntime"`

	Penalties int `json:"penalties"`
}

// NewInitialState seeds an active state from a role loadout.
func NewInitialState(entityID string, startTime int64, d RoleDefaults) EntityState {
	return EntityState{
		EntityID:     entityID,
		StateTime:    startTime,
		IsActive:     true,
		Lives:        d.InitialLives,
		Shots:        d.InitialShots,
		MissilesLeft: d.InitialMissiles,
		CurrentHP:    d.MaxHP,
	}
}

// Deactivate marks the state down at t for the given cause.
func (s *EntityState) Deactivate(t int64, cause DeacType) {
	s.IsActive = false
	s.LastDeacTime = sql.NullInt64{Int64: t, Valid: true}
	s.LastDeacType = cause
}

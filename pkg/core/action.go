// pkg/core/action.go
package core

import "sort"

// Event type codes as they appear in the TDF, plus the chomper's synthetic types.
const (
	EventMissionStart     = "0100"
	EventMissionEnd       = "0101"
	EventShotMiss         = "0201"
	EventShotGenMiss      = "0202"
	EventShotGenDamage    = "0203"
	EventShotGenDestroy   = "0204"
	EventShotOppDamage    = "0205"
	EventShotOppDown      = "0206"
	EventMslStart         = "0300"
	EventMslGenMiss       = "0301"
	EventMslGenDestroy    = "0303"
	EventMslMiss          = "0304"
	EventMslOppDown       = "0306"
	EventMslOwnDown       = "0308"
	EventRapidAct         = "0400"
	EventRapidDeac        = "0401"
	EventNukeAct          = "0404"
	EventNukeDeton        = "0405"
	EventResupplyShots    = "0500"
	EventResupplyLives    = "0502"
	EventResupplyTeamAmmo = "0510"
	EventResupplyTeamLife = "0512"
	EventPenalty          = "0600"
	EventAchieve          = "0900"
	EventBaseAwarded      = "0B03"

	EventReactivate = "LFS001"
	EventEliminate  = "LFS002"
	EventAssist     = "LFS003"
)

// PhaseReactivation puts a reactivation ahead of every other action at its
// timestamp. A player is back up the instant the downtime ends, before anything
// else happening at that millisecond can deactivate them again.
const PhaseReactivation = -1

// GameAction is one timed event, raw or synthesized.
// Actions sharing a timestamp are ordered by Phase, then by Seq: parse order
// for raw actions, creation order (continuing after the last raw action) for
// synthetic ones.
type GameAction struct {
	Seq    int    `json:"seq"`
	Phase  int    `json:"-"`
	Time   int64  `json:"time"`
	Type   string `json:"type"`
	Player string `json:"player,omitempty"`
	Action string `json:"action,omitempty"`
	Target string `json:"target,omitempty"`
}

// IsSynthetic reports whether the action was derived rather than read from the log.
func (a GameAction) IsSynthetic() bool {
	switch a.Type {
	case EventReactivate, EventEliminate, EventAssist:
		return true
	}
	return false
}

// SortActions orders actions by time, then by Phase, then by Seq.
func SortActions(actions []GameAction) {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Time != actions[j].Time {
			return actions[i].Time < actions[j].Time
		}
		if actions[i].Phase != actions[j].Phase {
			return actions[i].Phase < actions[j].Phase
		}
		return actions[i].Seq < actions[j].Seq
	})
}

// NextSeq returns the first sequence number not used by actions.
func NextSeq(actions []GameAction) int {
	next := 0
	for _, a := range actions {
		if a.Seq >= next {
			next = a.Seq + 1
		}
	}
	return next
}

// ScoreDelta is a score-change audit record. It takes no part in replay.
type ScoreDelta struct {
	Time   int64  `json:"time"`
	Entity string `json:"entity"`
	Team   int    `json:"team"`
	Old    int    `json:"old"`
	Delta  int    `json:"delta"`
	New    int    `json:"new"`
}

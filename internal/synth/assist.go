package synth

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Assists credits an attacker whose cross-team damaging hit on a three-hit
// player is followed, within AssistWindow, by a takedown from someone else.
// Every pending candidate for a victim is dropped at its takedown.
func (s *Synthesizer) Assists(actions []core.GameAction, seq int) ([]core.GameAction, error) {
	candidates := make(map[string][]core.GameAction)
	for _, e := range s.reg.Players() {
		if e.Role.IsThreeHit() {
			candidates[e.ID] = nil
		}
	}

	var out []core.GameAction
	for _, a := range actions {
		switch a.Type {
		case core.EventShotOppDamage:
			actor, err := s.reg.Entity(a.Player)
			if err != nil {
				return nil, err
			}
			victim, err := s.reg.Entity(a.Target)
			if err != nil {
				return nil, err
			}
			pending, ok := candidates[victim.ID]
			if !ok || actor.Team == victim.Team {
				continue
			}
			if hasAttacker(pending, actor.ID) {
				continue
			}
			candidates[victim.ID] = append(pending, core.GameAction{
				Time:   a.Time,
				Type:   core.EventAssist,
				Player: actor.ID,
				Action: " assists vs ",
				Target: victim.ID,
			})

		case core.EventShotOppDown:
			victim, err := s.reg.Entity(a.Target)
			if err != nil {
				return nil, err
			}
			pending := candidates[victim.ID]
			for i := len(pending) - 1; i >= 0; i-- {
				c := pending[i]
				if c.Player == a.Player || a.Time-c.Time > AssistWindow {
					continue
				}
				c.Seq = seq
				c.Time = a.Time
				out = append(out, c)
				seq++
			}
			if _, ok := candidates[victim.ID]; ok {
				candidates[victim.ID] = nil
			}
		}
	}
	return out, nil
}

func hasAttacker(pending []core.GameAction, attacker string) bool {
	for _, c := range pending {
		if c.Player == attacker {
			return true
		}
	}
	return false
}

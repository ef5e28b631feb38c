package synth

import (
	"math"
	"sort"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

type downtime struct {
	entity *core.Entity
	since  int64
	down   bool
	end    int64
}

func (d *downtime) due() int64 {
	return d.since + ReactivationDelay
}

// Reactivations walks the time-ordered actions tracking each player's last
// deactivation. A reactivation is emitted exactly ReactivationDelay after it,
// once an action at or past that instant is reached (or the log runs out),
// unless the player has ended by then. It is emitted before that action is
// applied and carries PhaseReactivation so it also replays first.
func (s *Synthesizer) Reactivations(actions []core.GameAction, seq int) ([]core.GameAction, error) {
	players := s.reg.Players()
	tracked := make(map[string]*downtime, len(players))
	order := make([]*downtime, 0, len(players))
	for _, e := range players {
		d := &downtime{entity: e, end: EndOf(e, s.gameEnd)}
		tracked[e.ID] = d
		order = append(order, d)
	}

	var out []core.GameAction
	flush := func(now int64) {
		var ready []*downtime
		for _, d := range order {
			if d.down && d.due() <= now && d.due() < d.end {
				ready = append(ready, d)
			}
		}
		sort.SliceStable(ready, func(i, j int) bool { return ready[i].due() < ready[j].due() })
		for _, d := range ready {
			out = append(out, core.GameAction{
				Seq:    seq,
				Phase:  core.PhaseReactivation,
				Time:   d.due(),
				Type:   core.EventReactivate,
				Player: d.entity.ID,
				Action: " reactivated",
			})
			seq++
			d.down = false
		}
	}
	deactivate := func(id string, t int64) error {
		if _, err := s.reg.Entity(id); err != nil {
			return err
		}
		if d, ok := tracked[id]; ok {
			d.since = t
			d.down = true
		}
		return nil
	}

	for _, a := range actions {
		flush(a.Time)

		switch a.Type {
		case core.EventShotOppDown, core.EventMslOppDown, core.EventMslOwnDown,
			core.EventResupplyShots, core.EventResupplyLives:
			if err := deactivate(a.Target, a.Time); err != nil {
				return nil, err
			}
		case core.EventPenalty:
			if err := deactivate(a.Player, a.Time); err != nil {
				return nil, err
			}
		case core.EventNukeDeton:
			actor, err := s.reg.Entity(a.Player)
			if err != nil {
				return nil, err
			}
			for _, d := range order {
				if d.entity.Team != actor.Team {
					d.since = a.Time
					d.down = true
				}
			}
		}
	}
	flush(math.MaxInt64)

	return out, nil
}

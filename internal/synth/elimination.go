package synth

import (
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Eliminations emits one elimination per player that did not end with the survival code.
func (s *Synthesizer) Eliminations(seq int) []core.GameAction {
	var out []core.GameAction
	for _, e := range s.reg.Players() {
		if e.Survived() {
			continue
		}
		out = append(out, core.GameAction{
			Seq:    seq,
			Time:   EndOf(e, s.gameEnd),
			Type:   core.EventEliminate,
			Player: e.ID,
			Action: " eliminated",
		})
		seq++
	}
	return out
}

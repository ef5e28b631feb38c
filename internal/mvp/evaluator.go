// Package mvp computes the weighted MVP value of a player state.
package mvp

import (
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Evaluator scores snapshots against a model set.
type Evaluator struct {
	models        ModelSet
	clampNegative bool
}

// NewEvaluator creates an evaluator. With clampNegative a negative total is reported as zero.
func NewEvaluator(models ModelSet, clampNegative bool) *Evaluator {
	return &Evaluator{
		models:        models,
		clampNegative: clampNegative,
	}
}

// counter is a numeric EntityState field the models may weight.
type counter struct {
	name  string
	index int
}

var (
	countersOnce sync.Once
	counters     []counter
)

// stateCounters lists the int fields of EntityState by JSON name.
func stateCounters() []counter {
	countersOnce.Do(func() {
		t := reflect.TypeOf(core.EntityState{})
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Tag.Get("mvp") == "-" {
				continue
			}
			switch f.Type.Kind() {
			case reflect.Int, reflect.Int64:
			default:
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			counters = append(counters, counter{name: name, index: i})
		}
	})
	return counters
}

func ratio(num, den int) float64 {
	return float64(num) / float64(max(den, 1))
}

// Score computes the MVP value of state for a player of the given role.
// team and game supply the elimination bonus context.
func (ev *Evaluator) Score(state *core.EntityState, role core.Role, team *core.Team, game *core.Game) core.MVPScore {
	model, ok := ev.models[role]
	if !ok {
		return core.MVPScore{Details: map[string]float64{}}
	}

	details := make(map[string]float64)
	v := reflect.ValueOf(state).Elem()
	for _, c := range stateCounters() {
		if c.name == "score" {
			continue
		}
		w := model.weight(c.name)
		n := v.Field(c.index).Int()
		if w != 0 && n != 0 {
			details[c.name] = w * float64(n)
		}
	}

	if w := model.weight("score"); w != 0 && float64(state.Score) > model.ScoreThreshold {
		details["score"] = (float64(state.Score) - model.ScoreThreshold) * w
	}

	if model.Accuracy != 0 {
		details["accuracy"] = model.Accuracy * ratio(state.ShotsHit, state.ShotsFired)
	}
	if model.AccuracyDuringRapid != 0 {
		details["accuracyDuringRapid"] = model.AccuracyDuringRapid * ratio(state.ShotsHitDuringRapid, state.ShotsFiredDuringRapid)
	}
	if model.HitDiff != 0 {
		details["hitDiff"] = model.HitDiff * ratio(state.ShotOpponent, state.SelfHit)
	}
	if model.HitDiffDuringRapid != 0 {
		details["hitDiffDuringRapid"] = model.HitDiffDuringRapid * ratio(state.ShotOpponentDuringRapid, state.SelfHitDuringRapid)
	}

	// a medic is rewarded for staying in, everyone else penalised for going out
	if model.IsEliminated != 0 {
		medic := role == core.RoleMedic
		if (!medic && state.IsEliminated) || (medic && !state.IsEliminated) {
			details["isEliminated"] = model.IsEliminated
		}
	}

	if state.IsFinal && team != nil && team.OppEliminated {
		details["elimBonus"] = elimBonus(model, game)
	}

	names := make([]string, 0, len(details))
	for name := range details {
		names = append(names, name)
	}
	sort.Strings(names)
	var total float64
	for _, name := range names {
		total += details[name]
	}
	if ev.clampNegative && total < 0 {
		total = 0
	}

	return core.MVPScore{
		Value:   total,
		Details: details,
		ModelID: model.ID,
	}
}

// elimBonus grows with the minutes left on the clock past the threshold,
// never dropping below the minimum.
func elimBonus(model Model, game *core.Game) float64 {
	if game == nil || game.MissionLength <= 0 {
		return model.ElimDefaultBonus
	}
	remaining := float64(game.MissionMaxLength - game.MissionLength)
	bonus := model.ElimMinBonus + ((remaining-model.ElimMinutesRemainingThreshold*60)*model.ElimPerMinuteBonus)/60
	return math.Max(bonus, model.ElimMinBonus)
}

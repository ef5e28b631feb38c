package mvp

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// Model is the weight table of one role. Weights are keyed by the counter's
// JSON name, case-insensitively; a zero or missing weight means "not scored".
type Model struct {
	ID             int                `json:"id" mapstructure:"id"`
	Role           string             `json:"role" mapstructure:"role"`
	ScoreThreshold float64            `json:"scoreThreshold" mapstructure:"scoreThreshold"`
	Weights        map[string]float64 `json:"weights" mapstructure:"weights"`

	Accuracy            float64 `json:"accuracy" mapstructure:"accuracy"`
	AccuracyDuringRapid float64 `json:"accuracyDuringRapid" mapstructure:"accuracyDuringRapid"`
	HitDiff             float64 `json:"hitDiff" mapstructure:"hitDiff"`
	HitDiffDuringRapid  float64 `json:"hitDiffDuringRapid" mapstructure:"hitDiffDuringRapid"`
	IsEliminated        float64 `json:"isEliminated" mapstructure:"isEliminated"`

	ElimMinBonus                  float64 `json:"elimMinBonus" mapstructure:"elimMinBonus"`
	ElimMinutesRemainingThreshold float64 `json:"elimMinutesRemainingThreshold" mapstructure:"elimMinutesRemainingThreshold"`
	ElimPerMinuteBonus            float64 `json:"elimPerMinuteBonus" mapstructure:"elimPerMinuteBonus"`
	ElimDefaultBonus              float64 `json:"elimDefaultBonus" mapstructure:"elimDefaultBonus"`
}

func (m Model) weight(name string) float64 {
	return m.Weights[strings.ToLower(name)]
}

// ModelSet holds one model per role.
type ModelSet map[core.Role]Model

// normalize lowercases weight keys so file-loaded and built-in models agree.
func (m Model) normalize() Model {
	weights := make(map[string]float64, len(m.Weights))
	for k, v := range m.Weights {
		weights[strings.ToLower(k)] = v
	}
	m.Weights = weights
	return m
}

// LoadModels reads a model set from a JSON file shaped as {"models": [Model...]}.
// An empty path returns the built-in defaults.
func LoadModels(path string) (ModelSet, error) {
	if path == "" {
		return DefaultModels(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading mvp model file: %w", err)
	}

	var models []Model
	if err := v.UnmarshalKey("models", &models); err != nil {
		return nil, fmt.Errorf("error decoding mvp models: %w", err)
	}

	set := make(ModelSet, len(models))
	for _, m := range models {
		role, ok := core.ParseRole(m.Role)
		if !ok {
			return nil, fmt.Errorf("mvp model %d: unknown role %q", m.ID, m.Role)
		}
		set[role] = m.normalize()
	}
	for _, role := range core.Roles() {
		if _, ok := set[role]; !ok {
			return nil, fmt.Errorf("mvp model file has no model for %s", role)
		}
	}
	return set, nil
}

// DefaultModels is the model set used when no model file is configured.
func DefaultModels() ModelSet {
	shared := map[string]float64{
		"medicHits":          1,
		"ownMedicHits":       -1,
		"deacTeam":           -1,
		"missileTeam":        -3,
		"cancelOpponentNuke": 3,
		"cancelTeamNuke":     -3,
		"penalties":          -4,
		"assists":            0.5,
	}
	with := func(extra map[string]float64) map[string]float64 {
		w := make(map[string]float64, len(shared)+len(extra))
		for k, v := range shared {
			w[k] = v
		}
		for k, v := range extra {
			w[k] = v
		}
		return w
	}
	elim := func(m Model) Model {
		m.ElimMinBonus = 2
		m.ElimMinutesRemainingThreshold = 3
		m.ElimPerMinuteBonus = 1
		m.ElimDefaultBonus = 2
		return m.normalize()
	}

	return ModelSet{
		core.RoleCommander: elim(Model{
			ID:             1,
			Role:           core.RoleCommander.String(),
			ScoreThreshold: 10000,
			Weights: with(map[string]float64{
				"score":           0.001,
				"nukesDetonated":  1,
				"nukeMedicHits":   0.5,
				"missileOpponent": 1,
				"deac3Hit":        0.5,
			}),
			Accuracy:     10,
			HitDiff:      1,
			IsEliminated: -1,
		}),
		core.RoleHeavy: elim(Model{
			ID:             1,
			Role:           core.RoleHeavy.String(),
			ScoreThreshold: 7000,
			Weights: with(map[string]float64{
				"score":           0.001,
				"missileOpponent": 1,
				"deac3Hit":        0.5,
			}),
			Accuracy:     10,
			HitDiff:      1,
			IsEliminated: -1,
		}),
		core.RoleScout: elim(Model{
			ID:             1,
			Role:           core.RoleScout.String(),
			ScoreThreshold: 6000,
			Weights: with(map[string]float64{
				"score":    0.001,
				"shot3Hit": 0.2,
			}),
			Accuracy:            10,
			AccuracyDuringRapid: 5,
			HitDiff:             1,
			HitDiffDuringRapid:  0.5,
			IsEliminated:        -1,
		}),
		core.RoleAmmo: elim(Model{
			ID:             1,
			Role:           core.RoleAmmo.String(),
			ScoreThreshold: 3000,
			Weights: with(map[string]float64{
				"score":              0.001,
				"resupplyShots":      0.5,
				"ammoBoostedPlayers": 0.5,
				"deac3Hit":           0.5,
			}),
			Accuracy:     10,
			IsEliminated: -1,
		}),
		core.RoleMedic: elim(Model{
			ID:             1,
			Role:           core.RoleMedic.String(),
			ScoreThreshold: 2000,
			Weights: with(map[string]float64{
				"score":              0.0005,
				"resupplyLives":      0.5,
				"lifeBoostedPlayers": 0.5,
			}),
			Accuracy:     5,
			IsEliminated: 2,
		}),
	}
}

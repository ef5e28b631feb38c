// pkg/core/game.go
package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMissionMaxLengthMillis = 900000
	MissionStartLayout            = "20060102150405"
)

// GameMetaData comes from the file header record.
type GameMetaData struct {
	FileVersion    string `json:"fileVersion"`
	ProgramVersion string `json:"programVersion"`
	RegionCode     string `json:"regionCode"`
	SiteCode       string `json:"siteCode"`
	ChomperVersion string `json:"chomperVersion"`
	TdfKey         string `json:"tdfKey"`
}

// Game holds the mission parameters. Lengths are kept in both whole seconds and milliseconds.
type Game struct {
	MissionType            string    `json:"missionType"`
	MissionDesc            string    `json:"missionDesc"`
	MissionStart           int64     `json:"missionStart"`
	MissionStartTime       time.Time `json:"missionStartTime"`
	MissionMaxLength       int64     `json:"missionMaxLength"`
	MissionMaxLengthMillis int64     `json:"missionMaxLengthMillis"`
	MissionLength          int64     `json:"missionLength"`
	MissionLengthMillis    int64     `json:"missionLengthMillis"`
	PenaltyValue           *int      `json:"penaltyValue"`
	// MissionEnded is set once a mission-end event supplied the actual length.
	MissionEnded bool `json:"-"`
}

// MVPScore is the evaluated MVP value of one snapshot.
type MVPScore struct {
	Value   float64            `json:"mvp"`
	Details map[string]float64 `json:"mvpDetails"`
	ModelID int                `json:"mvpModelId"`
}

// StateSnapshot is one entry of the state history.
type StateSnapshot struct {
	ID    uuid.UUID   `json:"id"`
	State EntityState `json:"state"`
	MVP   MVPScore    `json:"mvp"`
}

// GameResult is everything one chomp produces, ready for a storage backend.
type GameResult struct {
	Meta        GameMetaData    `json:"meta"`
	Game        Game            `json:"game"`
	Teams       []*Team         `json:"teams"`
	Entities    []*Entity       `json:"entities"`
	Actions     []GameAction    `json:"actions"`
	History     []StateSnapshot `json:"history"`
	ScoreDeltas []ScoreDelta    `json:"scoreDeltas"`
}

// Players returns the player entities in declaration order.
func (r *GameResult) Players() []*Entity {
	var out []*Entity
	for _, e := range r.Entities {
		if e.IsPlayer() {
			out = append(out, e)
		}
	}
	return out
}

// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// GameExport is the root JSON structure
type GameExport struct {
	ChomperVersion string            `json:"chomperVersion"`
	Meta           core.GameMetaData `json:"meta"`
	Game           core.Game         `json:"game"`
	Teams          []TeamJSON        `json:"teams"`
	Entities       []EntityJSON      `json:"entities"`
	Actions        []core.GameAction `json:"actions"`
	ScoreDeltas    []core.ScoreDelta `json:"scoreDeltas"`
	History        []StateJSON       `json:"history"`
}

// TeamJSON represents a team with its elimination outcome
type TeamJSON struct {
	Index         int    `json:"index"`
	Desc          string `json:"desc"`
	ColorEnum     int    `json:"colorEnum"`
	ColorDesc     string `json:"colorDesc"`
	UIColor       string `json:"uiColor"`
	IsEliminated  bool   `json:"isEliminated"`
	OppEliminated bool   `json:"oppEliminated"`
	ElimBonus     int    `json:"elimBonus"`
}

// EntityJSON represents a player or object
type EntityJSON struct {
	IplID      string `json:"iplId"`
	Type       string `json:"type"`
	Desc       string `json:"desc"`
	Team       int    `json:"team"`
	Level      int    `json:"level"`
	Category   int    `json:"category"`
	Position   string `json:"position,omitempty"`
	Battlesuit string `json:"battlesuit,omitempty"`
	StartTime  int64  `json:"startTime"`
	EndTime    *int64 `json:"endTime"`
	EndCode    string `json:"endCode,omitempty"`
}

// StateJSON flattens a history snapshot. Nullable fields are plain pointers.
type StateJSON struct {
	ID           string             `json:"id"`
	State        core.EntityState   `json:"state"`
	LastDeacTime *int64             `json:"lastDeacTime"`
	MVP          float64            `json:"mvp"`
	MVPDetails   map[string]float64 `json:"mvpDetails"`
	MVPModelID   int                `json:"mvpModelId"`
}

func nullable(v int64, valid bool) *int64 {
	if !valid {
		return nil
	}
	return &v
}

// exportFileName builds <region>-<site>_<start>.json[.gz]
func exportFileName(r *core.GameResult, compress bool) string {
	name := fmt.Sprintf("%s-%s_%s", r.Meta.RegionCode, r.Meta.SiteCode, r.Game.MissionStartTime.UTC().Format("20060102_150405"))
	name = strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(name)
	if compress {
		return name + ".json.gz"
	}
	return name + ".json"
}

// exportJSON writes the game to a (gzipped) JSON file and returns its path
func (b *Backend) exportJSON(r *core.GameResult) (string, error) {
	export := buildExport(r)
	outputPath := filepath.Join(b.cfg.OutputDir, exportFileName(r, b.cfg.CompressOutput))

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	var err error
	if b.cfg.CompressOutput {
		err = writeGzipJSON(outputPath, export)
	} else {
		err = writeJSON(outputPath, export)
	}
	if err != nil {
		return "", err
	}
	return outputPath, nil
}

func buildExport(r *core.GameResult) GameExport {
	export := GameExport{
		ChomperVersion: r.Meta.ChomperVersion,
		Meta:           r.Meta,
		Game:           r.Game,
		Teams:          make([]TeamJSON, 0, len(r.Teams)),
		Entities:       make([]EntityJSON, 0, len(r.Entities)),
		Actions:        r.Actions,
		ScoreDeltas:    r.ScoreDeltas,
		History:        make([]StateJSON, 0, len(r.History)),
	}
	if export.Actions == nil {
		export.Actions = []core.GameAction{}
	}
	if export.ScoreDeltas == nil {
		export.ScoreDeltas = []core.ScoreDelta{}
	}

	for _, t := range r.Teams {
		export.Teams = append(export.Teams, TeamJSON{
			Index:         t.Index,
			Desc:          t.Desc,
			ColorEnum:     t.ColorEnum,
			ColorDesc:     t.ColorDesc,
			UIColor:       t.UIColor,
			IsEliminated:  t.IsEliminated,
			OppEliminated: t.OppEliminated,
			ElimBonus:     t.ElimBonus,
		})
	}

	for _, e := range r.Entities {
		export.Entities = append(export.Entities, EntityJSON{
			IplID:      e.ID,
			Type:       e.Type,
			Desc:       e.Desc,
			Team:       e.Team,
			Level:      e.Level,
			Category:   e.Category,
			Position:   e.Role.String(),
			Battlesuit: e.Battlesuit,
			StartTime:  e.StartTime,
			EndTime:    nullable(e.EndTime.Int64, e.EndTime.Valid),
			EndCode:    e.EndCode,
		})
	}

	for _, snap := range r.History {
		export.History = append(export.History, StateJSON{
			ID:           snap.ID.String(),
			State:        snap.State,
			LastDeacTime: nullable(snap.State.LastDeacTime.Int64, snap.State.LastDeacTime.Valid),
			MVP:          snap.MVP.Value,
			MVPDetails:   snap.MVP.Details,
			MVPModelID:   snap.MVP.ModelID,
		})
	}

	return export
}

func writeJSON(path string, data GameExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data GameExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	encoder := json.NewEncoder(gzWriter)
	if err := encoder.Encode(data); err != nil {
		gzWriter.Close()
		return err
	}
	return gzWriter.Close()
}

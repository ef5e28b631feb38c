// Package gormstorage implements the storage.Backend interface on top of GORM.
// The same transactional writer serves both the postgres and sqlite backends.
package gormstorage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/zmaniacz/lfstats-chomper/internal/database"
	"github.com/zmaniacz/lfstats-chomper/internal/model"
	"github.com/zmaniacz/lfstats-chomper/internal/model/convert"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultActionChunkSize = 1000
	DefaultStateChunkSize  = 500
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB              *gorm.DB
	Logger          *slog.Logger
	ActionChunkSize int
	StateChunkSize  int
}

// Backend implements storage.Backend with one transaction per saved game.
type Backend struct {
	deps Dependencies
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.ActionChunkSize <= 0 {
		deps.ActionChunkSize = DefaultActionChunkSize
	}
	if deps.StateChunkSize <= 0 {
		deps.StateChunkSize = DefaultStateChunkSize
	}
	return &Backend{deps: deps}
}

// Init runs schema migration. The DB must have been injected via Dependencies.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return fmt.Errorf("gorm backend has no database")
	}
	b.deps.Logger.Info("Migrating schema")
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}
	b.deps.Logger.Info("Database setup complete")
	return nil
}

// Close is a no-op; the owner of the DB closes it.
func (b *Backend) Close() error {
	return nil
}

// DB exposes the underlying connection for wrappers and tests.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// SaveGame writes the whole game in a single transaction.
func (b *Backend) SaveGame(ctx context.Context, result *core.GameResult) error {
	start := time.Now()
	var gameID uint
	err := b.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w := &gameWriter{tx: tx, result: result, log: b.deps.Logger, deps: b.deps}
		if err := w.write(); err != nil {
			return err
		}
		gameID = w.gameID
		return nil
	})
	if err != nil {
		return err
	}

	b.deps.Logger.Info("Stored game",
		"gameId", gameID,
		"tdf", result.Meta.TdfKey,
		"actions", len(result.Actions),
		"states", len(result.History),
		"duration", time.Since(start),
	)
	return nil
}

// gameWriter carries the ids resolved while writing one game.
type gameWriter struct {
	tx     *gorm.DB
	result *core.GameResult
	log    *slog.Logger
	deps   Dependencies

	centerID  uint
	gameID    uint
	playerIDs map[string]uint // IPL id -> player.id
	teamIDs   map[int]uint    // team index -> game_team.id
	entityIDs map[string]uint // IPL id -> game_entity.id
}

func (w *gameWriter) write() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"center", w.writeCenter},
		{"existing game", w.checkExisting},
		{"players", w.writePlayers},
		{"aliases", w.writeAliases},
		{"game", w.writeGame},
		{"teams", w.writeTeams},
		{"entities", w.writeEntities},
		{"actions", w.writeActions},
		{"states", w.writeStates},
	}
	for _, step := range steps {
		w.log.Debug("Save step", "step", step.name)
		if err := step.fn(); err != nil {
			if errors.Is(err, storage.ErrGameExists) {
				return err
			}
			return fmt.Errorf("failed to write %s: %w", step.name, err)
		}
	}
	return nil
}

// writeCenter looks the center up by region and site, creating a placeholder when unknown.
func (w *gameWriter) writeCenter() error {
	meta := w.result.Meta
	center := model.Center{}
	err := w.tx.
		Where("region_code = ? AND site_code = ?", meta.RegionCode, meta.SiteCode).
		Attrs(model.Center{
			Name:       fmt.Sprintf("Unknown %s-%s", meta.RegionCode, meta.SiteCode),
			ShortName:  "unk",
			RegionCode: meta.RegionCode,
			SiteCode:   meta.SiteCode,
		}).
		FirstOrCreate(&center).Error
	if err != nil {
		return err
	}
	w.centerID = center.ID
	return nil
}

// checkExisting aborts on a game stored by the same chomper version and
// deletes one stored by any other version so it can be rebuilt.
func (w *gameWriter) checkExisting() error {
	var existing model.Game
	res := w.tx.
		Where("mission_start = ? AND center_id = ?", w.result.Game.MissionStartTime.UTC(), w.centerID).
		Limit(1).
		Find(&existing)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	if existing.ChomperVersion == w.result.Meta.ChomperVersion {
		w.log.Info("Game exists", "gameId", existing.ID, "chomperVersion", existing.ChomperVersion)
		return storage.ErrGameExists
	}

	w.log.Info("Rebuilding game stored by older chomper",
		"gameId", existing.ID,
		"storedVersion", existing.ChomperVersion,
		"chomperVersion", w.result.Meta.ChomperVersion,
	)
	return deleteGame(w.tx, existing.ID)
}

// deleteGame removes a game and every row hanging off it, children first.
func deleteGame(tx *gorm.DB, gameID uint) error {
	entityIDs := tx.Model(&model.GameEntity{}).Select("id").Where("game_id = ?", gameID)
	stateIDs := tx.Model(&model.GameEntityState{}).Select("id").Where("entity_id IN (?)", entityIDs)

	deletes := []struct {
		model any
		query string
		arg   any
	}{
		{&model.MVP{}, "game_entity_state_id IN (?)", stateIDs},
		{&model.GameEntityState{}, "entity_id IN (?)", entityIDs},
		{&model.GameAction{}, "game_id = ?", gameID},
		{&model.GameEntity{}, "game_id = ?", gameID},
		{&model.GameTeam{}, "game_id = ?", gameID},
		{&model.GameTag{}, "game_id = ?", gameID},
		{&model.Game{}, "id = ?", gameID},
	}
	for _, d := range deletes {
		if err := tx.Where(d.query, d.arg).Delete(d.model).Error; err != nil {
			return fmt.Errorf("failed to delete %T: %w", d.model, err)
		}
	}
	return nil
}

// sortedPlayers returns the player entities ordered by IPL id.
func (w *gameWriter) sortedPlayers() []*core.Entity {
	players := w.result.Players()
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players
}

// writePlayers upserts every player on its IPL id, refreshing the current alias.
func (w *gameWriter) writePlayers() error {
	w.playerIDs = make(map[string]uint)
	players := w.sortedPlayers()
	if len(players) == 0 {
		return nil
	}

	rows := make([]model.Player, 0, len(players))
	iplIDs := make([]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, convert.CoreToPlayer(p))
		iplIDs = append(iplIDs, p.ID)
	}

	err := w.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ipl_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"current_alias"}),
	}).Create(&rows).Error
	if err != nil {
		return err
	}

	// re-read rather than trusting RETURNING order across conflicting rows
	var stored []model.Player
	if err := w.tx.Where("ipl_id IN ?", iplIDs).Find(&stored).Error; err != nil {
		return err
	}
	for _, p := range stored {
		w.playerIDs[p.IplID] = p.ID
	}
	return nil
}

// writeAliases records each player's codename as last used at this mission's start.
func (w *gameWriter) writeAliases() error {
	players := w.sortedPlayers()
	if len(players) == 0 {
		return nil
	}

	rows := make([]model.PlayerAlias, 0, len(players))
	for _, p := range players {
		rows = append(rows, convert.CoreToPlayerAlias(p, w.playerIDs[p.ID], w.result.Game.MissionStartTime))
	}
	return w.tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "alias"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_used"}),
	}).Create(&rows).Error
}

func (w *gameWriter) writeGame() error {
	game := convert.CoreToGame(w.result.Meta, w.result.Game, w.centerID)
	if err := w.tx.Create(&game).Error; err != nil {
		return err
	}
	w.gameID = game.ID

	return w.tx.Create(&model.GameTag{TagID: model.SocialTagID, GameID: game.ID}).Error
}

func (w *gameWriter) writeTeams() error {
	w.teamIDs = make(map[int]uint)
	if len(w.result.Teams) == 0 {
		return nil
	}

	rows := make([]model.GameTeam, 0, len(w.result.Teams))
	for _, t := range w.result.Teams {
		rows = append(rows, convert.CoreToGameTeam(t, w.gameID))
	}
	if err := w.tx.Create(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		w.teamIDs[r.TeamIndex] = r.ID
	}
	return nil
}

func (w *gameWriter) writeEntities() error {
	w.entityIDs = make(map[string]uint)
	if len(w.result.Entities) == 0 {
		return nil
	}

	rows := make([]model.GameEntity, 0, len(w.result.Entities))
	for _, e := range w.result.Entities {
		var playerID uint
		if e.IsPlayer() {
			playerID = w.playerIDs[e.ID]
		}
		rows = append(rows, convert.CoreToGameEntity(e, w.gameID, w.teamIDs[e.Team], playerID))
	}
	if err := w.tx.Create(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		w.entityIDs[r.IplID] = r.ID
	}
	return nil
}

func (w *gameWriter) writeActions() error {
	if len(w.result.Actions) == 0 {
		return nil
	}
	rows := make([]model.GameAction, 0, len(w.result.Actions))
	for _, a := range w.result.Actions {
		rows = append(rows, convert.CoreToGameAction(a, w.gameID, w.entityIDs))
	}
	return w.tx.CreateInBatches(&rows, w.deps.ActionChunkSize).Error
}

// writeStates stores the history in chunks, each chunk followed by its mvp rows.
func (w *gameWriter) writeStates() error {
	history := w.result.History
	size := w.deps.StateChunkSize
	for i := 0; i < len(history); i += size {
		chunk := history[i:min(i+size, len(history))]

		states := make([]model.GameEntityState, 0, len(chunk))
		mvps := make([]model.MVP, 0, len(chunk))
		for _, snap := range chunk {
			states = append(states, convert.CoreToGameEntityState(snap, w.entityIDs[snap.State.EntityID]))
			mvps = append(mvps, convert.CoreToMVP(snap))
		}
		if err := w.tx.Create(&states).Error; err != nil {
			return err
		}
		if err := w.tx.Create(&mvps).Error; err != nil {
			return err
		}
	}
	return nil
}

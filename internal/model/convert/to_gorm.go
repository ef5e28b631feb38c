// Package convert provides functions to convert core game results into GORM models
package convert

import (
	"encoding/json"
	"time"

	"github.com/zmaniacz/lfstats-chomper/internal/model"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
	"gorm.io/datatypes"
)

// detailsToJSON converts MVP details to datatypes.JSON for DB storage.
func detailsToJSON(details map[string]float64) datatypes.JSON {
	if len(details) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(details)
	return datatypes.JSON(data)
}

// optionalID returns nil for the zero id so unresolved references are stored as NULL.
func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

// CoreToGame converts the parsed header of a game into a GORM model.Game.
func CoreToGame(meta core.GameMetaData, g core.Game, centerID uint) model.Game {
	return model.Game{
		MissionType:      g.MissionType,
		MissionDesc:      g.MissionDesc,
		MissionStart:     g.MissionStartTime.UTC(),
		MissionMaxLength: g.MissionMaxLengthMillis,
		Penalty:          g.PenaltyValue,
		MissionLength:    g.MissionLengthMillis,
		CenterID:         centerID,
		FileVersion:      meta.FileVersion,
		ProgramVersion:   meta.ProgramVersion,
		ChomperVersion:   meta.ChomperVersion,
		TdfID:            meta.TdfKey,
	}
}

func CoreToGameTeam(t *core.Team, gameID uint) model.GameTeam {
	return model.GameTeam{
		GameID:        gameID,
		TeamIndex:     t.Index,
		TeamDesc:      t.Desc,
		ColorEnum:     t.ColorEnum,
		ColorDesc:     t.ColorDesc,
		UIColor:       t.UIColor,
		IsEliminated:  t.IsEliminated,
		OppEliminated: t.OppEliminated,
		ElimBonus:     t.ElimBonus,
	}
}

// CoreToGameEntity converts an entity. playerID is zero for non-player entities.
// The role display name is stored as the entity position.
func CoreToGameEntity(e *core.Entity, gameID, gameTeamID, playerID uint) model.GameEntity {
	return model.GameEntity{
		GameID:      gameID,
		IplID:       e.ID,
		EntityType:  e.Type,
		EntityDesc:  e.Desc,
		EntityLevel: e.Level,
		Category:    e.Category,
		Battlesuit:  e.Battlesuit,
		GameTeamID:  gameTeamID,
		EndCode:     e.EndCode,
		EndTime:     e.EndTime,
		Position:    e.Role.String(),
		StartTime:   e.StartTime,
		PlayerID:    optionalID(playerID),
	}
}

// CoreToGameAction converts an action, resolving actor and target through entityIDs
// (IPL id -> game_entity id). Ids missing from the map are stored as NULL.
func CoreToGameAction(a core.GameAction, gameID uint, entityIDs map[string]uint) model.GameAction {
	return model.GameAction{
		GameID:             gameID,
		ActionTime:         a.Time,
		ActionType:         a.Type,
		ActionText:         a.Action,
		ActorGameEntityID:  optionalID(entityIDs[a.Player]),
		TargetGameEntityID: optionalID(entityIDs[a.Target]),
	}
}

// CoreToGameEntityState converts one history snapshot. The snapshot id becomes the row id.
func CoreToGameEntityState(snap core.StateSnapshot, entityID uint) model.GameEntityState {
	s := snap.State
	return model.GameEntityState{
		ID:           snap.ID,
		EntityID:     entityID,
		StateTime:    s.StateTime,
		IsFinal:      s.IsFinal,
		Score:        s.Score,
		IsActive:     s.IsActive,
		IsNuking:     s.IsNuking,
		IsEliminated: s.IsEliminated,
		IsRapid:      s.IsRapid,
		Lives:        s.Lives,
		Shots:        s.Shots,
		MissilesLeft: s.MissilesLeft,
		CurrentHP:    s.CurrentHP,
		LastDeacTime: s.LastDeacTime,
		LastDeacType: string(s.LastDeacType),

		ShotsFired:   s.ShotsFired,
		ShotsHit:     s.ShotsHit,
		ShotTeam:     s.ShotTeam,
		DeacTeam:     s.DeacTeam,
		Shot3Hit:     s.Shot3Hit,
		Deac3Hit:     s.Deac3Hit,
		ShotOpponent: s.ShotOpponent,
		DeacOpponent: s.DeacOpponent,
		Assists:      s.Assists,
		ShotBase:     s.ShotBase,
		MissBase:     s.MissBase,
		DestroyBase:  s.DestroyBase,
		AwardBase:    s.AwardBase,
		MedicHits:    s.MedicHits,
		OwnMedicHits: s.OwnMedicHits,
		SelfHit:      s.SelfHit,
		SelfDeac:     s.SelfDeac,

		MissileBase:     s.MissileBase,
		MissileTeam:     s.MissileTeam,
		MissileOpponent: s.MissileOpponent,
		SelfMissile:     s.SelfMissile,
		SelfTeamMissile: s.SelfTeamMissile,

		SPSpent:  s.SPSpent,
		SPEarned: s.SPEarned,

		ResupplyShots:      s.ResupplyShots,
		SelfResupplyShots:  s.SelfResupplyShots,
		ResupplyLives:      s.ResupplyLives,
		SelfResupplyLives:  s.SelfResupplyLives,
		AmmoBoosts:         s.AmmoBoosts,
		LifeBoosts:         s.LifeBoosts,
		AmmoBoostedPlayers: s.AmmoBoostedPlayers,
		LifeBoostedPlayers: s.LifeBoostedPlayers,
		AmmoBoostReceived:  s.AmmoBoostReceived,
		LifeBoostReceived:  s.LifeBoostReceived,

		RapidFires:              s.RapidFires,
		ShotsFiredDuringRapid:   s.ShotsFiredDuringRapid,
		ShotsHitDuringRapid:     s.ShotsHitDuringRapid,
		ShotTeamDuringRapid:     s.ShotTeamDuringRapid,
		DeacTeamDuringRapid:     s.DeacTeamDuringRapid,
		Shot3HitDuringRapid:     s.Shot3HitDuringRapid,
		Deac3HitDuringRapid:     s.Deac3HitDuringRapid,
		ShotOpponentDuringRapid: s.ShotOpponentDuringRapid,
		DeacOpponentDuringRapid: s.DeacOpponentDuringRapid,
		AssistsDuringRapid:      s.AssistsDuringRapid,
		MedicHitsDuringRapid:    s.MedicHitsDuringRapid,
		SelfHitDuringRapid:      s.SelfHitDuringRapid,
		SelfDeacDuringRapid:     s.SelfDeacDuringRapid,
		SelfMissileDuringRapid:  s.SelfMissileDuringRapid,

		NukesActivated:            s.NukesActivated,
		NukesDetonated:            s.NukesDetonated,
		NukeMedicHits:             s.NukeMedicHits,
		OwnNukeCanceledByNuke:     s.OwnNukeCanceledByNuke,
		OwnNukeCanceledByGameEnd:  s.OwnNukeCanceledByGameEnd,
		OwnNukeCanceledByTeam:     s.OwnNukeCanceledByTeam,
		OwnNukeCanceledByResupply: s.OwnNukeCanceledByResupply,
		OwnNukeCanceledByOpponent: s.OwnNukeCanceledByOpponent,
		OwnNukeCanceledByPenalty:  s.OwnNukeCanceledByPenalty,
		CancelOpponentNuke:        s.CancelOpponentNuke,
		CancelTeamNuke:            s.CancelTeamNuke,
		CancelTeamNukeByResupply:  s.CancelTeamNukeByResupply,

		Uptime:           s.Uptime,
		ResupplyDowntime: s.ResupplyDowntime,
		NukeDowntime:     s.NukeDowntime,
		TeamDeacDowntime: s.TeamDeacDowntime,
		OppDeacDowntime:  s.OppDeacDowntime,
		PenaltyDowntime:  s.PenaltyDowntime,

		Penalties: s.Penalties,
	}
}

// CoreToMVP converts the MVP score carried by a snapshot into its 1:1 mvp row.
func CoreToMVP(snap core.StateSnapshot) model.MVP {
	return model.MVP{
		MVP:               snap.MVP.Value,
		MVPDetails:        detailsToJSON(snap.MVP.Details),
		MVPModelID:        snap.MVP.ModelID,
		GameEntityStateID: snap.ID,
	}
}

// CoreToPlayer converts a player entity into its identity row.
func CoreToPlayer(e *core.Entity) model.Player {
	return model.Player{
		IplID:        e.ID,
		CurrentAlias: e.Desc,
	}
}

// CoreToPlayerAlias records the entity's codename as used at missionStart.
func CoreToPlayerAlias(e *core.Entity, playerID uint, missionStart time.Time) model.PlayerAlias {
	return model.PlayerAlias{
		Alias:    e.Desc,
		PlayerID: playerID,
		LastUsed: missionStart.UTC(),
	}
}

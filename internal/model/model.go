package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema.
// Order matters for AutoMigrate: parents come before the tables that reference them.
var DatabaseModels = []interface{}{
	&Center{},
	&Player{},
	&PlayerAlias{},
	&Tag{},
	&Game{},
	&GameTag{},
	&GameTeam{},
	&GameEntity{},
	&GameAction{},
	&GameEntityState{},
	&MVP{},
}

// SocialTagID is the tag applied to every newly stored game.
const SocialTagID = 1

////////////////////////
// REFERENCE MODELS
////////////////////////

// Center is a laser tag arena, identified by its region and site codes
type Center struct {
	ID         uint   `json:"id" gorm:"primarykey"`
	Name       string `json:"name" gorm:"size:255"`
	ShortName  string `json:"shortName" gorm:"size:32"`
	RegionCode string `json:"regionCode" gorm:"size:16;uniqueIndex:idx_center_region_site"`
	SiteCode   string `json:"siteCode" gorm:"size:16;uniqueIndex:idx_center_region_site"`
}

func (*Center) TableName() string {
	return "center"
}

// Player is a person known by their external (IPL) id
type Player struct {
	ID           uint   `json:"id" gorm:"primarykey"`
	IplID        string `json:"iplId" gorm:"size:64;uniqueIndex"`
	CurrentAlias string `json:"currentAlias" gorm:"size:64"`
}

func (*Player) TableName() string {
	return "player"
}

// PlayerAlias records every codename a player has used and when it was last seen
type PlayerAlias struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	Alias    string    `json:"alias" gorm:"size:64;uniqueIndex:idx_alias_player"`
	PlayerID uint      `json:"playerId" gorm:"uniqueIndex:idx_alias_player"`
	LastUsed time.Time `json:"lastUsed"`
}

func (*PlayerAlias) TableName() string {
	return "player_alias"
}

type Tag struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex"`
}

func (*Tag) TableName() string {
	return "tag"
}

type GameTag struct {
	TagID  uint `json:"tagId" gorm:"primaryKey;autoIncrement:false"`
	GameID uint `json:"gameId" gorm:"primaryKey;autoIncrement:false;index"`
}

func (*GameTag) TableName() string {
	return "game_tag"
}

////////////////////////
// GAME MODELS
////////////////////////

// Game is one stored mission. A center cannot hold two games starting at the same instant.
type Game struct {
	ID               uint      `json:"id" gorm:"primarykey"`
	MissionType      string    `json:"missionType" gorm:"size:64"`
	MissionDesc      string    `json:"missionDesc" gorm:"size:255"`
	MissionStart     time.Time `json:"missionStart" gorm:"uniqueIndex:idx_game_start_center"`
	MissionMaxLength int64     `json:"missionMaxLength"`
	Penalty          *int      `json:"penalty"`
	MissionLength    int64     `json:"missionLength"`
	CenterID         uint      `json:"centerId" gorm:"uniqueIndex:idx_game_start_center"`
	FileVersion      string    `json:"fileVersion" gorm:"size:16"`
	ProgramVersion   string    `json:"programVersion" gorm:"size:16"`
	ChomperVersion   string    `json:"chomperVersion" gorm:"size:32"`
	TdfID            string    `json:"tdfId" gorm:"size:255"`
}

func (*Game) TableName() string {
	return "game"
}

type GameTeam struct {
	ID            uint   `json:"id" gorm:"primarykey"`
	GameID        uint   `json:"gameId" gorm:"index"`
	TeamIndex     int    `json:"teamIndex"`
	TeamDesc      string `json:"teamDesc" gorm:"size:64"`
	ColorEnum     int    `json:"colorEnum"`
	ColorDesc     string `json:"colorDesc" gorm:"size:64"`
	UIColor       string `json:"uiColor" gorm:"column:ui_color;size:32"`
	IsEliminated  bool   `json:"isEliminated"`
	OppEliminated bool   `json:"oppEliminated"`
	ElimBonus     int    `json:"elimBonus"`
}

func (*GameTeam) TableName() string {
	return "game_team"
}

// GameEntity is a player or object as declared in one game.
// PlayerID is only set for player entities.
type GameEntity struct {
	ID          uint          `json:"id" gorm:"primarykey"`
	GameID      uint          `json:"gameId" gorm:"index"`
	IplID       string        `json:"iplId" gorm:"size:64"`
	EntityType  string        `json:"entityType" gorm:"size:32"`
	EntityDesc  string        `json:"entityDesc" gorm:"size:64"`
	EntityLevel int           `json:"entityLevel"`
	Category    int           `json:"category"`
	Battlesuit  string        `json:"battlesuit" gorm:"size:64"`
	GameTeamID  uint          `json:"gameTeamId" gorm:"index"`
	EndCode     string        `json:"endCode" gorm:"size:8"`
	EndTime     sql.NullInt64 `json:"endTime"`
	Position    string        `json:"position" gorm:"size:32"`
	StartTime   int64         `json:"startTime"`
	PlayerID    *uint         `json:"playerId" gorm:"index"`
}

func (*GameEntity) TableName() string {
	return "game_entity"
}

type GameAction struct {
	ID                 uint   `json:"id" gorm:"primarykey"`
	GameID             uint   `json:"gameId" gorm:"index"`
	ActionTime         int64  `json:"actionTime"`
	ActionType         string `json:"actionType" gorm:"size:16"`
	ActionText         string `json:"actionText" gorm:"size:255"`
	ActorGameEntityID  *uint  `json:"actorGameEntityId"`
	TargetGameEntityID *uint  `json:"targetGameEntityId"`
}

func (*GameAction) TableName() string {
	return "game_action"
}

// GameEntityState is one row of a player's state history
type GameEntityState struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	EntityID     uint          `json:"entityId" gorm:"index"`
	StateTime    int64         `json:"stateTime"`
	IsFinal      bool          `json:"isFinal"`
	Score        int           `json:"score"`
	IsActive     bool          `json:"isActive"`
	IsNuking     bool          `json:"isNuking"`
	IsEliminated bool          `json:"isEliminated"`
	IsRapid      bool          `json:"isRapid"`
	Lives        int           `json:"lives"`
	Shots        int           `json:"shots"`
	MissilesLeft int           `json:"missilesLeft"`
	CurrentHP    int           `json:"currentHp" gorm:"column:current_hp"`
	LastDeacTime sql.NullInt64 `json:"lastDeacTime"`
	LastDeacType string        `json:"lastDeacType" gorm:"size:16"`

	ShotsFired   int `json:"shotsFired"`
	ShotsHit     int `json:"shotsHit"`
	ShotTeam     int `json:"shotTeam"`
	DeacTeam     int `json:"deacTeam"`
	Shot3Hit     int `json:"shot3Hit" gorm:"column:shot_3hit"`
	Deac3Hit     int `json:"deac3Hit" gorm:"column:deac_3hit"`
	ShotOpponent int `json:"shotOpponent"`
	DeacOpponent int `json:"deacOpponent"`
	Assists      int `json:"assists"`
	ShotBase     int `json:"shotBase"`
	MissBase     int `json:"missBase"`
	DestroyBase  int `json:"destroyBase"`
	AwardBase    int `json:"awardBase"`
	MedicHits    int `json:"medicHits"`
	OwnMedicHits int `json:"ownMedicHits"`
	SelfHit      int `json:"selfHit"`
	SelfDeac     int `json:"selfDeac"`

	MissileBase     int `json:"missileBase"`
	MissileTeam     int `json:"missileTeam"`
	MissileOpponent int `json:"missileOpponent"`
	SelfMissile     int `json:"selfMissile"`
	SelfTeamMissile int `json:"selfTeamMissile"`

	SPSpent  int `json:"spSpent" gorm:"column:sp_spent"`
	SPEarned int `json:"spEarned" gorm:"column:sp_earned"`

	ResupplyShots      int `json:"resupplyShots"`
	SelfResupplyShots  int `json:"selfResupplyShots"`
	ResupplyLives      int `json:"resupplyLives"`
	SelfResupplyLives  int `json:"selfResupplyLives"`
	AmmoBoosts         int `json:"ammoBoosts"`
	LifeBoosts         int `json:"lifeBoosts"`
	AmmoBoostedPlayers int `json:"ammoBoostedPlayers"`
	LifeBoostedPlayers int `json:"lifeBoostedPlayers"`
	AmmoBoostReceived  int `json:"ammoBoostReceived"`
	LifeBoostReceived  int `json:"lifeBoostReceived"`

	RapidFires              int `json:"rapidFires"`
	ShotsFiredDuringRapid   int `json:"shotsFiredDuringRapid"`
	ShotsHitDuringRapid     int `json:"shotsHitDuringRapid"`
	ShotTeamDuringRapid     int `json:"shotTeamDuringRapid"`
	DeacTeamDuringRapid     int `json:"deacTeamDuringRapid"`
	Shot3HitDuringRapid     int `json:"shot3HitDuringRapid" gorm:"column:shot_3hit_during_rapid"`
	Deac3HitDuringRapid     int `json:"deac3HitDuringRapid" gorm:"column:deac_3hit_during_rapid"`
	ShotOpponentDuringRapid int `json:"shotOpponentDuringRapid"`
	DeacOpponentDuringRapid int `json:"deacOpponentDuringRapid"`
	AssistsDuringRapid      int `json:"assistsDuringRapid"`
	MedicHitsDuringRapid    int `json:"medicHitsDuringRapid"`
	SelfHitDuringRapid      int `json:"selfHitDuringRapid"`
	SelfDeacDuringRapid     int `json:"selfDeacDuringRapid"`
	SelfMissileDuringRapid  int `json:"selfMissileDuringRapid"`

	NukesActivated            int `json:"nukesActivated"`
	NukesDetonated            int `json:"nukesDetonated"`
	NukeMedicHits             int `json:"nukeMedicHits"`
	OwnNukeCanceledByNuke     int `json:"ownNukeCanceledByNuke"`
	OwnNukeCanceledByGameEnd  int `json:"ownNukeCanceledByGameEnd"`
	OwnNukeCanceledByTeam     int `json:"ownNukeCanceledByTeam"`
	OwnNukeCanceledByResupply int `json:"ownNukeCanceledByResupply"`
	OwnNukeCanceledByOpponent int `json:"ownNukeCanceledByOpponent"`
	OwnNukeCanceledByPenalty  int `json:"ownNukeCanceledByPenalty"`
	CancelOpponentNuke        int `json:"cancelOpponentNuke"`
	CancelTeamNuke            int `json:"cancelTeamNuke"`
	CancelTeamNukeByResupply  int `json:"cancelTeamNukeByResupply"`

	Uptime           int64 `json:"uptime"`
	ResupplyDowntime int64 `json:"resupplyDowntime"`
	NukeDowntime     int64 `json:"nukeDowntime"`
	TeamDeacDowntime int64 `json:"teamDeacDowntime"`
	OppDeacDowntime  int64 `json:"oppDeacDowntime"`
	PenaltyDowntime  int64 `json:"penaltyDowntime"`

	Penalties int `json:"penalties"`
}

func (*GameEntityState) TableName() string {
	return "game_entity_state"
}

// MVP holds the evaluated MVP score of exactly one state row
type MVP struct {
	ID                uint           `json:"id" gorm:"primarykey"`
	MVP               float64        `json:"mvp" gorm:"column:mvp"`
	MVPDetails        datatypes.JSON `json:"mvpDetails" gorm:"column:mvp_details"`
	MVPModelID        int            `json:"mvpModelId" gorm:"column:mvp_model_id"`
	GameEntityStateID uuid.UUID      `json:"gameEntityStateId" gorm:"type:uuid;uniqueIndex"`
}

func (*MVP) TableName() string {
	return "mvp"
}

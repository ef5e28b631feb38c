// pkg/core/entity.go
package core

import "database/sql"

const (
	EntityTypePlayer = "player"

	EndCodeSurvived   = "02"
	EndCodeEliminated = "04"

	// TeamElimBonus is awarded to a team whose opponents were all eliminated.
	TeamElimBonus = 10000
)

// Entity is a player or a non-player object (base, generator) declared in one game.
type Entity struct {
	ID         string
	Type       string
	Desc       string
	Team       int
	Level      int
	Category   int
	Role       Role
	Battlesuit string
	StartTime  int64
	EndTime    sql.NullInt64
	EndCode    string

	RoleDefaults

	InitialState EntityState
	FinalState   *EntityState
}

// NewEntity builds an entity with the loadout of its category's role.
func NewEntity(id, typ, desc string, team, level, category int, startTime int64) *Entity {
	role := RoleFromCategory(category)
	defaults := DefaultsFor(role)
	return &Entity{
		ID:           id,
		Type:         typ,
		Desc:         desc,
		Team:         team,
		Level:        level,
		Category:     category,
		Role:         role,
		StartTime:    startTime,
		RoleDefaults: defaults,
		InitialState: NewInitialState(id, startTime, defaults),
	}
}

func (e *Entity) IsPlayer() bool {
	return e.Type == EntityTypePlayer
}

// Survived reports whether the entity ended the game with the survival code.
func (e *Entity) Survived() bool {
	return e.EndCode == EndCodeSurvived
}

// Team is one side of a game.
type Team struct {
	Index         int
	Desc          string
	ColorEnum     int
	ColorDesc     string
	UIColor       string
	IsEliminated  bool
	OppEliminated bool
	ElimBonus     int
}

// IsNeutral reports whether the team is the colourless holder of bases and other objects.
func (t *Team) IsNeutral() bool {
	return t.ColorEnum == 0
}

var uiColors = map[int]string{
	0:  "gray",
	1:  "red",
	2:  "green",
	3:  "yellow",
	4:  "blue",
	5:  "teal",
	6:  "purple",
	7:  "gray",
	8:  "orange",
	9:  "pink",
	10: "black",
	11: "orange",
	12: "cyan",
	13: "green",
	14: "cyan",
	15: "orange",
}

// UIColor maps a TDF colour enum to the palette used by the reporting site.
// Unknown enums fall back to gray.
func UIColor(colorEnum int) string {
	if c, ok := uiColors[colorEnum]; ok {
		return c
	}
	return "gray"
}

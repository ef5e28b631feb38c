// pkg/core/roles.go
package core

// Role is one of the five player loadouts. Non-player entities carry RoleNone.
type Role int

const (
	RoleNone Role = iota
	RoleCommander
	RoleHeavy
	RoleScout
	RoleAmmo
	RoleMedic
)

var roleNames = map[Role]string{
	RoleCommander: "Commander",
	RoleHeavy:     "Heavy Weapons",
	RoleScout:     "Scout",
	RoleAmmo:      "Ammo Carrier",
	RoleMedic:     "Medic",
}

// String returns the display name used in the TDF reports and the database.
func (r Role) String() string {
	return roleNames[r]
}

// IsThreeHit reports whether the role needs three damaging hits before a takedown.
func (r Role) IsThreeHit() bool {
	return r == RoleCommander || r == RoleHeavy
}

// RoleFromCategory maps the numeric category of an entity-start record to a role.
func RoleFromCategory(category int) Role {
	if category >= int(RoleCommander) && category <= int(RoleMedic) {
		return Role(category)
	}
	return RoleNone
}

// ParseRole resolves a role from its display name.
func ParseRole(name string) (Role, bool) {
	for r, n := range roleNames {
		if n == name {
			return r, true
		}
	}
	return RoleNone, false
}

// Roles lists the player roles in category order.
func Roles() []Role {
	return []Role{RoleCommander, RoleHeavy, RoleScout, RoleAmmo, RoleMedic}
}

// RoleDefaults are the loadout capacities of a role.
type RoleDefaults struct {
	InitialShots    int `json:"initialShots"`
	MaxShots        int `json:"maxShots"`
	ResupplyShots   int `json:"resupplyShots"`
	InitialLives    int `json:"initialLives"`
	MaxLives        int `json:"maxLives"`
	ResupplyLives   int `json:"resupplyLives"`
	InitialMissiles int `json:"initialMissiles"`
	ShotPower       int `json:"shotPower"`
	MaxHP           int `json:"maxHP"`
}

var roleDefaults = map[Role]RoleDefaults{
	RoleCommander: {
		InitialShots:    30,
		MaxShots:        60,
		ResupplyShots:   5,
		InitialLives:    15,
		MaxLives:        30,
		ResupplyLives:   4,
		InitialMissiles: 5,
		ShotPower:       2,
		MaxHP:           3,
	},
	RoleHeavy: {
		InitialShots:    20,
		MaxShots:        40,
		ResupplyShots:   5,
		InitialLives:    10,
		MaxLives:        20,
		ResupplyLives:   3,
		InitialMissiles: 5,
		ShotPower:       3,
		MaxHP:           3,
	},
	RoleScout: {
		InitialShots:  30,
		MaxShots:      60,
		ResupplyShots: 10,
		InitialLives:  15,
		MaxLives:      30,
		ResupplyLives: 5,
		ShotPower:     1,
		MaxHP:         1,
	},
	RoleAmmo: {
		InitialShots:  15,
		MaxShots:      15,
		InitialLives:  10,
		MaxLives:      20,
		ResupplyLives: 3,
		ShotPower:     1,
		MaxHP:         1,
	},
	RoleMedic: {
		InitialShots:  15,
		MaxShots:      30,
		ResupplyShots: 5,
		InitialLives:  20,
		MaxLives:      20,
		ShotPower:     1,
		MaxHP:         1,
	},
}

// DefaultsFor returns the loadout of a role. RoleNone has an all-zero loadout.
func DefaultsFor(r Role) RoleDefaults {
	return roleDefaults[r]
}

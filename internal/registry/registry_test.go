package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New()
	r.AddTeam(&core.Team{Index: 0, Desc: "Neutral", ColorEnum: 0})
	r.AddTeam(&core.Team{Index: 1, Desc: "Red Team", ColorEnum: 1})
	r.AddTeam(&core.Team{Index: 2, Desc: "Green Team", ColorEnum: 2})
	return r
}

func addPlayer(t *testing.T, r *Registry, id string, team, category int) *core.Entity {
	t.Helper()
	e := core.NewEntity(id, core.EntityTypePlayer, id, team, 0, category, 0)
	require.NoError(t, r.AddEntity(e))
	return e
}

func TestAddEntity(t *testing.T) {
	r := newTestRegistry(t)
	addPlayer(t, r, "#a", 1, 1)

	err := r.AddEntity(core.NewEntity("#a", core.EntityTypePlayer, "dup", 1, 0, 1, 0))
	assert.ErrorIs(t, err, ErrDuplicateEntity)

	err = r.AddEntity(core.NewEntity("#b", core.EntityTypePlayer, "b", 9, 0, 1, 0))
	assert.ErrorIs(t, err, ErrUnknownTeam)

	_, err = r.Entity("#missing")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestEndEntity(t *testing.T) {
	r := newTestRegistry(t)
	addPlayer(t, r, "#a", 1, 3)

	require.NoError(t, r.EndEntity("#a", 900000, core.EndCodeSurvived))
	e, err := r.Entity("#a")
	require.NoError(t, err)
	assert.True(t, e.EndTime.Valid)
	assert.Equal(t, int64(900000), e.EndTime.Int64)
	assert.True(t, e.Survived())

	assert.ErrorIs(t, r.EndEntity("#nope", 1, "02"), ErrUnknownEntity)
}

func TestDeclarationOrder(t *testing.T) {
	r := newTestRegistry(t)
	addPlayer(t, r, "#z", 1, 1)
	base := core.NewEntity("@base", "standard-target", "Base", 0, 0, 0, 0)
	require.NoError(t, r.AddEntity(base))
	addPlayer(t, r, "#b", 2, 2)

	var ids []string
	for _, e := range r.Entities() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"#z", "@base", "#b"}, ids)

	ids = nil
	for _, e := range r.Players() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"#z", "#b"}, ids)
	assert.Equal(t, []string{"#b", "#z"}, r.SortedPlayerIDs())
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name        string
		greenCodes  []string
		wantRedOpp  bool
		wantRedBon  int
		wantGreenEl bool
	}{
		{"all green eliminated", []string{"04", "04"}, true, core.TeamElimBonus, true},
		{"one green survives", []string{"04", "02"}, false, 0, false},
		{"non-survival codes count", []string{"04", "03"}, true, core.TeamElimBonus, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			addPlayer(t, r, "#r1", 1, 1)
			require.NoError(t, r.EndEntity("#r1", 1000, core.EndCodeSurvived))
			for i, code := range tt.greenCodes {
				id := string(rune('a'+i)) + "green"
				addPlayer(t, r, id, 2, 3)
				require.NoError(t, r.EndEntity(id, 1000, code))
			}

			r.Finalize()

			red, _ := r.Team(1)
			green, _ := r.Team(2)
			neutral, _ := r.Team(0)
			assert.Equal(t, tt.wantRedOpp, red.OppEliminated)
			assert.Equal(t, tt.wantRedBon, red.ElimBonus)
			assert.Equal(t, tt.wantGreenEl, green.IsEliminated)
			assert.False(t, red.IsEliminated)
			assert.False(t, green.OppEliminated)
			assert.False(t, neutral.IsEliminated)
			assert.False(t, neutral.OppEliminated)
		})
	}
}

func TestFinalizeIgnoresEmptyTeams(t *testing.T) {
	r := newTestRegistry(t)
	r.AddTeam(&core.Team{Index: 3, Desc: "Blue Team", ColorEnum: 4})
	addPlayer(t, r, "#r", 1, 1)
	addPlayer(t, r, "#g", 2, 1)
	require.NoError(t, r.EndEntity("#r", 1000, "02"))
	require.NoError(t, r.EndEntity("#g", 1000, "04"))

	r.Finalize()

	blue, _ := r.Team(3)
	red, _ := r.Team(1)
	assert.False(t, blue.IsEliminated)
	assert.True(t, red.OppEliminated)
}

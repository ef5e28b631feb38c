package replay

import (
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmaniacz/lfstats-chomper/internal/registry"
	"github.com/zmaniacz/lfstats-chomper/internal/synth"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

const testEnd = 600000

type testPlayer struct {
	id       string
	team     int
	category int
}

func newTestRegistry(t *testing.T, players ...testPlayer) *registry.Registry {
	t.Helper()
	reg := registry.New()
	reg.AddTeam(&core.Team{Index: 0, Desc: "Neutral", ColorEnum: 0})
	reg.AddTeam(&core.Team{Index: 1, Desc: "Red", ColorEnum: 1})
	reg.AddTeam(&core.Team{Index: 2, Desc: "Green", ColorEnum: 2})
	for _, p := range players {
		e := core.NewEntity(p.id, core.EntityTypePlayer, p.id, p.team, 0, p.category, 0)
		require.NoError(t, reg.AddEntity(e))
		require.NoError(t, reg.EndEntity(p.id, testEnd, core.EndCodeSurvived))
	}
	return reg
}

func newTestEngine(reg *registry.Registry, opts ...Option) *Engine {
	game := core.Game{MissionLengthMillis: testEnd, MissionLength: testEnd / 1000}
	return New(slog.Default(), reg, game, testEnd, opts...)
}

// replay synthesizes and replays actions, numbering them in the given order.
func replay(t *testing.T, reg *registry.Registry, actions []core.GameAction, opts ...Option) *Result {
	t.Helper()
	for i := range actions {
		actions[i].Seq = i
	}
	merged, err := synth.New(slog.Default(), reg, testEnd).Run(actions)
	require.NoError(t, err)
	res, err := newTestEngine(reg, opts...).Run(merged)
	require.NoError(t, err)
	return res
}

func historyOf(res *Result, id string) []core.EntityState {
	var out []core.EntityState
	for _, s := range res.History {
		if s.State.EntityID == id {
			out = append(out, s.State)
		}
	}
	return out
}

func TestDamagingHit(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#C", 1, 1},
		testPlayer{"#H", 2, 2},
		testPlayer{"#S", 2, 3},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 5000, Type: core.EventShotOppDamage, Player: "#C", Target: "#H"},
		{Time: 6000, Type: core.EventShotOppDamage, Player: "#C", Target: "#S"},
	})

	commander := res.Final["#C"]
	assert.Equal(t, 2, commander.ShotOpponent)
	assert.Equal(t, 2, commander.Shot3Hit)
	assert.Equal(t, 200, commander.Score)
	assert.Equal(t, 28, commander.Shots)
	assert.Equal(t, 2, commander.SPEarned)

	heavy := res.Final["#H"]
	assert.Equal(t, 3-2, heavy.CurrentHP)
	assert.Equal(t, 1, heavy.SelfHit)
	assert.Equal(t, -20, heavy.Score)

	// one-hit roles bottom out at zero
	scout := res.Final["#S"]
	assert.Equal(t, 0, scout.CurrentHP)
	assert.Equal(t, 1, scout.SelfHit)
	assert.Equal(t, -20, scout.Score)
}

func TestTakedownAndReactivation(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#S", 1, 3},
		testPlayer{"#M", 2, 5},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventShotOppDown, Player: "#S", Target: "#M"},
		{Time: 20000, Type: core.EventShotMiss, Player: "#S"},
	})

	hist := historyOf(res, "#M")
	require.Len(t, hist, 4)
	assert.True(t, hist[0].IsActive)

	down := hist[1]
	assert.False(t, down.IsActive)
	assert.Equal(t, int64(1000), down.LastDeacTime.Int64)
	assert.Equal(t, core.DeacOpponent, down.LastDeacType)
	assert.Equal(t, 19, down.Lives)
	assert.Equal(t, int64(1000), down.Uptime)

	up := hist[2]
	assert.True(t, up.IsActive)
	assert.Equal(t, int64(9000), up.StateTime)
	assert.Equal(t, int64(8000), up.OppDeacDowntime)

	final := hist[3]
	assert.True(t, final.IsFinal)
	assert.Equal(t, int64(testEnd-8000), final.Uptime)

	scout := res.Final["#S"]
	assert.Equal(t, 1, scout.MedicHits)
	assert.Equal(t, 1, scout.DeacOpponent)
	assert.Equal(t, 100, scout.Score)
}

func TestTakedownAtReactivationInstant(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#S", 1, 3},
		testPlayer{"#M", 2, 5},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventShotOppDown, Player: "#S", Target: "#M"},
		{Time: 9000, Type: core.EventShotOppDown, Player: "#S", Target: "#M"},
	})

	hist := historyOf(res, "#M")
	require.Len(t, hist, 6)

	up := hist[2]
	assert.True(t, up.IsActive)
	assert.Equal(t, int64(9000), up.StateTime)
	assert.Equal(t, int64(8000), up.OppDeacDowntime)

	down := hist[3]
	assert.False(t, down.IsActive)
	assert.Equal(t, int64(9000), down.LastDeacTime.Int64)
	assert.Equal(t, 18, down.Lives)

	final := res.Final["#M"]
	assert.Equal(t, int64(584000), final.Uptime)
	assert.Equal(t, int64(16000), final.OppDeacDowntime)
	assert.Equal(t, 2, res.Final["#S"].DeacOpponent)
}

func TestTeamTakedownCancelsNuke(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#C", 1, 1},
		testPlayer{"#H", 1, 2},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventNukeAct, Player: "#C"},
		{Time: 2000, Type: core.EventShotOppDown, Player: "#H", Target: "#C"},
	})

	c := res.Final["#C"]
	assert.False(t, c.IsNuking)
	assert.Equal(t, 1, c.OwnNukeCanceledByTeam)
	assert.Equal(t, core.DeacTeam, c.LastDeacType)

	h := res.Final["#H"]
	assert.Equal(t, 1, h.CancelTeamNuke)
	assert.Equal(t, 1, h.DeacTeam)
	assert.Equal(t, -100, h.Score)
	assert.Equal(t, 0, h.Deac3Hit)
}

func TestNukeBlastRadius(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#C", 1, 1},
		testPlayer{"#H", 2, 2},
		testPlayer{"#M", 2, 5},
		testPlayer{"#X", 2, 3},
	)
	require.NoError(t, reg.EndEntity("#X", 10000, core.EndCodeEliminated))

	res := replay(t, reg, []core.GameAction{
		{Time: 5000, Type: core.EventRapidAct, Player: "#H"},
		{Time: 15000, Type: core.EventNukeAct, Player: "#H"},
		{Time: 20000, Type: core.EventNukeAct, Player: "#C"},
		{Time: 25000, Type: core.EventNukeDeton, Player: "#C"},
	})

	c := res.Final["#C"]
	assert.Equal(t, 1, c.NukesDetonated)
	assert.Equal(t, 500, c.Score)
	assert.Equal(t, 1, c.CancelOpponentNuke)
	assert.Equal(t, 3, c.NukeMedicHits)

	var blasted []string
	for _, s := range res.History {
		if s.State.StateTime == 25000 && s.State.LastDeacType == core.DeacNuke {
			blasted = append(blasted, s.State.EntityID)
			assert.False(t, s.State.IsActive)
			assert.Equal(t, int64(25000), s.State.LastDeacTime.Int64)
		}
	}
	assert.Equal(t, []string{"#H", "#M"}, blasted)

	h := res.Final["#H"]
	assert.Equal(t, 1, h.OwnNukeCanceledByNuke)
	assert.Equal(t, 7, h.Lives)
	assert.True(t, h.IsRapid)

	x := res.Final["#X"]
	assert.True(t, x.IsEliminated)
	assert.Empty(t, x.LastDeacType)
}

func TestResupplyAndBoosts(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#A", 1, 4},
		testPlayer{"#M", 1, 5},
		testPlayer{"#S", 1, 3},
		testPlayer{"#C", 1, 1},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventShotMiss, Player: "#S"},
		{Time: 1500, Type: core.EventNukeAct, Player: "#C"},
		{Time: 2000, Type: core.EventResupplyShots, Player: "#A", Target: "#C"},
		{Time: 3000, Type: core.EventResupplyTeamAmmo, Player: "#A"},
		{Time: 4000, Type: core.EventResupplyTeamLife, Player: "#M"},
	})

	a := res.Final["#A"]
	assert.Equal(t, 1, a.ResupplyShots)
	assert.Equal(t, 1, a.CancelTeamNukeByResupply)
	assert.Equal(t, 1, a.CancelTeamNuke)
	assert.Equal(t, 1, a.AmmoBoosts)
	assert.Equal(t, 15, a.SPSpent)
	// the resupplied commander is still down
	assert.Equal(t, 2, a.AmmoBoostedPlayers)

	c := res.Final["#C"]
	assert.Equal(t, 35, c.Shots)
	assert.Equal(t, 1, c.OwnNukeCanceledByResupply)
	assert.Equal(t, core.DeacResupply, c.LastDeacType)
	assert.Equal(t, 0, c.AmmoBoostReceived)

	s := res.Final["#S"]
	assert.Equal(t, 29+10, s.Shots)
	assert.Equal(t, 1, s.AmmoBoostReceived)
	assert.Equal(t, 15+5, s.Lives)
	assert.Equal(t, 1, s.LifeBoostReceived)

	m := res.Final["#M"]
	assert.Equal(t, 1, m.LifeBoosts)
	// medic is excluded from its own life boost; ammo carrier and scout receive it
	assert.Equal(t, 2, m.LifeBoostedPlayers)
	assert.Equal(t, 15+5, m.Shots)
}

func TestPenalty(t *testing.T) {
	reg := newTestRegistry(t, testPlayer{"#S", 1, 3})
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventNukeAct, Player: "#S"},
		{Time: 2000, Type: core.EventPenalty, Player: "#S"},
	})

	hist := historyOf(res, "#S")
	// initial, nuke, penalty, reactivation, final
	require.Len(t, hist, 5)
	assert.Equal(t, core.DeacPenalty, hist[2].LastDeacType)
	assert.Equal(t, 1, hist[2].OwnNukeCanceledByPenalty)
	assert.Equal(t, int64(8000), hist[3].PenaltyDowntime)
	assert.Equal(t, 1, res.Final["#S"].Penalties)
}

func TestFinalStateCancelsPendingNuke(t *testing.T) {
	reg := newTestRegistry(t, testPlayer{"#C", 1, 1})
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventNukeAct, Player: "#C"},
	})

	final := res.Final["#C"]
	assert.True(t, final.IsFinal)
	assert.False(t, final.IsNuking)
	assert.Equal(t, 1, final.OwnNukeCanceledByGameEnd)
	assert.Equal(t, int64(testEnd), final.StateTime)
	assert.Equal(t, int64(testEnd), final.Uptime)

	c, _ := reg.Entity("#C")
	require.NotNil(t, c.FinalState)
	assert.Equal(t, final, *c.FinalState)
}

func TestMissileTakedowns(t *testing.T) {
	reg := newTestRegistry(t,
		testPlayer{"#C", 1, 1},
		testPlayer{"#H", 1, 2},
		testPlayer{"#M", 2, 5},
	)
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventMslOppDown, Player: "#C", Target: "#M"},
		{Time: 2000, Type: core.EventMslOwnDown, Player: "#C", Target: "#H"},
	})

	c := res.Final["#C"]
	assert.Equal(t, 3, c.MissilesLeft)
	assert.Equal(t, 0, c.Score)
	assert.Equal(t, 1, c.MissileOpponent)
	assert.Equal(t, 1, c.MissileTeam)
	assert.Equal(t, 2, c.MedicHits)
	assert.Equal(t, 2, c.SPEarned)
	assert.Equal(t, 0, c.Deac3Hit)

	m := res.Final["#M"]
	assert.Equal(t, 18, m.Lives)
	assert.Equal(t, 1, m.SelfMissile)
	assert.Equal(t, -100, m.Score)

	h := res.Final["#H"]
	assert.Equal(t, 1, h.SelfTeamMissile)
	assert.Equal(t, core.DeacTeam, h.LastDeacType)
}

func TestIgnoredActions(t *testing.T) {
	reg := newTestRegistry(t, testPlayer{"#S", 1, 3})
	res := replay(t, reg, []core.GameAction{
		{Time: 0, Type: core.EventMissionStart, Action: "* Mission Start *"},
		{Time: 1000, Type: core.EventMslStart, Player: "#S"},
		{Time: 2000, Type: core.EventAchieve, Player: "#unknown-is-fine"},
	})
	assert.Len(t, historyOf(res, "#S"), 2)
}

func TestUnknownEntity(t *testing.T) {
	reg := newTestRegistry(t, testPlayer{"#S", 1, 3})
	_, err := newTestEngine(reg).Run([]core.GameAction{
		{Time: 1000, Type: core.EventShotOppDamage, Player: "#S", Target: "#ghost"},
	})
	assert.ErrorIs(t, err, registry.ErrUnknownEntity)

	_, err = newTestEngine(reg).Run([]core.GameAction{
		{Time: 1000, Type: core.EventShotMiss, Player: "#ghost"},
	})
	assert.ErrorIs(t, err, registry.ErrUnknownEntity)
}

func busyGame(t *testing.T) (*registry.Registry, []core.GameAction) {
	reg := newTestRegistry(t,
		testPlayer{"#C", 1, 1},
		testPlayer{"#A", 1, 4},
		testPlayer{"#S", 1, 3},
		testPlayer{"#H", 2, 2},
		testPlayer{"#M", 2, 5},
		testPlayer{"#T", 2, 3},
	)
	var actions []core.GameAction
	shooters := []string{"#C", "#S", "#H", "#T"}
	targets := []string{"#H", "#M", "#C", "#S"}
	for i := 0; i < 400; i++ {
		tm := int64(i * 700)
		sh := shooters[i%len(shooters)]
		tg := targets[i%len(targets)]
		switch i % 7 {
		case 0, 1:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventShotMiss, Player: sh})
		case 2:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventShotOppDown, Player: sh, Target: tg})
		case 3:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventResupplyLives, Player: "#M", Target: "#T"})
		case 4:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventMslOppDown, Player: "#C", Target: "#M"})
		case 5:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventNukeDeton, Player: sh})
		case 6:
			actions = append(actions, core.GameAction{Time: tm, Type: core.EventResupplyTeamAmmo, Player: "#A"})
		}
	}
	return reg, actions
}

func TestConservationAndDedup(t *testing.T) {
	reg, actions := busyGame(t)
	res := replay(t, reg, actions)

	last := make(map[string]core.EntityState)
	for _, snap := range res.History {
		st := snap.State
		e, err := reg.Entity(st.EntityID)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, st.Lives, 0)
		assert.LessOrEqual(t, st.Lives, e.MaxLives)
		assert.GreaterOrEqual(t, st.Shots, 0)
		assert.LessOrEqual(t, st.Shots, e.MaxShots)
		assert.GreaterOrEqual(t, st.MissilesLeft, 0)
		assert.LessOrEqual(t, st.MissilesLeft, e.InitialMissiles)
		assert.GreaterOrEqual(t, st.CurrentHP, 0)
		assert.LessOrEqual(t, st.CurrentHP, e.MaxHP)

		if prev, ok := last[st.EntityID]; ok {
			assert.NotEqual(t, prev, st)
			assert.GreaterOrEqual(t, st.StateTime, prev.StateTime)
		}
		last[st.EntityID] = st
	}
}

func TestDeterminism(t *testing.T) {
	seq := func() func() uuid.UUID {
		n := 0
		return func() uuid.UUID {
			n++
			return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(n), byte(n >> 8)})
		}
	}

	reg, actions := busyGame(t)
	first := replay(t, reg, append([]core.GameAction(nil), actions...), WithIDGenerator(seq()))
	second := replay(t, reg, append([]core.GameAction(nil), actions...), WithIDGenerator(seq()))
	assert.Equal(t, first, second)
}

type constScorer struct{ calls int }

func (s *constScorer) Score(state *core.EntityState, role core.Role, team *core.Team, game *core.Game) core.MVPScore {
	s.calls++
	return core.MVPScore{Value: float64(state.Score), ModelID: 1}
}

func TestScorerAttached(t *testing.T) {
	reg := newTestRegistry(t, testPlayer{"#S", 1, 3}, testPlayer{"#T", 2, 3})
	scorer := &constScorer{}
	res := replay(t, reg, []core.GameAction{
		{Time: 1000, Type: core.EventShotOppDown, Player: "#S", Target: "#T"},
	}, WithScorer(scorer))

	assert.Equal(t, len(res.History), scorer.calls)
	for _, s := range res.History {
		assert.Equal(t, float64(s.State.Score), s.MVP.Value)
		assert.NotEqual(t, uuid.Nil, s.ID)
	}
}

package lineup

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"MatchTracker/internal/validator"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func seed(t *testing.T, positions ...data.Position) (*data.MemoryStore, *data.Game, []int64) {
	t.Helper()
	ctx := context.Background()
	s := data.NewMemoryStore()

	team := &data.Team{Name: "Riverside"}
	if err := s.InsertTeam(ctx, team); err != nil {
		t.Fatal(err)
	}
	game := &data.Game{TeamID: team.ID, Opponent: "Northside", Date: time.Now()}
	if err := s.InsertGame(ctx, game); err != nil {
		t.Fatal(err)
	}

	ids := make([]int64, len(positions))
	for i, pos := range positions {
		p := &data.Player{TeamID: team.ID, Name: "P", JerseyNumber: i + 1,
			Positions: []data.Position{pos}}
		if err := s.InsertPlayer(ctx, p); err != nil {
			t.Fatal(err)
		}
		ids[i] = p.ID
	}
	return s, game, ids
}

func roster(t *testing.T, s data.Store, teamID int64) []*data.Player {
	t.Helper()
	players, err := s.GetAllPlayers(context.Background(), teamID)
	if err != nil {
		t.Fatal(err)
	}
	return players
}

func TestValidateStartingLineup(t *testing.T) {
	rules := config.DefaultRules()
	rules.Starters = 3

	s, game, ids := seed(t, data.PositionGK, data.PositionDEF, data.PositionMID,
		data.PositionFWD)
	players := roster(t, s, game.TeamID)

	tests := []struct {
		name     string
		squad    []int64
		starters []int64
		rules    func(config.Rules) config.Rules
		wantKey  string
	}{
		{name: "Valid", squad: ids, starters: ids[:3]},
		{name: "Too Few", squad: ids, starters: ids[:2], wantKey: "starters"},
		{name: "Duplicate Starter", squad: ids, starters: []int64{ids[0], ids[0], ids[1]},
			wantKey: "starters"},
		{name: "Starter Outside Squad", squad: ids[:2], starters: ids[:3], wantKey: "starters"},
		{name: "Unknown Player", squad: append([]int64{999}, ids...), starters: ids[:3],
			wantKey: "squad"},
		{name: "No Goalkeeper", squad: ids, starters: ids[1:], wantKey: "starters"},
		{name: "Goalkeeper Not Required", squad: ids, starters: ids[1:],
			rules: func(r config.Rules) config.Rules {
				r.RequireGoalkeeper = false
				return r
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rules
			if tt.rules != nil {
				r = tt.rules(r)
			}
			v := validator.New()
			ValidateStartingLineup(v, players, tt.squad, tt.starters, r)

			if tt.wantKey == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.wantKey]
			assert.Equal(t, ok, true)
		})
	}
}

func TestCommit(t *testing.T) {
	ctx := context.Background()
	s, game, ids := seed(t, data.PositionGK, data.PositionDEF, data.PositionMID)

	err := Commit(ctx, s, game.ID, ids, ids[:2])
	assert.NilError(t, err)

	g, err := s.GetGame(ctx, game.ID)
	assert.NilError(t, err)
	assert.Equal(t, g.Status, data.GameLive)

	entries, err := s.GetGameLineup(ctx, game.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 3)
	for _, e := range entries {
		starter := e.PlayerID != ids[2]
		assert.Equal(t, e.IsStarter, starter)
		assert.Equal(t, e.IsActive(), starter)
		assert.Equal(t, e.OutTime == nil, true)
	}

	t.Run("Unknown Game", func(t *testing.T) {
		err := Commit(ctx, s, 999, ids, ids[:2])
		assert.ErrorIs(t, err, data.ErrRecordNotFound)
	})
}

func TestSubstitute(t *testing.T) {
	ctx := context.Background()
	s, game, ids := seed(t, data.PositionGK, data.PositionDEF, data.PositionMID)
	p1, p2, p3 := ids[0], ids[1], ids[2]
	assert.NilError(t, Commit(ctx, s, game.ID, ids, []int64{p1, p2}))

	m, err := Load(ctx, s, game.ID, zerolog.Nop())
	assert.NilError(t, err)
	assert.SliceEqual(t, m.ActivePlayerIDs(), []int64{p1, p2})
	assert.SliceEqual(t, m.BenchPlayerIDs(), []int64{p3})

	assert.NilError(t, m.Substitute(ctx, p1, p3, 300))

	assert.SliceEqual(t, m.ActivePlayerIDs(), []int64{p2, p3})
	assert.SliceEqual(t, m.BenchPlayerIDs(), []int64{p1})
	assert.Equal(t, m.IsActive(p1), false)
	assert.Equal(t, m.IsActive(p3), true)

	out := m.PlayerEntries(p1)[0]
	assert.IntPtrEqual(t, out.InTime, intPtr(0))
	assert.IntPtrEqual(t, out.OutTime, intPtr(300))

	in := m.PlayerEntries(p3)[0]
	assert.IntPtrEqual(t, in.InTime, intPtr(300))
	assert.IntPtrEqual(t, in.OutTime, nil)

	t.Run("Re-entry", func(t *testing.T) {
		assert.NilError(t, m.Substitute(ctx, p3, p1, 600))
		assert.SliceEqual(t, m.ActivePlayerIDs(), []int64{p1, p2})

		back := m.PlayerEntries(p1)[0]
		assert.IntPtrEqual(t, back.InTime, intPtr(600))
		assert.IntPtrEqual(t, back.OutTime, nil)
	})

	t.Run("Not In Lineup", func(t *testing.T) {
		err := m.Substitute(ctx, p2, 999, 700)
		assert.ErrorIs(t, err, ErrNotInLineup)
		assert.Equal(t, m.IsActive(p2), true)
	})
}

func intPtr(i int) *int {
	return &i
}

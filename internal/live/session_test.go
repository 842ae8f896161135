package live

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"MatchTracker/internal/events"
	"MatchTracker/internal/lineup"
	"MatchTracker/internal/stats"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

type fixture struct {
	store    *data.MemoryStore
	registry *Registry
	game     *data.Game
	gk       int64
	def      int64
	mid      int64
}

func newFixture(t *testing.T) *fixture {
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

	f := &fixture{store: s, game: game}
	for i, dst := range []*int64{&f.gk, &f.def, &f.mid} {
		p := &data.Player{TeamID: team.ID, Name: "P", JerseyNumber: i + 1,
			Positions: []data.Position{data.Positions[i]}}
		if err := s.InsertPlayer(ctx, p); err != nil {
			t.Fatal(err)
		}
		*dst = p.ID
	}

	rules := config.DefaultRules()
	rules.Starters = 2
	f.registry = NewRegistry(s, Options{
		Rules:  rules,
		Clock:  clockwork.NewFakeClock(),
		Logger: zerolog.Nop(),
	})
	t.Cleanup(func() { f.registry.CloseAll(context.Background()) })
	return f
}

func (f *fixture) start(t *testing.T) *Session {
	t.Helper()
	s, err := f.registry.Start(context.Background(), f.game.ID,
		[]int64{f.gk, f.def, f.mid}, []int64{f.gk, f.def})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (f *fixture) storedGame(t *testing.T) *data.Game {
	t.Helper()
	g, err := f.store.GetGame(context.Background(), f.game.ID)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.registry.Open(ctx, 999)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = f.registry.Open(ctx, f.game.ID)
	assert.ErrorIs(t, err, ErrGameNotLive)
}

func TestStart(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid Lineup", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.registry.Start(ctx, f.game.ID, []int64{f.gk, f.def, f.mid},
			[]int64{f.def, f.mid})

		var verr data.ModelValidationErr
		assert.Equal(t, errors.As(err, &verr), true)
		assert.Equal(t, verr.Errors["starters"], "must include a goalkeeper")
		assert.Equal(t, f.storedGame(t).Status, data.GameScheduled)
	})

	t.Run("Valid", func(t *testing.T) {
		f := newFixture(t)
		s := f.start(t)

		assert.Equal(t, f.storedGame(t).Status, data.GameLive)
		got, ok := f.registry.Get(f.game.ID)
		assert.Equal(t, ok, true)
		assert.Equal(t, got, s)

		again, err := f.registry.Open(ctx, f.game.ID)
		assert.NilError(t, err)
		assert.Equal(t, again, s)

		_, err = f.registry.Start(ctx, f.game.ID, []int64{f.gk, f.def}, []int64{f.gk, f.def})
		assert.ErrorIs(t, err, ErrGameNotReady)
	})
}

func TestRecordStat(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.start(t)

	_, err := s.RecordStat(ctx, stats.PassComplete)
	assert.ErrorIs(t, err, ErrNoSelection)

	assert.ErrorIs(t, s.SelectPlayer(f.mid), ErrPlayerNotActive)
	assert.NilError(t, s.SelectPlayer(f.def))

	_, err = s.RecordStat(ctx, stats.PassComplete)
	assert.ErrorIs(t, err, ErrClockStopped)

	assert.NilError(t, s.SetClock(ctx, 120))
	assert.NilError(t, s.StartClock())

	_, err = s.RecordStat(ctx, "nutmeg")
	assert.ErrorIs(t, err, events.ErrUnknownEventType)

	e, err := s.RecordStat(ctx, stats.PassComplete)
	assert.NilError(t, err)
	assert.Equal(t, e.PlayerID, f.def)
	assert.Equal(t, e.GameTime, 120)

	e, err = s.RecordStat(ctx, stats.OpponentPass)
	assert.NilError(t, err)
	assert.Equal(t, e.PlayerID, f.def)

	snap := s.Snapshot()
	assert.Equal(t, *snap.Selected, f.def)
	assert.Equal(t, len(snap.RecentEvents), 2)
	assert.Equal(t, snap.Players[1].MiniStats, "1P")
}

func TestGoalFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.start(t)
	assert.NilError(t, s.SetClock(ctx, 300))
	assert.NilError(t, s.StartClock())
	assert.NilError(t, s.SelectPlayer(f.def))

	goal, err := s.RecordStat(ctx, stats.Goal)
	assert.NilError(t, err)
	assert.Equal(t, goal == nil, true)
	assert.Equal(t, *s.Snapshot().PendingGoal, f.def)

	_, err = s.RecordStat(ctx, stats.Tackle)
	assert.ErrorIs(t, err, ErrGoalPending)
	assert.ErrorIs(t, s.SelectPlayer(f.gk), ErrGoalPending)

	_, err = s.ConfirmGoal(ctx, &f.def)
	assert.ErrorIs(t, err, events.ErrSelfAssist)
	_, err = s.ConfirmGoal(ctx, &f.mid)
	assert.ErrorIs(t, err, ErrPlayerNotActive)

	goal, err = s.ConfirmGoal(ctx, &f.gk)
	assert.NilError(t, err)
	assert.Equal(t, goal.PlayerID, f.def)
	assert.Equal(t, goal.GameTime, 300)

	snap := s.Snapshot()
	assert.Equal(t, snap.HomeScore, 1)
	assert.Equal(t, snap.PendingGoal == nil, true)
	assert.Equal(t, snap.Selected == nil, true)
	assert.Equal(t, len(s.Log().Events()), 2)
	assert.Equal(t, f.storedGame(t).HomeScore, 1)

	t.Run("Cancel", func(t *testing.T) {
		assert.NilError(t, s.SelectPlayer(f.gk))
		_, err := s.RecordStat(ctx, stats.Goal)
		assert.NilError(t, err)
		assert.NilError(t, s.CancelGoal())
		assert.ErrorIs(t, s.CancelGoal(), ErrNoPendingGoal)
		assert.Equal(t, len(s.Log().Events()), 2)
		assert.Equal(t, *s.Snapshot().Selected, f.gk)
	})

	t.Run("Undo", func(t *testing.T) {
		assert.NilError(t, s.Undo(ctx, goal.ID))
		assert.Equal(t, len(s.Log().Events()), 0)
		assert.Equal(t, s.Snapshot().HomeScore, 0)
		assert.Equal(t, f.storedGame(t).HomeScore, 0)
	})
}

func TestSubstitute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.start(t)
	assert.NilError(t, s.SetClock(ctx, 300))
	assert.NilError(t, s.SelectPlayer(f.def))

	assert.ErrorIs(t, s.Substitute(ctx, f.mid, f.def), ErrPlayerNotActive)
	assert.ErrorIs(t, s.Substitute(ctx, f.def, f.gk), ErrPlayerActive)
	assert.ErrorIs(t, s.Substitute(ctx, f.def, 999), lineup.ErrNotInLineup)

	assert.NilError(t, s.Substitute(ctx, f.def, f.mid))

	snap := s.Snapshot()
	assert.SliceEqual(t, snap.Active, []int64{f.gk, f.mid})
	assert.SliceEqual(t, snap.Bench, []int64{f.def})
	assert.Equal(t, snap.Selected == nil, true)

	for _, line := range snap.Players {
		if line.PlayerID == f.def {
			assert.Equal(t, line.SecondsPlayed, 300)
			assert.Equal(t, line.PlayingTime, "5:00")
		}
	}
}

func TestEndPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.start(t)
	updates, cancel := s.Subscribe()
	defer cancel()
	<-updates

	assert.NilError(t, s.SetClock(ctx, 2150))

	over, err := s.EndPeriod(ctx)
	assert.NilError(t, err)
	assert.Equal(t, over, false)

	g := f.storedGame(t)
	assert.Equal(t, g.CurrentHalf, 2)
	assert.Equal(t, g.ClockTime, 0)
	assert.Equal(t, s.Snapshot().Half, 2)

	assert.NilError(t, s.SetClock(ctx, 2200))
	over, err = s.EndPeriod(ctx)
	assert.NilError(t, err)
	assert.Equal(t, over, true)

	g = f.storedGame(t)
	assert.Equal(t, g.Status, data.GameCompleted)
	assert.Equal(t, g.ClockTime, 2200)

	_, ok := f.registry.Get(f.game.ID)
	assert.Equal(t, ok, false)
	assert.ErrorIs(t, s.SelectPlayer(f.gk), ErrSessionClosed)
	_, err = s.EndPeriod(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)

	var last Snapshot
	for snap := range updates {
		last = snap
	}
	assert.Equal(t, last.Status, data.GameCompleted)
}

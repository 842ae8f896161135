package clock

import (
	"MatchTracker/internal/assert"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

type recorder struct {
	mu    sync.Mutex
	saved []int
	fail  bool
}

func (r *recorder) checkpoint(_ context.Context, clockTime int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("store unavailable")
	}
	r.saved = append(r.saved, clockTime)
	return nil
}

func (r *recorder) values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.saved...)
}

func newTestClock(r *recorder, fc clockwork.Clock, start int) *GameClock {
	return NewGameClock(Config{
		HalfLength: 35,
		ClockTime:  start,
		Checkpoint: r.checkpoint,
		Clock:      fc,
		Logger:     zerolog.Nop(),
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		name    string
		input   Duration
		want    int
		wantErr bool
	}{
		{name: "Zero", input: "00:00", want: 0},
		{name: "Minutes And Seconds", input: "12:30", want: 750},
		{name: "Long Half", input: "95:05", want: 5705},
		{name: "Seconds Overflow", input: "10:60", wantErr: true},
		{name: "Missing Colon", input: "1230", wantErr: true},
		{name: "Not A Number", input: "ab:10", wantErr: true},
		{name: "Negative", input: "-1:10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.input.Seconds()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Format(0), "00:00")
	assert.Equal(t, Format(75), "01:15")
	assert.Equal(t, Format(2400), "40:00")
}

func TestTickCheckpointsEveryFiveSeconds(t *testing.T) {
	r := &recorder{}
	gc := newTestClock(r, clockwork.NewFakeClock(), 0)
	gc.running = true

	for i := 0; i < 12; i++ {
		gc.tick()
	}

	assert.Equal(t, gc.Time(), 12)
	assert.SliceEqual(t, r.values(), []int{5, 10})
}

func TestTickRetriesFailedCheckpoint(t *testing.T) {
	r := &recorder{fail: true}
	gc := newTestClock(r, clockwork.NewFakeClock(), 0)
	gc.running = true

	for i := 0; i < 5; i++ {
		gc.tick()
	}
	assert.Equal(t, len(r.values()), 0)

	r.mu.Lock()
	r.fail = false
	r.mu.Unlock()

	gc.tick()
	assert.SliceEqual(t, r.values(), []int{6})
}

func TestTickIgnoredWhenStopped(t *testing.T) {
	r := &recorder{}
	gc := newTestClock(r, clockwork.NewFakeClock(), 30)
	gc.tick()
	assert.Equal(t, gc.Time(), 30)
}

func TestSetTimeOrdersCheckpoints(t *testing.T) {
	t.Run("Set During Tick Checkpoint", func(t *testing.T) {
		entered := make(chan struct{})
		release := make(chan struct{})
		r := &recorder{}
		var once sync.Once
		gc := NewGameClock(Config{
			HalfLength: 35,
			ClockTime:  4,
			Checkpoint: func(ctx context.Context, clockTime int) error {
				once.Do(func() {
					close(entered)
					<-release
				})
				return r.checkpoint(ctx, clockTime)
			},
			Clock:  clockwork.NewFakeClock(),
			Logger: zerolog.Nop(),
		})
		gc.running = true

		tickDone := make(chan struct{})
		go func() {
			gc.tick()
			close(tickDone)
		}()
		<-entered

		setErr := make(chan error, 1)
		go func() {
			setErr <- gc.SetTime(context.Background(), 0)
		}()
		waitFor(t, func() bool { return gc.Time() == 0 })

		close(release)
		<-tickDone
		assert.NilError(t, <-setErr)

		assert.SliceEqual(t, r.values(), []int{5, 0})
		gc.mu.Lock()
		assert.Equal(t, gc.lastSaved, 0)
		gc.mu.Unlock()
	})

	t.Run("Reading Overtaken By Set", func(t *testing.T) {
		r := &recorder{}
		gc := newTestClock(r, clockwork.NewFakeClock(), 20)

		now, set := gc.reading()
		assert.NilError(t, gc.SetTime(context.Background(), 3))
		assert.NilError(t, gc.save(context.Background(), now, set))

		assert.SliceEqual(t, r.values(), []int{3})
		gc.mu.Lock()
		assert.Equal(t, gc.lastSaved, 3)
		gc.mu.Unlock()
	})
}

func TestStartPause(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	fc := clockwork.NewFakeClock()
	gc := newTestClock(r, fc, 100)
	defer gc.Close()

	assert.NilError(t, gc.Start())
	assert.NilError(t, gc.Start())
	assert.Equal(t, gc.IsRunning(), true)

	for i := 1; i <= 3; i++ {
		assert.NilError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(time.Second)
		want := 100 + i
		waitFor(t, func() bool { return gc.Time() == want })
	}

	assert.NilError(t, gc.Pause(ctx))
	assert.Equal(t, gc.IsRunning(), false)
	assert.Equal(t, gc.Time(), 103)
	assert.SliceEqual(t, r.values(), []int{103})

	fc.Advance(5 * time.Second)
	assert.Equal(t, gc.Time(), 103)
}

func TestToggleResetSetTime(t *testing.T) {
	ctx := context.Background()
	r := &recorder{}
	gc := newTestClock(r, clockwork.NewFakeClock(), 0)
	defer gc.Close()

	assert.NilError(t, gc.Toggle(ctx))
	assert.Equal(t, gc.IsRunning(), true)
	assert.NilError(t, gc.Toggle(ctx))
	assert.Equal(t, gc.IsRunning(), false)

	assert.NilError(t, gc.SetTime(ctx, 2101))
	assert.Equal(t, gc.IsPastHalfLength(), true)
	assert.ErrorIs(t, gc.SetTime(ctx, -1), ErrInvalidDuration)

	assert.NilError(t, gc.Start())
	assert.NilError(t, gc.Reset(ctx))
	assert.Equal(t, gc.IsRunning(), false)
	assert.Equal(t, gc.Time(), 0)
	assert.SliceEqual(t, r.values(), []int{0, 2101, 0})
}

func TestIsPastHalfLength(t *testing.T) {
	tests := []struct {
		name  string
		clock int
		want  bool
	}{
		{name: "Start", clock: 0, want: false},
		{name: "Exactly Half Length", clock: 35 * 60, want: false},
		{name: "Stoppage Time", clock: 35*60 + 1, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := newTestClock(&recorder{}, clockwork.NewFakeClock(), tt.clock)
			assert.Equal(t, gc.IsPastHalfLength(), tt.want)
		})
	}
}

func TestEventsPublished(t *testing.T) {
	gc := newTestClock(&recorder{}, clockwork.NewFakeClock(), 0)

	assert.NilError(t, gc.Start())
	e := <-gc.C
	assert.Equal(t, e.EventType, Transport)
	assert.Equal(t, e.Running, true)

	gc.tick()
	e = <-gc.C
	assert.Equal(t, e.EventType, Tick)
	assert.Equal(t, e.ClockTime, 1)

	gc.Close()
	_, ok := <-gc.C
	assert.Equal(t, ok, false)
	assert.ErrorIs(t, gc.Start(), ErrClosed)
}

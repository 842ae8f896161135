package clock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidDuration = errors.New("invalid clock duration string")
	ErrClosed          = errors.New("game clock closed")
)

// DefaultCheckpointSeconds bounds how much running time a crash can lose.
const DefaultCheckpointSeconds = 5

// Duration is a clock reading in the format "MM:SS".
type Duration string

// Seconds converts "MM:SS" to whole seconds.
func (cd Duration) Seconds() (int, error) {
	parts := strings.Split(string(cd), ":")
	if len(parts) != 2 {
		return 0, ErrInvalidDuration
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Join(ErrInvalidDuration, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Join(ErrInvalidDuration, err)
	}
	if minutes < 0 || seconds < 0 || seconds >= 60 {
		return 0, ErrInvalidDuration
	}
	return minutes*60 + seconds, nil
}

// Format renders seconds as zero padded "MM:SS".
func Format(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// CheckpointFunc persists the clock reading, normally into the game record.
type CheckpointFunc func(ctx context.Context, clockTime int) error

type EventType int

const (
	Tick EventType = iota
	Transport
	ClockSet
)

func (t EventType) String() string {
	switch t {
	case Tick:
		return "tick"
	case Transport:
		return "transport"
	case ClockSet:
		return "set"
	default:
		return "unknown"
	}
}

type Event struct {
	EventType
	ClockTime int
	Running   bool
}

type Config struct {
	HalfLength        int
	ClockTime         int
	CheckpointSeconds int
	Checkpoint        CheckpointFunc
	Clock             clockwork.Clock
	Logger            zerolog.Logger
}

// GameClock counts elapsed seconds of the current half. While running it adds one second per
// wall-clock second and checkpoints every CheckpointSeconds; pausing always checkpoints.
// Every change is offered on C without blocking.
type GameClock struct {
	C chan Event

	mu              sync.Mutex
	clockTime       int
	lastSaved       int
	setCount        int
	running         bool
	closed          bool
	halfLength      int
	checkpointEvery int
	checkpoint      CheckpointFunc
	clock           clockwork.Clock
	logger          zerolog.Logger
	stop            chan struct{}
	done            chan struct{}

	// saveMu orders checkpoints so an older reading never lands after a newer one.
	saveMu sync.Mutex
}

func NewGameClock(cfg Config) *GameClock {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.CheckpointSeconds <= 0 {
		cfg.CheckpointSeconds = DefaultCheckpointSeconds
	}
	if cfg.Checkpoint == nil {
		cfg.Checkpoint = func(context.Context, int) error { return nil }
	}

	return &GameClock{
		C:               make(chan Event, 16),
		clockTime:       cfg.ClockTime,
		lastSaved:       cfg.ClockTime,
		halfLength:      cfg.HalfLength,
		checkpointEvery: cfg.CheckpointSeconds,
		checkpoint:      cfg.Checkpoint,
		clock:           cfg.Clock,
		logger:          cfg.Logger,
	}
}

func (gc *GameClock) Time() int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.clockTime
}

func (gc *GameClock) IsRunning() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.running
}

// IsPastHalfLength reports stoppage time.
func (gc *GameClock) IsPastHalfLength() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.clockTime > gc.halfLength*60
}

func (gc *GameClock) Get() string {
	return Format(gc.Time())
}

// Start begins ticking. Starting a running clock does nothing.
func (gc *GameClock) Start() error {
	gc.mu.Lock()
	if gc.closed {
		gc.mu.Unlock()
		return ErrClosed
	}
	if gc.running {
		gc.mu.Unlock()
		return nil
	}
	gc.running = true
	gc.stop = make(chan struct{})
	gc.done = make(chan struct{})
	ticker := gc.clock.NewTicker(time.Second)
	go gc.run(ticker, gc.stop, gc.done)
	gc.mu.Unlock()

	gc.publish(Transport)
	return nil
}

func (gc *GameClock) run(ticker clockwork.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			gc.tick()
		}
	}
}

func (gc *GameClock) tick() {
	gc.mu.Lock()
	if !gc.running {
		gc.mu.Unlock()
		return
	}
	gc.clockTime++
	now, set := gc.clockTime, gc.setCount
	due := now-gc.lastSaved >= gc.checkpointEvery
	gc.mu.Unlock()

	gc.publish(Tick)

	if due {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := gc.save(ctx, now, set); err != nil {
			gc.logger.Error().Err(err).Int("clock_time", now).Msg("clock checkpoint failed")
		}
	}
}

// halt stops the tick goroutine and waits for it to exit. It reports whether the clock was
// running.
func (gc *GameClock) halt() bool {
	gc.mu.Lock()
	if !gc.running {
		gc.mu.Unlock()
		return false
	}
	gc.running = false
	stop, done := gc.stop, gc.done
	gc.mu.Unlock()

	close(stop)
	<-done
	return true
}

// save persists a reading taken while setCount was set. A reading overtaken by SetTime is
// dropped.
func (gc *GameClock) save(ctx context.Context, clockTime, set int) error {
	gc.saveMu.Lock()
	defer gc.saveMu.Unlock()

	gc.mu.Lock()
	stale := set != gc.setCount
	gc.mu.Unlock()
	if stale {
		return nil
	}

	if err := gc.checkpoint(ctx, clockTime); err != nil {
		return err
	}
	gc.mu.Lock()
	gc.lastSaved = clockTime
	gc.mu.Unlock()
	return nil
}

func (gc *GameClock) reading() (clockTime, set int) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.clockTime, gc.setCount
}

// Pause stops the clock and persists the current reading.
func (gc *GameClock) Pause(ctx context.Context) error {
	wasRunning := gc.halt()
	if wasRunning {
		gc.publish(Transport)
	}
	now, set := gc.reading()
	return gc.save(ctx, now, set)
}

func (gc *GameClock) Toggle(ctx context.Context) error {
	if gc.IsRunning() {
		return gc.Pause(ctx)
	}
	return gc.Start()
}

// Reset stops the clock at zero, as at the half-time break.
func (gc *GameClock) Reset(ctx context.Context) error {
	gc.halt()
	return gc.SetTime(ctx, 0)
}

// SetTime force-sets the reading and persists it. A running clock keeps running.
func (gc *GameClock) SetTime(ctx context.Context, seconds int) error {
	if seconds < 0 {
		return ErrInvalidDuration
	}
	gc.mu.Lock()
	gc.clockTime = seconds
	gc.setCount++
	set := gc.setCount
	gc.mu.Unlock()

	gc.publish(ClockSet)
	return gc.save(ctx, seconds, set)
}

func (gc *GameClock) SetHalfLength(minutes int) {
	gc.mu.Lock()
	gc.halfLength = minutes
	gc.mu.Unlock()
}

// Close stops ticking without a checkpoint and closes C.
func (gc *GameClock) Close() {
	gc.halt()

	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.closed {
		return
	}
	gc.closed = true
	close(gc.C)
}

func (gc *GameClock) publish(t EventType) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.closed {
		return
	}

	select {
	case gc.C <- Event{EventType: t, ClockTime: gc.clockTime, Running: gc.running}:
	default:
	}
}

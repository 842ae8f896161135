package live

import (
	"MatchTracker/internal/clock"
	"MatchTracker/internal/config"
	"MatchTracker/internal/data"
	"MatchTracker/internal/events"
	"MatchTracker/internal/lineup"
	"MatchTracker/internal/stats"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotLive     = errors.New("game is not live")
	ErrGameNotReady    = errors.New("game has already started")
	ErrSessionClosed   = errors.New("live session is closed")
	ErrClockStopped    = errors.New("the clock must be running to record stats")
	ErrNoSelection     = errors.New("no player selected")
	ErrPlayerNotActive = errors.New("player is not on the field")
	ErrPlayerActive    = errors.New("player is already on the field")
	ErrGoalPending     = errors.New("a goal is waiting to be confirmed")
	ErrNoPendingGoal   = errors.New("no goal is waiting to be confirmed")
)

type Options struct {
	Rules  config.Rules
	Clock  clockwork.Clock
	Logger zerolog.Logger
}

// Session drives one live game: the clock, the event log and the lineup, plus the player
// selection used while recording stats.
type Session struct {
	mu     sync.Mutex
	store  data.Store
	game   *data.Game
	clock  *clock.GameClock
	log    *events.Log
	lineup *lineup.Manager
	rules  config.Rules
	logger zerolog.Logger

	selected    *int64
	pendingGoal *pendingGoal
	closed      bool
	onClose     func()
	subscribers map[chan Snapshot]struct{}
}

type pendingGoal struct {
	scorerID int64
	gameTime int
}

// Open starts a session for a game that is already live.
func Open(ctx context.Context, store data.Store, gameID int64, opts Options) (*Session, error) {
	game, err := store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if game.Status != data.GameLive {
		return nil, ErrGameNotLive
	}

	logger := opts.Logger.With().Int64("game_id", gameID).Logger()
	log, err := events.Load(ctx, store, gameID, logger)
	if err != nil {
		return nil, err
	}
	lm, err := lineup.Load(ctx, store, gameID, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		store:       store,
		game:        game,
		log:         log,
		lineup:      lm,
		rules:       opts.Rules,
		logger:      logger,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	s.clock = clock.NewGameClock(clock.Config{
		HalfLength:        game.HalfLength,
		ClockTime:         game.ClockTime,
		CheckpointSeconds: opts.Rules.CheckpointSeconds,
		Checkpoint:        s.checkpoint,
		Clock:             opts.Clock,
		Logger:            logger,
	})
	go s.forwardClock()

	logger.Info().Int("clock_time", game.ClockTime).Int("half", game.CurrentHalf).
		Msg("live session opened")
	return s, nil
}

func (s *Session) checkpoint(ctx context.Context, clockTime int) error {
	_, err := s.store.UpdateGame(ctx, s.log.GameID(), data.GameUpdate{ClockTime: &clockTime})
	return err
}

// forwardClock republishes the session on every clock change until the clock is closed.
func (s *Session) forwardClock() {
	for range s.clock.C {
		s.mu.Lock()
		s.publishLocked()
		s.mu.Unlock()
	}
}

func (s *Session) GameID() int64 {
	return s.log.GameID()
}

func (s *Session) Clock() *clock.GameClock {
	return s.clock
}

func (s *Session) Log() *events.Log {
	return s.log
}

func (s *Session) Lineup() *lineup.Manager {
	return s.lineup
}

// SelectPlayer chooses the on-field player the next stats are attributed to.
func (s *Session) SelectPlayer(playerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.pendingGoal != nil {
		return ErrGoalPending
	}
	if !s.lineup.IsActive(playerID) {
		return fmt.Errorf("%w: %d", ErrPlayerNotActive, playerID)
	}

	s.selected = &playerID
	s.publishLocked()
	return nil
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
	s.publishLocked()
}

// RecordStat attributes a stat to the selected player at the current clock reading. A goal is
// not written yet: it waits for ConfirmGoal or CancelGoal and nil is returned.
func (s *Session) RecordStat(ctx context.Context, eventType stats.EventType) (*data.Event,
	error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return nil, ErrSessionClosed
	case !eventType.Valid():
		return nil, fmt.Errorf("%w: %q", events.ErrUnknownEventType, eventType)
	case s.pendingGoal != nil:
		return nil, ErrGoalPending
	case s.selected == nil:
		return nil, ErrNoSelection
	case !s.clock.IsRunning():
		return nil, ErrClockStopped
	}

	if eventType == stats.Goal {
		s.pendingGoal = &pendingGoal{scorerID: *s.selected, gameTime: s.clock.Time()}
		s.publishLocked()
		return nil, nil
	}

	event, err := s.log.AddEvent(ctx, *s.selected, eventType, s.clock.Time(), nil)
	if err != nil {
		return nil, err
	}
	s.publishLocked()
	return event, nil
}

// ConfirmGoal writes the pending goal with an optional assist. The assister must be on the
// field and cannot be the scorer. The selection is cleared afterwards.
func (s *Session) ConfirmGoal(ctx context.Context, assisterID *int64) (*data.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}
	pending := s.pendingGoal
	if pending == nil {
		return nil, ErrNoPendingGoal
	}
	if assisterID != nil {
		if *assisterID == pending.scorerID {
			return nil, events.ErrSelfAssist
		}
		if !s.lineup.IsActive(*assisterID) {
			return nil, fmt.Errorf("%w: %d", ErrPlayerNotActive, *assisterID)
		}
	}

	goal, err := s.log.AddGoalWithAssist(ctx, pending.scorerID, assisterID, pending.gameTime)
	if err != nil {
		return nil, err
	}

	s.pendingGoal = nil
	s.selected = nil
	s.publishLocked()
	return goal, nil
}

func (s *Session) CancelGoal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingGoal == nil {
		return ErrNoPendingGoal
	}
	s.pendingGoal = nil
	s.publishLocked()
	return nil
}

// Undo removes an event and whatever is linked to it.
func (s *Session) Undo(ctx context.Context, eventID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if err := s.log.RemoveEvent(ctx, eventID); err != nil {
		return err
	}
	s.publishLocked()
	return nil
}

// Substitute swaps an on-field player for one from the bench at the current clock reading.
func (s *Session) Substitute(ctx context.Context, playerOut, playerIn int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if !s.lineup.IsActive(playerOut) {
		return fmt.Errorf("%w: %d", ErrPlayerNotActive, playerOut)
	}
	if !s.lineup.InLineup(playerIn) {
		return fmt.Errorf("%w: %d", lineup.ErrNotInLineup, playerIn)
	}
	if s.lineup.IsActive(playerIn) {
		return fmt.Errorf("%w: %d", ErrPlayerActive, playerIn)
	}

	if err := s.lineup.Substitute(ctx, playerOut, playerIn, s.clock.Time()); err != nil {
		return err
	}
	if s.selected != nil && *s.selected == playerOut {
		s.selected = nil
	}
	s.publishLocked()
	return nil
}

func (s *Session) StartClock() error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.clock.Start()
}

func (s *Session) PauseClock(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.clock.Pause(ctx)
}

func (s *Session) ToggleClock(ctx context.Context) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.clock.Toggle(ctx)
}

func (s *Session) SetClock(ctx context.Context, seconds int) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.clock.SetTime(ctx, seconds)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// EndPeriod ends the current half. After the first half the clock is reset for the second;
// after the second the game is completed and the session closes. It reports whether the game
// is over.
func (s *Session) EndPeriod(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrSessionClosed
	}
	if err := s.clock.Pause(ctx); err != nil {
		return false, err
	}
	s.pendingGoal = nil
	s.selected = nil

	if s.game.CurrentHalf < 2 {
		if err := s.clock.Reset(ctx); err != nil {
			return false, err
		}
		half := 2
		game, err := s.store.UpdateGame(ctx, s.game.ID, data.GameUpdate{CurrentHalf: &half})
		if err != nil {
			return false, err
		}
		s.game = game
		s.logger.Info().Msg("first half ended")
		s.publishLocked()
		return false, nil
	}

	completed := data.GameCompleted
	clockTime := s.clock.Time()
	game, err := s.store.UpdateGame(ctx, s.game.ID,
		data.GameUpdate{Status: &completed, ClockTime: &clockTime})
	if err != nil {
		return false, err
	}
	s.game = game
	s.logger.Info().Msg("game completed")
	s.publishLocked()
	s.closeLocked()
	return true, nil
}

// Close pauses the clock, which persists its reading, and releases the session.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	err := s.clock.Pause(ctx)
	s.closeLocked()
	return err
}

func (s *Session) closeLocked() {
	s.closed = true
	for ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, ch)
	}
	onClose := s.onClose
	s.onClose = nil
	s.clock.Close()
	if onClose != nil {
		onClose()
	}
	s.logger.Info().Msg("live session closed")
}

// Subscribe returns a channel receiving a snapshot after every change. Slow subscribers miss
// snapshots rather than blocking the session. The channel is closed with the session or by
// the returned cancel func.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 8)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
	}
}

func (s *Session) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

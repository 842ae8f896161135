package events

import (
	"MatchTracker/internal/data"
	"MatchTracker/internal/stats"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrNotOnRoster      = errors.New("player is not on the game roster")
	ErrSelfAssist       = errors.New("a player cannot assist their own goal")
)

// Log is the ordered event collection of one game. Writes go through the store first and
// only touch the in-memory collection once committed.
type Log struct {
	mu     sync.Mutex
	store  data.Store
	gameID int64
	events []*data.Event
	logger zerolog.Logger
}

func Load(ctx context.Context, store data.Store, gameID int64, logger zerolog.Logger) (*Log, error) {
	if _, err := store.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	events, err := store.GetGameEvents(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	return &Log{
		store:  store,
		gameID: gameID,
		events: events,
		logger: logger.With().Int64("game_id", gameID).Logger(),
	}, nil
}

func (l *Log) GameID() int64 {
	return l.gameID
}

// Events returns the collection in recording order.
func (l *Log) Events() []*data.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

func (l *Log) PlayerEvents(playerID int64) []*data.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := make([]*data.Event, 0)
	for _, e := range l.events {
		if e.PlayerID == playerID {
			events = append(events, e)
		}
	}
	return events
}

// LastEvents returns up to n events by game time, latest first. Events sharing a game time
// keep the order they were recorded in.
func (l *Log) LastEvents(n int) []*data.Event {
	l.mu.Lock()
	events := slices.Clone(l.events)
	l.mu.Unlock()

	slices.SortStableFunc(events, func(a, b *data.Event) int {
		return b.GameTime - a.GameTime
	})

	if n >= 0 && len(events) > n {
		events = events[:n]
	}
	return events
}

// Score derives the scoreline from the collection.
func (l *Log) Score() (home, away int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return data.Score(l.events)
}

// AddEvent records one event. A goal or goal_against also updates the game score in the same
// transaction.
func (l *Log) AddEvent(ctx context.Context, playerID int64, eventType stats.EventType,
	gameTime int, linkedEventID *int64) (*data.Event, error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}

	event := &data.Event{
		GameID:        l.gameID,
		PlayerID:      playerID,
		EventType:     eventType,
		GameTime:      gameTime,
		LinkedEventID: linkedEventID,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.Tx(ctx, func(tx data.Store) error {
		if err := l.checkRoster(ctx, tx, playerID); err != nil {
			return err
		}
		if _, err := tx.AddGameEvent(ctx, event); err != nil {
			return err
		}
		if affectsScore(eventType) {
			return l.syncScore(ctx, tx)
		}
		return nil
	})
	if err != nil {
		l.logger.Error().Err(err).Int64("player_id", playerID).Str("event_type",
			string(eventType)).Msg("failed to add event")
		return nil, err
	}

	l.events = append(l.events, event)
	return event, nil
}

// AddGoalWithAssist records a goal and, when assisterID is set, an assist linked to it. Both
// rows and the score update commit together. The goal is returned.
func (l *Log) AddGoalWithAssist(ctx context.Context, scorerID int64, assisterID *int64,
	gameTime int) (*data.Event, error) {
	if assisterID != nil && *assisterID == scorerID {
		return nil, ErrSelfAssist
	}

	goal := &data.Event{GameID: l.gameID, PlayerID: scorerID, EventType: stats.Goal,
		GameTime: gameTime}
	var assist *data.Event

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.store.Tx(ctx, func(tx data.Store) error {
		if err := l.checkRoster(ctx, tx, scorerID); err != nil {
			return err
		}
		goalID, err := tx.AddGameEvent(ctx, goal)
		if err != nil {
			return err
		}

		if assisterID != nil {
			if err := l.checkRoster(ctx, tx, *assisterID); err != nil {
				return err
			}
			assist = &data.Event{GameID: l.gameID, PlayerID: *assisterID,
				EventType: stats.Assist, GameTime: gameTime, LinkedEventID: &goalID}
			if _, err := tx.AddGameEvent(ctx, assist); err != nil {
				return err
			}
		}

		return l.syncScore(ctx, tx)
	})
	if err != nil {
		l.logger.Error().Err(err).Int64("player_id", scorerID).Msg("failed to add goal")
		return nil, err
	}

	l.events = append(l.events, goal)
	if assist != nil {
		l.events = append(l.events, assist)
	}
	return goal, nil
}

// RemoveEvent deletes an event together with the events linked to it, such as the assist of
// a goal, and re-derives the score.
func (l *Log) RemoveEvent(ctx context.Context, eventID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.events, func(e *data.Event) bool { return e.ID == eventID })
	if idx == -1 {
		return data.ErrRecordNotFound
	}
	target := l.events[idx]

	removed := map[int64]bool{eventID: true}
	scoreChanged := affectsScore(target.EventType)
	for _, e := range l.events {
		if e.LinkedEventID != nil && *e.LinkedEventID == eventID {
			removed[e.ID] = true
			scoreChanged = scoreChanged || affectsScore(e.EventType)
		}
	}

	err := l.store.Tx(ctx, func(tx data.Store) error {
		for id := range removed {
			if id == eventID {
				continue
			}
			if err := tx.DeleteGameEvent(ctx, id); err != nil {
				return err
			}
		}
		if err := tx.DeleteGameEvent(ctx, eventID); err != nil {
			return err
		}
		if scoreChanged {
			return l.syncScore(ctx, tx)
		}
		return nil
	})
	if err != nil {
		l.logger.Error().Err(err).Int64("event_id", eventID).Msg("failed to remove event")
		return err
	}

	l.events = slices.DeleteFunc(l.events, func(e *data.Event) bool { return removed[e.ID] })
	return nil
}

// checkRoster accepts players named in the game lineup, or any player of the game's team
// while no lineup has been committed.
func (l *Log) checkRoster(ctx context.Context, tx data.Store, playerID int64) error {
	lineup, err := tx.GetGameLineup(ctx, l.gameID)
	if err != nil {
		return err
	}
	if len(lineup) > 0 {
		if slices.ContainsFunc(lineup, func(e *data.LineupEntry) bool {
			return e.PlayerID == playerID
		}) {
			return nil
		}
		return fmt.Errorf("%w: %d", ErrNotOnRoster, playerID)
	}

	game, err := tx.GetGame(ctx, l.gameID)
	if err != nil {
		return err
	}
	player, err := tx.GetPlayer(ctx, playerID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", ErrNotOnRoster, playerID)
		}
		return err
	}
	if player.TeamID != game.TeamID {
		return fmt.Errorf("%w: %d", ErrNotOnRoster, playerID)
	}
	return nil
}

// syncScore rewrites the score from the committed goal and goal_against rows.
func (l *Log) syncScore(ctx context.Context, tx data.Store) error {
	events, err := tx.GetGameEvents(ctx, l.gameID)
	if err != nil {
		return err
	}
	home, away := data.Score(events)
	_, err = tx.UpdateGame(ctx, l.gameID, data.GameUpdate{HomeScore: &home, AwayScore: &away})
	return err
}

func affectsScore(t stats.EventType) bool {
	return t == stats.Goal || t == stats.GoalAgainst
}

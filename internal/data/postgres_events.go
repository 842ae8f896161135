package data

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

const eventColumns = `id, game_id, player_id, event_type, game_time, linked_event_id`

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.GameID, &e.PlayerID, &e.EventType, &e.GameTime, &e.LinkedEventID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) queryEvents(ctx context.Context, stmt string, arg int64) ([]*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, stmt, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) AddGameEvent(ctx context.Context, event *Event) (int64, error) {
	stmt := `
		INSERT INTO game_events (game_id, player_id, event_type, game_time, linked_event_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	args := []any{event.GameID, event.PlayerID, event.EventType, event.GameTime,
		event.LinkedEventID}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.q.QueryRowContext(ctx, stmt, args...).Scan(&event.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, ErrRecordNotFound
		}
		return 0, err
	}
	return event.ID, nil
}

func (s *PostgresStore) DeleteGameEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.q.ExecContext(ctx, `DELETE FROM game_events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}

func (s *PostgresStore) GetGameEvents(ctx context.Context, gameID int64) ([]*Event, error) {
	stmt := `SELECT ` + eventColumns + ` FROM game_events WHERE game_id = $1 ORDER BY id`
	return s.queryEvents(ctx, stmt, gameID)
}

func (s *PostgresStore) GetPlayerEvents(ctx context.Context, playerID int64) ([]*Event, error) {
	stmt := `SELECT ` + eventColumns + ` FROM game_events WHERE player_id = $1 ORDER BY id`
	return s.queryEvents(ctx, stmt, playerID)
}

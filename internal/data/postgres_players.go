package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func positionsArray(positions []Position) pq.StringArray {
	arr := make(pq.StringArray, len(positions))
	for i, p := range positions {
		arr[i] = string(p)
	}
	return arr
}

func fromPositionsArray(arr pq.StringArray) []Position {
	positions := make([]Position, len(arr))
	for i, p := range arr {
		positions[i] = Position(p)
	}
	return positions
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*Player, error) {
	var p Player
	var positions pq.StringArray
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.JerseyNumber, &positions, &p.CreatedAt,
		&p.Version)
	if err != nil {
		return nil, err
	}
	p.Positions = fromPositionsArray(positions)
	return &p, nil
}

func (s *PostgresStore) InsertPlayer(ctx context.Context, player *Player) error {
	stmt := `
		INSERT INTO players (team_id, name, jersey_number, positions)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`

	args := []any{player.TeamID, player.Name, player.JerseyNumber,
		positionsArray(player.Positions)}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.q.QueryRowContext(ctx, stmt, args...).Scan(&player.ID, &player.CreatedAt,
		&player.Version)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetPlayer(ctx context.Context, id int64) (*Player, error) {
	stmt := `
		SELECT id, team_id, name, jersey_number, positions, created_at, version
		FROM players
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanPlayer(s.q.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (s *PostgresStore) GetAllPlayers(ctx context.Context, teamID int64) ([]*Player, error) {
	stmt := `
		SELECT id, team_id, name, jersey_number, positions, created_at, version
		FROM players
		WHERE team_id = $1
		ORDER BY jersey_number, id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, stmt, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*Player, 0)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *PostgresStore) UpdatePlayer(ctx context.Context, player *Player) error {
	stmt := `
		UPDATE players
		SET name = $1, jersey_number = $2, positions = $3, version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING team_id, created_at, version`

	args := []any{player.Name, player.JerseyNumber, positionsArray(player.Positions),
		player.ID, player.Version}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.q.QueryRowContext(ctx, stmt, args...).Scan(&player.TeamID, &player.CreatedAt,
		&player.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := s.GetPlayer(ctx, player.ID); getErr != nil {
				return getErr
			}
			return ErrEditConflict
		}
		return err
	}
	return nil
}

// DeletePlayer refuses to remove a player who appears in any game lineup or event.
func (s *PostgresStore) DeletePlayer(ctx context.Context, id int64) error {
	stmt := `
		DELETE FROM players
		WHERE id = $1
		AND NOT EXISTS (SELECT 1 FROM game_lineups WHERE player_id = $1)
		AND NOT EXISTS (SELECT 1 FROM game_events WHERE player_id = $1)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.q.ExecContext(ctx, stmt, id)
	if err != nil {
		return err
	}
	if err := expectRows(result); err != nil {
		if _, getErr := s.GetPlayer(ctx, id); getErr != nil {
			return getErr
		}
		return ErrPlayerInUse
	}
	return nil
}

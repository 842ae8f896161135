package data

import (
	"context"
)

const lineupColumns = `id, game_id, player_id, is_starter, in_time, out_time`

func scanLineupEntry(row rowScanner) (*LineupEntry, error) {
	var e LineupEntry
	err := row.Scan(&e.ID, &e.GameID, &e.PlayerID, &e.IsStarter, &e.InTime, &e.OutTime)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *PostgresStore) queryLineups(ctx context.Context, stmt string, arg int64) ([]*LineupEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, stmt, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*LineupEntry, 0)
	for rows.Next() {
		e, err := scanLineupEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetGameLineup replaces the game's lineup with entries, assigning their ids.
func (s *PostgresStore) SetGameLineup(ctx context.Context, gameID int64, entries []*LineupEntry) error {
	return s.Tx(ctx, func(tx Store) error {
		pg := tx.(*PostgresStore)
		if _, err := pg.GetGame(ctx, gameID); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()

		_, err := pg.q.ExecContext(ctx, `DELETE FROM game_lineups WHERE game_id = $1`, gameID)
		if err != nil {
			return err
		}

		stmt := `
			INSERT INTO game_lineups (game_id, player_id, is_starter, in_time, out_time)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`

		for _, e := range entries {
			e.GameID = gameID
			err := pg.q.QueryRowContext(ctx, stmt, e.GameID, e.PlayerID, e.IsStarter, e.InTime,
				e.OutTime).Scan(&e.ID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) GetGameLineup(ctx context.Context, gameID int64) ([]*LineupEntry, error) {
	stmt := `SELECT ` + lineupColumns + ` FROM game_lineups WHERE game_id = $1 ORDER BY id`
	return s.queryLineups(ctx, stmt, gameID)
}

func (s *PostgresStore) GetPlayerLineups(ctx context.Context, playerID int64) ([]*LineupEntry, error) {
	stmt := `SELECT ` + lineupColumns + ` FROM game_lineups WHERE player_id = $1 ORDER BY id`
	return s.queryLineups(ctx, stmt, playerID)
}

func (s *PostgresStore) UpdateLineupEntry(ctx context.Context, id int64, update LineupUpdate) error {
	stmt := `
		UPDATE game_lineups
		SET in_time = CASE WHEN $1::boolean THEN $2::integer ELSE in_time END,
			out_time = CASE
				WHEN $3::boolean THEN NULL
				WHEN $4::boolean THEN $5::integer
				ELSE out_time END
		WHERE id = $6`

	args := []any{update.InTime != nil, update.InTime, update.ClearOutTime,
		update.OutTime != nil, update.OutTime, id}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return err
	}
	return expectRows(result)
}

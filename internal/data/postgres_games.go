package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

const gameColumns = `id, team_id, date, opponent, status, home_score, away_score, half_length,
	clock_time, current_half, created_at`

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.TeamID, &g.Date, &g.Opponent, &g.Status, &g.HomeScore,
		&g.AwayScore, &g.HalfLength, &g.ClockTime, &g.CurrentHalf, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) InsertGame(ctx context.Context, game *Game) error {
	game.setDefaults()

	stmt := `
		INSERT INTO games (team_id, date, opponent, status, home_score, away_score, half_length,
			clock_time, current_half)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	args := []any{game.TeamID, game.Date, game.Opponent, game.Status, game.HomeScore,
		game.AwayScore, game.HalfLength, game.ClockTime, game.CurrentHalf}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.q.QueryRowContext(ctx, stmt, args...).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetGame(ctx context.Context, id int64) (*Game, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM games WHERE id = $1`, gameColumns)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	g, err := scanGame(s.q.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *PostgresStore) GetAllGames(ctx context.Context, teamID int64) ([]*Game, error) {
	stmt := fmt.Sprintf(`
		SELECT %s
		FROM games
		WHERE team_id = $1
		ORDER BY date DESC, id DESC`, gameColumns)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, stmt, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// UpdateGame writes only the columns present in update, so a clock checkpoint never
// overwrites a score written by a concurrent event.
func (s *PostgresStore) UpdateGame(ctx context.Context, id int64, update GameUpdate) (*Game, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Date != nil {
		set("date", *update.Date)
	}
	if update.Opponent != nil {
		set("opponent", *update.Opponent)
	}
	if update.Status != nil {
		set("status", *update.Status)
	}
	if update.HomeScore != nil {
		set("home_score", *update.HomeScore)
	}
	if update.AwayScore != nil {
		set("away_score", *update.AwayScore)
	}
	if update.HalfLength != nil {
		set("half_length", *update.HalfLength)
	}
	if update.ClockTime != nil {
		set("clock_time", *update.ClockTime)
	}
	if update.CurrentHalf != nil {
		set("current_half", *update.CurrentHalf)
	}

	if len(sets) == 0 {
		return s.GetGame(ctx, id)
	}

	args = append(args, id)
	stmt := fmt.Sprintf(`
		UPDATE games
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(sets, ", "), len(args), gameColumns)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	g, err := scanGame(s.q.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

// DeleteGame removes the game; lineups and events go with it through ON DELETE CASCADE.
func (s *PostgresStore) DeleteGame(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.q.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRows(result)
}

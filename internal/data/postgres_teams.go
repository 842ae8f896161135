package data

import (
	"context"
	"database/sql"
	"errors"
)

func (s *PostgresStore) InsertTeam(ctx context.Context, team *Team) error {
	stmt := `
		INSERT INTO teams (name)
		VALUES ($1)
		RETURNING id, created_at, version`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.q.QueryRowContext(ctx, stmt, team.Name).Scan(&team.ID, &team.CreatedAt, &team.Version)
}

func (s *PostgresStore) GetTeam(ctx context.Context, id int64) (*Team, error) {
	stmt := `
		SELECT id, name, created_at, version
		FROM teams
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var team Team
	err := s.q.QueryRowContext(ctx, stmt, id).Scan(&team.ID, &team.Name, &team.CreatedAt,
		&team.Version)
	if err != nil {
		return nil, notFound(err)
	}
	return &team, nil
}

func (s *PostgresStore) GetAllTeams(ctx context.Context) ([]*Team, error) {
	stmt := `
		SELECT id, name, created_at, version
		FROM teams
		ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.q.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*Team, 0)
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.Version); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) UpdateTeam(ctx context.Context, team *Team) error {
	stmt := `
		UPDATE teams
		SET name = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := s.q.QueryRowContext(ctx, stmt, team.Name, team.ID, team.Version).Scan(&team.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := s.GetTeam(ctx, team.ID); getErr != nil {
				return getErr
			}
			return ErrEditConflict
		}
		return err
	}
	return nil
}

// DeleteTeam removes the team with its players and games; the last team cannot be removed.
func (s *PostgresStore) DeleteTeam(ctx context.Context, id int64) error {
	return s.Tx(ctx, func(tx Store) error {
		pg := tx.(*PostgresStore)

		ctx, cancel := context.WithTimeout(ctx, queryTimeout)
		defer cancel()

		var count int
		err := pg.q.QueryRowContext(ctx, `SELECT count(*) FROM teams`).Scan(&count)
		if err != nil {
			return err
		}
		if _, err := pg.GetTeam(ctx, id); err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastTeam
		}

		result, err := pg.q.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
		if err != nil {
			return err
		}
		return expectRows(result)
	})
}

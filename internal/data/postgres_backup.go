package data

import (
	"context"
	"fmt"
	"time"
)

func (s *PostgresStore) Export(ctx context.Context) (*Backup, error) {
	b := &Backup{Version: BackupVersion, ExportDate: time.Now().UTC()}

	err := s.Tx(ctx, func(tx Store) error {
		pg := tx.(*PostgresStore)

		teams, err := pg.GetAllTeams(ctx)
		if err != nil {
			return err
		}
		b.Data.Teams = teams

		for _, team := range teams {
			players, err := pg.GetAllPlayers(ctx, team.ID)
			if err != nil {
				return err
			}
			b.Data.Players = append(b.Data.Players, players...)

			games, err := pg.GetAllGames(ctx, team.ID)
			if err != nil {
				return err
			}
			b.Data.Games = append(b.Data.Games, games...)
		}

		for _, game := range b.Data.Games {
			lineup, err := pg.GetGameLineup(ctx, game.ID)
			if err != nil {
				return err
			}
			b.Data.GameLineups = append(b.Data.GameLineups, lineup...)

			events, err := pg.GetGameEvents(ctx, game.ID)
			if err != nil {
				return err
			}
			b.Data.GameEvents = append(b.Data.GameEvents, events...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Import clears every table and loads the backup with its original ids.
func (s *PostgresStore) Import(ctx context.Context, backup *Backup) error {
	if err := backup.prepare(); err != nil {
		return err
	}

	return s.Tx(ctx, func(tx Store) error {
		pg := tx.(*PostgresStore)

		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		_, err := pg.q.ExecContext(ctx, `
			TRUNCATE teams, players, games, game_lineups, game_events RESTART IDENTITY CASCADE`)
		if err != nil {
			return err
		}

		for _, t := range backup.Data.Teams {
			_, err := pg.q.ExecContext(ctx,
				`INSERT INTO teams (id, name, created_at) VALUES ($1, $2, $3)`,
				t.ID, t.Name, t.CreatedAt)
			if err != nil {
				return fmt.Errorf("import team %d: %w", t.ID, err)
			}
		}

		for _, p := range backup.Data.Players {
			_, err := pg.q.ExecContext(ctx, `
				INSERT INTO players (id, team_id, name, jersey_number, positions, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				p.ID, p.TeamID, p.Name, p.JerseyNumber, positionsArray(p.Positions), p.CreatedAt)
			if err != nil {
				return fmt.Errorf("import player %d: %w", p.ID, err)
			}
		}

		for _, g := range backup.Data.Games {
			g.setDefaults()
			_, err := pg.q.ExecContext(ctx, `
				INSERT INTO games (id, team_id, date, opponent, status, home_score, away_score,
					half_length, clock_time, current_half, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				g.ID, g.TeamID, g.Date, g.Opponent, g.Status, g.HomeScore, g.AwayScore,
				g.HalfLength, g.ClockTime, g.CurrentHalf, g.CreatedAt)
			if err != nil {
				return fmt.Errorf("import game %d: %w", g.ID, err)
			}
		}

		for _, e := range backup.Data.GameLineups {
			_, err := pg.q.ExecContext(ctx, `
				INSERT INTO game_lineups (id, game_id, player_id, is_starter, in_time, out_time)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				e.ID, e.GameID, e.PlayerID, e.IsStarter, e.InTime, e.OutTime)
			if err != nil {
				return fmt.Errorf("import lineup entry %d: %w", e.ID, err)
			}
		}

		for _, e := range backup.Data.GameEvents {
			_, err := pg.q.ExecContext(ctx, `
				INSERT INTO game_events (id, game_id, player_id, event_type, game_time,
					linked_event_id)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				e.ID, e.GameID, e.PlayerID, e.EventType, e.GameTime, e.LinkedEventID)
			if err != nil {
				return fmt.Errorf("import event %d: %w", e.ID, err)
			}
		}

		for _, table := range []string{"teams", "players", "games", "game_lineups", "game_events"} {
			_, err := pg.q.ExecContext(ctx, fmt.Sprintf(`
				SELECT setval(pg_get_serial_sequence('%[1]s', 'id'),
					COALESCE((SELECT MAX(id) FROM %[1]s), 0) + 1, false)`, table))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

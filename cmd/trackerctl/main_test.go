package main

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/data"
	"MatchTracker/internal/stats"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeSeason writes a backup holding one completed game and returns its path.
func writeSeason(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	store := data.NewMemoryStore()

	team := &data.Team{Name: "Riverside"}
	if err := store.InsertTeam(ctx, team); err != nil {
		t.Fatal(err)
	}
	player := &data.Player{TeamID: team.ID, Name: "Striker", JerseyNumber: 9,
		Positions: []data.Position{data.PositionFWD}}
	if err := store.InsertPlayer(ctx, player); err != nil {
		t.Fatal(err)
	}
	game := &data.Game{TeamID: team.ID, Date: time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Opponent: "Northside"}
	if err := store.InsertGame(ctx, game); err != nil {
		t.Fatal(err)
	}

	in := 0
	err := store.SetGameLineup(ctx, game.ID, []*data.LineupEntry{
		{GameID: game.ID, PlayerID: player.ID, IsStarter: true, InTime: &in},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddGameEvent(ctx, &data.Event{GameID: game.ID, PlayerID: player.ID,
		EventType: stats.Goal, GameTime: 600}); err != nil {
		t.Fatal(err)
	}
	completed, home, clockTime := data.GameCompleted, 1, 2100
	_, err = store.UpdateGame(ctx, game.ID, data.GameUpdate{Status: &completed,
		HomeScore: &home, ClockTime: &clockTime})
	if err != nil {
		t.Fatal(err)
	}

	backup, err := store.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "backup.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := backup.Write(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportFromBackup(t *testing.T) {
	path := writeSeason(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "Game JSON",
			args: []string{"report", "game", "1", "--from-backup", path},
			want: `"home_score": 1`,
		},
		{
			name: "Game CSV",
			args: []string{"report", "game", "1", "--format", "csv", "--from-backup", path},
			want: "Riverside vs Northside - 2026-09-05",
		},
		{
			name: "Player",
			args: []string{"report", "player", "1", "--from-backup", path},
			want: `"games_played": 1`,
		},
		{
			name: "Team",
			args: []string{"report", "team", "1", "--from-backup", path},
			want: `"wins": 1`,
		},
		{
			name: "Export",
			args: []string{"backup", "export", "--from-backup", path},
			want: `"gameEvents"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			assert.NilError(t, err)
			assert.StringContains(t, out, tt.want)
		})
	}
}

func TestReportErrors(t *testing.T) {
	path := writeSeason(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "Bad ID",
			args: []string{"report", "game", "x", "--from-backup", path},
			want: "invalid id",
		},
		{
			name: "Unknown Game",
			args: []string{"report", "game", "7", "--from-backup", path},
			want: "record not found",
		},
		{
			name: "Bad Format",
			args: []string{"report", "game", "1", "--format", "xml", "--from-backup", path},
			want: "unknown format",
		},
		{
			name: "No Database",
			args: []string{"migrate", "--dsn", ""},
			want: "a database is required",
		},
		{
			name: "Import Needs File",
			args: []string{"backup", "import"},
			want: "--in is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			assert.StringContains(t, err.Error(), tt.want)
		})
	}
}

func TestRulesCheck(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(valid, []byte("starters: 7\nhalf_length: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	invalid := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(invalid, []byte("starters: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "rules", "check", valid)
	assert.NilError(t, err)
	assert.StringContains(t, out, "starters: 7")
	assert.StringContains(t, out, "recent_events: 5")

	_, err = run(t, "rules", "check", invalid)
	if err == nil {
		t.Fatal("expected an error")
	}
	assert.StringContains(t, err.Error(), "invalid rules file")
}

package data

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/validator"
	"context"
	"testing"
)

func TestValidateTeam(t *testing.T) {
	tests := []struct {
		name      string
		teamName  string
		wantValid bool
	}{
		{name: "Valid", teamName: "Riverside U12", wantValid: true},
		{name: "Trimmed Empty", teamName: "   ", wantValid: false},
		{name: "Too Long", teamName: "Riverside Rovers Under Twelve Girls Premier Division X", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateTeam(v, &Team{Name: tt.teamName})
			assert.Equal(t, v.Valid(), tt.wantValid)
		})
	}
}

func TestDeleteTeam(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &Team{Name: "First"}
	assert.NilError(t, s.InsertTeam(ctx, first))
	assert.ErrorIs(t, s.DeleteTeam(ctx, first.ID), ErrLastTeam)

	second := &Team{Name: "Second"}
	assert.NilError(t, s.InsertTeam(ctx, second))
	player := &Player{TeamID: second.ID, Name: "Ana", JerseyNumber: 9,
		Positions: []Position{PositionFWD}}
	assert.NilError(t, s.InsertPlayer(ctx, player))
	game := seedGame(t, s, second.ID)
	assert.NilError(t, s.SetGameLineup(ctx, game.ID, []*LineupEntry{{PlayerID: player.ID}}))

	assert.NilError(t, s.DeleteTeam(ctx, second.ID))

	_, err := s.GetPlayer(ctx, player.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	_, err = s.GetGame(ctx, game.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	lineup, err := s.GetPlayerLineups(ctx, player.ID)
	assert.NilError(t, err)
	assert.Equal(t, len(lineup), 0)

	teams, err := s.GetAllTeams(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(teams), 1)
	assert.ErrorIs(t, s.DeleteTeam(ctx, 99), ErrRecordNotFound)
}

func TestUpdateTeamConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	team := &Team{Name: "Old"}
	assert.NilError(t, s.InsertTeam(ctx, team))

	stale := *team
	team.Name = "New"
	assert.NilError(t, s.UpdateTeam(ctx, team))
	assert.Equal(t, team.Version, int32(2))

	stale.Name = "Stale"
	assert.ErrorIs(t, s.UpdateTeam(ctx, &stale), ErrEditConflict)

	got, err := s.GetTeam(ctx, team.ID)
	assert.NilError(t, err)
	assert.Equal(t, got.Name, "New")
}

package data

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/validator"
	"testing"
)

func TestValidatePlayer(t *testing.T) {
	tests := []struct {
		name      string
		player    Player
		wantField string
	}{
		{
			name:   "Valid",
			player: Player{TeamID: 1, Name: "Ana", JerseyNumber: 9, Positions: []Position{PositionFWD}},
		},
		{
			name:      "Missing Name",
			player:    Player{TeamID: 1, JerseyNumber: 9, Positions: []Position{PositionFWD}},
			wantField: "name",
		},
		{
			name:      "Jersey Too High",
			player:    Player{TeamID: 1, Name: "Ana", JerseyNumber: 100, Positions: []Position{PositionFWD}},
			wantField: "jersey_number",
		},
		{
			name:      "No Positions",
			player:    Player{TeamID: 1, Name: "Ana"},
			wantField: "positions",
		},
		{
			name:      "Unknown Position",
			player:    Player{TeamID: 1, Name: "Ana", Positions: []Position{"ST"}},
			wantField: "positions",
		},
		{
			name:      "Duplicate Position",
			player:    Player{TeamID: 1, Name: "Ana", Positions: []Position{PositionGK, PositionGK}},
			wantField: "positions",
		},
		{
			name:      "Missing Team",
			player:    Player{Name: "Ana", Positions: []Position{PositionGK}},
			wantField: "team_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidatePlayer(v, &tt.player)
			if tt.wantField == "" {
				assert.Equal(t, v.Valid(), true)
				return
			}
			_, ok := v.Errors[tt.wantField]
			assert.Equal(t, ok, true)
		})
	}
}

package data

import (
	"MatchTracker/internal/validator"
	"strings"
	"time"
)

const DefaultTeamName = "My Team"

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Version   int32     `json:"-"`
}

func ValidateTeam(v *validator.Validator, team *Team) {
	team.Name = strings.TrimSpace(team.Name)
	v.Check(team.Name != "", "name", "must be provided")
	v.Check(len(team.Name) <= 50, "name", "must be 50 characters or less")
}

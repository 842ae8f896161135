package data

import (
	"MatchTracker/internal/validator"
	"cmp"
	json2 "encoding/json"
	"slices"
	"strings"
	"time"
)

type Position string

const (
	PositionGK  Position = "GK"
	PositionDEF Position = "DEF"
	PositionMID Position = "MID"
	PositionFWD Position = "FWD"
)

var Positions = []Position{PositionGK, PositionDEF, PositionMID, PositionFWD}

type Player struct {
	ID           int64      `json:"id"`
	TeamID       int64      `json:"team_id"`
	Name         string     `json:"name"`
	JerseyNumber int        `json:"jersey_number"`
	Positions    []Position `json:"positions"`
	CreatedAt    time.Time  `json:"created_at"`
	Version      int32      `json:"-"`
}

func (p *Player) HasPosition(pos Position) bool {
	return slices.Contains(p.Positions, pos)
}

// UnmarshalJSON accepts records written before players could hold several positions: a single
// "position" becomes a one-element list and a missing one defaults to MID.
func (p *Player) UnmarshalJSON(b []byte) error {
	type plain Player
	var aux struct {
		plain
		Position Position `json:"position"`
	}
	if err := json2.Unmarshal(b, &aux); err != nil {
		return err
	}

	*p = Player(aux.plain)
	if len(p.Positions) == 0 {
		if aux.Position != "" {
			p.Positions = []Position{aux.Position}
		} else {
			p.Positions = []Position{PositionMID}
		}
	}
	return nil
}

func ValidatePlayer(v *validator.Validator, player *Player) {
	player.Name = strings.TrimSpace(player.Name)
	v.Check(player.TeamID > 0, "team_id", "must be provided")

	v.Check(player.Name != "", "name", "must be provided")
	v.Check(len(player.Name) <= 50, "name", "must be 50 characters or less")

	v.Check(player.JerseyNumber >= 0, "jersey_number", "must be 0 or greater")
	v.Check(player.JerseyNumber < 100, "jersey_number", "must be less than 100")

	v.Check(len(player.Positions) > 0, "positions", "must contain at least one position")
	v.Check(validator.Unique(player.Positions), "positions", "must not contain duplicates")
	for _, pos := range player.Positions {
		v.Check(validator.PermittedValue(pos, Positions...), "positions",
			`must be selected from the following: "GK","DEF","MID","FWD"`)
	}
}

func sortPlayers(players []*Player) {
	slices.SortStableFunc(players, func(a, b *Player) int {
		if c := cmp.Compare(a.JerseyNumber, b.JerseyNumber); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

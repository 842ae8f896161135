package data

import (
	"MatchTracker/internal/validator"
	"cmp"
	"slices"
	"strings"
	"time"
)

type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameLive      GameStatus = "live"
	GameCompleted GameStatus = "completed"
)

const DefaultHalfLength = 35

type Game struct {
	ID          int64      `json:"id"`
	TeamID      int64      `json:"team_id"`
	Date        time.Time  `json:"date"`
	Opponent    string     `json:"opponent"`
	Status      GameStatus `json:"status"`
	HomeScore   int        `json:"home_score"`
	AwayScore   int        `json:"away_score"`
	HalfLength  int        `json:"half_length"`
	ClockTime   int        `json:"clock_time"`
	CurrentHalf int        `json:"current_half"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Result reports "W", "D" or "L" for a completed game and "" otherwise.
func (g *Game) Result() string {
	if g.Status != GameCompleted {
		return ""
	}
	switch {
	case g.HomeScore > g.AwayScore:
		return "W"
	case g.HomeScore < g.AwayScore:
		return "L"
	default:
		return "D"
	}
}

// GameUpdate is a partial update; nil fields are left untouched.
type GameUpdate struct {
	Date        *time.Time
	Opponent    *string
	Status      *GameStatus
	HomeScore   *int
	AwayScore   *int
	HalfLength  *int
	ClockTime   *int
	CurrentHalf *int
}

func (u GameUpdate) apply(g *Game) {
	if u.Date != nil {
		g.Date = *u.Date
	}
	if u.Opponent != nil {
		g.Opponent = *u.Opponent
	}
	if u.Status != nil {
		g.Status = *u.Status
	}
	if u.HomeScore != nil {
		g.HomeScore = *u.HomeScore
	}
	if u.AwayScore != nil {
		g.AwayScore = *u.AwayScore
	}
	if u.HalfLength != nil {
		g.HalfLength = *u.HalfLength
	}
	if u.ClockTime != nil {
		g.ClockTime = *u.ClockTime
	}
	if u.CurrentHalf != nil {
		g.CurrentHalf = *u.CurrentHalf
	}
}

// setDefaults fills the fields a freshly scheduled game starts with.
func (g *Game) setDefaults() {
	if g.Status == "" {
		g.Status = GameScheduled
	}
	if g.HalfLength == 0 {
		g.HalfLength = DefaultHalfLength
	}
	if g.CurrentHalf == 0 {
		g.CurrentHalf = 1
	}
}

func ValidateGame(v *validator.Validator, game *Game) {
	game.Opponent = strings.TrimSpace(game.Opponent)
	v.Check(game.TeamID > 0, "team_id", "must be provided")
	v.Check(!game.Date.IsZero(), "date", "must be provided")

	v.Check(game.Opponent != "", "opponent", "must be provided")
	v.Check(len(game.Opponent) <= 50, "opponent", "must be 50 characters or less")

	v.Check(game.HalfLength >= 0, "half_length", "must not be negative")
	v.Check(game.HalfLength <= 90, "half_length", "must be 90 minutes or less")

	if game.Status != "" {
		v.Check(validator.PermittedValue(game.Status, GameScheduled, GameLive, GameCompleted),
			"status", `must be selected from the following: "scheduled","live","completed"`)
	}
}

func ValidateGameUpdate(v *validator.Validator, u GameUpdate) {
	if u.Opponent != nil {
		v.Check(strings.TrimSpace(*u.Opponent) != "", "opponent", "must be provided")
	}
	if u.HalfLength != nil {
		v.Check(*u.HalfLength > 0 && *u.HalfLength <= 90, "half_length",
			"must be between 1 and 90 minutes")
	}
	if u.Status != nil {
		v.Check(validator.PermittedValue(*u.Status, GameScheduled, GameLive, GameCompleted),
			"status", `must be selected from the following: "scheduled","live","completed"`)
	}
	if u.CurrentHalf != nil {
		v.Check(*u.CurrentHalf == 1 || *u.CurrentHalf == 2, "current_half", "must be 1 or 2")
	}
	if u.ClockTime != nil {
		v.Check(*u.ClockTime >= 0, "clock_time", "must be 0 or greater")
	}
}

// sortGames orders games newest first.
func sortGames(games []*Game) {
	slices.SortStableFunc(games, func(a, b *Game) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

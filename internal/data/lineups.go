package data

import "MatchTracker/internal/stats"

type LineupEntry struct {
	ID        int64 `json:"id"`
	GameID    int64 `json:"game_id"`
	PlayerID  int64 `json:"player_id"`
	IsStarter bool  `json:"is_starter"`
	InTime    *int  `json:"in_time"`
	OutTime   *int  `json:"out_time"`
}

func (e *LineupEntry) Span() (in, out *int) {
	return e.InTime, e.OutTime
}

// IsActive reports whether the player is currently on the field.
func (e *LineupEntry) IsActive() bool {
	return e.InTime != nil && e.OutTime == nil
}

func (e *LineupEntry) clone() *LineupEntry {
	c := *e
	if e.InTime != nil {
		in := *e.InTime
		c.InTime = &in
	}
	if e.OutTime != nil {
		out := *e.OutTime
		c.OutTime = &out
	}
	return &c
}

// LineupUpdate is a partial update. ClearOutTime sets OutTime back to null and wins over
// OutTime.
type LineupUpdate struct {
	InTime       *int
	OutTime      *int
	ClearOutTime bool
}

func (u LineupUpdate) apply(e *LineupEntry) {
	if u.InTime != nil {
		in := *u.InTime
		e.InTime = &in
	}
	if u.OutTime != nil {
		out := *u.OutTime
		e.OutTime = &out
	}
	if u.ClearOutTime {
		e.OutTime = nil
	}
}

// SecondsPlayed returns a player's on-field seconds for one game from their lineup entries.
func SecondsPlayed(entries []*LineupEntry, game *Game) int {
	return stats.CalculateSecondsPlayed(entries, game.ClockTime, game.Status == GameLive)
}

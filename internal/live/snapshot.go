package live

import (
	"MatchTracker/internal/clock"
	"MatchTracker/internal/data"
	"MatchTracker/internal/stats"
)

type PlayerLine struct {
	PlayerID      int64  `json:"player_id"`
	Active        bool   `json:"active"`
	MiniStats     string `json:"mini_stats"`
	SecondsPlayed int    `json:"seconds_played"`
	PlayingTime   string `json:"playing_time"`
}

// Snapshot is the state of the live screen.
type Snapshot struct {
	GameID         int64           `json:"game_id"`
	Status         data.GameStatus `json:"status"`
	HomeScore      int             `json:"home_score"`
	AwayScore      int             `json:"away_score"`
	Half           int             `json:"half"`
	ClockTime      int             `json:"clock_time"`
	Clock          string          `json:"clock"`
	Running        bool            `json:"running"`
	PastHalfLength bool            `json:"past_half_length"`
	Active         []int64         `json:"active"`
	Bench          []int64         `json:"bench"`
	Selected       *int64          `json:"selected"`
	PendingGoal    *int64          `json:"pending_goal"`
	RecentEvents   []*data.Event   `json:"recent_events"`
	Players        []PlayerLine    `json:"players"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	home, away := s.log.Score()
	clockTime := s.clock.Time()
	live := s.game.Status == data.GameLive

	snap := Snapshot{
		GameID:         s.game.ID,
		Status:         s.game.Status,
		HomeScore:      home,
		AwayScore:      away,
		Half:           s.game.CurrentHalf,
		ClockTime:      clockTime,
		Clock:          clock.Format(clockTime),
		Running:        s.clock.IsRunning(),
		PastHalfLength: s.clock.IsPastHalfLength(),
		Active:         s.lineup.ActivePlayerIDs(),
		Bench:          s.lineup.BenchPlayerIDs(),
		RecentEvents:   s.log.LastEvents(s.rules.RecentEvents),
	}
	if s.selected != nil {
		id := *s.selected
		snap.Selected = &id
	}
	if s.pendingGoal != nil {
		id := s.pendingGoal.scorerID
		snap.PendingGoal = &id
	}

	ids := append(append([]int64{}, snap.Active...), snap.Bench...)
	snap.Players = make([]PlayerLine, 0, len(ids))
	for _, id := range ids {
		seconds := stats.CalculateSecondsPlayed(s.lineup.PlayerEntries(id), clockTime, live)
		snap.Players = append(snap.Players, PlayerLine{
			PlayerID:      id,
			Active:        s.lineup.IsActive(id),
			MiniStats:     stats.GenerateMiniStatLine(stats.CalculatePlayerStats(s.log.PlayerEvents(id))),
			SecondsPlayed: seconds,
			PlayingTime:   stats.FormatPlayingTime(seconds),
		})
	}
	return snap
}

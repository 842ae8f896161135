package report

import (
	"MatchTracker/internal/data"
	"MatchTracker/internal/stats"
	"cmp"
	"context"
	"slices"
)

const LeaderboardLimit = 5

type PlayerLine struct {
	Player        *data.Player   `json:"player"`
	SecondsPlayed int            `json:"seconds_played"`
	PlayingTime   string         `json:"playing_time"`
	MiniStats     string         `json:"mini_stats"`
	Stats         stats.Statline `json:"stats"`
}

// Totals are the team-wide numbers of one or several games. Possession is the share of
// completed passes against opponent passes.
type Totals struct {
	Stats          stats.Statline `json:"stats"`
	OpponentPasses int            `json:"opponent_passes"`
	Possession     *int           `json:"possession"`
}

func totals(events []*data.Event) Totals {
	line := stats.AggregateStats(events)
	return Totals{
		Stats:          line,
		OpponentPasses: line.Counts[stats.OpponentPass],
		Possession: stats.CalculatePossession(line.Counts[stats.PassComplete],
			line.Counts[stats.OpponentPass]),
	}
}

type GameReport struct {
	Game    *data.Game   `json:"game"`
	Players []PlayerLine `json:"players"`
	Totals  Totals       `json:"totals"`
}

// Game reports every player named in the lineup of a game, most minutes first.
func Game(ctx context.Context, store data.Store, gameID int64) (*GameReport, error) {
	game, err := store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	players, err := store.GetAllPlayers(ctx, game.TeamID)
	if err != nil {
		return nil, err
	}
	lineup, err := store.GetGameLineup(ctx, gameID)
	if err != nil {
		return nil, err
	}
	events, err := store.GetGameEvents(ctx, gameID)
	if err != nil {
		return nil, err
	}

	lines := make([]PlayerLine, 0, len(lineup))
	for _, p := range players {
		entries := filter(lineup, func(e *data.LineupEntry) bool { return e.PlayerID == p.ID })
		if len(entries) == 0 {
			continue
		}
		seconds := data.SecondsPlayed(entries, game)
		line := stats.AggregateStats(filter(events, func(e *data.Event) bool {
			return e.PlayerID == p.ID
		}))
		lines = append(lines, PlayerLine{
			Player:        p,
			SecondsPlayed: seconds,
			PlayingTime:   stats.FormatPlayingTime(seconds),
			MiniStats:     stats.GenerateMiniStatLine(line.Counts),
			Stats:         line,
		})
	}
	slices.SortStableFunc(lines, func(a, b PlayerLine) int {
		return cmp.Compare(b.SecondsPlayed, a.SecondsPlayed)
	})

	return &GameReport{Game: game, Players: lines, Totals: totals(events)}, nil
}

type GameLine struct {
	Game          *data.Game   `json:"game"`
	Result        string       `json:"result"`
	SecondsPlayed int          `json:"seconds_played"`
	Counts        stats.Counts `json:"counts"`
}

type PlayerReport struct {
	Player        *data.Player   `json:"player"`
	GamesPlayed   int            `json:"games_played"`
	SecondsPlayed int            `json:"seconds_played"`
	MinutesPlayed int            `json:"minutes_played"`
	PlayingTime   string         `json:"playing_time"`
	Stats         stats.Statline `json:"stats"`
	Games         []GameLine     `json:"games"`
}

// Player totals a player's season over the completed games they were named for.
func Player(ctx context.Context, store data.Store, playerID int64) (*PlayerReport, error) {
	player, err := store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	games, err := completedGames(ctx, store, player.TeamID)
	if err != nil {
		return nil, err
	}
	lineups, err := store.GetPlayerLineups(ctx, playerID)
	if err != nil {
		return nil, err
	}
	events, err := store.GetPlayerEvents(ctx, playerID)
	if err != nil {
		return nil, err
	}

	report := &PlayerReport{Player: player, Games: make([]GameLine, 0)}
	var seasonEvents []*data.Event
	for _, g := range games {
		entries := filter(lineups, func(e *data.LineupEntry) bool { return e.GameID == g.ID })
		if len(entries) == 0 {
			continue
		}
		gameEvents := filter(events, func(e *data.Event) bool { return e.GameID == g.ID })
		seasonEvents = append(seasonEvents, gameEvents...)

		seconds := data.SecondsPlayed(entries, g)
		report.GamesPlayed++
		report.SecondsPlayed += seconds
		report.Games = append(report.Games, GameLine{
			Game:          g,
			Result:        g.Result(),
			SecondsPlayed: seconds,
			Counts:        stats.CalculatePlayerStats(gameEvents),
		})
	}

	report.MinutesPlayed = stats.CalculateMinutesPlayed(report.SecondsPlayed)
	report.PlayingTime = stats.FormatPlayingTimeLong(report.SecondsPlayed)
	report.Stats = stats.AggregateStats(seasonEvents)
	return report, nil
}

type Record struct {
	Games        int `json:"games"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
}

type Leaderboard struct {
	Name    string                   `json:"name"`
	Entries []stats.LeaderboardEntry `json:"entries"`
}

type TeamReport struct {
	Team         *data.Team    `json:"team"`
	Record       Record        `json:"record"`
	Totals       Totals        `json:"totals"`
	Leaderboards []Leaderboard `json:"leaderboards"`
}

var leaderboardStats = []struct {
	name string
	key  stats.EventType
}{
	{"goals", stats.Goal},
	{"assists", stats.Assist},
	{"passes", stats.PassComplete},
	{"tackles", stats.Tackle},
	{"saves", stats.Save},
}

// Team reports the season of a team over its completed games.
func Team(ctx context.Context, store data.Store, teamID int64) (*TeamReport, error) {
	team, err := store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	games, err := completedGames(ctx, store, teamID)
	if err != nil {
		return nil, err
	}

	report := &TeamReport{Team: team}
	var events []*data.Event
	playerCounts := make(map[int64]stats.Counts)
	playerSeconds := make(map[int64]int)

	for _, g := range games {
		report.Record.Games++
		switch g.Result() {
		case "W":
			report.Record.Wins++
		case "D":
			report.Record.Draws++
		case "L":
			report.Record.Losses++
		}
		report.Record.GoalsFor += g.HomeScore
		report.Record.GoalsAgainst += g.AwayScore

		gameEvents, err := store.GetGameEvents(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		lineup, err := store.GetGameLineup(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		events = append(events, gameEvents...)

		for _, e := range gameEvents {
			if playerCounts[e.PlayerID] == nil {
				playerCounts[e.PlayerID] = stats.Counts{}
			}
			if e.EventType.Valid() {
				playerCounts[e.PlayerID][e.EventType]++
			}
		}
		byPlayer := make(map[int64][]*data.LineupEntry)
		for _, e := range lineup {
			byPlayer[e.PlayerID] = append(byPlayer[e.PlayerID], e)
		}
		for id, entries := range byPlayer {
			playerSeconds[id] += data.SecondsPlayed(entries, g)
		}
	}

	report.Totals = totals(events)
	for _, ls := range leaderboardStats {
		report.Leaderboards = append(report.Leaderboards, Leaderboard{
			Name:    ls.name,
			Entries: stats.GetLeaderboard(playerCounts, ls.key, LeaderboardLimit),
		})
	}
	report.Leaderboards = append(report.Leaderboards, Leaderboard{
		Name:    "playing_time",
		Entries: rank(playerSeconds, LeaderboardLimit),
	})
	return report, nil
}

// rank orders positive values descending with ties by ascending player id.
func rank(values map[int64]int, limit int) []stats.LeaderboardEntry {
	entries := make([]stats.LeaderboardEntry, 0, len(values))
	for id, v := range values {
		if v > 0 {
			entries = append(entries, stats.LeaderboardEntry{PlayerID: id, Value: v})
		}
	}
	slices.SortFunc(entries, func(a, b stats.LeaderboardEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func completedGames(ctx context.Context, store data.Store, teamID int64) ([]*data.Game, error) {
	games, err := store.GetAllGames(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return filter(games, func(g *data.Game) bool { return g.Status == data.GameCompleted }), nil
}

func filter[T any](values []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

package report

import (
	"MatchTracker/internal/stats"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var gameCSVHeader = []string{
	"Player", "Number", "Position", "Time (MM:SS)", "Seconds",
	"Passes", "Pass%", "Crosses", "Cross%",
	"Key Passes", "Assists", "Chances",
	"Shots", "Shot%", "Scoring%", "Goals",
	"Take-ons", "Dribble%",
	"Tackles", "Interceptions", "Clearances", "Headers",
	"Saves", "Goals Against",
	"Poss Lost", "Fouls", "Opp Fouls",
}

// WriteCSV writes the game report as a spreadsheet: a title block followed by one row per
// player.
func (r *GameReport) WriteCSV(w io.Writer, teamName string) error {
	cw := csv.NewWriter(w)

	possession := ""
	if r.Totals.Possession != nil {
		possession = fmt.Sprintf("Team Possession: %d%%", *r.Totals.Possession)
	}
	head := [][]string{
		{fmt.Sprintf("%s vs %s - %s", teamName, r.Game.Opponent, r.Game.Date.Format("2006-01-02"))},
		{fmt.Sprintf("Final Score: %d - %d", r.Game.HomeScore, r.Game.AwayScore)},
		{possession},
		{""},
		gameCSVHeader,
	}
	if err := cw.WriteAll(head); err != nil {
		return err
	}

	for _, line := range r.Players {
		c, d := line.Stats.Counts, line.Stats.Derived
		positions := make([]string, len(line.Player.Positions))
		for i, p := range line.Player.Positions {
			positions[i] = string(p)
		}

		row := []string{
			line.Player.Name,
			strconv.Itoa(line.Player.JerseyNumber),
			strings.Join(positions, "/"),
			line.PlayingTime,
			strconv.Itoa(line.SecondsPlayed),
			strconv.Itoa(c[stats.PassComplete]),
			stats.FormatStatValue(d.PassCompletion, true),
			strconv.Itoa(c[stats.CrossComplete]),
			stats.FormatStatValue(d.CrossSuccess, true),
			strconv.Itoa(c[stats.KeyPass]),
			strconv.Itoa(c[stats.Assist]),
			strconv.Itoa(c[stats.ChanceCreated]),
			strconv.Itoa(d.TotalShots),
			stats.FormatStatValue(d.ShotAccuracy, true),
			stats.FormatStatValue(d.ScoringRate, true),
			strconv.Itoa(c[stats.Goal]),
			strconv.Itoa(d.TotalTakeOns),
			stats.FormatStatValue(d.DribbleSuccess, true),
			strconv.Itoa(c[stats.Tackle]),
			strconv.Itoa(c[stats.Interception]),
			strconv.Itoa(c[stats.Clearance]),
			strconv.Itoa(c[stats.Header]),
			strconv.Itoa(c[stats.Save]),
			strconv.Itoa(c[stats.GoalAgainst]),
			strconv.Itoa(c[stats.PossessionLost]),
			strconv.Itoa(c[stats.Foul]),
			strconv.Itoa(c[stats.OpponentFoul]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

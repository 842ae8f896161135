package stats

import (
	"cmp"
	"slices"
)

type LeaderboardEntry struct {
	PlayerID int64 `json:"player_id"`
	Value    int   `json:"value"`
}

// GetLeaderboard ranks players by a single tag. Zero values are dropped and ties are ordered by
// ascending player id.
func GetLeaderboard(playerStats map[int64]Counts, key EventType, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(playerStats))
	for id, counts := range playerStats {
		if v := counts[key]; v > 0 {
			entries = append(entries, LeaderboardEntry{PlayerID: id, Value: v})
		}
	}

	slices.SortFunc(entries, func(a, b LeaderboardEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

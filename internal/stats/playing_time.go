package stats

import (
	"fmt"
	"math"
)

// Stint is one on-field interval. A nil in time means the player never entered; a nil out
// time means the interval is still open.
type Stint interface {
	Span() (in, out *int)
}

// CalculateSecondsPlayed sums closed intervals. Open intervals run to currentClockTime while
// the game is live and count as zero otherwise.
func CalculateSecondsPlayed[S Stint](entries []S, currentClockTime int, live bool) int {
	total := 0
	for _, e := range entries {
		in, out := e.Span()
		if in == nil {
			continue
		}

		end := *in
		switch {
		case out != nil:
			end = *out
		case live:
			end = currentClockTime
		}

		total += max(0, end-*in)
	}
	return total
}

func CalculateMinutesPlayed(seconds int) int {
	return int(math.Floor(float64(seconds)/60 + 0.5))
}

// FormatPlayingTime renders seconds as M:SS.
func FormatPlayingTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatPlayingTimeLong renders seconds as H:MM:SS once past an hour.
func FormatPlayingTimeLong(seconds int) string {
	hours := seconds / 3600
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, (seconds%3600)/60, seconds%60)
	}
	return FormatPlayingTime(seconds)
}

package stats

// Derived holds percentages and totals computed from Counts. Percentages are nil when their
// denominator is zero.
type Derived struct {
	PassCompletion       *int `json:"pass_completion"`
	ShotAccuracy         *int `json:"shot_accuracy"`
	ScoringRate          *int `json:"scoring_rate"`
	CrossSuccess         *int `json:"cross_success"`
	DribbleSuccess       *int `json:"dribble_success"`
	TotalShots           int  `json:"total_shots"`
	TotalTakeOns         int  `json:"total_take_ons"`
	TotalPassesCompleted int  `json:"total_passes_completed"`
	Goals                int  `json:"goals"`
	Assists              int  `json:"assists"`
}

func CalculateDerivedStats(c Counts) Derived {
	totalShots := c[ShotOnTarget] + c[ShotOffTarget]
	totalTakeOns := c[TakeOnSuccess] + c[TakeOnFail]

	return Derived{
		PassCompletion:       percent(c[PassComplete], c[PassComplete]+c[PassIncomplete]),
		ShotAccuracy:         percent(c[ShotOnTarget], totalShots),
		ScoringRate:          percent(c[Goal], c[ShotOnTarget]),
		CrossSuccess:         percent(c[CrossComplete], c[CrossComplete]+c[CrossIncomplete]),
		DribbleSuccess:       percent(c[TakeOnSuccess], totalTakeOns),
		TotalShots:           totalShots,
		TotalTakeOns:         totalTakeOns,
		TotalPassesCompleted: c[PassComplete],
		Goals:                c[Goal],
		Assists:              c[Assist],
	}
}

// CalculatePossession is a pass-share proxy, not a measured possession clock.
func CalculatePossession(ourCompletedPasses, opponentPasses int) *int {
	return percent(ourCompletedPasses, ourCompletedPasses+opponentPasses)
}

package stats

import (
	"MatchTracker/internal/assert"
	"testing"
)

type testEvent EventType

func (e testEvent) Type() EventType { return EventType(e) }

func events(types ...EventType) []testEvent {
	out := make([]testEvent, len(types))
	for i, t := range types {
		out[i] = testEvent(t)
	}
	return out
}

func intPtr(i int) *int { return &i }

func TestCalculatePlayerStats(t *testing.T) {
	tests := []struct {
		name   string
		events []testEvent
		want   map[EventType]int
		total  int
	}{
		{
			name:   "Empty",
			events: nil,
			want:   map[EventType]int{Goal: 0, PassComplete: 0},
			total:  0,
		},
		{
			name:   "Known Types",
			events: events(PassComplete, PassComplete, Goal, Tackle, OpponentPass),
			want:   map[EventType]int{PassComplete: 2, Goal: 1, Tackle: 1, OpponentPass: 1, Save: 0},
			total:  5,
		},
		{
			name:   "Unknown Types Ignored",
			events: events(Goal, "bicycle_kick", ""),
			want:   map[EventType]int{Goal: 1},
			total:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := CalculatePlayerStats(tt.events)
			assert.Equal(t, len(counts), len(Taxonomy))
			for k, v := range tt.want {
				assert.Equal(t, counts[k], v)
			}
			assert.Equal(t, counts.Total(), tt.total)
			_, unknown := counts["bicycle_kick"]
			assert.Equal(t, unknown, false)
		})
	}
}

func TestTaxonomy(t *testing.T) {
	assert.Equal(t, len(Taxonomy), 22)
	assert.Equal(t, Goal.Valid(), true)
	assert.Equal(t, EventType("dunk").Valid(), false)
	assert.Equal(t, GoalAgainst.Category(), CategoryGoalkeeper)
	assert.Equal(t, EventType("dunk").Label(), "dunk")

	grouped := ByCategory()
	assert.SliceEqual(t, grouped[CategoryShooting], []EventType{ShotOnTarget, ShotOffTarget, Goal})
	assert.Equal(t, len(grouped[CategoryPassing]), 7)
	assert.Equal(t, len(grouped[CategoryOther]), 4)
}

func TestCalculateDerivedStats(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   Derived
	}{
		{
			name:   "No Events",
			counts: Counts{},
			want:   Derived{},
		},
		{
			name: "Round Half Up",
			counts: Counts{
				PassComplete:   1,
				PassIncomplete: 1,
				ShotOnTarget:   1,
				ShotOffTarget:  7,
				Goal:           1,
			},
			want: Derived{
				PassCompletion:       intPtr(50),
				ShotAccuracy:         intPtr(13),
				ScoringRate:          intPtr(100),
				TotalShots:           8,
				TotalPassesCompleted: 1,
				Goals:                1,
			},
		},
		{
			name: "Two Thirds",
			counts: Counts{
				CrossComplete:   2,
				CrossIncomplete: 1,
				TakeOnSuccess:   1,
				TakeOnFail:      2,
				Assist:          3,
			},
			want: Derived{
				CrossSuccess:   intPtr(67),
				DribbleSuccess: intPtr(33),
				TotalTakeOns:   3,
				Assists:        3,
			},
		},
		{
			name:   "Goals Without Shots On Target",
			counts: Counts{Goal: 2, ShotOffTarget: 1},
			want: Derived{
				ShotAccuracy: intPtr(0),
				TotalShots:   1,
				Goals:        2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDerivedStats(tt.counts)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestCalculatePossession(t *testing.T) {
	assert.IntPtrEqual(t, CalculatePossession(0, 0), nil)
	assert.IntPtrEqual(t, CalculatePossession(30, 10), intPtr(75))
	assert.IntPtrEqual(t, CalculatePossession(0, 4), intPtr(0))
	assert.IntPtrEqual(t, CalculatePossession(1, 2), intPtr(33))
}

func TestGetLeaderboard(t *testing.T) {
	playerStats := map[int64]Counts{
		1: {Goal: 3},
		2: {Goal: 3},
		3: {Goal: 1},
		4: {Goal: 0, Assist: 2},
	}

	tests := []struct {
		name  string
		key   EventType
		limit int
		want  []LeaderboardEntry
	}{
		{
			name:  "Ties By Player ID",
			key:   Goal,
			limit: 5,
			want:  []LeaderboardEntry{{1, 3}, {2, 3}, {3, 1}},
		},
		{
			name:  "Limit",
			key:   Goal,
			limit: 1,
			want:  []LeaderboardEntry{{1, 3}},
		},
		{
			name:  "Zero Filtered",
			key:   Assist,
			limit: 5,
			want:  []LeaderboardEntry{{4, 2}},
		},
		{
			name:  "Nobody",
			key:   Save,
			limit: 5,
			want:  []LeaderboardEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.SliceEqual(t, GetLeaderboard(playerStats, tt.key, tt.limit), tt.want)
		})
	}
}

func TestGenerateMiniStatLine(t *testing.T) {
	tests := []struct {
		name   string
		events []testEvent
		want   string
	}{
		{name: "Nothing", events: nil, want: "-"},
		{name: "Only Unlisted", events: events(Foul, Header), want: "-"},
		{
			name:   "Passes Shots Goals",
			events: events(PassComplete, PassComplete, PassComplete, ShotOnTarget, Goal),
			want:   "3P 1S 1G",
		},
		{
			name:   "Shots Include Misses",
			events: events(ShotOnTarget, ShotOffTarget),
			want:   "2S",
		},
		{
			name:   "Four Parts Max",
			events: events(PassComplete, ShotOffTarget, Goal, Assist, Tackle, Save),
			want:   "1P 1S 1G 1A",
		},
		{name: "Keeper", events: events(Save, Save), want: "2SV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, GenerateMiniStatLine(CalculatePlayerStats(tt.events)), tt.want)
		})
	}
}

func TestAggregateStats(t *testing.T) {
	line := AggregateStats(events(PassComplete, PassIncomplete, PassComplete, Goal))
	assert.Equal(t, line.Counts[PassComplete], 2)
	assert.IntPtrEqual(t, line.Derived.PassCompletion, intPtr(67))
	assert.Equal(t, line.Derived.Goals, 1)

	sum := Counts{Goal: 1}.Add(Counts{Goal: 2, Save: 1, "nope": 4})
	assert.Equal(t, sum[Goal], 3)
	assert.Equal(t, sum[Save], 1)
	assert.Equal(t, sum.Total(), 4)
}

func TestFormatStatValue(t *testing.T) {
	assert.Equal(t, FormatStatValue(nil, true), "-")
	assert.Equal(t, FormatStatValue(intPtr(67), true), "67%")
	assert.Equal(t, FormatStatValue(intPtr(4), false), "4")
}

package stats

import (
	"fmt"
	"strings"
)

// Typed is anything carrying a taxonomy tag, normally a recorded game event.
type Typed interface {
	Type() EventType
}

// Counts holds a count for every taxonomy tag.
type Counts map[EventType]int

func newCounts() Counts {
	counts := make(Counts, len(Taxonomy))
	for _, d := range Taxonomy {
		counts[d.Type] = 0
	}
	return counts
}

// CalculatePlayerStats counts events per tag. Unknown tags are skipped.
func CalculatePlayerStats[E Typed](events []E) Counts {
	counts := newCounts()
	for _, e := range events {
		if _, ok := counts[e.Type()]; ok {
			counts[e.Type()]++
		}
	}
	return counts
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Add merges other into a copy of c.
func (c Counts) Add(other Counts) Counts {
	sum := newCounts()
	for k, v := range c {
		sum[k] += v
	}
	for k, v := range other {
		if _, ok := sum[k]; ok {
			sum[k] += v
		}
	}
	return sum
}

type Statline struct {
	Counts  Counts  `json:"counts"`
	Derived Derived `json:"derived"`
}

// AggregateStats totals events, typically spanning several games, and derives percentages.
func AggregateStats[E Typed](events []E) Statline {
	counts := CalculatePlayerStats(events)
	return Statline{
		Counts:  counts,
		Derived: CalculateDerivedStats(counts),
	}
}

// GenerateMiniStatLine builds the short tile summary, e.g. "3P 1S 1G".
func GenerateMiniStatLine(c Counts) string {
	parts := make([]string, 0, 6)

	if c[PassComplete] > 0 {
		parts = append(parts, fmt.Sprintf("%dP", c[PassComplete]))
	}
	if shots := c[ShotOnTarget] + c[ShotOffTarget]; shots > 0 {
		parts = append(parts, fmt.Sprintf("%dS", shots))
	}
	if c[Goal] > 0 {
		parts = append(parts, fmt.Sprintf("%dG", c[Goal]))
	}
	if c[Assist] > 0 {
		parts = append(parts, fmt.Sprintf("%dA", c[Assist]))
	}
	if c[Tackle] > 0 {
		parts = append(parts, fmt.Sprintf("%dT", c[Tackle]))
	}
	if c[Save] > 0 {
		parts = append(parts, fmt.Sprintf("%dSV", c[Save]))
	}

	if len(parts) == 0 {
		return "-"
	}
	if len(parts) > 4 {
		parts = parts[:4]
	}
	return strings.Join(parts, " ")
}

package stats

import "fmt"

// percent returns round-half-up(100*num/den), or nil when den is zero.
func percent(num, den int) *int {
	if den <= 0 {
		return nil
	}
	p := (200*num + den) / (2 * den)
	return &p
}

// FormatStatValue renders a possibly-missing value, "-" when nil.
func FormatStatValue(value *int, isPercentage bool) string {
	if value == nil {
		return "-"
	}
	if isPercentage {
		return fmt.Sprintf("%d%%", *value)
	}
	return fmt.Sprintf("%d", *value)
}

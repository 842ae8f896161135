package validator

import (
	"MatchTracker/internal/assert"
	"testing"
)

func TestValidator(t *testing.T) {
	v := New()
	v.Check(true, "name", "must be provided")
	assert.Equal(t, v.Valid(), true)

	v.Check(false, "name", "must be provided")
	v.Check(false, "name", "second message")
	assert.Equal(t, v.Valid(), false)
	assert.Equal(t, v.Errors["name"], "must be provided")
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{name: "Permitted", got: PermittedValue("GK", "GK", "DEF"), want: true},
		{name: "Not Permitted", got: PermittedValue("ST", "GK", "DEF"), want: false},
		{name: "Unique", got: Unique([]int64{1, 2, 3}), want: true},
		{name: "Duplicate", got: Unique([]int64{1, 2, 1}), want: false},
		{name: "Subset", got: Subset([]int64{1, 3}, []int64{1, 2, 3}), want: true},
		{name: "Not Subset", got: Subset([]int64{1, 4}, []int64{1, 2, 3}), want: false},
		{name: "Empty Subset", got: Subset([]int64{}, []int64{1}), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.got, tt.want)
		})
	}
}

package gamehub

import (
	"MatchTracker/internal/assert"
	"MatchTracker/internal/stats"
	json2 "encoding/json"
	"testing"
)

func TestParseCommand(t *testing.T) {
	nine := int64(9)

	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr error
	}{
		{name: "Select", input: `{"type":"select","player_id":7}`,
			want: SelectCommand{PlayerID: 7}},
		{name: "Stat", input: `{"type":"stat","stat":"tackle"}`,
			want: StatCommand{Stat: stats.Tackle}},
		{name: "Unknown Stat", input: `{"type":"stat","stat":"nutmeg"}`,
			wantErr: ErrCommandValidationFailed},
		{name: "Goal Assisted", input: `{"type":"goal","assister_id":9}`,
			want: GoalCommand{AssisterID: &nine}},
		{name: "Goal Unassisted", input: `{"type":"goal","assister_id":null}`,
			want: GoalCommand{}},
		{name: "Goal Bad Assister", input: `{"type":"goal","assister_id":"9"}`,
			wantErr: ErrValueNotAsserted},
		{name: "Cancel Goal", input: `{"type":"cancel_goal"}`, want: CancelGoalCommand{}},
		{name: "Undo", input: `{"type":"undo","event_id":12}`, want: UndoCommand{EventID: 12}},
		{name: "Undo Fractional", input: `{"type":"undo","event_id":1.5}`,
			wantErr: ErrValueNotAsserted},
		{name: "Sub", input: `{"type":"sub","out":1,"in":3}`,
			want: SubstitutionCommand{Out: 1, In: 3}},
		{name: "Sub Same Player", input: `{"type":"sub","out":1,"in":1}`,
			wantErr: ErrCommandValidationFailed},
		{name: "Sub Missing In", input: `{"type":"sub","out":1}`, wantErr: ErrNoValueForKey},
		{name: "Clock Toggle", input: `{"type":"clock","action":"toggle"}`,
			want: ClockCommand{Action: clockToggle}},
		{name: "Clock Set", input: `{"type":"clock","action":"set","value":"12:30"}`,
			want: ClockCommand{Action: clockSet, Value: "12:30"}},
		{name: "Clock Set Invalid", input: `{"type":"clock","action":"set","value":"12:75"}`,
			wantErr: ErrCommandValidationFailed},
		{name: "Clock Unknown", input: `{"type":"clock","action":"rewind"}`,
			wantErr: ErrCommandValidationFailed},
		{name: "End Period", input: `{"type":"end_period"}`, want: EndPeriodCommand{}},
		{name: "Unknown Type", input: `{"type":"dance"}`, wantErr: ErrCommandParseFailed},
		{name: "Missing Type", input: `{"player_id":7}`, wantErr: ErrNoValueForKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var generic GenericCommand
			if err := json2.Unmarshal([]byte(tt.input), &generic); err != nil {
				t.Fatal(err)
			}

			got, err := generic.parseCommand()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

package gamehub

import (
	"MatchTracker/internal/clock"
	"MatchTracker/internal/live"
	"MatchTracker/internal/stats"
	"context"
	"fmt"
)

// Command is an instruction sent by a keeper and applied to the live session.
type Command interface {
	execute(ctx context.Context, s *live.Session) error
}

type CommandType string

const (
	cmdSelect     CommandType = "select"
	cmdStat       CommandType = "stat"
	cmdGoal       CommandType = "goal"
	cmdCancelGoal CommandType = "cancel_goal"
	cmdUndo       CommandType = "undo"
	cmdSub        CommandType = "sub"
	cmdClock      CommandType = "clock"
	cmdEndPeriod  CommandType = "end_period"
)

type GenericCommand map[string]any

func (c GenericCommand) parseCommand() (Command, error) {
	commandType, err := checkAndAssertStringFromMap(c, "type")
	if err != nil {
		return nil, fmt.Errorf("%w: type: %w", ErrCommandParseFailed, err)
	}

	switch CommandType(commandType) {
	case cmdSelect:
		id, err := checkAndAssertInt64FromMap(c, "player_id")
		if err != nil {
			return nil, fmt.Errorf("%w: player_id: %w", ErrCommandParseFailed, err)
		}
		return SelectCommand{PlayerID: id}, nil

	case cmdStat:
		stat, err := checkAndAssertStringFromMap(c, "stat")
		if err != nil {
			return nil, fmt.Errorf("%w: stat: %w", ErrCommandParseFailed, err)
		}
		cmd := StatCommand{Stat: stats.EventType(stat)}
		return cmd, cmd.validate()

	case cmdGoal:
		assister, err := checkAndAssertOptionalInt64FromMap(c, "assister_id")
		if err != nil {
			return nil, fmt.Errorf("%w: assister_id: %w", ErrCommandParseFailed, err)
		}
		return GoalCommand{AssisterID: assister}, nil

	case cmdCancelGoal:
		return CancelGoalCommand{}, nil

	case cmdUndo:
		id, err := checkAndAssertInt64FromMap(c, "event_id")
		if err != nil {
			return nil, fmt.Errorf("%w: event_id: %w", ErrCommandParseFailed, err)
		}
		return UndoCommand{EventID: id}, nil

	case cmdSub:
		out, err := checkAndAssertInt64FromMap(c, "out")
		if err != nil {
			return nil, fmt.Errorf("%w: out: %w", ErrCommandParseFailed, err)
		}
		in, err := checkAndAssertInt64FromMap(c, "in")
		if err != nil {
			return nil, fmt.Errorf("%w: in: %w", ErrCommandParseFailed, err)
		}
		cmd := SubstitutionCommand{Out: out, In: in}
		return cmd, cmd.validate()

	case cmdClock:
		action, err := checkAndAssertStringFromMap(c, "action")
		if err != nil {
			return nil, fmt.Errorf("%w: action: %w", ErrCommandParseFailed, err)
		}
		cmd := ClockCommand{Action: ClockAction(action)}
		if value, err := checkAndAssertStringFromMap(c, "value"); err == nil {
			cmd.Value = clock.Duration(value)
		}
		return cmd, cmd.validate()

	case cmdEndPeriod:
		return EndPeriodCommand{}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrCommandParseFailed, commandType)
}

type SelectCommand struct {
	PlayerID int64
}

func (c SelectCommand) execute(_ context.Context, s *live.Session) error {
	return s.SelectPlayer(c.PlayerID)
}

type StatCommand struct {
	Stat stats.EventType
}

func (c StatCommand) validate() error {
	if !c.Stat.Valid() {
		return fmt.Errorf("%w: unknown stat %q", ErrCommandValidationFailed, c.Stat)
	}
	return nil
}

func (c StatCommand) execute(ctx context.Context, s *live.Session) error {
	_, err := s.RecordStat(ctx, c.Stat)
	return err
}

// GoalCommand confirms the pending goal. A nil AssisterID records it unassisted.
type GoalCommand struct {
	AssisterID *int64
}

func (c GoalCommand) execute(ctx context.Context, s *live.Session) error {
	_, err := s.ConfirmGoal(ctx, c.AssisterID)
	return err
}

type CancelGoalCommand struct{}

func (CancelGoalCommand) execute(_ context.Context, s *live.Session) error {
	return s.CancelGoal()
}

type UndoCommand struct {
	EventID int64
}

func (c UndoCommand) execute(ctx context.Context, s *live.Session) error {
	return s.Undo(ctx, c.EventID)
}

type SubstitutionCommand struct {
	Out int64
	In  int64
}

func (c SubstitutionCommand) validate() error {
	if c.Out == c.In {
		return fmt.Errorf("%w: a player cannot replace themselves", ErrCommandValidationFailed)
	}
	return nil
}

func (c SubstitutionCommand) execute(ctx context.Context, s *live.Session) error {
	return s.Substitute(ctx, c.Out, c.In)
}

type ClockAction string

const (
	clockStart  ClockAction = "start"
	clockPause  ClockAction = "pause"
	clockToggle ClockAction = "toggle"
	clockSet    ClockAction = "set"
)

type ClockCommand struct {
	Action ClockAction
	Value  clock.Duration
}

func (c ClockCommand) validate() error {
	switch c.Action {
	case clockStart, clockPause, clockToggle:
		return nil
	case clockSet:
		if _, err := c.Value.Seconds(); err != nil {
			return fmt.Errorf("%w: value: %w", ErrCommandValidationFailed, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown clock action %q", ErrCommandValidationFailed, c.Action)
}

func (c ClockCommand) execute(ctx context.Context, s *live.Session) error {
	switch c.Action {
	case clockStart:
		return s.StartClock()
	case clockPause:
		return s.PauseClock(ctx)
	case clockToggle:
		return s.ToggleClock(ctx)
	}

	seconds, err := c.Value.Seconds()
	if err != nil {
		return err
	}
	return s.SetClock(ctx, seconds)
}

type EndPeriodCommand struct{}

func (EndPeriodCommand) execute(ctx context.Context, s *live.Session) error {
	_, err := s.EndPeriod(ctx)
	return err
}

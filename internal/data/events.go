package data

import "MatchTracker/internal/stats"

type Event struct {
	ID            int64           `json:"id"`
	GameID        int64           `json:"game_id"`
	PlayerID      int64           `json:"player_id"`
	EventType     stats.EventType `json:"event_type"`
	GameTime      int             `json:"game_time"`
	LinkedEventID *int64          `json:"linked_event_id"`
}

func (e *Event) Type() stats.EventType {
	return e.EventType
}

func (e *Event) clone() *Event {
	c := *e
	if e.LinkedEventID != nil {
		id := *e.LinkedEventID
		c.LinkedEventID = &id
	}
	return &c
}

// Score counts goal and goal_against events.
func Score(events []*Event) (home, away int) {
	for _, e := range events {
		switch e.EventType {
		case stats.Goal:
			home++
		case stats.GoalAgainst:
			away++
		}
	}
	return home, away
}

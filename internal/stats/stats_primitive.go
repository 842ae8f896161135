package stats

// EventType is a tag from the fixed stat taxonomy. Tags are persisted and exported verbatim.
type EventType string

const (
	PassComplete    EventType = "pass_complete"
	PassIncomplete  EventType = "pass_incomplete"
	CrossComplete   EventType = "cross_complete"
	CrossIncomplete EventType = "cross_incomplete"
	KeyPass         EventType = "key_pass"
	Assist          EventType = "assist"
	ChanceCreated   EventType = "chance_created"

	ShotOnTarget  EventType = "shot_on_target"
	ShotOffTarget EventType = "shot_off_target"
	Goal          EventType = "goal"

	TakeOnSuccess EventType = "takeon_success"
	TakeOnFail    EventType = "takeon_fail"

	Tackle       EventType = "tackle"
	Interception EventType = "interception"
	Clearance    EventType = "clearance"
	Header       EventType = "header"

	Save        EventType = "save"
	GoalAgainst EventType = "goal_against"

	PossessionLost EventType = "possession_lost"
	Foul           EventType = "foul"
	OpponentFoul   EventType = "opponent_foul"
	OpponentPass   EventType = "opponent_pass"
)

type Category string

const (
	CategoryPassing    Category = "passing"
	CategoryShooting   Category = "shooting"
	CategoryDribbling  Category = "dribbling"
	CategoryDefending  Category = "defending"
	CategoryGoalkeeper Category = "goalkeeper"
	CategoryOther      Category = "other"
)

// Definition describes how a tag is shown on the stat panel.
type Definition struct {
	Type     EventType `json:"type"`
	Label    string    `json:"label"`
	Category Category  `json:"category"`
	Abbrev   string    `json:"abbrev"`
}

// Taxonomy lists every known tag in panel order.
var Taxonomy = []Definition{
	{PassComplete, "Pass ✓", CategoryPassing, "P+"},
	{PassIncomplete, "Pass ✗", CategoryPassing, "P-"},
	{CrossComplete, "Cross ✓", CategoryPassing, "X+"},
	{CrossIncomplete, "Cross ✗", CategoryPassing, "X-"},
	{KeyPass, "Key Pass", CategoryPassing, "KP"},
	{Assist, "Assist", CategoryPassing, "A"},
	{ChanceCreated, "Chance", CategoryPassing, "CC"},
	{ShotOnTarget, "Shot On", CategoryShooting, "SO"},
	{ShotOffTarget, "Shot Off", CategoryShooting, "SM"},
	{Goal, "⚽ GOAL", CategoryShooting, "G"},
	{TakeOnSuccess, "Take-on ✓", CategoryDribbling, "TO+"},
	{TakeOnFail, "Take-on ✗", CategoryDribbling, "TO-"},
	{Tackle, "Tackle", CategoryDefending, "T"},
	{Interception, "Intercept", CategoryDefending, "I"},
	{Clearance, "Clear", CategoryDefending, "C"},
	{Header, "Header", CategoryDefending, "H"},
	{Save, "Save", CategoryGoalkeeper, "SV"},
	{GoalAgainst, "Goal Against", CategoryGoalkeeper, "GA"},
	{PossessionLost, "Poss Lost", CategoryOther, "PL"},
	{Foul, "Foul", CategoryOther, "F"},
	{OpponentFoul, "Opp Foul", CategoryOther, "OF"},
	{OpponentPass, "Opp Pass", CategoryOther, "OP"},
}

var definitions = func() map[EventType]Definition {
	m := make(map[EventType]Definition, len(Taxonomy))
	for _, d := range Taxonomy {
		m[d.Type] = d
	}
	return m
}()

func (t EventType) Valid() bool {
	_, ok := definitions[t]
	return ok
}

// Label returns the panel label, or the raw tag for unknown types.
func (t EventType) Label() string {
	if d, ok := definitions[t]; ok {
		return d.Label
	}
	return string(t)
}

func (t EventType) Category() Category {
	return definitions[t].Category
}

// ByCategory groups the taxonomy for stat panels.
func ByCategory() map[Category][]EventType {
	grouped := make(map[Category][]EventType)
	for _, d := range Taxonomy {
		grouped[d.Category] = append(grouped[d.Category], d.Type)
	}
	return grouped
}

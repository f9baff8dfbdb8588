// Package matchdata holds the raw per-event snapshot supplied by the match
// data provider and derives the structured MatchFacts the settlement
// algorithms consume.
package matchdata

// Score descriptions used by the provider's scores-by-period array.
const (
	ScoreFirstHalf      = "1ST_HALF"
	ScoreSecondHalfOnly = "2ND_HALF_ONLY"
	ScoreCurrent        = "CURRENT"
)

// legacyHalfTime are older half-time labels still found in archived snapshots.
var legacyHalfTime = map[string]bool{
	"HALFTIME":  true,
	"HALF_TIME": true,
	"HT":        true,
}

// Event type ids.
const (
	EventGoal    = 14
	EventOwnGoal = 15
	EventPenalty = 16
)

// Statistic type ids (team statistics and lineup details).
const (
	StatCorners       = 34
	StatShotsTotal    = 42
	StatShotsOnTarget = 86
)

// StateFinished is the provider's state id for a finished match.
const StateFinished = 5

// finishedStates are recognised synonyms of the finished state, compared
// case-insensitively against the state code, name and developer name.
var finishedStates = map[string]bool{
	"ft":               true,
	"aet":              true,
	"ft_pen":           true,
	"full time":        true,
	"finished":         true,
	"ended":            true,
	"after extra time": true,
	"after penalties":  true,
}

// Snapshot is a raw match record as produced by the fixture/live ingestion
// pipeline.
type Snapshot struct {
	ID           string        `json:"id"`
	Name         string        `json:"name,omitempty"`
	StateID      int           `json:"state_id"`
	State        *State        `json:"state,omitempty"`
	Participants []Participant `json:"participants,omitempty"`
	Scores       []ScoreEntry  `json:"scores,omitempty"`
	Events       []Event       `json:"events,omitempty"`
	Statistics   []Statistic   `json:"statistics,omitempty"`
	Lineups      []LineupEntry `json:"lineups,omitempty"`
}

// State describes the match state.
type State struct {
	State         string `json:"state"`
	Name          string `json:"name"`
	DeveloperName string `json:"developer_name"`
}

// Participant is one of the two teams.
type Participant struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Meta ParticipantMeta `json:"meta"`
}

// ParticipantMeta carries the home/away location of a participant.
type ParticipantMeta struct {
	Location string `json:"location"` // "home" or "away"
}

// ScoreEntry is one per-side entry of the scores-by-period array.
type ScoreEntry struct {
	ParticipantID int64      `json:"participant_id"`
	Description   string     `json:"description"`
	Score         ScoreValue `json:"score"`
}

// ScoreValue is the goal count of a score entry.
type ScoreValue struct {
	Goals       int    `json:"goals"`
	Participant string `json:"participant"` // "home" or "away"
}

// Event is one entry of the match event stream.
type Event struct {
	ID            int64  `json:"id"`
	TypeID        int    `json:"type_id"`
	ParticipantID int64  `json:"participant_id"`
	PlayerID      int64  `json:"player_id,omitempty"`
	PlayerName    string `json:"player_name,omitempty"`
	Minute        int    `json:"minute"`
	ExtraMinute   *int   `json:"extra_minute,omitempty"`
	Result        string `json:"result,omitempty"`
}

// Statistic is a typed numeric value, either per team or per lineup entry.
type Statistic struct {
	TypeID        int      `json:"type_id"`
	ParticipantID int64    `json:"participant_id,omitempty"`
	Location      string   `json:"location,omitempty"`
	Data          StatData `json:"data"`
}

// StatData wraps the statistic value.
type StatData struct {
	Value float64 `json:"value"`
}

// LineupEntry is one player of a team sheet with their statistic details.
type LineupEntry struct {
	PlayerID   int64       `json:"player_id"`
	PlayerName string      `json:"player_name"`
	TeamID     int64       `json:"team_id"`
	Details    []Statistic `json:"details,omitempty"`
}

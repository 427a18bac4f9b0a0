package models

// RosterSize is the number of player slots every team carries
const RosterSize = 8

// Gender values are stored verbatim in backups, so they keep the labels used on the entry forms
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "Lelaki"
	GenderFemale Gender = "Wanita"
)

// Match pairs two teams within a round. Team2 is nil when Team1 has a bye
type Match struct {
	Team1 string  `json:"team1"`
	Team2 *string `json:"team2"`
}

// Round is a set of matches played at the same time
type Round []Match

// Schedule is the ordered list of rounds for a tournament
type Schedule []Round

// MatchResult holds the score of one event within a match. Either side may be unset while scores are being entered
type MatchResult struct {
	Team1Score *float64 `json:"team1Score"`
	Team2Score *float64 `json:"team2Score"`
}

// Results maps match keys (see MatchKey) to recorded scores
type Results map[string]MatchResult

// Player fills one roster slot on a team
type Player struct {
	Name      string `json:"name"`
	Gender    Gender `json:"gender"`
	IsManager bool   `json:"isManager"`
	IsCoach   bool   `json:"isCoach"`
}

// PlayerAssignments lists the players a team fields for each event
type PlayerAssignments map[string][]string

// Team is a participant in the tournament
type Team struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Roster  []Player          `json:"roster"`
	Players PlayerAssignments `json:"players"`
}

// StorageEngine is a backing that persists the teams and recorded results of a tournament
type StorageEngine interface {
	GetTeams() ([]Team, error)     // Teams in the order they were registered
	GetResults() (Results, error)
	SaveTeams(teams []Team) error // Replaces the stored team list
	SaveResult(key string, result MatchResult) error
	Replace(teams []Team, results Results) error // Swap out everything, used for restores
	Close() error
}

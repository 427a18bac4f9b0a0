package models

import "fmt"

// MatchKey builds the key a score for a single event of a match is recorded under.
// Score entry and standings both depend on this exact format.
func MatchKey(event string, roundIndex int, team1, team2 string) string {
	return fmt.Sprintf("%s-%d-%s-vs-%s", event, roundIndex, team1, team2)
}

// IsBye determines if a match is a bye, and so never scored
func (m Match) IsBye() bool {
	return m.Team2 == nil
}

// Opponent returns the team playing against team in this match, or false if team isn't in the match or has a bye
func (m Match) Opponent(team string) (string, bool) {
	if m.IsBye() {
		return "", false
	}
	switch team {
	case m.Team1:
		return *m.Team2, true
	case *m.Team2:
		return m.Team1, true
	}
	return "", false
}

// Key returns the match key for the given event in round roundIndex. Byes have no key
func (m Match) Key(event string, roundIndex int) (string, bool) {
	if m.IsBye() {
		return "", false
	}
	return MatchKey(event, roundIndex, m.Team1, *m.Team2), true
}

// Complete reports whether both scores have been entered
func (r MatchResult) Complete() bool {
	return r.Team1Score != nil && r.Team2Score != nil
}

// Lookup returns the result recorded for a key, only if it is complete
func (r Results) Lookup(key string) (MatchResult, bool) {
	result, ok := r[key]
	if !ok || !result.Complete() {
		return MatchResult{}, false
	}
	return result, true
}

// Score is a convenience for building score pointers
func Score(v float64) *float64 {
	return &v
}

// NewRoster returns an empty roster with every slot present
func NewRoster() []Player {
	return make([]Player, RosterSize)
}

// NewAssignments returns empty player assignments for every event
func NewAssignments(events []string) PlayerAssignments {
	players := make(PlayerAssignments, len(events))
	for _, event := range events {
		players[event] = []string{}
	}
	return players
}

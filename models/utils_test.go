package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKey(t *testing.T) {
	assert.Equal(t, "Men's Singles-0-Tigers-vs-Lions", MatchKey("Men's Singles", 0, "Tigers", "Lions"))
	assert.Equal(t, "Doubles-12-A-B-vs-C", MatchKey("Doubles", 12, "A-B", "C"))
}

func TestMatchKeyForMatch(t *testing.T) {
	lions := "Lions"
	key, ok := Match{Team1: "Tigers", Team2: &lions}.Key("Singles", 3)
	assert.True(t, ok)
	assert.Equal(t, "Singles-3-Tigers-vs-Lions", key)

	_, ok = Match{Team1: "Tigers"}.Key("Singles", 3)
	assert.False(t, ok)
}

func TestOpponent(t *testing.T) {
	lions := "Lions"
	m := Match{Team1: "Tigers", Team2: &lions}

	opp, ok := m.Opponent("Tigers")
	assert.True(t, ok)
	assert.Equal(t, "Lions", opp)

	opp, ok = m.Opponent("Lions")
	assert.True(t, ok)
	assert.Equal(t, "Tigers", opp)

	_, ok = m.Opponent("Bears")
	assert.False(t, ok)

	_, ok = Match{Team1: "Tigers"}.Opponent("Tigers")
	assert.False(t, ok)
}

func TestResultLookup(t *testing.T) {
	results := Results{
		"complete": {Team1Score: Score(0), Team2Score: Score(0)},
		"half":     {Team2Score: Score(4)},
	}

	r, ok := results.Lookup("complete")
	assert.True(t, ok)
	assert.Equal(t, 0.0, *r.Team1Score)

	_, ok = results.Lookup("half")
	assert.False(t, ok)
	_, ok = results.Lookup("missing")
	assert.False(t, ok)
}

func TestNewAssignments(t *testing.T) {
	players := NewAssignments([]string{"Singles", "Doubles"})
	assert.Equal(t, PlayerAssignments{"Singles": {}, "Doubles": {}}, players)
	assert.Len(t, NewRoster(), RosterSize)
}

package tournament

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/teamcup/models"
)

func scored(team1, team2 float64) models.MatchResult {
	return models.MatchResult{Team1Score: models.Score(team1), Team2Score: models.Score(team2)}
}

func eventRow(team string, played, wins, losses, points int) EventRow {
	return EventRow{Team: team, TeamStats: TeamStats{Played: played, Wins: wins, Losses: losses, Points: points}}
}

func TestEventStandingsThreeTeams(t *testing.T) {
	teams := []string{"A", "B", "C"}
	schedule := GenerateSchedule(teams)
	require.Len(t, schedule, 3)

	results := models.Results{
		"Singles-2-A-vs-B": scored(3, 1),
	}

	tables := EventStandings(teams, schedule, []string{"Singles"}, results)
	require.Len(t, tables, 1)
	assert.Equal(t, "Singles", tables[0].Event)
	assert.Equal(t, []EventRow{
		eventRow("A", 1, 1, 0, 2),
		eventRow("B", 1, 0, 1, 0),
		eventRow("C", 0, 0, 0, 0),
	}, tables[0].Rows)
}

func TestEventStandingsNoScores(t *testing.T) {
	teams := []string{"A", "B", "C", "D"}
	events := []string{"Singles", "Doubles"}

	tables := EventStandings(teams, GenerateSchedule(teams), events, models.Results{})
	require.Len(t, tables, 2)
	for _, table := range tables {
		require.Len(t, table.Rows, 4)
		for _, row := range table.Rows {
			assert.Equal(t, TeamStats{}, row.TeamStats, "%s in %s", row.Team, table.Event)
		}
	}
}

func TestEventStandingsTooFewTeams(t *testing.T) {
	teams := []string{"A"}
	tables := EventStandings(teams, GenerateSchedule(teams), []string{"Singles"}, models.Results{})
	require.Len(t, tables, 1)
	assert.Empty(t, tables[0].Rows)
}

func TestEventStandingsIncompleteScores(t *testing.T) {
	teams := []string{"A", "B"}
	results := models.Results{
		"Singles-0-A-vs-B": {Team1Score: models.Score(11)},
		"Doubles-0-A-vs-B": {Team2Score: models.Score(11)},
	}

	for _, table := range EventStandings(teams, GenerateSchedule(teams), []string{"Singles", "Doubles"}, results) {
		for _, row := range table.Rows {
			assert.Equal(t, TeamStats{}, row.TeamStats, "%s in %s", row.Team, table.Event)
		}
	}
}

func TestEventStandingsDraw(t *testing.T) {
	teams := []string{"A", "B"}
	results := models.Results{"Singles-0-A-vs-B": scored(5, 5)}

	tables := EventStandings(teams, GenerateSchedule(teams), []string{"Singles"}, results)
	assert.Equal(t, []EventRow{
		eventRow("A", 1, 0, 0, 0),
		eventRow("B", 1, 0, 0, 0),
	}, tables[0].Rows)
}

func TestEventStandingsIgnoresUnknownKeys(t *testing.T) {
	teams := []string{"A", "B"}
	results := models.Results{
		"Singles-0-B-vs-A": scored(11, 2), // wrong orientation for round 0
		"Singles-1-A-vs-B": scored(11, 2), // no such round
		"Triples-0-A-vs-B": scored(11, 2), // not a configured event
	}

	tables := EventStandings(teams, GenerateSchedule(teams), []string{"Singles"}, results)
	for _, row := range tables[0].Rows {
		assert.Equal(t, TeamStats{}, row.TeamStats)
	}
}

func TestEventResults(t *testing.T) {
	schedule := GenerateSchedule([]string{"A", "B", "C", "D"})
	results := models.Results{
		"Singles-0-A-vs-D": scored(11, 4),
		"Singles-0-B-vs-C": scored(7, 7),
		"Singles-1-C-vs-A": {Team1Score: models.Score(3)},
		"Singles-2-C-vs-D": scored(2, 11),
	}

	out := EventResults(schedule, "Singles", results)
	require.Len(t, out, 3)

	assert.Equal(t, "A", out[0].Team1)
	require.NotNil(t, out[0].Winner)
	assert.Equal(t, "A", *out[0].Winner)
	assert.Equal(t, 1, out[0].Round)

	assert.Nil(t, out[1].Winner)

	assert.Equal(t, 2, out[2].RoundIndex)
	assert.Equal(t, 3, out[2].Round)
	require.NotNil(t, out[2].Winner)
	assert.Equal(t, "D", *out[2].Winner)
}

// groupFixture is four teams over three events:
// round 0 A beats D two categories to one, B beats C on the only category entered,
// round 1 C beats A, with a second category only half entered.
func groupFixture() ([]string, models.Schedule, []string, models.Results) {
	teams := []string{"A", "B", "C", "D"}
	events := []string{"MS", "WS", "XD"}
	results := models.Results{
		"MS-0-A-vs-D": scored(11, 5),
		"WS-0-A-vs-D": scored(11, 9),
		"XD-0-A-vs-D": scored(7, 11),
		"MS-0-B-vs-C": scored(11, 3),
		"MS-1-C-vs-A": scored(11, 8),
		"WS-1-C-vs-A": {Team1Score: models.Score(11)},
	}
	return teams, GenerateSchedule(teams), events, results
}

func groupRow(team string, played, wins, losses, won, lost, points int) GroupRow {
	return GroupRow{Team: team, GroupStats: GroupStats{
		Played: played, Wins: wins, Losses: losses,
		CategoriesWon: won, CategoriesLost: lost, Points: points,
	}}
}

func TestGroupStandings(t *testing.T) {
	teams, schedule, events, results := groupFixture()

	report := GroupStandings(teams, schedule, events, results)

	assert.Equal(t, []GroupRow{
		groupRow("A", 4, 1, 1, 2, 2, 2),
		groupRow("B", 1, 1, 0, 1, 0, 1),
		groupRow("C", 2, 1, 1, 1, 1, 1),
		groupRow("D", 3, 0, 1, 1, 2, 1),
	}, report.Rows)

	require.Len(t, report.Matches, 6)
	first := report.Matches[0]
	assert.Equal(t, "A", first.Team1)
	assert.Equal(t, "D", first.Team2)
	assert.Equal(t, 2, first.Team1CategoryWins)
	assert.Equal(t, 1, first.Team2CategoryWins)
	require.Len(t, first.EventWinners, 3)
	assert.Equal(t, "MS", first.EventWinners[0].Event)
	assert.Equal(t, "A", *first.EventWinners[0].Winner)
	assert.Equal(t, "D", *first.EventWinners[2].Winner)
	winner, ok := first.Winner()
	require.True(t, ok)
	assert.Equal(t, "A", winner)

	third := report.Matches[2]
	assert.Equal(t, 2, third.Round)
	assert.Equal(t, "C", third.Team1)
	assert.Nil(t, third.EventWinners[1].Winner, "half entered score has no winner")
}

func TestGroupStandingsCategoryTie(t *testing.T) {
	teams := []string{"A", "B"}
	results := models.Results{
		"MS-0-A-vs-B": scored(11, 2),
		"WS-0-A-vs-B": scored(4, 11),
		"XD-0-A-vs-B": scored(9, 9),
	}

	report := GroupStandings(teams, GenerateSchedule(teams), []string{"MS", "WS", "XD"}, results)
	assert.Equal(t, []GroupRow{
		groupRow("A", 3, 0, 0, 1, 1, 1),
		groupRow("B", 3, 0, 0, 1, 1, 1),
	}, report.Rows)
	_, ok := report.Matches[0].Winner()
	assert.False(t, ok)
}

func TestGroupStandingsAllDrawn(t *testing.T) {
	teams := []string{"A", "B"}
	results := models.Results{
		"MS-0-A-vs-B": scored(3, 3),
		"WS-0-A-vs-B": scored(0, 0),
	}

	report := GroupStandings(teams, GenerateSchedule(teams), []string{"MS", "WS"}, results)
	assert.Equal(t, []GroupRow{
		groupRow("A", 2, 0, 0, 0, 0, 0),
		groupRow("B", 2, 0, 0, 0, 0, 0),
	}, report.Rows)
}

func TestGroupStandingsNoScores(t *testing.T) {
	teams := []string{"A", "B", "C", "D"}
	report := GroupStandings(teams, GenerateSchedule(teams), []string{"MS", "WS"}, models.Results{})

	require.Len(t, report.Rows, 4)
	for _, row := range report.Rows {
		assert.Equal(t, GroupStats{}, row.GroupStats, row.Team)
	}
	require.Len(t, report.Matches, 6)
	for _, m := range report.Matches {
		assert.Zero(t, m.Team1CategoryWins)
		assert.Zero(t, m.Team2CategoryWins)
		for _, w := range m.EventWinners {
			assert.Nil(t, w.Winner)
		}
	}
}

func TestGroupStandingsOnlyOneSideScored(t *testing.T) {
	teams := []string{"A", "B", "C"}
	results := models.Results{
		"MS-0-B-vs-C": {Team1Score: models.Score(11), Team2Score: nil},
	}

	report := GroupStandings(teams, GenerateSchedule(teams), []string{"MS"}, results)
	for _, row := range report.Rows {
		assert.Equal(t, GroupStats{}, row.GroupStats, row.Team)
	}
}

func TestGroupStandingsSkipsByes(t *testing.T) {
	teams := []string{"A", "B", "C"}
	report := GroupStandings(teams, GenerateSchedule(teams), []string{"MS"}, models.Results{})
	assert.Len(t, report.Matches, 3)
	for _, m := range report.Matches {
		assert.NotEmpty(t, m.Team2)
	}
}

func TestGroupStandingsTooFewTeams(t *testing.T) {
	report := GroupStandings([]string{"A"}, GenerateSchedule([]string{"A"}), []string{"MS"}, models.Results{})
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Matches)
}

func TestStandingsIdempotent(t *testing.T) {
	teams, schedule, events, results := groupFixture()

	first, err := json.Marshal(GroupStandings(teams, schedule, events, results))
	require.NoError(t, err)
	second, err := json.Marshal(GroupStandings(teams, schedule, events, results))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	first, err = json.Marshal(EventStandings(teams, schedule, events, results))
	require.NoError(t, err)
	second, err = json.Marshal(EventStandings(teams, schedule, events, results))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestTeamHistory(t *testing.T) {
	teams, schedule, events, results := groupFixture()
	report := GroupStandings(teams, schedule, events, results)

	history := TeamHistory(report.Matches, "A")
	require.Len(t, history, 3)

	assert.Equal(t, "D", history[0].Opponent)
	assert.Equal(t, 2, history[0].CategoriesFor)
	assert.Equal(t, 1, history[0].CategoriesAgainst)
	assert.True(t, history[0].Won)

	assert.Equal(t, "C", history[1].Opponent)
	assert.Equal(t, 0, history[1].CategoriesFor)
	assert.Equal(t, 1, history[1].CategoriesAgainst)
	assert.False(t, history[1].Won)

	assert.Empty(t, TeamHistory(report.Matches, "Nobody"))
}

func TestFindMatch(t *testing.T) {
	teams, schedule, events, results := groupFixture()
	report := GroupStandings(teams, schedule, events, results)

	m, ok := FindMatch(report.Matches, "D", "A")
	require.True(t, ok)
	assert.Equal(t, "A", m.Team1)
	assert.Equal(t, "D", m.Team2)

	_, ok = FindMatch(report.Matches, "A", "A")
	assert.False(t, ok)
	_, ok = FindMatch(report.Matches, "A", "")
	assert.False(t, ok)
	_, ok = FindMatch(report.Matches, "A", "Nobody")
	assert.False(t, ok)
}

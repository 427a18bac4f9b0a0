package tournament

import (
	"github.com/justinjudd/teamcup/models"
)

// PointsPerWin is awarded for every event win in the per event standings
const PointsPerWin = 2

// TeamStats is a team's record within a single event
type TeamStats struct {
	Played int `json:"played"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Points int `json:"points"`
}

// EventRow is one line of an event standings table
type EventRow struct {
	Team string `json:"team"`
	TeamStats
}

// EventTable holds the standings for a single event, rows in team registration order
type EventTable struct {
	Event string     `json:"event"`
	Rows  []EventRow `json:"rows"`
}

// EventResult is a completed match within an event
type EventResult struct {
	Round      int     `json:"round"`
	RoundIndex int     `json:"roundIndex"`
	Team1      string  `json:"team1"`
	Team2      string  `json:"team2"`
	Team1Score float64 `json:"team1Score"`
	Team2Score float64 `json:"team2Score"`
	Winner     *string `json:"winner"` // nil on a draw
}

// EventStandings tallies each event separately. A team gets PointsPerWin for every win; draws and losses score nothing.
// Only results with both scores entered are counted, and byes are skipped.
func EventStandings(teams []string, schedule models.Schedule, events []string, results models.Results) []EventTable {
	tables := make([]EventTable, 0, len(events))
	for _, event := range events {
		tables = append(tables, eventTable(teams, schedule, event, results))
	}
	return tables
}

func eventTable(teams []string, schedule models.Schedule, event string, results models.Results) EventTable {
	table := EventTable{Event: event, Rows: []EventRow{}}
	if len(schedule) == 0 {
		return table
	}

	table.Rows = make([]EventRow, len(teams))
	index := make(map[string]int, len(teams))
	for i, name := range teams {
		table.Rows[i].Team = name
		index[name] = i
	}

	for _, r := range EventResults(schedule, event, results) {
		i1, ok1 := index[r.Team1]
		i2, ok2 := index[r.Team2]
		if !ok1 || !ok2 {
			continue
		}
		team1, team2 := &table.Rows[i1].TeamStats, &table.Rows[i2].TeamStats
		team1.Played++
		team2.Played++

		switch {
		case r.Team1Score > r.Team2Score:
			team1.Wins++
			team1.Points += PointsPerWin
			team2.Losses++
		case r.Team2Score > r.Team1Score:
			team2.Wins++
			team2.Points += PointsPerWin
			team1.Losses++
		}
	}

	return table
}

// EventResults lists the completed matches of an event in schedule order
func EventResults(schedule models.Schedule, event string, results models.Results) []EventResult {
	var out []EventResult
	for roundIndex, round := range schedule {
		for _, match := range round {
			key, ok := match.Key(event, roundIndex)
			if !ok {
				continue
			}
			result, ok := results.Lookup(key)
			if !ok {
				continue
			}
			r := EventResult{
				Round:      roundIndex + 1,
				RoundIndex: roundIndex,
				Team1:      match.Team1,
				Team2:      *match.Team2,
				Team1Score: *result.Team1Score,
				Team2Score: *result.Team2Score,
			}
			switch {
			case r.Team1Score > r.Team2Score:
				r.Winner = winnerName(r.Team1)
			case r.Team2Score > r.Team1Score:
				r.Winner = winnerName(r.Team2)
			}
			out = append(out, r)
		}
	}
	return out
}

func winnerName(team string) *string {
	return &team
}

package tournament

import (
	"github.com/justinjudd/teamcup/models"
)

// GroupStats is a team's record across every event, where each event of a match is a category.
// Points are the number of categories won.
type GroupStats struct {
	Played         int `json:"played"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	CategoriesWon  int `json:"categoriesWon"`
	CategoriesLost int `json:"categoriesLost"`
	Points         int `json:"points"`
}

// CategoryDifference is categories won minus categories lost
func (s GroupStats) CategoryDifference() int {
	return s.CategoriesWon - s.CategoriesLost
}

// GroupRow is one line of the overall standings table
type GroupRow struct {
	Team string `json:"team"`
	GroupStats
}

// EventWinner records who took a single category of a match. Winner is nil for draws and unplayed events
type EventWinner struct {
	Event  string  `json:"event"`
	Winner *string `json:"winner"`
}

// DetailedMatch is the category breakdown of a single team vs team match
type DetailedMatch struct {
	Round             int           `json:"round"` // 1-based, for display
	RoundIndex        int           `json:"roundIndex"`
	Team1             string        `json:"team1"`
	Team2             string        `json:"team2"`
	Team1CategoryWins int           `json:"team1CategoryWins"`
	Team2CategoryWins int           `json:"team2CategoryWins"`
	EventWinners      []EventWinner `json:"eventWinners"`
}

// Winner returns the team that took more categories, or false on a tie
func (m DetailedMatch) Winner() (string, bool) {
	switch {
	case m.Team1CategoryWins > m.Team2CategoryWins:
		return m.Team1, true
	case m.Team2CategoryWins > m.Team1CategoryWins:
		return m.Team2, true
	}
	return "", false
}

// GroupReport is the overall standings plus the breakdown of every match that produced them
type GroupReport struct {
	Rows    []GroupRow      `json:"rows"`
	Matches []DetailedMatch `json:"matches"`
}

// GroupStandings aggregates every event of each match. A match is won by the side that takes more categories;
// level categories give neither side the match. Only matches with at least one completed event count towards wins and losses.
func GroupStandings(teams []string, schedule models.Schedule, events []string, results models.Results) GroupReport {
	report := GroupReport{Rows: []GroupRow{}, Matches: []DetailedMatch{}}
	if len(schedule) == 0 {
		return report
	}

	report.Rows = make([]GroupRow, len(teams))
	index := make(map[string]int, len(teams))
	for i, name := range teams {
		report.Rows[i].Team = name
		index[name] = i
	}

	for roundIndex, round := range schedule {
		for _, match := range round {
			if match.IsBye() {
				continue
			}
			detail, completed := scoreMatch(match, roundIndex, events, results)
			report.Matches = append(report.Matches, detail)

			i1, ok1 := index[detail.Team1]
			i2, ok2 := index[detail.Team2]
			if !ok1 || !ok2 {
				continue
			}
			team1, team2 := &report.Rows[i1].GroupStats, &report.Rows[i2].GroupStats
			team1.Played += completed
			team2.Played += completed
			if completed == 0 {
				continue
			}

			team1.CategoriesWon += detail.Team1CategoryWins
			team2.CategoriesWon += detail.Team2CategoryWins
			team1.CategoriesLost += detail.Team2CategoryWins
			team2.CategoriesLost += detail.Team1CategoryWins
			team1.Points += detail.Team1CategoryWins
			team2.Points += detail.Team2CategoryWins

			switch {
			case detail.Team1CategoryWins > detail.Team2CategoryWins:
				team1.Wins++
				team2.Losses++
			case detail.Team2CategoryWins > detail.Team1CategoryWins:
				team2.Wins++
				team1.Losses++
			}
		}
	}

	return report
}

// scoreMatch works out the category winners of one match, returning how many events had a complete score
func scoreMatch(match models.Match, roundIndex int, events []string, results models.Results) (DetailedMatch, int) {
	detail := DetailedMatch{
		Round:        roundIndex + 1,
		RoundIndex:   roundIndex,
		Team1:        match.Team1,
		Team2:        *match.Team2,
		EventWinners: make([]EventWinner, 0, len(events)),
	}

	completed := 0
	for _, event := range events {
		winner := EventWinner{Event: event}
		result, ok := results.Lookup(models.MatchKey(event, roundIndex, detail.Team1, detail.Team2))
		if ok {
			completed++
			switch {
			case *result.Team1Score > *result.Team2Score:
				detail.Team1CategoryWins++
				winner.Winner = winnerName(detail.Team1)
			case *result.Team2Score > *result.Team1Score:
				detail.Team2CategoryWins++
				winner.Winner = winnerName(detail.Team2)
			}
		}
		detail.EventWinners = append(detail.EventWinners, winner)
	}

	return detail, completed
}

// HistoryEntry is a match seen from one team's side
type HistoryEntry struct {
	Match             DetailedMatch `json:"match"`
	Opponent          string        `json:"opponent"`
	CategoriesFor     int           `json:"categoriesFor"`
	CategoriesAgainst int           `json:"categoriesAgainst"`
	Won               bool          `json:"won"`
}

// TeamHistory returns every match the team played, in schedule order
func TeamHistory(matches []DetailedMatch, team string) []HistoryEntry {
	history := []HistoryEntry{}
	for _, m := range matches {
		var entry HistoryEntry
		switch team {
		case m.Team1:
			entry = HistoryEntry{Match: m, Opponent: m.Team2, CategoriesFor: m.Team1CategoryWins, CategoriesAgainst: m.Team2CategoryWins}
		case m.Team2:
			entry = HistoryEntry{Match: m, Opponent: m.Team1, CategoriesFor: m.Team2CategoryWins, CategoriesAgainst: m.Team1CategoryWins}
		default:
			continue
		}
		entry.Won = entry.CategoriesFor > entry.CategoriesAgainst
		history = append(history, entry)
	}
	return history
}

// FindMatch looks up the match between two teams regardless of which side each was listed on
func FindMatch(matches []DetailedMatch, a, b string) (DetailedMatch, bool) {
	if a == "" || b == "" || a == b {
		return DetailedMatch{}, false
	}
	for _, m := range matches {
		if (m.Team1 == a && m.Team2 == b) || (m.Team1 == b && m.Team2 == a) {
			return m, true
		}
	}
	return DetailedMatch{}, false
}

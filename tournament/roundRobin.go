package tournament

import (
	"github.com/justinjudd/teamcup/models"
)

// byeSlot marks the padding position added when there is an odd number of teams
const byeSlot = -1

// GenerateSchedule creates a round robin schedule where every team plays every other team once.
// Fewer than two teams produces an empty schedule.
func GenerateSchedule(teamNames []string) models.Schedule {
	if len(teamNames) < 2 {
		return models.Schedule{}
	}

	// Work on positions rather than names, so a team that happens to be called BYE is still a real team
	slots := make([]int, len(teamNames), len(teamNames)+1)
	for i := range slots {
		slots[i] = i
	}
	if len(slots)%2 != 0 {
		slots = append(slots, byeSlot)
	}

	numTeams := len(slots)
	numRounds := numTeams - 1
	half := numTeams / 2

	schedule := make(models.Schedule, 0, numRounds)
	for round := 0; round < numRounds; round++ {
		games := make(models.Round, 0, half)
		for i := 0; i < half; i++ {
			home, away := slots[i], slots[numTeams-1-i]
			switch {
			case home == byeSlot:
				games = append(games, byeMatch(teamNames[away]))
			case away == byeSlot:
				games = append(games, byeMatch(teamNames[home]))
			case round%2 == 1 && i == 0:
				// Alternate which side the anchored team is listed on
				games = append(games, newMatch(teamNames[away], teamNames[home]))
			default:
				games = append(games, newMatch(teamNames[home], teamNames[away]))
			}
		}
		schedule = append(schedule, games)

		// Circle method: position 0 stays put, the last team moves to position 1
		last := slots[numTeams-1]
		copy(slots[2:], slots[1:numTeams-1])
		slots[1] = last
	}

	return schedule
}

func newMatch(team1, team2 string) models.Match {
	return models.Match{Team1: team1, Team2: &team2}
}

func byeMatch(team string) models.Match {
	return models.Match{Team1: team}
}

// TotalRounds returns how many rounds a schedule for numTeams teams will have
func TotalRounds(numTeams int) int {
	if numTeams < 2 {
		return 0
	}
	if numTeams%2 != 0 {
		numTeams++
	}
	return numTeams - 1
}

package teamcup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"
	"golang.org/x/text/cases"

	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/tournament"
)

var (
	ErrEmptyName     = errors.New("team name can't be empty")
	ErrDuplicateTeam = errors.New("team name already exists")
	ErrTeamNotFound  = errors.New("team not found")
	ErrInvalidSlot   = errors.New("roster slot out of range")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownMatch  = errors.New("match isn't in the schedule")
)

// State is everything the tournament keeps: the configured events, registered teams in order, and recorded scores.
// Updates never modify a State in place, they return a new one.
type State struct {
	Events  []string       `json:"-"`
	Teams   []models.Team  `json:"teams"`
	Results models.Results `json:"results"`
}

// NewState creates an empty tournament for the given events
func NewState(events []string) State {
	return State{Events: events, Teams: []models.Team{}, Results: models.Results{}}
}

// TeamNames lists team names in registration order, which drives the schedule
func (s State) TeamNames() []string {
	names := make([]string, len(s.Teams))
	for i, t := range s.Teams {
		names[i] = t.Name
	}
	return names
}

// Schedule is recomputed from the current team list every time
func (s State) Schedule() models.Schedule {
	return tournament.GenerateSchedule(s.TeamNames())
}

// EventStandings returns the per event tables, each sorted by cfg
func (s State) EventStandings(cfg tournament.SortConfig) []tournament.EventTable {
	tables := tournament.EventStandings(s.TeamNames(), s.Schedule(), s.Events, s.Results)
	for i := range tables {
		tables[i].Rows = tournament.SortEventRows(tables[i].Rows, cfg)
	}
	return tables
}

// GroupStandings returns the overall table sorted by cfg, with the match breakdown in schedule order
func (s State) GroupStandings(cfg tournament.SortConfig) tournament.GroupReport {
	report := tournament.GroupStandings(s.TeamNames(), s.Schedule(), s.Events, s.Results)
	report.Rows = tournament.SortGroupRows(report.Rows, cfg)
	return report
}

// Lineup lists the teams entered in an event with their players
func (s State) Lineup(event string) []tournament.Participant {
	return tournament.Lineup(s.Teams, event)
}

// Team looks up a team by ID
func (s State) Team(id string) (models.Team, bool) {
	i := s.teamIndex(id)
	if i < 0 {
		return models.Team{}, false
	}
	return s.Teams[i], true
}

// HasEvent reports if event is one of the configured events
func (s State) HasEvent(event string) bool {
	for _, e := range s.Events {
		if e == event {
			return true
		}
	}
	return false
}

func (s State) teamIndex(id string) int {
	for i, t := range s.Teams {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nameTaken compares names ignoring case, skipping the team with ID except
func (s State) nameTaken(name, except string) bool {
	fold := cases.Fold()
	folded := fold.String(name)
	for _, t := range s.Teams {
		if t.ID != except && fold.String(t.Name) == folded {
			return true
		}
	}
	return false
}

func (s State) validName(name, except string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if s.nameTaken(name, except) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateTeam, name)
	}
	return name, nil
}

// withTeams returns a copy of s using teams
func (s State) withTeams(teams []models.Team) State {
	s.Teams = teams
	return s
}

func copyTeam(t models.Team) models.Team {
	roster := make([]models.Player, len(t.Roster))
	copy(roster, t.Roster)
	players := make(models.PlayerAssignments, len(t.Players))
	for event, names := range t.Players {
		players[event] = append([]string{}, names...)
	}
	t.Roster = roster
	t.Players = players
	return t
}

// updateTeam copies the team list and applies fn to a private copy of the team with ID
func (s State) updateTeam(id string, fn func(*models.Team) error) (State, error) {
	i := s.teamIndex(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	teams := make([]models.Team, len(s.Teams))
	copy(teams, s.Teams)
	team := copyTeam(teams[i])
	if err := fn(&team); err != nil {
		return s, err
	}
	teams[i] = team
	return s.withTeams(teams), nil
}

// AddTeam registers a new team at the end of the list with an empty roster
func (s State) AddTeam(name string) (State, models.Team, error) {
	name, err := s.validName(name, "")
	if err != nil {
		return s, models.Team{}, err
	}
	team := models.Team{
		ID:      xid.New().String(),
		Name:    name,
		Roster:  models.NewRoster(),
		Players: models.NewAssignments(s.Events),
	}
	teams := make([]models.Team, len(s.Teams), len(s.Teams)+1)
	copy(teams, s.Teams)
	return s.withTeams(append(teams, team)), team, nil
}

// RenameTeam changes a team's display name. Scores recorded under the old name are no longer matched
func (s State) RenameTeam(id, name string) (State, error) {
	name, err := s.validName(name, id)
	if err != nil {
		return s, err
	}
	return s.updateTeam(id, func(t *models.Team) error {
		t.Name = name
		return nil
	})
}

// DeleteTeam removes a team. Its recorded scores are kept but no longer appear in the schedule
func (s State) DeleteTeam(id string) (State, error) {
	i := s.teamIndex(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrTeamNotFound, id)
	}
	teams := make([]models.Team, 0, len(s.Teams)-1)
	teams = append(teams, s.Teams[:i]...)
	teams = append(teams, s.Teams[i+1:]...)
	return s.withTeams(teams), nil
}

// UpdatePlayer replaces one roster slot
func (s State) UpdatePlayer(id string, slot int, player models.Player) (State, error) {
	return s.updateTeam(id, func(t *models.Team) error {
		if slot < 0 || slot >= len(t.Roster) {
			return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
		}
		player.Name = strings.TrimSpace(player.Name)
		t.Roster[slot] = player
		return nil
	})
}

// AssignPlayers sets the players a team fields in an event
func (s State) AssignPlayers(id, event string, players []string) (State, error) {
	if !s.HasEvent(event) {
		return s, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	return s.updateTeam(id, func(t *models.Team) error {
		t.Players[event] = append([]string{}, players...)
		return nil
	})
}

// RecordResult stores the score of one event of a scheduled match and returns the key it was stored under.
// Either score may be nil while entry is in progress.
func (s State) RecordResult(event string, roundIndex int, team1, team2 string, result models.MatchResult) (State, string, error) {
	if !s.HasEvent(event) {
		return s, "", fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	schedule := s.Schedule()
	if roundIndex < 0 || roundIndex >= len(schedule) {
		return s, "", fmt.Errorf("%w: round %d", ErrUnknownMatch, roundIndex)
	}
	found := false
	for _, m := range schedule[roundIndex] {
		if !m.IsBye() && m.Team1 == team1 && *m.Team2 == team2 {
			found = true
			break
		}
	}
	if !found {
		return s, "", fmt.Errorf("%w: %s vs %s in round %d", ErrUnknownMatch, team1, team2, roundIndex)
	}

	key := models.MatchKey(event, roundIndex, team1, team2)
	results := make(models.Results, len(s.Results)+1)
	for k, v := range s.Results {
		results[k] = v
	}
	results[key] = result
	s.Results = results
	return s, key, nil
}

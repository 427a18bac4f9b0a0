package teamcup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/justinjudd/teamcup/models"
)

// ErrInvalidBackup is returned when restore data isn't shaped like a tournament
var ErrInvalidBackup = errors.New("invalid backup data")

// DefaultTeamName is given to restored teams that have no name. Further unnamed teams are numbered from 2
const DefaultTeamName = "Unnamed Team"

type backupFile struct {
	Teams   []models.Team  `json:"teams"`
	Results models.Results `json:"results"`
}

// Backup renders the teams and results as indented JSON that Restore can read back
func Backup(s State) ([]byte, error) {
	b := backupFile{Teams: s.Teams, Results: s.Results}
	if b.Teams == nil {
		b.Teams = []models.Team{}
	}
	if b.Results == nil {
		b.Results = models.Results{}
	}
	out, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("Unable to encode backup: %w", err)
	}
	return out, nil
}

// BackupFilename names a backup file after the day it was taken
func BackupFilename(t time.Time) string {
	return "teamcup_backup_" + t.Format("2006-01-02") + ".json"
}

// Restore validates saved or backed up data and brings older layouts up to date:
// missing ids and names are filled in, plain string roster entries become players, rosters are sized to models.RosterSize,
// every event gets an assignment list, and scores that aren't numbers are treated as not entered.
// Results that aren't an object are dropped rather than failing the restore.
func Restore(data []byte, events []string) (State, error) {
	var raw struct {
		Teams   json.RawMessage `json:"teams"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	var rawTeams []json.RawMessage
	if len(raw.Teams) == 0 || string(raw.Teams) == "null" {
		return State{}, fmt.Errorf("%w: teams missing", ErrInvalidBackup)
	}
	if err := json.Unmarshal(raw.Teams, &rawTeams); err != nil {
		return State{}, fmt.Errorf("%w: teams must be a list", ErrInvalidBackup)
	}

	s := NewState(events)
	seenIDs := map[string]bool{}
	var unnamed []int
	for _, rt := range rawTeams {
		team, named := restoreTeam(rt, events)
		if seenIDs[team.ID] {
			team.ID = xid.New().String()
		}
		seenIDs[team.ID] = true
		if !named {
			unnamed = append(unnamed, len(s.Teams))
		} else if s.nameTaken(team.Name, "") {
			return State{}, fmt.Errorf("%w: %w: %s", ErrInvalidBackup, ErrDuplicateTeam, team.Name)
		}
		s.Teams = append(s.Teams, team)
	}

	// unnamed teams are numbered once every given name is known, so a default never takes a real team's name
	n := 1
	for _, i := range unnamed {
		name := DefaultTeamName
		for s.nameTaken(name, "") {
			n++
			name = fmt.Sprintf("%s %d", DefaultTeamName, n)
		}
		s.Teams[i].Name = name
	}

	var results map[string]json.RawMessage
	json.Unmarshal(raw.Results, &results)
	for key, value := range results {
		result, ok := restoreResult(value)
		if !ok {
			continue
		}
		s.Results[key] = result
	}

	return s, nil
}

// restoreTeam reports false when the team has no usable name, leaving Name empty for the caller to fill in
func restoreTeam(data json.RawMessage, events []string) (models.Team, bool) {
	var fields map[string]json.RawMessage
	json.Unmarshal(data, &fields)

	team := models.Team{
		ID:      restoreID(fields["id"]),
		Players: models.PlayerAssignments{},
	}

	var name string
	if json.Unmarshal(fields["name"], &name) == nil {
		team.Name = strings.TrimSpace(name)
	}

	// each event is restored on its own so one malformed list doesn't lose the others
	var players map[string]json.RawMessage
	json.Unmarshal(fields["players"], &players)
	for event, value := range players {
		var names []string
		if json.Unmarshal(value, &names) != nil {
			continue
		}
		if names == nil {
			names = []string{}
		}
		team.Players[event] = names
	}
	for _, event := range events {
		if _, ok := team.Players[event]; !ok {
			team.Players[event] = []string{}
		}
	}

	var roster []json.RawMessage
	json.Unmarshal(fields["roster"], &roster)
	team.Roster = models.NewRoster()
	for i, entry := range roster {
		if i >= models.RosterSize {
			break
		}
		team.Roster[i] = restorePlayer(entry)
	}

	return team, team.Name != ""
}

// restoreID accepts the numeric ids older saves used as well as string ids
func restoreID(data json.RawMessage) string {
	var v interface{}
	json.Unmarshal(data, &v)
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		if id != 0 {
			return strconv.FormatFloat(id, 'f', -1, 64)
		}
	}
	return xid.New().String()
}

func restorePlayer(data json.RawMessage) models.Player {
	var name string
	if json.Unmarshal(data, &name) == nil {
		return models.Player{Name: name}
	}

	var fields map[string]interface{}
	if json.Unmarshal(data, &fields) != nil {
		return models.Player{}
	}
	if _, ok := fields["name"]; !ok {
		return models.Player{}
	}

	var p models.Player
	p.Name, _ = fields["name"].(string)
	if gender, _ := fields["gender"].(string); gender != "" {
		p.Gender = models.Gender(gender)
	}
	p.IsManager = truthy(fields["isManager"])
	p.IsCoach = truthy(fields["isCoach"])
	return p
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		return b != ""
	}
	return false
}

// restoreResult keeps only numeric scores. Entries that aren't objects are dropped
func restoreResult(data json.RawMessage) (models.MatchResult, bool) {
	var fields map[string]interface{}
	if json.Unmarshal(data, &fields) != nil || fields == nil {
		return models.MatchResult{}, false
	}
	var result models.MatchResult
	if score, ok := fields["team1Score"].(float64); ok {
		result.Team1Score = models.Score(score)
	}
	if score, ok := fields["team2Score"].(float64); ok {
		result.Team2Score = models.Score(score)
	}
	return result, true
}

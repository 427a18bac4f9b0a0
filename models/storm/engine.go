package storm

import (
	"errors"
	"fmt"
	"sort"

	"github.com/justinjudd/teamcup/models"

	"github.com/asdine/storm"
	"github.com/asdine/storm/codec/msgpack"
)

type engine struct {
	*storm.DB
}

// NewStorageEngine creates and returns a StorageEngine meeting the engine interface, using a storm db backend
func NewStorageEngine(path string) (models.StorageEngine, error) {
	db, err := storm.Open(path, storm.Codec(msgpack.Codec))
	//db, err := storm.Open(path) // Use this for debug or if you want JSON stored in the database
	if err != nil {
		return nil, fmt.Errorf("Unable to open storage engine: %w", err)
	}

	return &engine{db}, nil
}

type teamRecord struct {
	ID       string `storm:"id"`
	Position int    `storm:"index"` // Registration order, the schedule depends on it
	Name     string
	Roster   []models.Player
	Players  models.PlayerAssignments
}

type resultRecord struct {
	Key        string `storm:"id"`
	Team1Score *float64
	Team2Score *float64
}

func newTeamRecord(t models.Team, position int) teamRecord {
	return teamRecord{ID: t.ID, Position: position, Name: t.Name, Roster: t.Roster, Players: t.Players}
}

func (r teamRecord) team() models.Team {
	return models.Team{ID: r.ID, Name: r.Name, Roster: r.Roster, Players: r.Players}
}

func (e *engine) GetTeams() ([]models.Team, error) {
	var records []teamRecord
	if err := e.All(&records); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("Unable to load teams: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Position < records[j].Position })

	teams := make([]models.Team, len(records))
	for i, r := range records {
		teams[i] = r.team()
	}
	return teams, nil
}

func (e *engine) GetResults() (models.Results, error) {
	var records []resultRecord
	if err := e.All(&records); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("Unable to load results: %w", err)
	}

	results := make(models.Results, len(records))
	for _, r := range records {
		results[r.Key] = models.MatchResult{Team1Score: r.Team1Score, Team2Score: r.Team2Score}
	}
	return results, nil
}

func (e *engine) SaveTeams(teams []models.Team) error {
	tx, err := e.Begin(true)
	if err != nil {
		return fmt.Errorf("Unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	keep := make(map[string]bool, len(teams))
	for _, t := range teams {
		keep[t.ID] = true
	}
	var existing []teamRecord
	if err := tx.All(&existing); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("Unable to load teams: %w", err)
	}
	for i := range existing {
		if keep[existing[i].ID] {
			continue
		}
		if err := tx.DeleteStruct(&existing[i]); err != nil {
			return fmt.Errorf("Unable to remove team %q: %w", existing[i].Name, err)
		}
	}

	if err := saveTeams(tx, teams); err != nil {
		return err
	}
	return tx.Commit()
}

func (e *engine) SaveResult(key string, result models.MatchResult) error {
	r := resultRecord{Key: key, Team1Score: result.Team1Score, Team2Score: result.Team2Score}
	if err := e.Save(&r); err != nil {
		return fmt.Errorf("Unable to save result %q: %w", key, err)
	}
	return nil
}

func (e *engine) Replace(teams []models.Team, results models.Results) error {
	tx, err := e.Begin(true)
	if err != nil {
		return fmt.Errorf("Unable to start transaction: %w", err)
	}
	defer tx.Rollback()

	var oldTeams []teamRecord
	if err := tx.All(&oldTeams); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("Unable to load teams: %w", err)
	}
	for i := range oldTeams {
		if err := tx.DeleteStruct(&oldTeams[i]); err != nil {
			return fmt.Errorf("Unable to remove team %q: %w", oldTeams[i].Name, err)
		}
	}
	var oldResults []resultRecord
	if err := tx.All(&oldResults); err != nil && !errors.Is(err, storm.ErrNotFound) {
		return fmt.Errorf("Unable to load results: %w", err)
	}
	for i := range oldResults {
		if err := tx.DeleteStruct(&oldResults[i]); err != nil {
			return fmt.Errorf("Unable to remove result %q: %w", oldResults[i].Key, err)
		}
	}

	if err := saveTeams(tx, teams); err != nil {
		return err
	}
	for key, result := range results {
		r := resultRecord{Key: key, Team1Score: result.Team1Score, Team2Score: result.Team2Score}
		if err := tx.Save(&r); err != nil {
			return fmt.Errorf("Unable to save result %q: %w", key, err)
		}
	}
	return tx.Commit()
}

func saveTeams(tx storm.Node, teams []models.Team) error {
	for i, t := range teams {
		r := newTeamRecord(t, i)
		if err := tx.Save(&r); err != nil {
			return fmt.Errorf("Unable to save team %q: %w", t.Name, err)
		}
	}
	return nil
}

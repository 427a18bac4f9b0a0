package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/justinjudd/teamcup"
	"github.com/justinjudd/teamcup/models"
	"github.com/justinjudd/teamcup/tournament"
)

// maxBody limits request bodies, restore files included
const maxBody = 4 << 20

// Options configures a Server
type Options struct {
	Events  []string
	Title   string
	MCPPath string
	// Rand shuffles random brackets. A nil Rand keeps lineup order
	Rand *rand.Rand
	Now  func() time.Time
}

// Server serves the tournament over HTTP. Every change loads the current state from the store,
// applies one update and writes the result back while holding the lock.
type Server struct {
	store  models.StorageEngine
	opts   Options
	log    *logrus.Logger
	mu     sync.Mutex
	router *mux.Router
}

// New builds the routes for a tournament kept in store
func New(store models.StorageEngine, opts Options, log *logrus.Logger) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Server{store: store, opts: opts, log: log, router: mux.NewRouter()}

	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/teams", s.listTeams).Methods(http.MethodGet)
	api.HandleFunc("/teams", s.addTeam).Methods(http.MethodPost)
	api.HandleFunc("/teams/{id}", s.renameTeam).Methods(http.MethodPut)
	api.HandleFunc("/teams/{id}", s.deleteTeam).Methods(http.MethodDelete)
	api.HandleFunc("/teams/{id}/roster/{slot:[0-9]+}", s.updatePlayer).Methods(http.MethodPut)
	api.HandleFunc("/teams/{id}/events/{event}", s.assignPlayers).Methods(http.MethodPut)
	api.HandleFunc("/teams/{name}/history", s.teamHistory).Methods(http.MethodGet)
	api.HandleFunc("/schedule", s.schedule).Methods(http.MethodGet)
	api.HandleFunc("/results", s.recordResult).Methods(http.MethodPut)
	api.HandleFunc("/standings/events", s.eventStandings).Methods(http.MethodGet)
	api.HandleFunc("/standings/groups", s.groupStandings).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.findMatch).Methods(http.MethodGet)
	api.HandleFunc("/brackets/{event}", s.bracket).Methods(http.MethodGet)
	api.HandleFunc("/backup", s.backup).Methods(http.MethodGet)
	api.HandleFunc("/restore", s.restore).Methods(http.MethodPost)

	s.router.HandleFunc("/print", s.print).Methods(http.MethodGet)

	if opts.MCPPath != "" {
		s.router.PathPrefix(opts.MCPPath).Handler(s.mcpHandler())
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

// load reads the stored tournament. Callers that go on to save must hold s.mu
func (s *Server) load() (teamcup.State, error) {
	teams, err := s.store.GetTeams()
	if err != nil {
		return teamcup.State{}, err
	}
	results, err := s.store.GetResults()
	if err != nil {
		return teamcup.State{}, err
	}
	state := teamcup.NewState(s.opts.Events)
	state.Teams = teams
	state.Results = results
	return state, nil
}

// update applies fn to the stored teams and saves them
func (s *Server) update(fn func(teamcup.State) (teamcup.State, error)) (teamcup.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return state, err
	}
	state, err = fn(state)
	if err != nil {
		return state, err
	}
	if err := s.store.SaveTeams(state.Teams); err != nil {
		return state, err
	}
	return state, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("Unable to write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	entry := s.log.WithError(err).WithField("path", r.URL.Path)
	if status == http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, teamcup.ErrInvalidBackup), errors.Is(err, errBadRequest),
		errors.Is(err, teamcup.ErrEmptyName), errors.Is(err, teamcup.ErrInvalidSlot):
		return http.StatusBadRequest
	case errors.Is(err, teamcup.ErrDuplicateTeam):
		return http.StatusConflict
	case errors.Is(err, teamcup.ErrTeamNotFound), errors.Is(err, teamcup.ErrUnknownEvent),
		errors.Is(err, teamcup.ErrUnknownMatch):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// sortConfig reads ?sort= and ?order=, defaulting to points high to low
func sortConfig(r *http.Request) (tournament.SortConfig, error) {
	q := r.URL.Query()
	cfg, err := parseSort(SortArgs{Sort: q.Get("sort"), Order: q.Get("order")})
	if err != nil {
		return cfg, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return cfg, nil
}

type nameRequest struct {
	Name string `json:"name"`
}

type playersRequest struct {
	Players []string `json:"players"`
}

type resultRequest struct {
	Event      string   `json:"event"`
	Round      int      `json:"round"`
	Team1      string   `json:"team1"`
	Team2      string   `json:"team2"`
	Team1Score *float64 `json:"team1Score"`
	Team2Score *float64 `json:"team2Score"`
}

type resultResponse struct {
	Key    string             `json:"key"`
	Result models.MatchResult `json:"result"`
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state.Teams)
}

func (s *Server) addTeam(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var team models.Team
	_, err := s.update(func(state teamcup.State) (teamcup.State, error) {
		var err error
		state, team, err = state.AddTeam(req.Name)
		return state, err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.WithField("team", team.Name).Info("Team added")
	s.writeJSON(w, http.StatusCreated, team)
}

func (s *Server) renameTeam(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req nameRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.update(func(state teamcup.State) (teamcup.State, error) {
		return state.RenameTeam(id, req.Name)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	team, _ := state.Team(id)
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	_, err := s.update(func(state teamcup.State) (teamcup.State, error) {
		return state.DeleteTeam(id)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updatePlayer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slot, err := strconv.Atoi(vars["slot"])
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", teamcup.ErrInvalidSlot, err))
		return
	}
	var player models.Player
	if err := decode(r, &player); err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.update(func(state teamcup.State) (teamcup.State, error) {
		return state.UpdatePlayer(vars["id"], slot, player)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	team, _ := state.Team(vars["id"])
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) assignPlayers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req playersRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Players == nil {
		req.Players = []string{}
	}
	state, err := s.update(func(state teamcup.State) (teamcup.State, error) {
		return state.AssignPlayers(vars["id"], vars["event"], req.Players)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	team, _ := state.Team(vars["id"])
	s.writeJSON(w, http.StatusOK, team)
}

func (s *Server) schedule(w http.ResponseWriter, r *http.Request) {
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state.Schedule())
}

func (s *Server) recordResult(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	result := models.MatchResult{Team1Score: req.Team1Score, Team2Score: req.Team2Score}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, key, err := state.RecordResult(req.Event, req.Round, req.Team1, req.Team2, result)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SaveResult(key, result); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.WithFields(logrus.Fields{"key": key, "complete": result.Complete()}).Info("Result recorded")
	s.writeJSON(w, http.StatusOK, resultResponse{Key: key, Result: result})
}

func (s *Server) eventStandings(w http.ResponseWriter, r *http.Request) {
	cfg, err := sortConfig(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state.EventStandings(cfg))
}

func (s *Server) groupStandings(w http.ResponseWriter, r *http.Request) {
	cfg, err := sortConfig(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state.GroupStandings(cfg))
}

func (s *Server) teamHistory(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	found := false
	for _, t := range state.TeamNames() {
		if t == name {
			found = true
			break
		}
	}
	if !found {
		s.writeError(w, r, fmt.Errorf("%w: %s", teamcup.ErrTeamNotFound, name))
		return
	}
	report := state.GroupStandings(tournament.DefaultSort())
	s.writeJSON(w, http.StatusOK, tournament.TeamHistory(report.Matches, name))
}

func (s *Server) findMatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := state.GroupStandings(tournament.DefaultSort())
	match, ok := tournament.FindMatch(report.Matches, q.Get("team1"), q.Get("team2"))
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: %s vs %s", teamcup.ErrUnknownMatch, q.Get("team1"), q.Get("team2")))
		return
	}
	s.writeJSON(w, http.StatusOK, match)
}

// bracket draws a knockout bracket for an event from the teams that entered it. ?seeded=true keeps lineup order as seeding
func (s *Server) bracket(w http.ResponseWriter, r *http.Request) {
	event := mux.Vars(r)["event"]
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !state.HasEvent(event) {
		s.writeError(w, r, fmt.Errorf("%w: %s", teamcup.ErrUnknownEvent, event))
		return
	}
	lineup := state.Lineup(event)

	var rounds []tournament.BracketRound
	if seeded, _ := strconv.ParseBool(r.URL.Query().Get("seeded")); seeded {
		rounds = tournament.SeededBracket(lineup)
	} else {
		s.mu.Lock()
		rounds = tournament.RandomBracket(lineup, s.opts.Rand)
		s.mu.Unlock()
	}
	if rounds == nil {
		rounds = []tournament.BracketRound{}
	}
	s.writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) backup(w http.ResponseWriter, r *http.Request) {
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := teamcup.Backup(state)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", teamcup.BackupFilename(s.opts.Now())))
	w.Write(data)
}

func (s *Server) restore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	state, err := teamcup.Restore(data, s.opts.Events)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	err = s.store.Replace(state.Teams, state.Results)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.WithFields(logrus.Fields{"teams": len(state.Teams), "results": len(state.Results)}).Info("Tournament restored")
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) print(w http.ResponseWriter, r *http.Request) {
	cfg, err := sortConfig(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := s.load()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := teamcup.GenerateHTML(state, s.opts.Title, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

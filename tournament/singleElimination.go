package tournament

import (
	"math/rand"
	"strings"

	"github.com/justinjudd/teamcup/models"
)

const (
	// ByeName is shown in a bracket slot with no participant
	ByeName = "BYE"
	// TBDName is shown in a slot waiting on the winner of an earlier match
	TBDName = "TBD"
)

// Participant is a team entered in the knockout bracket of a single event
type Participant struct {
	Name    string `json:"name"`
	Players string `json:"players,omitempty"`
}

// IsBye determines if the bracket slot is empty
func (p Participant) IsBye() bool {
	return p.Name == ByeName && p.Players == ""
}

// BracketMatch is a pairing within a bracket round
type BracketMatch struct {
	Top    Participant `json:"top"`
	Bottom Participant `json:"bottom"`
}

// Competitive determines if both sides of the match have a participant
func (m BracketMatch) Competitive() bool {
	return !m.Top.IsBye() && !m.Bottom.IsBye()
}

// Hidden determines if neither side has a participant, such matches aren't displayed
func (m BracketMatch) Hidden() bool {
	return m.Top.IsBye() && m.Bottom.IsBye()
}

// BracketRound is a single round of a knockout bracket
type BracketRound []BracketMatch

var (
	byeParticipant = Participant{Name: ByeName}
	tbdParticipant = Participant{Name: TBDName}
)

// Lineup lists the teams that have players assigned to event, with their players joined for display
func Lineup(teams []models.Team, event string) []Participant {
	participants := []Participant{}
	for _, team := range teams {
		var players []string
		for _, p := range team.Players[event] {
			if strings.TrimSpace(p) != "" {
				players = append(players, p)
			}
		}
		if len(players) == 0 {
			continue
		}
		participants = append(participants, Participant{Name: team.Name, Players: strings.Join(players, " & ")})
	}
	return participants
}

// RandomBracket draws participants into a single elimination bracket in a random order. rng may be seeded for repeatable draws.
// Empty slots are added at the end to fill the bracket to a power of two.
func RandomBracket(participants []Participant, rng *rand.Rand) []BracketRound {
	if len(participants) < 2 {
		return nil
	}
	drawn := make([]Participant, len(participants))
	copy(drawn, participants)
	if rng != nil {
		rng.Shuffle(len(drawn), func(i, j int) {
			drawn[i], drawn[j] = drawn[j], drawn[i]
		})
	}

	slots := make([]Participant, bracketSize(len(drawn)))
	for i := range slots {
		if i < len(drawn) {
			slots[i] = drawn[i]
		} else {
			slots[i] = byeParticipant
		}
	}
	return playOut(slots)
}

// SeededBracket places participants, given best first, so the strongest only meet in the late rounds.
// Top seeds receive the byes.
func SeededBracket(participants []Participant) []BracketRound {
	if len(participants) < 2 {
		return nil
	}
	ranked := make([]*Participant, len(participants))
	for i := range participants {
		ranked[i] = &participants[i]
	}

	seeded := seed(ranked)
	slots := make([]Participant, len(seeded))
	for i, p := range seeded {
		if p == nil {
			slots[i] = byeParticipant
			continue
		}
		slots[i] = *p
	}
	return playOut(slots)
}

// playOut builds every round of the bracket. Byes advance their opponent, real matches advance a TBD placeholder
func playOut(slots []Participant) []BracketRound {
	var rounds []BracketRound
	for len(slots) >= 2 {
		round := make(BracketRound, 0, len(slots)/2)
		next := make([]Participant, 0, len(slots)/2)
		for i := 0; i+1 < len(slots); i += 2 {
			top, bottom := slots[i], slots[i+1]
			round = append(round, BracketMatch{Top: top, Bottom: bottom})

			switch {
			case top.IsBye() && bottom.IsBye():
				next = append(next, byeParticipant)
			case top.IsBye():
				next = append(next, bottom)
			case bottom.IsBye():
				next = append(next, top)
			default:
				next = append(next, tbdParticipant)
			}
		}
		rounds = append(rounds, round)
		slots = next
	}
	return rounds
}

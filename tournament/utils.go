package tournament

import (
	"math"
)

func orderPivots(n int) []int {
	ordered := []int{0}
	for i := n - 1; i > 0; i-- {
		ordered = append(ordered, i)
	}

	return ordered
}

type pivot struct {
	Place int
	Span  int
}

// bracketSize is the smallest power of two that fits n participants
func bracketSize(n int) int {
	if n < 2 {
		return n
	}
	return int(math.Pow(2.0, math.Ceil(math.Log2(float64(n)))))
}

// seed places participants, best first, into bracket positions so the top seeds only meet late.
// The bracket is padded to a power of two, and the empty positions (nil) fall against the top seeds.
func seed(participants []*Participant) []*Participant {
	teams := make([]*Participant, bracketSize(len(participants)))
	copy(teams, participants)

	orderedTeams := make([]*Participant, len(teams))
	count := 0
	pivots := []pivot{{0, len(teams)}}
	place := func(p pivot, order int) {
		p1 := p.Place
		p2 := p1 + 1
		if order%2 != 0 {
			p1 = p1 - 1
			if p1 < 0 {
				p1 += p.Span
			}
			p2 = p1 - 1
		}
		orderedTeams[p1] = teams[count]
		orderedTeams[p2] = teams[len(teams)-(count+1)]
		count++
	}

	for count < len(teams)/2 {
		ordered := orderPivots(len(pivots))
		order := 0
		for _, i := range ordered {
			place(pivots[i], order)
			order++
		}
		for i := len(ordered) - 1; i >= 0 && count < len(teams)/2; i-- {
			place(pivots[ordered[i]], order)
			order++
		}

		newPivots := []pivot{}
		for _, p := range pivots {
			span := p.Span / 2
			at := p.Place - span
			if at > 0 && at < len(teams) {
				newPivots = append(newPivots, pivot{at, span})
			}
			at = p.Place + span
			if at > 0 && at < len(teams) {
				newPivots = append(newPivots, pivot{at, span})
			}
		}
		pivots = newPivots
	}

	return orderedTeams
}

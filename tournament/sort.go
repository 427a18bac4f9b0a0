package tournament

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the column standings are ordered by
type SortKey string

const (
	SortPlayed         SortKey = "played"
	SortWins           SortKey = "wins"
	SortLosses         SortKey = "losses"
	SortCategoriesWon  SortKey = "categoriesWon"
	SortCategoriesLost SortKey = "categoriesLost"
	SortPoints         SortKey = "points"
	SortTeamName       SortKey = "teamName"
)

// SortOrder is either ascending or descending
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

var sortKeys = map[SortKey]bool{
	SortPlayed:         true,
	SortWins:           true,
	SortLosses:         true,
	SortCategoriesWon:  true,
	SortCategoriesLost: true,
	SortPoints:         true,
	SortTeamName:       true,
}

// ParseSortKey validates a sort key coming from a caller
func ParseSortKey(s string) (SortKey, bool) {
	key := SortKey(s)
	return key, sortKeys[key]
}

// SortConfig is the current ordering of a standings table
type SortConfig struct {
	Key   SortKey   `json:"sortKey"`
	Order SortOrder `json:"sortOrder"`
}

// DefaultSort orders by points, highest first
func DefaultSort() SortConfig {
	return SortConfig{Key: SortPoints, Order: Descending}
}

// Toggle selects key. Selecting the current key again flips the order, a new key starts descending
func (c SortConfig) Toggle(key SortKey) SortConfig {
	if c.Key == key {
		if c.Order == Ascending {
			c.Order = Descending
		} else {
			c.Order = Ascending
		}
		return c
	}
	return SortConfig{Key: key, Order: Descending}
}

// compareNumbers orders a and b for the primary key, a negative result means a sorts first
func (c SortConfig) compareNumbers(a, b int) int {
	if c.Order == Ascending {
		return a - b
	}
	return b - a
}

func (c SortConfig) compareNames(collator *collate.Collator, a, b string) int {
	cmp := collator.CompareString(a, b)
	if c.Order == Descending {
		return -cmp
	}
	return cmp
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// SortEventRows returns a sorted copy of rows. Ties fall back to more points, then more wins, then fewer losses,
// and otherwise keep their original order.
func SortEventRows(rows []EventRow, cfg SortConfig) []EventRow {
	sorted := make([]EventRow, len(rows))
	copy(sorted, rows)
	collator := newCollator()

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var cmp int
		if cfg.Key == SortTeamName {
			cmp = cfg.compareNames(collator, a.Team, b.Team)
		} else {
			cmp = cfg.compareNumbers(eventValue(a.TeamStats, cfg.Key), eventValue(b.TeamStats, cfg.Key))
		}
		if cmp != 0 {
			return cmp < 0
		}
		if cfg.Key != SortPoints && a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.Losses < b.Losses
	})

	return sorted
}

// eventValue reads a column of the per event table. Keys that only exist in the group table fall back to points
func eventValue(s TeamStats, key SortKey) int {
	switch key {
	case SortPlayed:
		return s.Played
	case SortWins:
		return s.Wins
	case SortLosses:
		return s.Losses
	}
	return s.Points
}

// SortGroupRows returns a sorted copy of rows. Ties fall back to more points, then the better category difference,
// and otherwise keep their original order.
func SortGroupRows(rows []GroupRow, cfg SortConfig) []GroupRow {
	sorted := make([]GroupRow, len(rows))
	copy(sorted, rows)
	collator := newCollator()

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var cmp int
		if cfg.Key == SortTeamName {
			cmp = cfg.compareNames(collator, a.Team, b.Team)
		} else {
			cmp = cfg.compareNumbers(groupValue(a.GroupStats, cfg.Key), groupValue(b.GroupStats, cfg.Key))
		}
		if cmp != 0 {
			return cmp < 0
		}
		if cfg.Key != SortPoints && a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.CategoryDifference() > b.CategoryDifference()
	})

	return sorted
}

func groupValue(s GroupStats, key SortKey) int {
	switch key {
	case SortPlayed:
		return s.Played
	case SortWins:
		return s.Wins
	case SortLosses:
		return s.Losses
	case SortCategoriesWon:
		return s.CategoriesWon
	case SortCategoriesLost:
		return s.CategoriesLost
	}
	return s.Points
}

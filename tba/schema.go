package tba

import (
	"slices"
	"sort"
)

const RecordColumnName = "Record (W-L-T)"

// Season is one of the competition years a ranking schema exists for.
type Season int

const (
	Season2018 Season = 2018
	Season2019 Season = 2019
	Season2022 Season = 2022
)

// Column names must match the sort orders TBA keeps for each year.
var rankingNames = map[Season][]string{
	Season2018: {
		"Ranking Score",
		"End Game",
		"Auto",
		"Ownership",
		"Vault",
		RecordColumnName,
	},
	Season2019: {
		"Ranking Score",
		"Cargo",
		"Hatch Panel",
		"HAB Climb",
		"Sandstorm Bonus",
		RecordColumnName,
	},
	Season2022: {
		"Ranking Score",
		"Avg Match",
		"Avg Hangar",
		"Avg Taxi + Auto Cargo",
		RecordColumnName,
	},
}

// RankingNames returns the ordered column labels for a year, including the
// trailing record column. The returned slice is a copy.
func RankingNames(year int) ([]string, bool) {
	names, ok := rankingNames[Season(year)]
	if !ok {
		return nil, false
	}
	return slices.Clone(names), true
}

// Seasons lists every registered year in ascending order.
func Seasons() []int {
	years := make([]int, 0, len(rankingNames))
	for s := range rankingNames {
		years = append(years, int(s))
	}
	sort.Ints(years)
	return years
}

// sortColumnNames is the schema without the record column
func sortColumnNames(s Season) []string {
	names := rankingNames[s]
	return names[:len(names)-1]
}

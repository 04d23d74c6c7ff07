package tba

// TeamRankingRecord is one row of an FMS ranking report.
type TeamRankingRecord struct {
	Team   int
	Rank   int
	Played int
	DQ     int
	Wins   int
	Losses int
	Ties   int

	// Positional ranking criteria. Their meaning depends on the season.
	Sort1 float64
	Sort2 float64
	Sort3 float64
	Sort4 float64
	Sort5 float64
}

// RankingRow is a single entry of the TBA rankings update payload, keyed by
// column name.
type RankingRow map[string]any

// RankingsUpdate is the request body for TBA's event rankings update.
type RankingsUpdate struct {
	EventKey   string       `json:"event_key,omitempty" yaml:"event_key,omitempty"`
	Breakdowns []string     `json:"breakdowns" yaml:"breakdowns"`
	Rankings   []RankingRow `json:"rankings" yaml:"rankings"`
}

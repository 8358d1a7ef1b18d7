package entity

// StatsSummary - aggregate counters over all completed games.
type StatsSummary struct {
	XWins int64 `json:"x_wins"`
	OWins int64 `json:"o_wins"`
	Draws int64 `json:"draws"`
	Total int64 `json:"total"`
}

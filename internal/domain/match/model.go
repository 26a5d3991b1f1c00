package match

import "time"

// Provider-controlled status strings.
const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusPaused    = "PAUSED"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
	StatusSuspended = "SUSPENDED"
)

// Match carries three independent lifecycle flags. IsMain means the match
// sits inside the rolling live-polling window; IsHead2Head and IsPrevMatch
// mean the match is retained as a recent meeting of its pair or as one of a
// team's recent finished matches. A match with all three flags false is an
// orphan and is deleted by the garbage collector.
type Match struct {
	ID            int64      `json:"id"`
	UTCDate       time.Time  `json:"utcDate"`
	Status        string     `json:"status"`
	Matchday      int        `json:"matchday"`
	Stage         string     `json:"stage"`
	CompetitionID int64      `json:"competitionId"`
	HomeTeamID    *int64     `json:"homeTeamId"`
	AwayTeamID    *int64     `json:"awayTeamId"`
	Score         Score      `json:"score"`
	Referees      []string   `json:"referees"`
	IsMain        bool       `json:"isMain"`
	IsHead2Head   bool       `json:"isHead2Head"`
	IsPrevMatch   bool       `json:"isPrevMatch"`
	Head2HeadID   string     `json:"head2head"`
	Prediction    *Outcome   `json:"prediction"`
}

type Score struct {
	Winner   string    `json:"winner"`
	HalfTime ScorePair `json:"halfTime"`
	FullTime ScorePair `json:"fullTime"`
}

type ScorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Outcome percentages are rounded independently to two decimals and are not
// guaranteed to sum to exactly 100.
type Outcome struct {
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

func (m Match) Finished() bool {
	return m.Status == StatusFinished
}

// Orphaned matches have no lifecycle flag left, or lost a team reference
// to pruning.
func (m Match) Orphaned() bool {
	if m.HomeTeamID == nil || m.AwayTeamID == nil {
		return true
	}
	return !m.IsMain && !m.IsHead2Head && !m.IsPrevMatch
}

// Involves reports whether the given team played either side.
func (m Match) Involves(teamID int64) bool {
	if m.HomeTeamID != nil && *m.HomeTeamID == teamID {
		return true
	}
	return m.AwayTeamID != nil && *m.AwayTeamID == teamID
}

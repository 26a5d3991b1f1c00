package competition

import "time"

// Competition is the denormalized competition document. Teams holds bare
// team ids; once a sync cycle completes every id resolves to a stored Team.
type Competition struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	Emblem      string     `json:"emblem"`
	Ranking     Ranking    `json:"ranking"`
	Season      Season     `json:"currentSeason"`
	Teams       []int64    `json:"teams"`
	Standings   []Standing `json:"standings"`
	LastUpdated string     `json:"lastUpdated"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

const (
	TypeLeague = "LEAGUE"
	TypeCup    = "CUP"
)

// Ranking is the friendly display name/code attached from a static lookup
// when the provider code matches a known competition.
type Ranking struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type Season struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CurrentMatchday int    `json:"currentMatchday"`
	WinnerTeamID    *int64 `json:"winnerTeamId"`
}

// Standing is rebuilt wholesale on each refresh, never merged.
type Standing struct {
	Stage string     `json:"stage"`
	Type  string     `json:"type"`
	Group string     `json:"group"`
	Table []TableRow `json:"table"`
}

type TableRow struct {
	Position       int   `json:"position"`
	TeamID         int64 `json:"teamId"`
	PlayedGames    int   `json:"playedGames"`
	Won            int   `json:"won"`
	Draw           int   `json:"draw"`
	Lost           int   `json:"lost"`
	Points         int   `json:"points"`
	GoalsFor       int   `json:"goalsFor"`
	GoalsAgainst   int   `json:"goalsAgainst"`
	GoalDifference int   `json:"goalDifference"`
}

// Stale reports whether the competition needs a provider refresh: local
// copy older than the interval, or no standings recorded at all.
func (c Competition) Stale(now time.Time, maxAge time.Duration) bool {
	if len(c.Standings) == 0 {
		return true
	}
	return now.Sub(c.UpdatedAt) > maxAge
}

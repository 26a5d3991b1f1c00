package headtohead

import (
	"fmt"
	"time"
)

// HeadToHead aggregates the historical record between two teams. Its id is
// the order-independent pair key, so either team ordering resolves to the
// same document.
type HeadToHead struct {
	ID         string     `json:"id"`
	ResultSet  ResultSet  `json:"resultSet"`
	Aggregates Aggregates `json:"aggregates"`
	Matches    []int64    `json:"matches"`
}

type ResultSet struct {
	Count int        `json:"count"`
	First *time.Time `json:"first"`
	Last  *time.Time `json:"last"`
}

type Aggregates struct {
	NumberOfMatches int           `json:"numberOfMatches"`
	TotalGoals      int           `json:"totalGoals"`
	HomeTeam        TeamAggregate `json:"homeTeam"`
	AwayTeam        TeamAggregate `json:"awayTeam"`
}

type TeamAggregate struct {
	TeamID   int64 `json:"teamId"`
	HalfTime Tally `json:"halfTime"`
	FullTime Tally `json:"fullTime"`
}

type Tally struct {
	Wins          int `json:"wins"`
	Draws         int `json:"draws"`
	Losses        int `json:"losses"`
	GoalsScored   int `json:"goalsScored"`
	GoalsConceded int `json:"goalsConceded"`
}

// PairKey derives the composite id from the unordered team pair.
func PairKey(teamA, teamB int64) string {
	if teamA > teamB {
		teamA, teamB = teamB, teamA
	}
	return fmt.Sprintf("%d-%d", teamA, teamB)
}

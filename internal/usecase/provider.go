package usecase

import (
	"context"
	"time"
)

// DataProvider is the rate-limited upstream client. All calls share one
// pacing slot: there is never more than one inflight provider request, and
// Cooldown lets sync loops impose larger per-iteration delays on top of the
// base inter-call interval.
type DataProvider interface {
	ListCompetitions(ctx context.Context) ([]ExternalCompetition, error)
	GetCompetition(ctx context.Context, code string) (ExternalCompetition, error)
	GetStandings(ctx context.Context, competitionID int64) ([]ExternalStanding, error)
	GetCompetitionTeams(ctx context.Context, competitionID int64) ([]ExternalTeam, error)
	GetMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]ExternalMatch, error)
	GetCompetitionMatches(ctx context.Context, competitionID int64, filter MatchFilter) ([]ExternalMatch, error)
	GetHeadToHead(ctx context.Context, matchID int64, limit int) (ExternalHeadToHead, error)
	Cooldown(ctx context.Context, d time.Duration) error
}

// MatchFilter narrows a competition match listing. Zero values mean "no
// filter" for the corresponding field.
type MatchFilter struct {
	Status   string
	Matchday int
	Stage    string
}

type ExternalCompetition struct {
	ID          int64
	Name        string
	Code        string
	Type        string
	Emblem      string
	Season      ExternalSeason
	LastUpdated string
}

type ExternalSeason struct {
	StartDate       string
	EndDate         string
	CurrentMatchday int
	WinnerTeamID    *int64
}

type ExternalStanding struct {
	Stage string
	Type  string
	Group string
	Table []ExternalTableRow
}

type ExternalTableRow struct {
	Position       int
	TeamID         int64
	PlayedGames    int
	Won            int
	Draw           int
	Lost           int
	Points         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
}

type ExternalTeam struct {
	ID         int64
	Name       string
	ShortName  string
	TLA        string
	Crest      string
	Venue      string
	ClubColors string
	Squad      []ExternalPlayer
}

type ExternalPlayer struct {
	ID          int64
	Name        string
	FirstName   string
	LastName    string
	DateOfBirth string
	Nationality string
	Position    string
	ShirtNumber int
}

type ExternalMatch struct {
	ID            int64
	UTCDate       time.Time
	Status        string
	Matchday      int
	Stage         string
	CompetitionID int64
	HomeTeamID    *int64
	AwayTeamID    *int64
	Score         ExternalScore
	Referees      []string
}

type ExternalScore struct {
	Winner       string
	HalfTimeHome *int
	HalfTimeAway *int
	FullTimeHome *int
	FullTimeAway *int
}

type ExternalHeadToHead struct {
	ResultSet ExternalResultSet
	Matches   []ExternalMatch
}

type ExternalResultSet struct {
	Count int
	First *time.Time
	Last  *time.Time
}

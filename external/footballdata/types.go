package footballdata

import (
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

// Wire envelopes as the provider returns them. Only the fields the sync
// pipeline consumes are decoded.

type competitionsEnvelope struct {
	Competitions []competitionPayload `json:"competitions"`
}

type competitionPayload struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Code          string        `json:"code"`
	Type          string        `json:"type"`
	Emblem        string        `json:"emblem"`
	CurrentSeason seasonPayload `json:"currentSeason"`
	LastUpdated   string        `json:"lastUpdated"`
}

type seasonPayload struct {
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	CurrentMatchday int             `json:"currentMatchday"`
	Winner          *teamRefPayload `json:"winner"`
}

type standingsEnvelope struct {
	Standings []standingPayload `json:"standings"`
}

type standingPayload struct {
	Stage string            `json:"stage"`
	Type  string            `json:"type"`
	Group string            `json:"group"`
	Table []tableRowPayload `json:"table"`
}

type tableRowPayload struct {
	Position       int            `json:"position"`
	Team           teamRefPayload `json:"team"`
	PlayedGames    int            `json:"playedGames"`
	Won            int            `json:"won"`
	Draw           int            `json:"draw"`
	Lost           int            `json:"lost"`
	Points         int            `json:"points"`
	GoalsFor       int            `json:"goalsFor"`
	GoalsAgainst   int            `json:"goalsAgainst"`
	GoalDifference int            `json:"goalDifference"`
}

type teamRefPayload struct {
	ID int64 `json:"id"`
}

type teamsEnvelope struct {
	Teams []teamPayload `json:"teams"`
}

type teamPayload struct {
	ID         int64                `json:"id"`
	Name       string               `json:"name"`
	ShortName  string               `json:"shortName"`
	TLA        string               `json:"tla"`
	Crest      string               `json:"crest"`
	Venue      string               `json:"venue"`
	ClubColors string               `json:"clubColors"`
	Squad      []squadMemberPayload `json:"squad"`
}

type squadMemberPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Position    string `json:"position"`
	ShirtNumber int    `json:"shirtNumber"`
}

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	ID          int64            `json:"id"`
	UTCDate     time.Time        `json:"utcDate"`
	Status      string           `json:"status"`
	Matchday    int              `json:"matchday"`
	Stage       string           `json:"stage"`
	Competition teamRefPayload   `json:"competition"`
	HomeTeam    matchSidePayload `json:"homeTeam"`
	AwayTeam    matchSidePayload `json:"awayTeam"`
	Score       scorePayload     `json:"score"`
	Referees    []refereePayload `json:"referees"`
}

// matchSidePayload carries a nullable id; matches far in the future may not
// have both sides decided yet.
type matchSidePayload struct {
	ID *int64 `json:"id"`
}

type scorePayload struct {
	Winner   string           `json:"winner"`
	HalfTime scoreSidePayload `json:"halfTime"`
	FullTime scoreSidePayload `json:"fullTime"`
}

type scoreSidePayload struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type refereePayload struct {
	Name string `json:"name"`
}

type headToHeadEnvelope struct {
	ResultSet resultSetPayload `json:"resultSet"`
	Matches   []matchPayload   `json:"matches"`
}

type resultSetPayload struct {
	Count int    `json:"count"`
	First string `json:"first"`
	Last  string `json:"last"`
}

func mapExternalCompetition(p competitionPayload) usecase.ExternalCompetition {
	return usecase.ExternalCompetition{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Type:        p.Type,
		Emblem:      p.Emblem,
		Season:      mapExternalSeason(p.CurrentSeason),
		LastUpdated: p.LastUpdated,
	}
}

func mapExternalSeason(p seasonPayload) usecase.ExternalSeason {
	season := usecase.ExternalSeason{
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		CurrentMatchday: p.CurrentMatchday,
	}
	if p.Winner != nil {
		id := p.Winner.ID
		season.WinnerTeamID = &id
	}
	return season
}

func mapExternalStanding(p standingPayload) usecase.ExternalStanding {
	table := make([]usecase.ExternalTableRow, 0, len(p.Table))
	for _, row := range p.Table {
		table = append(table, usecase.ExternalTableRow{
			Position:       row.Position,
			TeamID:         row.Team.ID,
			PlayedGames:    row.PlayedGames,
			Won:            row.Won,
			Draw:           row.Draw,
			Lost:           row.Lost,
			Points:         row.Points,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
		})
	}
	return usecase.ExternalStanding{
		Stage: p.Stage,
		Type:  p.Type,
		Group: p.Group,
		Table: table,
	}
}

func mapExternalTeam(p teamPayload) usecase.ExternalTeam {
	squad := make([]usecase.ExternalPlayer, 0, len(p.Squad))
	for _, member := range p.Squad {
		squad = append(squad, usecase.ExternalPlayer{
			ID:          member.ID,
			Name:        member.Name,
			FirstName:   member.FirstName,
			LastName:    member.LastName,
			DateOfBirth: member.DateOfBirth,
			Nationality: member.Nationality,
			Position:    member.Position,
			ShirtNumber: member.ShirtNumber,
		})
	}
	return usecase.ExternalTeam{
		ID:         p.ID,
		Name:       p.Name,
		ShortName:  p.ShortName,
		TLA:        p.TLA,
		Crest:      p.Crest,
		Venue:      p.Venue,
		ClubColors: p.ClubColors,
		Squad:      squad,
	}
}

func mapExternalMatch(p matchPayload) usecase.ExternalMatch {
	referees := make([]string, 0, len(p.Referees))
	for _, ref := range p.Referees {
		if ref.Name != "" {
			referees = append(referees, ref.Name)
		}
	}
	return usecase.ExternalMatch{
		ID:            p.ID,
		UTCDate:       p.UTCDate,
		Status:        p.Status,
		Matchday:      p.Matchday,
		Stage:         p.Stage,
		CompetitionID: p.Competition.ID,
		HomeTeamID:    p.HomeTeam.ID,
		AwayTeamID:    p.AwayTeam.ID,
		Score: usecase.ExternalScore{
			Winner:       p.Score.Winner,
			HalfTimeHome: p.Score.HalfTime.Home,
			HalfTimeAway: p.Score.HalfTime.Away,
			FullTimeHome: p.Score.FullTime.Home,
			FullTimeAway: p.Score.FullTime.Away,
		},
		Referees: referees,
	}
}

func mapExternalResultSet(p resultSetPayload) usecase.ExternalResultSet {
	return usecase.ExternalResultSet{
		Count: p.Count,
		First: parseProviderDate(p.First),
		Last:  parseProviderDate(p.Last),
	}
}

func parseProviderDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

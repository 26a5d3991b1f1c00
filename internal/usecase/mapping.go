package usecase

import (
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
)

// Provider payloads are remapped to local documents keyed by the provider's
// stable numeric ids; nested references are flattened to bare ids.

func mapCompetition(ext ExternalCompetition) competition.Competition {
	return competition.Competition{
		ID:          ext.ID,
		Name:        ext.Name,
		Code:        ext.Code,
		Type:        ext.Type,
		Emblem:      ext.Emblem,
		Season:      mapSeason(ext.Season),
		LastUpdated: ext.LastUpdated,
	}
}

func mapSeason(ext ExternalSeason) competition.Season {
	return competition.Season{
		StartDate:       ext.StartDate,
		EndDate:         ext.EndDate,
		CurrentMatchday: ext.CurrentMatchday,
		WinnerTeamID:    ext.WinnerTeamID,
	}
}

func mapStandings(items []ExternalStanding) []competition.Standing {
	out := make([]competition.Standing, 0, len(items))
	for _, ext := range items {
		table := make([]competition.TableRow, 0, len(ext.Table))
		for _, row := range ext.Table {
			table = append(table, competition.TableRow{
				Position:       row.Position,
				TeamID:         row.TeamID,
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
		out = append(out, competition.Standing{
			Stage: ext.Stage,
			Type:  ext.Type,
			Group: ext.Group,
			Table: table,
		})
	}
	return out
}

// mapTeam returns the team document plus its squad as standalone players;
// the squad ids on the team only ever reference players returned alongside.
func mapTeam(ext ExternalTeam) (team.Team, []player.Player) {
	squad := make([]int64, 0, len(ext.Squad))
	players := make([]player.Player, 0, len(ext.Squad))
	for _, p := range ext.Squad {
		squad = append(squad, p.ID)
		players = append(players, player.Player{
			ID:          p.ID,
			Name:        p.Name,
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: p.DateOfBirth,
			Nationality: p.Nationality,
			Position:    p.Position,
			ShirtNumber: p.ShirtNumber,
			TeamID:      ext.ID,
		})
	}

	return team.Team{
		ID:         ext.ID,
		Name:       ext.Name,
		ShortName:  ext.ShortName,
		TLA:        ext.TLA,
		Crest:      ext.Crest,
		Venue:      ext.Venue,
		ClubColors: ext.ClubColors,
		Squad:      squad,
	}, players
}

func mapMatch(ext ExternalMatch) match.Match {
	return match.Match{
		ID:            ext.ID,
		UTCDate:       ext.UTCDate.UTC(),
		Status:        ext.Status,
		Matchday:      ext.Matchday,
		Stage:         ext.Stage,
		CompetitionID: ext.CompetitionID,
		HomeTeamID:    ext.HomeTeamID,
		AwayTeamID:    ext.AwayTeamID,
		Score: match.Score{
			Winner: ext.Score.Winner,
			HalfTime: match.ScorePair{
				Home: ext.Score.HalfTimeHome,
				Away: ext.Score.HalfTimeAway,
			},
			FullTime: match.ScorePair{
				Home: ext.Score.FullTimeHome,
				Away: ext.Score.FullTimeAway,
			},
		},
		Referees: ext.Referees,
	}
}

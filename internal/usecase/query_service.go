package usecase

import (
	"context"
	"fmt"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
)

// QueryService is the read side served over HTTP. It never talks to the
// provider; everything comes from the local store.
type QueryService struct {
	competitions competition.Repository
	teams        team.Repository
	players      player.Repository
	matches      match.Repository
	headToHead   headtohead.Repository
}

func NewQueryService(
	competitions competition.Repository,
	teams team.Repository,
	players player.Repository,
	matches match.Repository,
	headToHead headtohead.Repository,
) *QueryService {
	return &QueryService{
		competitions: competitions,
		teams:        teams,
		players:      players,
		matches:      matches,
		headToHead:   headToHead,
	}
}

// TeamDetail bundles a team with its resolved squad.
type TeamDetail struct {
	Team  team.Team       `json:"team"`
	Squad []player.Player `json:"squad"`
}

func (s *QueryService) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListCompetitions")
	defer span.End()

	return s.competitions.List(ctx)
}

func (s *QueryService) GetCompetition(ctx context.Context, id int64) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetCompetition")
	defer span.End()

	if id <= 0 {
		return competition.Competition{}, fmt.Errorf("%w: competition id must be positive", ErrInvalidInput)
	}
	return s.competitions.GetByID(ctx, id)
}

func (s *QueryService) GetStandings(ctx context.Context, id int64) ([]competition.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetStandings")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: competition id must be positive", ErrInvalidInput)
	}
	comp, err := s.competitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return comp.Standings, nil
}

func (s *QueryService) GetTeam(ctx context.Context, id int64) (TeamDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetTeam")
	defer span.End()

	if id <= 0 {
		return TeamDetail{}, fmt.Errorf("%w: team id must be positive", ErrInvalidInput)
	}
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return TeamDetail{}, err
	}

	all, err := s.players.List(ctx)
	if err != nil {
		return TeamDetail{}, err
	}
	squad := make([]player.Player, 0, len(t.Squad))
	for _, p := range all {
		if p.TeamID == t.ID {
			squad = append(squad, p)
		}
	}

	return TeamDetail{Team: t, Squad: squad}, nil
}

// ListMainMatches returns the matches inside the current live window.
func (s *QueryService) ListMainMatches(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.ListMainMatches")
	defer span.End()

	return s.matches.ListMain(ctx)
}

func (s *QueryService) GetMatch(ctx context.Context, id int64) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetMatch")
	defer span.End()

	if id <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}
	return s.matches.GetByID(ctx, id)
}

// GetMatchHeadToHead resolves a match's head-to-head record, including the
// stored meetings it references.
func (s *QueryService) GetMatchHeadToHead(ctx context.Context, matchID int64) (headtohead.HeadToHead, []match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QueryService.GetMatchHeadToHead")
	defer span.End()

	if matchID <= 0 {
		return headtohead.HeadToHead{}, nil, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return headtohead.HeadToHead{}, nil, err
	}
	if m.Head2HeadID == "" {
		return headtohead.HeadToHead{}, nil, fmt.Errorf("%w: match %d has no head-to-head record", ErrNotFound, matchID)
	}

	record, err := s.headToHead.GetByID(ctx, m.Head2HeadID)
	if err != nil {
		return headtohead.HeadToHead{}, nil, err
	}

	meetings := make([]match.Match, 0, len(record.Matches))
	for _, id := range record.Matches {
		meeting, err := s.matches.GetByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return headtohead.HeadToHead{}, nil, err
		}
		meetings = append(meetings, meeting)
	}

	return record, meetings, nil
}

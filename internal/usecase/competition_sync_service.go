package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

const (
	competitionMaxAge   = 24 * time.Hour
	defaultSyncCooldown = 10 * time.Second
)

// Friendly display ranking attached when the provider code is a known
// competition; unknown codes keep a zero ranking.
var rankingByCode = map[string]competition.Ranking{
	"PL":  {Name: "Premier League", Code: "premier-league"},
	"PD":  {Name: "La Liga", Code: "la-liga"},
	"SA":  {Name: "Serie A", Code: "serie-a"},
	"BL1": {Name: "Bundesliga", Code: "bundesliga"},
	"FL1": {Name: "Ligue 1", Code: "ligue-1"},
	"DED": {Name: "Eredivisie", Code: "eredivisie"},
	"PPL": {Name: "Primeira Liga", Code: "primeira-liga"},
	"ELC": {Name: "Championship", Code: "championship"},
	"CL":  {Name: "Champions League", Code: "champions-league"},
	"EC":  {Name: "European Championship", Code: "euros"},
	"WC":  {Name: "World Cup", Code: "world-cup"},
	"BSA": {Name: "Brasileirão", Code: "brasileirao"},
	"CLI": {Name: "Copa Libertadores", Code: "copa-libertadores"},
}

type CompetitionSyncService struct {
	provider     DataProvider
	competitions competition.Repository
	teams        team.Repository
	players      player.Repository
	maxAge       time.Duration
	cooldown     time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

func NewCompetitionSyncService(
	provider DataProvider,
	competitions competition.Repository,
	teams team.Repository,
	players player.Repository,
	cooldown time.Duration,
	logger *logging.Logger,
) *CompetitionSyncService {
	if cooldown <= 0 {
		cooldown = defaultSyncCooldown
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &CompetitionSyncService{
		provider:     provider,
		competitions: competitions,
		teams:        teams,
		players:      players,
		maxAge:       competitionMaxAge,
		cooldown:     cooldown,
		logger:       logger,
		now:          time.Now,
	}
}

// EnsureCompetitions bootstraps an empty store from the provider list. It is
// a one-time path: any stored competition at all makes it a no-op.
func (s *CompetitionSyncService) EnsureCompetitions(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionSyncService.EnsureCompetitions")
	defer span.End()

	count, err := s.competitions.Count(ctx)
	if err != nil {
		return fmt.Errorf("count competitions: %w", err)
	}
	if count > 0 {
		return nil
	}

	external, err := s.provider.ListCompetitions(ctx)
	if err != nil {
		return fmt.Errorf("list provider competitions: %w", err)
	}

	items := make([]competition.Competition, 0, len(external))
	for _, ext := range external {
		item := mapCompetition(ext)
		item.Ranking = rankingByCode[item.Code]
		item.UpdatedAt = s.now()
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}

	if err := s.competitions.InsertMany(ctx, items); err != nil {
		return fmt.Errorf("insert competitions: %w", err)
	}

	s.logger.InfoContext(ctx, "competition bootstrap complete", "count", len(items))
	return nil
}

// RefreshStale refetches every stale competition sequentially, one cool-down
// apart. The first provider failure aborts the remaining loop; the next run
// retries wholesale.
func (s *CompetitionSyncService) RefreshStale(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionSyncService.RefreshStale")
	defer span.End()

	comps, err := s.competitions.List(ctx)
	if err != nil {
		return fmt.Errorf("list competitions: %w", err)
	}

	now := s.now()
	for _, comp := range comps {
		if !comp.Stale(now, s.maxAge) {
			continue
		}
		if err := s.refreshOne(ctx, comp); err != nil {
			return err
		}
		if err := s.provider.Cooldown(ctx, s.cooldown); err != nil {
			return err
		}
	}

	return nil
}

func (s *CompetitionSyncService) refreshOne(ctx context.Context, comp competition.Competition) error {
	detail, err := s.provider.GetCompetition(ctx, comp.Code)
	if err != nil {
		return fmt.Errorf("fetch competition %s: %w", comp.Code, err)
	}
	if detail.LastUpdated == comp.LastUpdated {
		s.logger.DebugContext(ctx, "competition unchanged upstream, skipping write", "code", comp.Code)
		return nil
	}

	standings, err := s.provider.GetStandings(ctx, comp.ID)
	if err != nil {
		return fmt.Errorf("fetch standings for %s: %w", comp.Code, err)
	}

	seasonChanged := detail.Season.StartDate != comp.Season.StartDate

	comp.Name = detail.Name
	comp.Emblem = detail.Emblem
	if detail.Type != "" {
		comp.Type = detail.Type
	}
	comp.Season = mapSeason(detail.Season)
	comp.Standings = mapStandings(standings)
	comp.LastUpdated = detail.LastUpdated
	comp.UpdatedAt = s.now()

	if seasonChanged || len(comp.Teams) == 0 {
		teamIDs, err := s.syncRoster(ctx, comp)
		if err != nil {
			return err
		}
		comp.Teams = teamIDs
	}

	if err := s.competitions.Update(ctx, comp); err != nil {
		return fmt.Errorf("update competition %s: %w", comp.Code, err)
	}

	s.logger.InfoContext(ctx, "competition refreshed",
		"code", comp.Code,
		"standings", len(comp.Standings),
		"teams", len(comp.Teams),
	)
	return nil
}

// syncRoster refetches the full membership of one competition. Players land
// before their team so squad ids always reference stored players.
func (s *CompetitionSyncService) syncRoster(ctx context.Context, comp competition.Competition) ([]int64, error) {
	externalTeams, err := s.provider.GetCompetitionTeams(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch teams for %s: %w", comp.Code, err)
	}

	ids := make([]int64, 0, len(externalTeams))
	for _, ext := range externalTeams {
		teamDoc, squad := mapTeam(ext)
		if len(squad) > 0 {
			if err := s.players.UpsertMany(ctx, squad); err != nil {
				return nil, fmt.Errorf("upsert squad for team %d: %w", ext.ID, err)
			}
		}
		if err := s.teams.Upsert(ctx, teamDoc); err != nil {
			return nil, fmt.Errorf("upsert team %d: %w", ext.ID, err)
		}
		ids = append(ids, ext.ID)
	}

	return ids, nil
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

// maxPreviousMatchdays bounds how many completed matchdays are backfilled
// per league competition.
const maxPreviousMatchdays = 5

type TeamSyncService struct {
	provider     DataProvider
	competitions competition.Repository
	teams        team.Repository
	players      player.Repository
	matches      match.Repository
	cooldown     time.Duration
	logger       *logging.Logger
	now          func() time.Time
}

func NewTeamSyncService(
	provider DataProvider,
	competitions competition.Repository,
	teams team.Repository,
	players player.Repository,
	matches match.Repository,
	cooldown time.Duration,
	logger *logging.Logger,
) *TeamSyncService {
	if cooldown <= 0 {
		cooldown = defaultSyncCooldown
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamSyncService{
		provider:     provider,
		competitions: competitions,
		teams:        teams,
		players:      players,
		matches:      matches,
		cooldown:     cooldown,
		logger:       logger,
		now:          time.Now,
	}
}

// Sync backfills previous matches per competition, then prunes teams and
// players no longer reachable from any tracked competition.
func (s *TeamSyncService) Sync(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.Sync")
	defer span.End()

	if err := s.SyncPreviousMatches(ctx); err != nil {
		return err
	}
	return s.PruneOrphans(ctx)
}

// SyncPreviousMatches ensures every competition has its recent finished
// matches stored and flagged IsPrevMatch. Competitions that already carry
// previous matches are reconciled locally without touching the provider.
func (s *TeamSyncService) SyncPreviousMatches(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.SyncPreviousMatches")
	defer span.End()

	comps, err := s.competitions.List(ctx)
	if err != nil {
		return fmt.Errorf("list competitions: %w", err)
	}

	for _, comp := range comps {
		stored, err := s.matches.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list matches for competition %d: %w", comp.ID, err)
		}

		if hasPreviousMatches(stored) {
			if err := s.promoteFinished(ctx, stored); err != nil {
				return err
			}
			continue
		}

		fetched, err := s.fetchPreviousMatches(ctx, comp, stored)
		if err != nil {
			return err
		}
		if len(fetched) == 0 {
			continue
		}

		upserts := make([]match.Match, 0, len(fetched))
		for _, ext := range fetched {
			m := mapMatch(ext)
			m.IsPrevMatch = true
			upserts = append(upserts, m)
		}
		if err := s.matches.UpsertMany(ctx, upserts); err != nil {
			return fmt.Errorf("upsert previous matches for competition %d: %w", comp.ID, err)
		}

		s.logger.InfoContext(ctx, "previous matches backfilled",
			"competition_id", comp.ID,
			"count", len(upserts),
		)
	}

	return nil
}

func hasPreviousMatches(stored []match.Match) bool {
	for _, m := range stored {
		if m.IsPrevMatch && m.Finished() {
			return true
		}
	}
	return false
}

// promoteFinished is the cheap local path: every finished match before today
// becomes a previous match without a provider call.
func (s *TeamSyncService) promoteFinished(ctx context.Context, stored []match.Match) error {
	today := s.now().UTC().Truncate(24 * time.Hour)
	for _, m := range stored {
		if m.IsPrevMatch || !m.Finished() || !m.UTCDate.Before(today) {
			continue
		}
		m.IsPrevMatch = true
		if err := s.matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("promote match %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *TeamSyncService) fetchPreviousMatches(ctx context.Context, comp competition.Competition, stored []match.Match) ([]ExternalMatch, error) {
	if comp.Type == competition.TypeCup {
		fetched, err := s.provider.GetCompetitionMatches(ctx, comp.ID, MatchFilter{
			Status: match.StatusFinished,
			Stage:  "GROUP_STAGE",
		})
		if err != nil {
			return nil, fmt.Errorf("fetch group stage matches for competition %d: %w", comp.ID, err)
		}
		return fetched, nil
	}

	have := make(map[int]bool, len(stored))
	for _, m := range stored {
		if m.Finished() && m.Matchday > 0 {
			have[m.Matchday] = true
		}
	}

	out := make([]ExternalMatch, 0, 32)
	fetches := 0
	for matchday := comp.Season.CurrentMatchday; matchday >= 1 && fetches < maxPreviousMatchdays; matchday-- {
		if have[matchday] {
			continue
		}

		batch, err := s.provider.GetCompetitionMatches(ctx, comp.ID, MatchFilter{
			Status:   match.StatusFinished,
			Matchday: matchday,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch matchday %d for competition %d: %w", matchday, comp.ID, err)
		}
		out = append(out, batch...)
		fetches++

		if err := s.provider.Cooldown(ctx, s.cooldown); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// PruneOrphans deletes players unreferenced by any squad, then teams
// unreferenced by any competition. Player reachability uses the roster state
// before teams are pruned.
func (s *TeamSyncService) PruneOrphans(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamSyncService.PruneOrphans")
	defer span.End()

	teams, err := s.teams.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	players, err := s.players.List(ctx)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	comps, err := s.competitions.List(ctx)
	if err != nil {
		return fmt.Errorf("list competitions: %w", err)
	}

	inSquad := make(map[int64]struct{}, len(players))
	for _, t := range teams {
		for _, id := range t.Squad {
			inSquad[id] = struct{}{}
		}
	}

	removedPlayers := 0
	for _, p := range players {
		if _, ok := inSquad[p.ID]; ok {
			continue
		}
		if err := s.players.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("delete player %d: %w", p.ID, err)
		}
		removedPlayers++
	}

	tracked := make(map[int64]struct{}, len(teams))
	for _, comp := range comps {
		for _, id := range comp.Teams {
			tracked[id] = struct{}{}
		}
	}

	removedTeams := 0
	for _, t := range teams {
		if _, ok := tracked[t.ID]; ok {
			continue
		}
		if err := s.teams.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete team %d: %w", t.ID, err)
		}
		removedTeams++
	}

	if removedPlayers > 0 || removedTeams > 0 {
		s.logger.InfoContext(ctx, "pruned unreferenced records",
			"players", removedPlayers,
			"teams", removedTeams,
		)
	}
	return nil
}

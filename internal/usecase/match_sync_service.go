package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

const (
	// mainWindowDays is the rolling window around today inside which a
	// match is tracked for live polling.
	mainWindowDays = 3
	// headToHeadLimit caps how many historical meetings are fetched per
	// main match.
	headToHeadLimit = 10
)

type MatchSyncService struct {
	provider   DataProvider
	matches    match.Repository
	headToHead headtohead.Repository
	cooldown   time.Duration
	logger     *logging.Logger
	now        func() time.Time
}

func NewMatchSyncService(
	provider DataProvider,
	matches match.Repository,
	headToHead headtohead.Repository,
	cooldown time.Duration,
	logger *logging.Logger,
) *MatchSyncService {
	if cooldown <= 0 {
		cooldown = defaultSyncCooldown
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchSyncService{
		provider:   provider,
		matches:    matches,
		headToHead: headToHead,
		cooldown:   cooldown,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *MatchSyncService) window() (time.Time, time.Time) {
	now := s.now().UTC()
	return now.AddDate(0, 0, -mainWindowDays), now.AddDate(0, 0, mainWindowDays)
}

// FetchNewMatches pulls the rolling window from the provider and stores any
// match not already tracked as main.
func (s *MatchSyncService) FetchNewMatches(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.FetchNewMatches")
	defer span.End()

	from, to := s.window()
	external, err := s.provider.GetMatches(ctx, from, to)
	if err != nil {
		return fmt.Errorf("fetch matches %s..%s: %w", from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}

	existing, err := s.matches.ListMain(ctx)
	if err != nil {
		return fmt.Errorf("list main matches: %w", err)
	}
	mainIDs := make(map[int64]struct{}, len(existing))
	for _, m := range existing {
		mainIDs[m.ID] = struct{}{}
	}

	upserts := make([]match.Match, 0, len(external))
	for _, ext := range external {
		if _, ok := mainIDs[ext.ID]; ok {
			continue
		}
		m := mapMatch(ext)
		m.IsMain = true
		m.Head2HeadID = ""
		upserts = append(upserts, m)
	}
	if len(upserts) == 0 {
		return nil
	}

	if err := s.matches.UpsertMany(ctx, upserts); err != nil {
		return fmt.Errorf("upsert main matches: %w", err)
	}

	s.logger.InfoContext(ctx, "new main matches stored", "count", len(upserts))
	return nil
}

// BackfillHeadToHead gives every main match a head-to-head profile. Matches
// whose kickoff has left the window are demoted instead of fetched; this is
// the busiest upstream loop, so every fetch is followed by a cool-down.
func (s *MatchSyncService) BackfillHeadToHead(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.BackfillHeadToHead")
	defer span.End()

	mains, err := s.matches.ListMain(ctx)
	if err != nil {
		return fmt.Errorf("list main matches: %w", err)
	}

	windowStart, windowEnd := s.window()
	for _, m := range mains {
		if m.UTCDate.Before(windowStart) || m.UTCDate.After(windowEnd) {
			m.IsMain = false
			if err := s.matches.Upsert(ctx, m); err != nil {
				return fmt.Errorf("demote match %d: %w", m.ID, err)
			}
			continue
		}
		if m.Head2HeadID != "" {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			continue
		}

		if err := s.backfillOne(ctx, m); err != nil {
			return err
		}
		if err := s.provider.Cooldown(ctx, s.cooldown); err != nil {
			return err
		}
	}

	return nil
}

func (s *MatchSyncService) backfillOne(ctx context.Context, m match.Match) error {
	external, err := s.provider.GetHeadToHead(ctx, m.ID, headToHeadLimit)
	if err != nil {
		return fmt.Errorf("fetch head-to-head for match %d: %w", m.ID, err)
	}

	ids := make([]int64, 0, len(external.Matches)+1)
	ids = append(ids, m.ID)
	meetings := make([]match.Match, 0, len(external.Matches))
	for _, ext := range external.Matches {
		if ext.ID == m.ID {
			continue
		}
		meeting := mapMatch(ext)
		meeting.IsHead2Head = true
		meetings = append(meetings, meeting)
		ids = append(ids, ext.ID)
	}
	if len(meetings) > 0 {
		if err := s.matches.UpsertMany(ctx, meetings); err != nil {
			return fmt.Errorf("upsert head-to-head matches for %d: %w", m.ID, err)
		}
	}

	key := headtohead.PairKey(*m.HomeTeamID, *m.AwayTeamID)
	record := headtohead.HeadToHead{
		ID: key,
		ResultSet: headtohead.ResultSet{
			Count: external.ResultSet.Count,
			First: external.ResultSet.First,
			Last:  external.ResultSet.Last,
		},
		Aggregates: headtohead.Aggregates{
			HomeTeam: headtohead.TeamAggregate{TeamID: *m.HomeTeamID},
			AwayTeam: headtohead.TeamAggregate{TeamID: *m.AwayTeamID},
		},
		Matches: ids,
	}
	if err := s.headToHead.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert head-to-head %s: %w", key, err)
	}

	m.Head2HeadID = key
	if err := s.matches.Upsert(ctx, m); err != nil {
		return fmt.Errorf("link match %d to head-to-head %s: %w", m.ID, key, err)
	}

	s.logger.DebugContext(ctx, "head-to-head backfilled",
		"match_id", m.ID,
		"head2head_id", key,
		"meetings", len(meetings),
	)
	return nil
}

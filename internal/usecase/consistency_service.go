package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

// retainedRanks keeps a match alive as previous/head-to-head while it holds
// rank 0..3 in at least one list that references it.
const retainedRanks = 4

// ConsistencyService is the reachability sweep run after every batch of
// writes. It never raises on dangling references; it heals them and logs.
type ConsistencyService struct {
	matches    match.Repository
	headToHead headtohead.Repository
	teams      team.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewConsistencyService(
	matches match.Repository,
	headToHead headtohead.Repository,
	teams team.Repository,
	logger *logging.Logger,
) *ConsistencyService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ConsistencyService{
		matches:    matches,
		headToHead: headToHead,
		teams:      teams,
		logger:     logger,
		now:        time.Now,
	}
}

// ExpireMainMatches demotes main matches whose kickoff fell out of the
// rolling window. Flags only; nothing is deleted here.
func (s *ConsistencyService) ExpireMainMatches(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ConsistencyService.ExpireMainMatches")
	defer span.End()

	mains, err := s.matches.ListMain(ctx)
	if err != nil {
		return fmt.Errorf("list main matches: %w", err)
	}

	cutoff := s.now().UTC().AddDate(0, 0, -mainWindowDays)
	expired := 0
	for _, m := range mains {
		if !m.UTCDate.Before(cutoff) {
			continue
		}
		m.IsMain = false
		if err := s.matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("demote match %d: %w", m.ID, err)
		}
		expired++
	}

	if expired > 0 {
		s.logger.InfoContext(ctx, "expired main matches", "count", expired)
	}
	return nil
}

// PruneOverflow enforces the last-4 retention windows. Rank is computed
// independently per relationship; retention is the OR across every list
// that references a match. Matches left with no flag, or with a team
// reference lost to pruning, are deleted outright.
func (s *ConsistencyService) PruneOverflow(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ConsistencyService.PruneOverflow")
	defer span.End()

	all, err := s.matches.List(ctx)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	records, err := s.headToHead.List(ctx)
	if err != nil {
		return fmt.Errorf("list head-to-head records: %w", err)
	}

	byID := make(map[int64]match.Match, len(all))
	for _, m := range all {
		byID[m.ID] = m
	}

	keepPrev := make(map[int64]struct{})
	for _, t := range teams {
		prev := make([]match.Match, 0, retainedRanks)
		for _, m := range all {
			if m.IsPrevMatch && m.Involves(t.ID) {
				prev = append(prev, m)
			}
		}
		markTopRanks(prev, keepPrev)
	}

	keepH2H := make(map[int64]struct{})
	for _, record := range records {
		members := make([]match.Match, 0, len(record.Matches))
		for _, id := range record.Matches {
			if m, ok := byID[id]; ok && m.IsHead2Head {
				members = append(members, m)
			}
		}
		markTopRanks(members, keepH2H)
	}

	deleted := make(map[int64]struct{})
	for _, m := range all {
		changed := false
		if m.IsPrevMatch {
			if _, ok := keepPrev[m.ID]; !ok {
				m.IsPrevMatch = false
				changed = true
			}
		}
		if m.IsHead2Head {
			if _, ok := keepH2H[m.ID]; !ok {
				m.IsHead2Head = false
				changed = true
			}
		}

		if m.Orphaned() {
			if err := s.matches.Delete(ctx, m.ID); err != nil {
				return fmt.Errorf("delete orphaned match %d: %w", m.ID, err)
			}
			deleted[m.ID] = struct{}{}
			continue
		}

		if changed {
			if err := s.matches.Upsert(ctx, m); err != nil {
				return fmt.Errorf("update match %d: %w", m.ID, err)
			}
			byID[m.ID] = m
		}
	}

	for _, record := range records {
		reachable := 0
		for _, id := range record.Matches {
			if _, gone := deleted[id]; gone {
				continue
			}
			if m, ok := byID[id]; ok && m.IsHead2Head {
				reachable++
			}
		}
		if reachable > 0 {
			continue
		}
		if err := s.removeHeadToHead(ctx, record.ID, byID, deleted); err != nil {
			return err
		}
	}

	return nil
}

// removeHeadToHead drops an unreachable record and clears the dangling
// reference on any match still pointing at it.
func (s *ConsistencyService) removeHeadToHead(ctx context.Context, id string, byID map[int64]match.Match, deleted map[int64]struct{}) error {
	if err := s.headToHead.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete head-to-head %s: %w", id, err)
	}

	for matchID, m := range byID {
		if _, gone := deleted[matchID]; gone {
			continue
		}
		if m.Head2HeadID != id {
			continue
		}
		m.Head2HeadID = ""
		if err := s.matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("clear head-to-head reference on match %d: %w", matchID, err)
		}
		byID[matchID] = m
	}

	s.logger.WarnContext(ctx, "removed unreachable head-to-head record", "head2head_id", id)
	return nil
}

// markTopRanks sorts by kickoff descending and retains ranks 0..3.
func markTopRanks(items []match.Match, keep map[int64]struct{}) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UTCDate.After(items[j].UTCDate)
	})
	for rank, m := range items {
		if rank >= retainedRanks {
			break
		}
		keep[m.ID] = struct{}{}
	}
}

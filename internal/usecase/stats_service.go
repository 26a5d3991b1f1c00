package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

// StatsService derives everything downstream of raw matches: team tallies,
// head-to-head aggregates and outcome predictions. All derivations are full
// recomputes from stored matches, never incremental updates.
type StatsService struct {
	matches    match.Repository
	headToHead headtohead.Repository
	teams      team.Repository
	logger     *logging.Logger
}

func NewStatsService(
	matches match.Repository,
	headToHead headtohead.Repository,
	teams team.Repository,
	logger *logging.Logger,
) *StatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StatsService{
		matches:    matches,
		headToHead: headToHead,
		teams:      teams,
		logger:     logger,
	}
}

// RecomputeTeamTallies rebuilds every team's win/draw/loss and goal tallies
// from its stored finished matches. Contributing matches are flagged
// IsPrevMatch so the retention sweep sees them.
func (s *StatsService) RecomputeTeamTallies(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecomputeTeamTallies")
	defer span.End()

	teams, err := s.teams.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}

	for _, t := range teams {
		finished, err := s.matches.ListFinishedByTeam(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("list finished matches for team %d: %w", t.ID, err)
		}

		var tallies team.Tallies
		for _, m := range finished {
			home := m.HomeTeamID != nil && *m.HomeTeamID == t.ID
			applyTeamTally(&tallies.HalfTime, m.Score.HalfTime, home)
			applyTeamTally(&tallies.FullTime, m.Score.FullTime, home)

			if !m.IsPrevMatch {
				m.IsPrevMatch = true
				if err := s.matches.Upsert(ctx, m); err != nil {
					return fmt.Errorf("flag match %d: %w", m.ID, err)
				}
			}
		}
		tallies.MatchesPlayed = len(finished)

		t.Tallies = tallies
		if err := s.teams.Upsert(ctx, t); err != nil {
			return fmt.Errorf("update team %d: %w", t.ID, err)
		}
	}

	return nil
}

// RecomputeHeadToHead rebuilds every head-to-head record from the finished
// meetings currently stored. Records whose pair has no finished meeting left,
// or whose team ids were never resolved, are removed and their references
// healed.
func (s *StatsService) RecomputeHeadToHead(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.RecomputeHeadToHead")
	defer span.End()

	records, err := s.headToHead.List(ctx)
	if err != nil {
		return fmt.Errorf("list head-to-head records: %w", err)
	}

	for _, record := range records {
		home := record.Aggregates.HomeTeam.TeamID
		away := record.Aggregates.AwayTeam.TeamID
		if home == 0 || away == 0 {
			if err := s.dropHeadToHead(ctx, record.ID, "unresolved team ids"); err != nil {
				return err
			}
			continue
		}

		meetings, err := s.matches.ListFinishedBetween(ctx, home, away)
		if err != nil {
			return fmt.Errorf("list meetings for %s: %w", record.ID, err)
		}
		if len(meetings) == 0 {
			if err := s.dropHeadToHead(ctx, record.ID, "no finished meetings"); err != nil {
				return err
			}
			continue
		}

		sort.SliceStable(meetings, func(i, j int) bool {
			return meetings[i].UTCDate.After(meetings[j].UTCDate)
		})

		rebuilt := rebuildAggregates(home, away, meetings)
		record.Aggregates = rebuilt
		record.Matches = make([]int64, 0, len(meetings))
		for _, m := range meetings {
			record.Matches = append(record.Matches, m.ID)
		}
		record.ResultSet = headtohead.ResultSet{
			Count: len(meetings),
			First: timePtr(meetings[len(meetings)-1].UTCDate),
			Last:  timePtr(meetings[0].UTCDate),
		}

		for _, m := range meetings {
			if m.IsHead2Head {
				continue
			}
			m.IsHead2Head = true
			if err := s.matches.Upsert(ctx, m); err != nil {
				return fmt.Errorf("flag meeting %d: %w", m.ID, err)
			}
		}

		if err := s.headToHead.Upsert(ctx, record); err != nil {
			return fmt.Errorf("update head-to-head %s: %w", record.ID, err)
		}
	}

	return nil
}

// dropHeadToHead deletes a record and clears the dangling reference on any
// match still pointing at it.
func (s *StatsService) dropHeadToHead(ctx context.Context, id, reason string) error {
	if err := s.headToHead.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete head-to-head %s: %w", id, err)
	}

	all, err := s.matches.List(ctx)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	for _, m := range all {
		if m.Head2HeadID != id {
			continue
		}
		m.Head2HeadID = ""
		if err := s.matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("clear head-to-head reference on match %d: %w", m.ID, err)
		}
	}

	s.logger.WarnContext(ctx, "dropped head-to-head record", "head2head_id", id, "reason", reason)
	return nil
}

func rebuildAggregates(home, away int64, meetings []match.Match) headtohead.Aggregates {
	agg := headtohead.Aggregates{
		NumberOfMatches: len(meetings),
		HomeTeam:        headtohead.TeamAggregate{TeamID: home},
		AwayTeam:        headtohead.TeamAggregate{TeamID: away},
	}

	for _, m := range meetings {
		homeSide := m.HomeTeamID != nil && *m.HomeTeamID == home
		applyPairTally(&agg.HomeTeam.HalfTime, m.Score.HalfTime, homeSide)
		applyPairTally(&agg.HomeTeam.FullTime, m.Score.FullTime, homeSide)
		applyPairTally(&agg.AwayTeam.HalfTime, m.Score.HalfTime, !homeSide)
		applyPairTally(&agg.AwayTeam.FullTime, m.Score.FullTime, !homeSide)

		if m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
			agg.TotalGoals += *m.Score.FullTime.Home + *m.Score.FullTime.Away
		}
	}

	return agg
}

// ComputeOutcomes attaches outcome percentages to main matches that have a
// head-to-head record but no prediction yet. Existing predictions are never
// overwritten; they expire with the match itself.
func (s *StatsService) ComputeOutcomes(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatsService.ComputeOutcomes")
	defer span.End()

	mains, err := s.matches.ListMain(ctx)
	if err != nil {
		return fmt.Errorf("list main matches: %w", err)
	}

	for _, m := range mains {
		if m.Prediction != nil || m.Head2HeadID == "" {
			continue
		}
		if m.HomeTeamID == nil || m.AwayTeamID == nil {
			continue
		}

		outcome, ok, err := s.computeOutcome(ctx, m)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		m.Prediction = &outcome
		if err := s.matches.Upsert(ctx, m); err != nil {
			return fmt.Errorf("store prediction for match %d: %w", m.ID, err)
		}
	}

	return nil
}

func (s *StatsService) computeOutcome(ctx context.Context, m match.Match) (match.Outcome, bool, error) {
	h2h, err := s.headToHead.GetByID(ctx, m.Head2HeadID)
	if err != nil {
		if IsNotFound(err) {
			s.logger.WarnContext(ctx, "match references missing head-to-head", "match_id", m.ID, "head2head_id", m.Head2HeadID)
			return match.Outcome{}, false, nil
		}
		return match.Outcome{}, false, fmt.Errorf("get head-to-head %s: %w", m.Head2HeadID, err)
	}

	homeTeam, err := s.teams.GetByID(ctx, *m.HomeTeamID)
	if err != nil {
		if IsNotFound(err) {
			return match.Outcome{}, false, nil
		}
		return match.Outcome{}, false, fmt.Errorf("get team %d: %w", *m.HomeTeamID, err)
	}
	awayTeam, err := s.teams.GetByID(ctx, *m.AwayTeamID)
	if err != nil {
		if IsNotFound(err) {
			return match.Outcome{}, false, nil
		}
		return match.Outcome{}, false, fmt.Errorf("get team %d: %w", *m.AwayTeamID, err)
	}

	homeAgg, ok := aggregateFor(h2h, *m.HomeTeamID)
	if !ok {
		return match.Outcome{}, false, nil
	}
	awayAgg, ok := aggregateFor(h2h, *m.AwayTeamID)
	if !ok {
		return match.Outcome{}, false, nil
	}

	sampleSize := h2h.Aggregates.NumberOfMatches*4 +
		homeTeam.Tallies.MatchesPlayed +
		awayTeam.Tallies.MatchesPlayed
	if sampleSize == 0 {
		return match.Outcome{}, false, nil
	}

	homePrev := homeTeam.Tallies.FullTime
	awayPrev := awayTeam.Tallies.FullTime

	return match.Outcome{
		HomeWin: outcomePct(homeAgg.FullTime.Wins, awayAgg.FullTime.Losses, homePrev.Wins, awayPrev.Losses, sampleSize),
		Draw:    outcomePct(homeAgg.FullTime.Draws, awayAgg.FullTime.Draws, homePrev.Draws, awayPrev.Draws, sampleSize),
		AwayWin: outcomePct(awayAgg.FullTime.Wins, homeAgg.FullTime.Losses, awayPrev.Wins, homePrev.Losses, sampleSize),
	}, true, nil
}

// outcomePct weights the head-to-head evidence double against each team's
// recent form, scaled by the combined sample size.
func outcomePct(aHead, bHead, aPrev, bPrev, sampleSize int) float64 {
	raw := float64((aHead+bHead)*2+aPrev+bPrev) * 100 / float64(sampleSize)
	return math.Round(raw*100) / 100
}

func aggregateFor(h2h headtohead.HeadToHead, teamID int64) (headtohead.TeamAggregate, bool) {
	switch teamID {
	case h2h.Aggregates.HomeTeam.TeamID:
		return h2h.Aggregates.HomeTeam, true
	case h2h.Aggregates.AwayTeam.TeamID:
		return h2h.Aggregates.AwayTeam, true
	}
	return headtohead.TeamAggregate{}, false
}

func applyTeamTally(dst *team.Tally, score match.ScorePair, home bool) {
	mine, theirs, ok := sides(score, home)
	if !ok {
		return
	}
	dst.GoalsScored += mine
	dst.GoalsConceded += theirs
	switch {
	case mine > theirs:
		dst.Wins++
	case mine < theirs:
		dst.Losses++
	default:
		dst.Draws++
	}
}

func applyPairTally(dst *headtohead.Tally, score match.ScorePair, home bool) {
	mine, theirs, ok := sides(score, home)
	if !ok {
		return
	}
	dst.GoalsScored += mine
	dst.GoalsConceded += theirs
	switch {
	case mine > theirs:
		dst.Wins++
	case mine < theirs:
		dst.Losses++
	default:
		dst.Draws++
	}
}

func sides(score match.ScorePair, home bool) (mine, theirs int, ok bool) {
	if score.Home == nil || score.Away == nil {
		return 0, 0, false
	}
	if home {
		return *score.Home, *score.Away, true
	}
	return *score.Away, *score.Home, true
}

func timePtr(t time.Time) *time.Time { return &t }

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

func newMatchSyncForTest(
	provider *stubProvider,
	matches *stubMatchRepository,
	records *stubHeadToHeadRepository,
	now time.Time,
) *MatchSyncService {
	svc := NewMatchSyncService(provider, matches, records, time.Millisecond, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestFetchNewMatchesStoresWindowAsMain(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		matches: []ExternalMatch{
			{ID: 1, UTCDate: now.Add(2 * time.Hour), Status: match.StatusTimed, HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65)},
			{ID: 2, UTCDate: now.AddDate(0, 0, 1), Status: match.StatusScheduled, HomeTeamID: int64Ptr(66), AwayTeamID: int64Ptr(67)},
		},
	}
	matches := newStubMatchRepository()
	svc := newMatchSyncForTest(provider, matches, newStubHeadToHeadRepository(), now)

	if err := svc.FetchNewMatches(context.Background()); err != nil {
		t.Fatalf("FetchNewMatches: %v", err)
	}

	if len(matches.items) != 2 {
		t.Fatalf("expected 2 stored matches, got %d", len(matches.items))
	}
	for _, m := range matches.items {
		if !m.IsMain {
			t.Fatalf("expected match %d flagged main", m.ID)
		}
		if m.Head2HeadID != "" {
			t.Fatalf("new main match %d must start without a head-to-head link", m.ID)
		}
	}
}

func TestFetchNewMatchesPreservesExistingMains(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	existing := match.Match{
		ID:          1,
		UTCDate:     now.Add(2 * time.Hour),
		Status:      match.StatusTimed,
		HomeTeamID:  int64Ptr(64),
		AwayTeamID:  int64Ptr(65),
		IsMain:      true,
		Head2HeadID: "64-65",
	}
	provider := &stubProvider{
		matches: []ExternalMatch{
			{ID: 1, UTCDate: now.Add(2 * time.Hour), Status: match.StatusTimed, HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65)},
		},
	}
	matches := newStubMatchRepository(existing)
	svc := newMatchSyncForTest(provider, matches, newStubHeadToHeadRepository(), now)

	if err := svc.FetchNewMatches(context.Background()); err != nil {
		t.Fatalf("FetchNewMatches: %v", err)
	}

	if got := matches.items[1]; got.Head2HeadID != "64-65" {
		t.Fatalf("existing main match must keep its head-to-head link, got %q", got.Head2HeadID)
	}
}

func TestBackfillHeadToHeadCreatesRecordAndLinksMatch(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	main := match.Match{
		ID:         10,
		UTCDate:    now.Add(4 * time.Hour),
		Status:     match.StatusTimed,
		HomeTeamID: int64Ptr(65),
		AwayTeamID: int64Ptr(64),
		IsMain:     true,
	}
	first := time.Date(2023, 1, 2, 15, 0, 0, 0, time.UTC)
	last := time.Date(2025, 11, 8, 15, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		headToHeadByID: map[int64]ExternalHeadToHead{
			10: {
				ResultSet: ExternalResultSet{Count: 2, First: &first, Last: &last},
				Matches: []ExternalMatch{
					{ID: 10, UTCDate: main.UTCDate, Status: match.StatusTimed, HomeTeamID: int64Ptr(65), AwayTeamID: int64Ptr(64)},
					{ID: 7, UTCDate: last, Status: match.StatusFinished, HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65)},
				},
			},
		},
	}
	matches := newStubMatchRepository(main)
	records := newStubHeadToHeadRepository()
	svc := newMatchSyncForTest(provider, matches, records, now)

	if err := svc.BackfillHeadToHead(context.Background()); err != nil {
		t.Fatalf("BackfillHeadToHead: %v", err)
	}

	record, ok := records.items["64-65"]
	if !ok {
		t.Fatalf("expected head-to-head record under the pair key, got %v", records.items)
	}
	if record.ResultSet.Count != 2 {
		t.Fatalf("expected result set count 2, got %d", record.ResultSet.Count)
	}
	if len(record.Matches) != 2 || record.Matches[0] != 10 || record.Matches[1] != 7 {
		t.Fatalf("expected member ids [10 7], got %v", record.Matches)
	}
	if got := matches.items[10]; got.Head2HeadID != "64-65" {
		t.Fatalf("expected main match linked to record, got %q", got.Head2HeadID)
	}
	meeting, ok := matches.items[7]
	if !ok {
		t.Fatalf("expected historical meeting stored")
	}
	if !meeting.IsHead2Head {
		t.Fatalf("expected meeting flagged as head-to-head member")
	}
	if provider.cooldowns != 1 {
		t.Fatalf("expected one cool-down per fetch, got %d", provider.cooldowns)
	}
}

func TestBackfillHeadToHeadSkipsLinkedAndUnresolvedMatches(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	linked := match.Match{
		ID: 1, UTCDate: now.Add(time.Hour), Status: match.StatusTimed,
		HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65),
		IsMain: true, Head2HeadID: "64-65",
	}
	unresolved := match.Match{
		ID: 2, UTCDate: now.Add(time.Hour), Status: match.StatusTimed,
		HomeTeamID: int64Ptr(64),
		IsMain:     true,
	}
	provider := &stubProvider{headToHeadByID: map[int64]ExternalHeadToHead{}}
	matches := newStubMatchRepository(linked, unresolved)
	svc := newMatchSyncForTest(provider, matches, newStubHeadToHeadRepository(), now)

	if err := svc.BackfillHeadToHead(context.Background()); err != nil {
		t.Fatalf("BackfillHeadToHead: %v", err)
	}
	if len(provider.h2hCalls) != 0 {
		t.Fatalf("expected no provider fetch, got %v", provider.h2hCalls)
	}
}

func TestBackfillHeadToHeadDemotesOutOfWindowMatches(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	left := match.Match{
		ID: 1, UTCDate: now.AddDate(0, 0, -mainWindowDays-2), Status: match.StatusFinished,
		HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65),
		IsMain: true, IsPrevMatch: true,
	}
	provider := &stubProvider{headToHeadByID: map[int64]ExternalHeadToHead{}}
	matches := newStubMatchRepository(left)
	svc := newMatchSyncForTest(provider, matches, newStubHeadToHeadRepository(), now)

	if err := svc.BackfillHeadToHead(context.Background()); err != nil {
		t.Fatalf("BackfillHeadToHead: %v", err)
	}

	got := matches.items[1]
	if got.IsMain {
		t.Fatalf("match outside the window must be demoted")
	}
	if !got.IsPrevMatch {
		t.Fatalf("demotion must not clear other lifecycle flags")
	}
	if len(provider.h2hCalls) != 0 {
		t.Fatalf("demoted match must not be fetched, got %v", provider.h2hCalls)
	}
}

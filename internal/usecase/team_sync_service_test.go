package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

func newTeamSyncForTest(
	provider *stubProvider,
	competitions *stubCompetitionRepository,
	teams *stubTeamRepository,
	players *stubPlayerRepository,
	matches *stubMatchRepository,
	now time.Time,
) *TeamSyncService {
	svc := NewTeamSyncService(provider, competitions, teams, players, matches, time.Millisecond, logging.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func finishedMatch(id, competitionID int64, matchday int, kickoff time.Time, home, away int64) match.Match {
	h, a := 2, 1
	return match.Match{
		ID:            id,
		UTCDate:       kickoff,
		Status:        match.StatusFinished,
		Matchday:      matchday,
		CompetitionID: competitionID,
		HomeTeamID:    int64Ptr(home),
		AwayTeamID:    int64Ptr(away),
		Score: match.Score{
			Winner:   "HOME_TEAM",
			FullTime: match.ScorePair{Home: &h, Away: &a},
		},
	}
}

func TestSyncPreviousMatchesPromotesLocallyWhenAlreadyBackfilled(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	existing := finishedMatch(1, 2021, 25, now.AddDate(0, 0, -10), 64, 65)
	existing.IsPrevMatch = true
	unpromoted := finishedMatch(2, 2021, 26, now.AddDate(0, 0, -4), 65, 64)

	provider := &stubProvider{}
	comps := newStubCompetitionRepository(competition.Competition{ID: 2021, Type: competition.TypeLeague})
	matches := newStubMatchRepository(existing, unpromoted)
	svc := newTeamSyncForTest(provider, comps, newStubTeamRepository(), newStubPlayerRepository(), matches, now)

	if err := svc.SyncPreviousMatches(context.Background()); err != nil {
		t.Fatalf("SyncPreviousMatches: %v", err)
	}

	if len(provider.compMatchCalls) != 0 {
		t.Fatalf("expected local reconciliation without provider calls, got %v", provider.compMatchCalls)
	}
	if !matches.items[2].IsPrevMatch {
		t.Fatalf("expected finished match promoted to previous match")
	}
}

func TestSyncPreviousMatchesDoesNotPromoteTodaysFinish(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)
	existing := finishedMatch(1, 2021, 25, now.AddDate(0, 0, -10), 64, 65)
	existing.IsPrevMatch = true
	today := finishedMatch(2, 2021, 26, now.Add(-4*time.Hour), 65, 64)

	comps := newStubCompetitionRepository(competition.Competition{ID: 2021, Type: competition.TypeLeague})
	matches := newStubMatchRepository(existing, today)
	svc := newTeamSyncForTest(&stubProvider{}, comps, newStubTeamRepository(), newStubPlayerRepository(), matches, now)

	if err := svc.SyncPreviousMatches(context.Background()); err != nil {
		t.Fatalf("SyncPreviousMatches: %v", err)
	}
	if matches.items[2].IsPrevMatch {
		t.Fatalf("match finished today must not be promoted yet")
	}
}

func TestSyncPreviousMatchesLeagueWalksMatchdaysBackwards(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	comp := competition.Competition{
		ID:     2021,
		Type:   competition.TypeLeague,
		Season: competition.Season{CurrentMatchday: 28},
	}
	byComp := make([]ExternalMatch, 0, 8)
	for matchday := 21; matchday <= 28; matchday++ {
		byComp = append(byComp, ExternalMatch{
			ID:            int64(1000 + matchday),
			UTCDate:       now.AddDate(0, 0, matchday-30),
			Status:        match.StatusFinished,
			Matchday:      matchday,
			CompetitionID: 2021,
			HomeTeamID:    int64Ptr(64),
			AwayTeamID:    int64Ptr(65),
		})
	}
	provider := &stubProvider{matchesByComp: map[int64][]ExternalMatch{2021: byComp}}
	comps := newStubCompetitionRepository(comp)
	matches := newStubMatchRepository()
	svc := newTeamSyncForTest(provider, comps, newStubTeamRepository(), newStubPlayerRepository(), matches, now)

	if err := svc.SyncPreviousMatches(context.Background()); err != nil {
		t.Fatalf("SyncPreviousMatches: %v", err)
	}

	if len(provider.compMatchCalls) != maxPreviousMatchdays {
		t.Fatalf("expected %d matchday fetches, got %d", maxPreviousMatchdays, len(provider.compMatchCalls))
	}
	for i, filter := range provider.compMatchCalls {
		want := 28 - i
		if filter.Matchday != want || filter.Status != match.StatusFinished {
			t.Fatalf("fetch %d: expected matchday %d finished, got %+v", i, want, filter)
		}
	}
	if len(matches.items) != maxPreviousMatchdays {
		t.Fatalf("expected %d stored matches, got %d", maxPreviousMatchdays, len(matches.items))
	}
	for _, m := range matches.items {
		if !m.IsPrevMatch {
			t.Fatalf("expected backfilled match %d flagged as previous", m.ID)
		}
	}
}

func TestSyncPreviousMatchesLeagueSkipsStoredMatchdays(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	comp := competition.Competition{
		ID:     2021,
		Type:   competition.TypeLeague,
		Season: competition.Season{CurrentMatchday: 10},
	}
	// Matchday 9 is already stored and finished, but not yet flagged, so the
	// fetch loop still runs and must skip it.
	stored := finishedMatch(500, 2021, 9, now.AddDate(0, 0, -5), 64, 65)
	provider := &stubProvider{matchesByComp: map[int64][]ExternalMatch{}}
	comps := newStubCompetitionRepository(comp)
	matches := newStubMatchRepository(stored)
	svc := newTeamSyncForTest(provider, comps, newStubTeamRepository(), newStubPlayerRepository(), matches, now)

	if err := svc.SyncPreviousMatches(context.Background()); err != nil {
		t.Fatalf("SyncPreviousMatches: %v", err)
	}

	for _, filter := range provider.compMatchCalls {
		if filter.Matchday == 9 {
			t.Fatalf("matchday 9 already stored, must not be refetched")
		}
	}
	if len(provider.compMatchCalls) != maxPreviousMatchdays {
		t.Fatalf("expected %d fetches around the stored matchday, got %d", maxPreviousMatchdays, len(provider.compMatchCalls))
	}
}

func TestSyncPreviousMatchesCupFetchesGroupStage(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	comp := competition.Competition{ID: 2001, Type: competition.TypeCup}
	provider := &stubProvider{
		matchesByComp: map[int64][]ExternalMatch{
			2001: {
				{ID: 9001, Status: match.StatusFinished, Stage: "GROUP_STAGE", CompetitionID: 2001, HomeTeamID: int64Ptr(1), AwayTeamID: int64Ptr(2)},
				{ID: 9002, Status: match.StatusTimed, Stage: "GROUP_STAGE", CompetitionID: 2001, HomeTeamID: int64Ptr(3), AwayTeamID: int64Ptr(4)},
			},
		},
	}
	comps := newStubCompetitionRepository(comp)
	matches := newStubMatchRepository()
	svc := newTeamSyncForTest(provider, comps, newStubTeamRepository(), newStubPlayerRepository(), matches, now)

	if err := svc.SyncPreviousMatches(context.Background()); err != nil {
		t.Fatalf("SyncPreviousMatches: %v", err)
	}

	if len(provider.compMatchCalls) != 1 {
		t.Fatalf("expected a single group stage fetch, got %d", len(provider.compMatchCalls))
	}
	filter := provider.compMatchCalls[0]
	if filter.Stage != "GROUP_STAGE" || filter.Status != match.StatusFinished {
		t.Fatalf("unexpected cup filter %+v", filter)
	}
	if _, ok := matches.items[9001]; !ok {
		t.Fatalf("expected finished group stage match stored")
	}
	if _, ok := matches.items[9002]; ok {
		t.Fatalf("unfinished match must not be stored")
	}
}

func TestPruneOrphansRemovesUnreferencedPlayersThenTeams(t *testing.T) {
	t.Parallel()

	comps := newStubCompetitionRepository(competition.Competition{ID: 2021, Teams: []int64{64}})
	teams := newStubTeamRepository(
		team.Team{ID: 64, Squad: []int64{1}},
		team.Team{ID: 99, Squad: []int64{2}},
	)
	players := newStubPlayerRepository(
		player.Player{ID: 1, TeamID: 64},
		player.Player{ID: 2, TeamID: 99},
		player.Player{ID: 3, TeamID: 64},
	)
	svc := newTeamSyncForTest(&stubProvider{}, comps, teams, players, newStubMatchRepository(), time.Now())

	if err := svc.PruneOrphans(context.Background()); err != nil {
		t.Fatalf("PruneOrphans: %v", err)
	}

	if _, ok := players.items[3]; ok {
		t.Fatalf("player 3 is in no squad and must be deleted")
	}
	// Player 2 was still in team 99's squad when reachability was computed,
	// even though team 99 itself gets pruned in the same pass.
	if _, ok := players.items[2]; !ok {
		t.Fatalf("player 2 was reachable at sweep time and must survive")
	}
	if _, ok := teams.items[99]; ok {
		t.Fatalf("team 99 is tracked by no competition and must be deleted")
	}
	if _, ok := teams.items[64]; !ok {
		t.Fatalf("team 64 is tracked and must survive")
	}
}

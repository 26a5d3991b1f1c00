package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
)

func newQueryForTest(
	comps *stubCompetitionRepository,
	teams *stubTeamRepository,
	players *stubPlayerRepository,
	matches *stubMatchRepository,
	records *stubHeadToHeadRepository,
) *QueryService {
	return NewQueryService(comps, teams, players, matches, records)
}

func TestGetCompetitionValidatesID(t *testing.T) {
	t.Parallel()

	svc := newQueryForTest(newStubCompetitionRepository(), newStubTeamRepository(), newStubPlayerRepository(), newStubMatchRepository(), newStubHeadToHeadRepository())

	_, err := svc.GetCompetition(context.Background(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}

	_, err = svc.GetCompetition(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestGetStandingsReturnsStoredTables(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: 2021,
		Standings: []competition.Standing{
			{Type: "TOTAL", Table: []competition.TableRow{{Position: 1, TeamID: 64, Points: 70}}},
		},
	}
	svc := newQueryForTest(newStubCompetitionRepository(comp), newStubTeamRepository(), newStubPlayerRepository(), newStubMatchRepository(), newStubHeadToHeadRepository())

	standings, err := svc.GetStandings(context.Background(), 2021)
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if len(standings) != 1 || standings[0].Table[0].TeamID != 64 {
		t.Fatalf("unexpected standings %+v", standings)
	}
}

func TestGetTeamResolvesSquad(t *testing.T) {
	t.Parallel()

	teams := newStubTeamRepository(team.Team{ID: 64, Name: "Liverpool FC", Squad: []int64{1, 2}})
	players := newStubPlayerRepository(
		player.Player{ID: 1, TeamID: 64},
		player.Player{ID: 2, TeamID: 64},
		player.Player{ID: 3, TeamID: 65},
	)
	svc := newQueryForTest(newStubCompetitionRepository(), teams, players, newStubMatchRepository(), newStubHeadToHeadRepository())

	detail, err := svc.GetTeam(context.Background(), 64)
	if err != nil {
		t.Fatalf("GetTeam: %v", err)
	}
	if detail.Team.Name != "Liverpool FC" {
		t.Fatalf("unexpected team %+v", detail.Team)
	}
	if len(detail.Squad) != 2 {
		t.Fatalf("expected 2 squad players, got %d", len(detail.Squad))
	}
	for _, p := range detail.Squad {
		if p.TeamID != 64 {
			t.Fatalf("player %d belongs to team %d", p.ID, p.TeamID)
		}
	}
}

func TestGetMatchHeadToHeadResolvesMeetings(t *testing.T) {
	t.Parallel()

	key := headtohead.PairKey(64, 65)
	main := match.Match{
		ID: 10, UTCDate: time.Now(), Status: match.StatusTimed,
		HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65),
		IsMain: true, Head2HeadID: key,
	}
	meeting := scoredMatch(7, time.Now().AddDate(-1, 0, 0), 64, 65, 2, 0)
	meeting.IsHead2Head = true
	matches := newStubMatchRepository(main, meeting)
	records := newStubHeadToHeadRepository(headtohead.HeadToHead{
		ID:      key,
		Matches: []int64{10, 7, 404}, // 404 was garbage collected
	})
	svc := newQueryForTest(newStubCompetitionRepository(), newStubTeamRepository(), newStubPlayerRepository(), matches, records)

	record, meetings, err := svc.GetMatchHeadToHead(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetMatchHeadToHead: %v", err)
	}
	if record.ID != key {
		t.Fatalf("expected record %s, got %s", key, record.ID)
	}
	if len(meetings) != 2 {
		t.Fatalf("expected the 2 stored meetings, got %d", len(meetings))
	}
}

func TestGetMatchHeadToHeadWithoutRecord(t *testing.T) {
	t.Parallel()

	unlinked := match.Match{
		ID: 10, UTCDate: time.Now(), Status: match.StatusTimed,
		HomeTeamID: int64Ptr(64), AwayTeamID: int64Ptr(65),
		IsMain: true,
	}
	svc := newQueryForTest(newStubCompetitionRepository(), newStubTeamRepository(), newStubPlayerRepository(), newStubMatchRepository(unlinked), newStubHeadToHeadRepository())

	_, _, err := svc.GetMatchHeadToHead(context.Background(), 10)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unlinked match, got %v", err)
	}
}

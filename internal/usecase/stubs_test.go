package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
)

// In-memory stub repositories shared by the service tests. They are not
// synchronized; each test owns its own instances.

type stubCompetitionRepository struct {
	items map[int64]competition.Competition
}

func newStubCompetitionRepository(items ...competition.Competition) *stubCompetitionRepository {
	repo := &stubCompetitionRepository{items: make(map[int64]competition.Competition)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubCompetitionRepository) Count(context.Context) (int, error) {
	return len(r.items), nil
}

func (r *stubCompetitionRepository) List(context.Context) ([]competition.Competition, error) {
	out := make([]competition.Competition, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCompetitionRepository) GetByID(_ context.Context, id int64) (competition.Competition, error) {
	item, ok := r.items[id]
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: competition %d", ErrNotFound, id)
	}
	return item, nil
}

func (r *stubCompetitionRepository) InsertMany(_ context.Context, items []competition.Competition) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *stubCompetitionRepository) Update(_ context.Context, item competition.Competition) error {
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("%w: competition %d", ErrNotFound, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

type stubTeamRepository struct {
	items map[int64]team.Team
}

func newStubTeamRepository(items ...team.Team) *stubTeamRepository {
	repo := &stubTeamRepository{items: make(map[int64]team.Team)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubTeamRepository) List(context.Context) ([]team.Team, error) {
	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTeamRepository) GetByID(_ context.Context, id int64) (team.Team, error) {
	item, ok := r.items[id]
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team %d", ErrNotFound, id)
	}
	return item, nil
}

func (r *stubTeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubTeamRepository) UpsertMany(_ context.Context, items []team.Team) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *stubTeamRepository) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type stubPlayerRepository struct {
	items map[int64]player.Player
}

func newStubPlayerRepository(items ...player.Player) *stubPlayerRepository {
	repo := &stubPlayerRepository{items: make(map[int64]player.Player)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubPlayerRepository) List(context.Context) ([]player.Player, error) {
	out := make([]player.Player, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubPlayerRepository) UpsertMany(_ context.Context, items []player.Player) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *stubPlayerRepository) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type stubMatchRepository struct {
	items map[int64]match.Match
}

func newStubMatchRepository(items ...match.Match) *stubMatchRepository {
	repo := &stubMatchRepository{items: make(map[int64]match.Match)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubMatchRepository) collect(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubMatchRepository) List(context.Context) ([]match.Match, error) {
	return r.collect(func(match.Match) bool { return true }), nil
}

func (r *stubMatchRepository) ListMain(context.Context) ([]match.Match, error) {
	return r.collect(func(m match.Match) bool { return m.IsMain }), nil
}

func (r *stubMatchRepository) ListByCompetition(_ context.Context, competitionID int64) ([]match.Match, error) {
	return r.collect(func(m match.Match) bool { return m.CompetitionID == competitionID }), nil
}

func (r *stubMatchRepository) ListFinishedByTeam(_ context.Context, teamID int64) ([]match.Match, error) {
	return r.collect(func(m match.Match) bool { return m.Finished() && m.Involves(teamID) }), nil
}

func (r *stubMatchRepository) ListFinishedBetween(_ context.Context, teamA, teamB int64) ([]match.Match, error) {
	return r.collect(func(m match.Match) bool {
		return m.Finished() && m.Involves(teamA) && m.Involves(teamB)
	}), nil
}

func (r *stubMatchRepository) GetByID(_ context.Context, id int64) (match.Match, error) {
	item, ok := r.items[id]
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %d", ErrNotFound, id)
	}
	return item, nil
}

func (r *stubMatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubMatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *stubMatchRepository) Delete(_ context.Context, id int64) error {
	delete(r.items, id)
	return nil
}

type stubHeadToHeadRepository struct {
	items map[string]headtohead.HeadToHead
}

func newStubHeadToHeadRepository(items ...headtohead.HeadToHead) *stubHeadToHeadRepository {
	repo := &stubHeadToHeadRepository{items: make(map[string]headtohead.HeadToHead)}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *stubHeadToHeadRepository) List(context.Context) ([]headtohead.HeadToHead, error) {
	out := make([]headtohead.HeadToHead, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubHeadToHeadRepository) GetByID(_ context.Context, id string) (headtohead.HeadToHead, error) {
	item, ok := r.items[id]
	if !ok {
		return headtohead.HeadToHead{}, fmt.Errorf("%w: head-to-head %s", ErrNotFound, id)
	}
	return item, nil
}

func (r *stubHeadToHeadRepository) Upsert(_ context.Context, item headtohead.HeadToHead) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubHeadToHeadRepository) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type stubScheduleRepository struct {
	record schedule.Record
}

func (r *stubScheduleRepository) Get(context.Context) (schedule.Record, error) {
	return r.record, nil
}

func (r *stubScheduleRepository) ResetForNewRun(_ context.Context, at time.Time) (schedule.Record, error) {
	r.record = schedule.Record{LastRunAt: at, LastStatus: schedule.StatusPending}
	return r.record, nil
}

func (r *stubScheduleRepository) RecordOutcome(_ context.Context, status schedule.Status, at time.Time, windows []schedule.Window) error {
	r.record = schedule.Record{LastRunAt: at, LastStatus: status, Windows: windows}
	return nil
}

// stubProvider returns canned payloads and records which endpoints were hit.
type stubProvider struct {
	competitions      []ExternalCompetition
	competitionByCode map[string]ExternalCompetition
	standingsByID     map[int64][]ExternalStanding
	teamsByID         map[int64][]ExternalTeam
	matches           []ExternalMatch
	matchesByComp     map[int64][]ExternalMatch
	headToHeadByID    map[int64]ExternalHeadToHead

	listCalls      int
	detailCalls    []string
	standingCalls  []int64
	teamCalls      []int64
	matchCalls     int
	compMatchCalls []MatchFilter
	h2hCalls       []int64
	cooldowns      int
}

func (p *stubProvider) ListCompetitions(context.Context) ([]ExternalCompetition, error) {
	p.listCalls++
	return p.competitions, nil
}

func (p *stubProvider) GetCompetition(_ context.Context, code string) (ExternalCompetition, error) {
	p.detailCalls = append(p.detailCalls, code)
	item, ok := p.competitionByCode[code]
	if !ok {
		return ExternalCompetition{}, fmt.Errorf("%w: competition %s", ErrNotFound, code)
	}
	return item, nil
}

func (p *stubProvider) GetStandings(_ context.Context, competitionID int64) ([]ExternalStanding, error) {
	p.standingCalls = append(p.standingCalls, competitionID)
	return p.standingsByID[competitionID], nil
}

func (p *stubProvider) GetCompetitionTeams(_ context.Context, competitionID int64) ([]ExternalTeam, error) {
	p.teamCalls = append(p.teamCalls, competitionID)
	return p.teamsByID[competitionID], nil
}

func (p *stubProvider) GetMatches(context.Context, time.Time, time.Time) ([]ExternalMatch, error) {
	p.matchCalls++
	return p.matches, nil
}

func (p *stubProvider) GetCompetitionMatches(_ context.Context, competitionID int64, filter MatchFilter) ([]ExternalMatch, error) {
	p.compMatchCalls = append(p.compMatchCalls, filter)
	out := make([]ExternalMatch, 0)
	for _, m := range p.matchesByComp[competitionID] {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Matchday > 0 && m.Matchday != filter.Matchday {
			continue
		}
		if filter.Stage != "" && m.Stage != filter.Stage {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (p *stubProvider) GetHeadToHead(_ context.Context, matchID int64, _ int) (ExternalHeadToHead, error) {
	p.h2hCalls = append(p.h2hCalls, matchID)
	return p.headToHeadByID[matchID], nil
}

func (p *stubProvider) Cooldown(context.Context, time.Duration) error {
	p.cooldowns++
	return nil
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[int64]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[int64]match.Match)}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(match.Match) bool { return true }), nil
}

func (r *MatchRepository) ListMain(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(m match.Match) bool { return m.IsMain }), nil
}

func (r *MatchRepository) ListByCompetition(_ context.Context, competitionID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(m match.Match) bool { return m.CompetitionID == competitionID }), nil
}

func (r *MatchRepository) ListFinishedByTeam(_ context.Context, teamID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(m match.Match) bool {
		return m.Finished() && m.Involves(teamID)
	}), nil
}

func (r *MatchRepository) ListFinishedBetween(_ context.Context, teamA, teamB int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(m match.Match) bool {
		return m.Finished() && m.Involves(teamA) && m.Involves(teamB)
	}), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match %d", usecase.ErrNotFound, id)
	}
	return item, nil
}

func (r *MatchRepository) Upsert(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *MatchRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

// collect assumes the caller holds at least a read lock.
func (r *MatchRepository) collect(keep func(match.Match) bool) []match.Match {
	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

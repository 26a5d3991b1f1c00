package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

type CompetitionRepository struct {
	mu    sync.RWMutex
	items map[int64]competition.Competition
}

func NewCompetitionRepository() *CompetitionRepository {
	return &CompetitionRepository{items: make(map[int64]competition.Competition)}
}

func (r *CompetitionRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items), nil
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Competition, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, id int64) (competition.Competition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: competition %d", usecase.ErrNotFound, id)
	}
	return item, nil
}

func (r *CompetitionRepository) InsertMany(_ context.Context, items []competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *CompetitionRepository) Update(_ context.Context, item competition.Competition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("%w: competition %d", usecase.ErrNotFound, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

type HeadToHeadRepository struct {
	mu    sync.RWMutex
	items map[string]headtohead.HeadToHead
}

func NewHeadToHeadRepository() *HeadToHeadRepository {
	return &HeadToHeadRepository{items: make(map[string]headtohead.HeadToHead)}
}

func (r *HeadToHeadRepository) List(_ context.Context) ([]headtohead.HeadToHead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]headtohead.HeadToHead, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *HeadToHeadRepository) GetByID(_ context.Context, id string) (headtohead.HeadToHead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return headtohead.HeadToHead{}, fmt.Errorf("%w: head-to-head %s", usecase.ErrNotFound, id)
	}
	return item, nil
}

func (r *HeadToHeadRepository) Upsert(_ context.Context, item headtohead.HeadToHead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}

func (r *HeadToHeadRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

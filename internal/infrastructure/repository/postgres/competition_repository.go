package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
)

type CompetitionRepository struct {
	store docStore
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{store: newDocStore(db)}
}

func (r *CompetitionRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(ctx, collectionCompetitions)
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	var out []competition.Competition
	err := r.store.listInto(ctx, collectionCompetitions, func(raw []byte) error {
		var item competition.Competition
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (competition.Competition, error) {
	var item competition.Competition
	if err := r.store.get(ctx, collectionCompetitions, int64Key(id), &item); err != nil {
		return competition.Competition{}, err
	}
	return item, nil
}

func (r *CompetitionRepository) InsertMany(ctx context.Context, items []competition.Competition) error {
	docs := make(map[string]any, len(items))
	for _, item := range items {
		docs[int64Key(item.ID)] = item
	}
	return r.store.putMany(ctx, collectionCompetitions, docs)
}

func (r *CompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	return r.store.put(ctx, collectionCompetitions, int64Key(item.ID), item)
}

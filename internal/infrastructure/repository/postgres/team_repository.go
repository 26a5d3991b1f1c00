package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
)

type TeamRepository struct {
	store docStore
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{store: newDocStore(db)}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	var out []team.Team
	err := r.store.listInto(ctx, collectionTeams, func(raw []byte) error {
		var item team.Team
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

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, error) {
	var item team.Team
	if err := r.store.get(ctx, collectionTeams, int64Key(id), &item); err != nil {
		return team.Team{}, err
	}
	return item, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	return r.store.put(ctx, collectionTeams, int64Key(item.ID), item)
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	docs := make(map[string]any, len(items))
	for _, item := range items {
		docs[int64Key(item.ID)] = item
	}
	return r.store.putMany(ctx, collectionTeams, docs)
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(ctx, collectionTeams, int64Key(id))
}

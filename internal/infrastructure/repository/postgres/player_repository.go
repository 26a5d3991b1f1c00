package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
)

type PlayerRepository struct {
	store docStore
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{store: newDocStore(db)}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	var out []player.Player
	err := r.store.listInto(ctx, collectionPlayers, func(raw []byte) error {
		var item player.Player
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

func (r *PlayerRepository) UpsertMany(ctx context.Context, items []player.Player) error {
	docs := make(map[string]any, len(items))
	for _, item := range items {
		docs[int64Key(item.ID)] = item
	}
	return r.store.putMany(ctx, collectionPlayers, docs)
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(ctx, collectionPlayers, int64Key(id))
}

package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
)

type HeadToHeadRepository struct {
	store docStore
}

func NewHeadToHeadRepository(db *sqlx.DB) *HeadToHeadRepository {
	return &HeadToHeadRepository{store: newDocStore(db)}
}

func (r *HeadToHeadRepository) List(ctx context.Context) ([]headtohead.HeadToHead, error) {
	var out []headtohead.HeadToHead
	err := r.store.listInto(ctx, collectionHeadToHead, func(raw []byte) error {
		var item headtohead.HeadToHead
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

func (r *HeadToHeadRepository) GetByID(ctx context.Context, id string) (headtohead.HeadToHead, error) {
	var item headtohead.HeadToHead
	if err := r.store.get(ctx, collectionHeadToHead, id, &item); err != nil {
		return headtohead.HeadToHead{}, err
	}
	return item, nil
}

func (r *HeadToHeadRepository) Upsert(ctx context.Context, item headtohead.HeadToHead) error {
	return r.store.put(ctx, collectionHeadToHead, item.ID, item)
}

func (r *HeadToHeadRepository) Delete(ctx context.Context, id string) error {
	return r.store.delete(ctx, collectionHeadToHead, id)
}

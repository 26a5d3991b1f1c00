package player

import "context"

type Repository interface {
	List(ctx context.Context) ([]Player, error)
	UpsertMany(ctx context.Context, items []Player) error
	Delete(ctx context.Context, id int64) error
}

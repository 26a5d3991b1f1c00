package team

import "context"

type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, error)
	Upsert(ctx context.Context, item Team) error
	UpsertMany(ctx context.Context, items []Team) error
	Delete(ctx context.Context, id int64) error
}

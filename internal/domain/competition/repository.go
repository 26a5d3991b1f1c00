package competition

import "context"

type Repository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]Competition, error)
	GetByID(ctx context.Context, id int64) (Competition, error)
	InsertMany(ctx context.Context, items []Competition) error
	Update(ctx context.Context, item Competition) error
}

package headtohead

import "context"

type Repository interface {
	List(ctx context.Context) ([]HeadToHead, error)
	GetByID(ctx context.Context, id string) (HeadToHead, error)
	Upsert(ctx context.Context, item HeadToHead) error
	Delete(ctx context.Context, id string) error
}

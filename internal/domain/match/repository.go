package match

import "context"

type Repository interface {
	List(ctx context.Context) ([]Match, error)
	ListMain(ctx context.Context) ([]Match, error)
	ListByCompetition(ctx context.Context, competitionID int64) ([]Match, error)
	ListFinishedByTeam(ctx context.Context, teamID int64) ([]Match, error)
	ListFinishedBetween(ctx context.Context, teamA, teamB int64) ([]Match, error)
	GetByID(ctx context.Context, id int64) (Match, error)
	Upsert(ctx context.Context, item Match) error
	UpsertMany(ctx context.Context, items []Match) error
	Delete(ctx context.Context, id int64) error
}

package postgres

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
)

// MatchRepository filters in Go after loading the collection. Match volume
// stays bounded by the retention sweeps, so the table never grows past a few
// hundred documents.
type MatchRepository struct {
	store docStore
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{store: newDocStore(db)}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, func(match.Match) bool { return true })
}

func (r *MatchRepository) ListMain(ctx context.Context) ([]match.Match, error) {
	return r.list(ctx, func(m match.Match) bool { return m.IsMain })
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]match.Match, error) {
	return r.list(ctx, func(m match.Match) bool { return m.CompetitionID == competitionID })
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID int64) ([]match.Match, error) {
	return r.list(ctx, func(m match.Match) bool {
		return m.Finished() && m.Involves(teamID)
	})
}

func (r *MatchRepository) ListFinishedBetween(ctx context.Context, teamA, teamB int64) ([]match.Match, error) {
	return r.list(ctx, func(m match.Match) bool {
		return m.Finished() && m.Involves(teamA) && m.Involves(teamB)
	})
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, error) {
	var item match.Match
	if err := r.store.get(ctx, collectionMatches, int64Key(id), &item); err != nil {
		return match.Match{}, err
	}
	return item, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	return r.store.put(ctx, collectionMatches, int64Key(item.ID), item)
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	docs := make(map[string]any, len(items))
	for _, item := range items {
		docs[int64Key(item.ID)] = item
	}
	return r.store.putMany(ctx, collectionMatches, docs)
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	return r.store.delete(ctx, collectionMatches, int64Key(id))
}

func (r *MatchRepository) list(ctx context.Context, keep func(match.Match) bool) ([]match.Match, error) {
	var out []match.Match
	err := r.store.listInto(ctx, collectionMatches, func(raw []byte) error {
		var item match.Match
		if err := sonic.Unmarshal(raw, &item); err != nil {
			return err
		}
		if keep(item) {
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

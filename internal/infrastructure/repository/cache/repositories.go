package cache

import (
	"context"
	"strconv"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	basecache "github.com/ennanuel/score-plug-backend-sub000/internal/platform/cache"
)

// Read-through decorators over the document repositories. Every write
// invalidates the whole key prefix of its collection; the sync pipeline
// writes in bursts, so fine-grained invalidation buys nothing here.

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) Count(ctx context.Context) (int, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:count", func(ctx context.Context) (any, error) {
		return r.next.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	count, _ := v.(int)
	return count, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (competition.Competition, error) {
	key := "competition:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return competition.Competition{}, err
	}
	item, _ := v.(competition.Competition)
	return item, nil
}

func (r *CompetitionRepository) InsertMany(ctx context.Context, items []competition.Competition) error {
	if err := r.next.InsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

func (r *CompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "competition:")
	return nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, error) {
	key := "team:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return team.Team{}, err
	}
	item, _ := v.(team.Team)
	return item, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, items []team.Team) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, "player:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, items []player.Player) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) listCached(ctx context.Context, key string, load func(context.Context) ([]match.Match, error)) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	return r.listCached(ctx, "match:list", r.next.List)
}

func (r *MatchRepository) ListMain(ctx context.Context) ([]match.Match, error) {
	return r.listCached(ctx, "match:main", r.next.ListMain)
}

func (r *MatchRepository) ListByCompetition(ctx context.Context, competitionID int64) ([]match.Match, error) {
	key := "match:competition:" + strconv.FormatInt(competitionID, 10)
	return r.listCached(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListByCompetition(ctx, competitionID)
	})
}

func (r *MatchRepository) ListFinishedByTeam(ctx context.Context, teamID int64) ([]match.Match, error) {
	key := "match:finished:team:" + strconv.FormatInt(teamID, 10)
	return r.listCached(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListFinishedByTeam(ctx, teamID)
	})
}

func (r *MatchRepository) ListFinishedBetween(ctx context.Context, teamA, teamB int64) ([]match.Match, error) {
	key := "match:finished:pair:" + headtohead.PairKey(teamA, teamB)
	return r.listCached(ctx, key, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListFinishedBetween(ctx, teamA, teamB)
	})
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, error) {
	key := "match:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return match.Match{}, err
	}
	item, _ := v.(match.Match)
	return item, nil
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if err := r.next.UpsertMany(ctx, items); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "match:")
	return nil
}

type HeadToHeadRepository struct {
	next  headtohead.Repository
	cache *basecache.Store
}

func NewHeadToHeadRepository(next headtohead.Repository, cache *basecache.Store) *HeadToHeadRepository {
	return &HeadToHeadRepository{next: next, cache: cache}
}

func (r *HeadToHeadRepository) List(ctx context.Context) ([]headtohead.HeadToHead, error) {
	v, err := r.cache.GetOrLoad(ctx, "head2head:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]headtohead.HeadToHead(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	items, _ := v.([]headtohead.HeadToHead)
	return append([]headtohead.HeadToHead(nil), items...), nil
}

func (r *HeadToHeadRepository) GetByID(ctx context.Context, id string) (headtohead.HeadToHead, error) {
	v, err := r.cache.GetOrLoad(ctx, "head2head:id:"+id, func(ctx context.Context) (any, error) {
		return r.next.GetByID(ctx, id)
	})
	if err != nil {
		return headtohead.HeadToHead{}, err
	}
	item, _ := v.(headtohead.HeadToHead)
	return item, nil
}

func (r *HeadToHeadRepository) Upsert(ctx context.Context, item headtohead.HeadToHead) error {
	if err := r.next.Upsert(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "head2head:")
	return nil
}

func (r *HeadToHeadRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "head2head:")
	return nil
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	basecache "github.com/ennanuel/score-plug-backend-sub000/internal/platform/cache"
)

type competitionRepoMock struct {
	mock.Mock
}

func (m *competitionRepoMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *competitionRepoMock) List(ctx context.Context) ([]competition.Competition, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]competition.Competition)
	return items, args.Error(1)
}

func (m *competitionRepoMock) GetByID(ctx context.Context, id int64) (competition.Competition, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(competition.Competition)
	return item, args.Error(1)
}

func (m *competitionRepoMock) InsertMany(ctx context.Context, items []competition.Competition) error {
	return m.Called(ctx, items).Error(0)
}

func (m *competitionRepoMock) Update(ctx context.Context, item competition.Competition) error {
	return m.Called(ctx, item).Error(0)
}

func TestCompetitionRepository_ListIsReadThrough(t *testing.T) {
	t.Parallel()

	next := new(competitionRepoMock)
	next.
		On("List", mock.Anything).
		Return([]competition.Competition{{ID: 2021, Name: "Premier League"}}, nil).
		Once()

	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for range 3 {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list competitions: %v", err)
		}
		if len(items) != 1 || items[0].ID != 2021 {
			t.Fatalf("unexpected competitions: %+v", items)
		}
	}

	next.AssertExpectations(t)
}

func TestCompetitionRepository_WriteInvalidatesReads(t *testing.T) {
	t.Parallel()

	next := new(competitionRepoMock)
	next.
		On("GetByID", mock.Anything, int64(2021)).
		Return(competition.Competition{ID: 2021, Name: "Premier League"}, nil).
		Twice()
	next.
		On("Update", mock.Anything, mock.Anything).
		Return(nil).
		Once()

	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 2021); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := repo.GetByID(ctx, 2021); err != nil {
		t.Fatalf("cached read: %v", err)
	}

	if err := repo.Update(ctx, competition.Competition{ID: 2021, Name: "Premier League"}); err != nil {
		t.Fatalf("update competition: %v", err)
	}

	// The write dropped the whole competition: prefix, so the next read goes
	// back to the inner repository.
	if _, err := repo.GetByID(ctx, 2021); err != nil {
		t.Fatalf("read after invalidation: %v", err)
	}

	next.AssertExpectations(t)
}

func TestCompetitionRepository_ListCopiesAreIsolated(t *testing.T) {
	t.Parallel()

	next := new(competitionRepoMock)
	next.
		On("List", mock.Anything).
		Return([]competition.Competition{{ID: 2021, Name: "Premier League"}}, nil).
		Once()

	repo := NewCompetitionRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	first, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list competitions: %v", err)
	}
	first[0].Name = "mutated"

	second, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if second[0].Name != "Premier League" {
		t.Fatalf("cached entry leaked a caller mutation: %+v", second[0])
	}

	next.AssertExpectations(t)
}

package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

// scheduleDocID is the fixed id of the singleton run record.
const scheduleDocID = "current"

// ScheduleRepository persists the run record as one document. The process
// lock serializes the read-then-write gating sequence; the database row is
// just durable state across restarts.
type ScheduleRepository struct {
	mu    sync.Mutex
	store docStore
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{store: newDocStore(db)}
}

func (r *ScheduleRepository) Get(ctx context.Context) (schedule.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *ScheduleRepository) ResetForNewRun(ctx context.Context, at time.Time) (schedule.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := schedule.Record{
		LastRunAt:  at,
		LastStatus: schedule.StatusPending,
	}
	if err := r.store.put(ctx, collectionSchedule, scheduleDocID, record); err != nil {
		return schedule.Record{}, err
	}
	return record, nil
}

func (r *ScheduleRepository) RecordOutcome(ctx context.Context, status schedule.Status, at time.Time, windows []schedule.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := schedule.Record{
		LastRunAt:  at,
		LastStatus: status,
		Windows:    windows,
	}
	return r.store.put(ctx, collectionSchedule, scheduleDocID, record)
}

// load assumes the caller holds the lock. A missing document reads as the
// zero record, meaning no run has happened yet.
func (r *ScheduleRepository) load(ctx context.Context) (schedule.Record, error) {
	var record schedule.Record
	err := r.store.get(ctx, collectionSchedule, scheduleDocID, &record)
	if err != nil {
		if usecase.IsNotFound(err) {
			return schedule.Record{}, nil
		}
		return schedule.Record{}, err
	}
	return record, nil
}

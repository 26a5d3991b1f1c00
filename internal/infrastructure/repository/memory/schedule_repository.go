package memory

import (
	"context"
	"sync"
	"time"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
)

// ScheduleRepository holds the singleton run record. All three methods share
// one lock, so run gating reads and writes are serialized here.
type ScheduleRepository struct {
	mu     sync.Mutex
	record schedule.Record
}

func NewScheduleRepository() *ScheduleRepository {
	return &ScheduleRepository{}
}

func (r *ScheduleRepository) Get(_ context.Context) (schedule.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot(), nil
}

func (r *ScheduleRepository) ResetForNewRun(_ context.Context, at time.Time) (schedule.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.record = schedule.Record{
		LastRunAt:  at,
		LastStatus: schedule.StatusPending,
	}
	return r.snapshot(), nil
}

func (r *ScheduleRepository) RecordOutcome(_ context.Context, status schedule.Status, at time.Time, windows []schedule.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.record = schedule.Record{
		LastRunAt:  at,
		LastStatus: status,
		Windows:    append([]schedule.Window(nil), windows...),
	}
	return nil
}

// snapshot assumes the caller holds the lock.
func (r *ScheduleRepository) snapshot() schedule.Record {
	out := r.record
	out.Windows = append([]schedule.Window(nil), r.record.Windows...)
	return out
}

package schedule

import (
	"context"
	"time"
)

// Repository guards the singleton run record. These three methods are the
// only mutation entry points, so the read-then-write race on run gating is
// closed inside the implementation's lock.
type Repository interface {
	Get(ctx context.Context) (Record, error)
	ResetForNewRun(ctx context.Context, at time.Time) (Record, error)
	RecordOutcome(ctx context.Context, status Status, at time.Time, windows []Window) error
}

package schedule

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Record is the process-wide singleton describing the last sync run and the
// current live-polling windows. It gates redundant re-triggers.
type Record struct {
	LastRunAt  time.Time `json:"lastRunAt"`
	LastStatus Status    `json:"lastStatus"`
	Windows    []Window  `json:"windows"`
}

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ShouldSkipRun reports whether a new run is redundant: the previous run
// succeeded within the sync interval.
func (r Record) ShouldSkipRun(now time.Time, interval time.Duration) bool {
	if r.LastStatus != StatusSuccess || r.LastRunAt.IsZero() {
		return false
	}
	return now.Sub(r.LastRunAt) < interval
}

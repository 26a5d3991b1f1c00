package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
)

const defaultSyncInterval = 24 * time.Hour

// Trigger responses returned to the caller immediately; the run itself is
// asynchronous.
const (
	TriggerStarted        = "started"
	TriggerAlreadyRunning = "already running"
)

// OrchestratorService runs the full synchronization pipeline on a
// single-worker pool. One run at a time; a trigger during a run is
// acknowledged without queueing a second one.
type OrchestratorService struct {
	competitionSync *CompetitionSyncService
	teamSync        *TeamSyncService
	matchSync       *MatchSyncService
	consistency     *ConsistencyService
	stats           *StatsService
	matches         match.Repository
	scheduleRepo    schedule.Repository
	interval        time.Duration
	pool            *ants.Pool
	inFlight        atomic.Bool
	logger          *logging.Logger
	now             func() time.Time
}

func NewOrchestratorService(
	competitionSync *CompetitionSyncService,
	teamSync *TeamSyncService,
	matchSync *MatchSyncService,
	consistency *ConsistencyService,
	stats *StatsService,
	matches match.Repository,
	scheduleRepo schedule.Repository,
	interval time.Duration,
	logger *logging.Logger,
) (*OrchestratorService, error) {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(1, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create sync pool: %w", err)
	}

	return &OrchestratorService{
		competitionSync: competitionSync,
		teamSync:        teamSync,
		matchSync:       matchSync,
		consistency:     consistency,
		stats:           stats,
		matches:         matches,
		scheduleRepo:    scheduleRepo,
		interval:        interval,
		pool:            pool,
		logger:          logger,
		now:             time.Now,
	}, nil
}

// Trigger starts a background run and returns immediately. The caller never
// waits on the pipeline; run state is observable through Status.
func (s *OrchestratorService) Trigger(ctx context.Context) (string, error) {
	_, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Trigger")
	defer span.End()

	if !s.inFlight.CompareAndSwap(false, true) {
		return TriggerAlreadyRunning, nil
	}

	err := s.pool.Submit(func() {
		defer s.inFlight.Store(false)
		// Detached from the request context: the run outlives the
		// triggering request.
		if err := s.Run(context.Background()); err != nil {
			s.logger.Error("sync run failed", "error", err)
		}
	})
	if err != nil {
		s.inFlight.Store(false)
		return "", fmt.Errorf("submit sync run: %w", err)
	}

	return TriggerStarted, nil
}

// Status returns the singleton run record.
func (s *OrchestratorService) Status(ctx context.Context) (schedule.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Status")
	defer span.End()

	return s.scheduleRepo.Get(ctx)
}

// Run executes the whole pipeline in order. A run within the sync interval
// of the last successful one is skipped. The first stage error aborts the
// rest and is recorded as a failed run; the next trigger retries wholesale.
func (s *OrchestratorService) Run(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Run")
	defer span.End()

	now := s.now()
	record, err := s.scheduleRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get run record: %w", err)
	}
	if record.ShouldSkipRun(now, s.interval) {
		s.logger.InfoContext(ctx, "sync run skipped, previous run still fresh",
			"last_run_at", record.LastRunAt,
		)
		return nil
	}

	if _, err := s.scheduleRepo.ResetForNewRun(ctx, now); err != nil {
		return fmt.Errorf("reset run record: %w", err)
	}

	s.logger.InfoContext(ctx, "sync run started")
	started := now

	if err := s.pipeline(ctx); err != nil {
		if recErr := s.scheduleRepo.RecordOutcome(ctx, schedule.StatusFailed, started, nil); recErr != nil {
			s.logger.ErrorContext(ctx, "failed to record run outcome", "error", recErr)
		}
		return err
	}

	windows, err := s.buildWindows(ctx)
	if err != nil {
		if recErr := s.scheduleRepo.RecordOutcome(ctx, schedule.StatusFailed, started, nil); recErr != nil {
			s.logger.ErrorContext(ctx, "failed to record run outcome", "error", recErr)
		}
		return err
	}

	if err := s.scheduleRepo.RecordOutcome(ctx, schedule.StatusSuccess, started, windows); err != nil {
		return fmt.Errorf("record run outcome: %w", err)
	}

	s.logger.InfoContext(ctx, "sync run finished",
		"duration", s.now().Sub(started).String(),
		"windows", len(windows),
	)
	return nil
}

func (s *OrchestratorService) pipeline(ctx context.Context) error {
	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"ensure competitions", s.competitionSync.EnsureCompetitions},
		{"refresh stale competitions", s.competitionSync.RefreshStale},
		{"sync teams", s.teamSync.Sync},
		{"fetch new matches", s.matchSync.FetchNewMatches},
		{"backfill head-to-head", s.matchSync.BackfillHeadToHead},
		{"expire main matches", s.consistency.ExpireMainMatches},
		{"prune overflow", s.consistency.PruneOverflow},
		{"recompute team tallies", s.stats.RecomputeTeamTallies},
		{"recompute head-to-head", s.stats.RecomputeHeadToHead},
		{"compute outcomes", s.stats.ComputeOutcomes},
	}

	for _, stage := range stages {
		if err := stage.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", stage.name, err)
		}
	}
	return nil
}

func (s *OrchestratorService) buildWindows(ctx context.Context) ([]schedule.Window, error) {
	mains, err := s.matches.ListMain(ctx)
	if err != nil {
		return nil, fmt.Errorf("list main matches: %w", err)
	}
	return BuildTodaysWindows(mains, s.now()), nil
}

// Close releases the worker pool. In-flight runs finish first.
func (s *OrchestratorService) Close() {
	s.pool.Release()
}

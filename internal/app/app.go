package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/ennanuel/score-plug-backend-sub000/external/footballdata"
	"github.com/ennanuel/score-plug-backend-sub000/internal/config"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/competition"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/headtohead"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/match"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/player"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/schedule"
	"github.com/ennanuel/score-plug-backend-sub000/internal/domain/team"
	cacherepo "github.com/ennanuel/score-plug-backend-sub000/internal/infrastructure/repository/cache"
	"github.com/ennanuel/score-plug-backend-sub000/internal/infrastructure/repository/memory"
	"github.com/ennanuel/score-plug-backend-sub000/internal/infrastructure/repository/postgres"
	"github.com/ennanuel/score-plug-backend-sub000/internal/interfaces/httpapi"
	basecache "github.com/ennanuel/score-plug-backend-sub000/internal/platform/cache"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/logging"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/ratelimit"
	"github.com/ennanuel/score-plug-backend-sub000/internal/platform/resilience"
	"github.com/ennanuel/score-plug-backend-sub000/internal/usecase"
)

type repositories struct {
	competitions competition.Repository
	teams        team.Repository
	players      player.Repository
	matches      match.Repository
	headToHead   headtohead.Repository
	schedule     schedule.Repository
}

// NewHTTPServer wires the whole service. The returned cleanup releases the
// sync worker pool and the database handle; call it after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	repos, closeDB, err := buildRepositories(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.competitions = cacherepo.NewCompetitionRepository(repos.competitions, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
		repos.headToHead = cacherepo.NewHeadToHeadRepository(repos.headToHead, store)
	}

	pacer := ratelimit.NewPacer(cfg.FootballDataMinInterval)
	breakerCfg := resilience.DefaultCircuitBreakerConfig()
	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Pacer:      pacer,
		Breaker:    resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		Logger:     logger,
	})

	competitionSync := usecase.NewCompetitionSyncService(
		provider, repos.competitions, repos.teams, repos.players,
		cfg.FootballDataCooldown, logger,
	)
	teamSync := usecase.NewTeamSyncService(
		provider, repos.competitions, repos.teams, repos.players, repos.matches,
		cfg.FootballDataCooldown, logger,
	)
	matchSync := usecase.NewMatchSyncService(
		provider, repos.matches, repos.headToHead,
		cfg.FootballDataCooldown, logger,
	)
	consistency := usecase.NewConsistencyService(repos.matches, repos.headToHead, repos.teams, logger)
	stats := usecase.NewStatsService(repos.matches, repos.headToHead, repos.teams, logger)

	orchestrator, err := usecase.NewOrchestratorService(
		competitionSync, teamSync, matchSync, consistency, stats,
		repos.matches, repos.schedule, cfg.SyncInterval, logger,
	)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	query := usecase.NewQueryService(
		repos.competitions, repos.teams, repos.players, repos.matches, repos.headToHead,
	)

	handler := httpapi.NewHandler(orchestrator, query, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.UpdateToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		orchestrator.Close()
		closeDB()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func() {
		orchestrator.Close()
		closeDB()
	}
	return server, cleanup, nil
}

func buildRepositories(cfg config.Config) (repositories, func(), error) {
	if !cfg.DBEnabled {
		return repositories{
			competitions: memory.NewCompetitionRepository(),
			teams:        memory.NewTeamRepository(),
			players:      memory.NewPlayerRepository(),
			matches:      memory.NewMatchRepository(),
			headToHead:   memory.NewHeadToHeadRepository(),
			schedule:     memory.NewScheduleRepository(),
		}, func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.DBURL)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	return repositories{
		competitions: postgres.NewCompetitionRepository(db),
		teams:        postgres.NewTeamRepository(db),
		players:      postgres.NewPlayerRepository(db),
		matches:      postgres.NewMatchRepository(db),
		headToHead:   postgres.NewHeadToHeadRepository(db),
		schedule:     postgres.NewScheduleRepository(db),
	}, func() { _ = db.Close() }, nil
}

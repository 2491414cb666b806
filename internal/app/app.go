package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/SanchuCortes/HouseManager-sub000/external/footballdata"
	"github.com/SanchuCortes/HouseManager-sub000/external/notify"
	"github.com/SanchuCortes/HouseManager-sub000/internal/config"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/league"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/market"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/match"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/player"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/points"
	"github.com/SanchuCortes/HouseManager-sub000/internal/domain/team"
	cacherepo "github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/cache"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/memory"
	"github.com/SanchuCortes/HouseManager-sub000/internal/infrastructure/repository/postgres"
	"github.com/SanchuCortes/HouseManager-sub000/internal/interfaces/httpapi"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/bus"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/cache"
	idgen "github.com/SanchuCortes/HouseManager-sub000/internal/platform/id"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/logging"
	"github.com/SanchuCortes/HouseManager-sub000/internal/platform/resilience"
	"github.com/SanchuCortes/HouseManager-sub000/internal/usecase"

	_ "github.com/lib/pq"
)

type repositories struct {
	teams   team.Repository
	players player.Repository
	matches match.Repository
	leagues league.Repository
	market  market.Repository
	points  points.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router. The returned
// cleanup releases the database handle and stops the webhook mirror.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, closeDB, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:     cfg.FeedBaseURL,
		Token:       cfg.FeedToken,
		Competition: cfg.FeedCompetition,
		Timeout:     cfg.FeedTimeout,
		MaxRetries:  cfg.FeedMaxRetries,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})

	eventBus := bus.New(16)

	catalogSvc := usecase.NewCatalogService(repos.teams, repos.players, repos.matches, repos.points)
	leagueSvc := usecase.NewLeagueService(repos.leagues, idgen.NewRandomGenerator())
	marketSvc := usecase.NewMarketService(repos.leagues, repos.market, repos.players)
	squadSvc := usecase.NewSquadService(repos.leagues, repos.market, repos.players)
	classificationSvc := usecase.NewClassificationService(repos.leagues, repos.market, repos.players, repos.points, store)
	scoringSvc := usecase.NewScoringService(repos.matches, repos.players, repos.points)
	syncSvc := usecase.NewSyncService(provider, repos.teams, repos.players, repos.matches, repos.leagues, scoringSvc, marketSvc, eventBus)

	stopWebhook := startWebhookMirror(cfg, logger, eventBus)

	handler := httpapi.NewHandler(catalogSvc, leagueSvc, marketSvc, squadSvc, classificationSvc, scoringSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(ctx context.Context) error {
		stopWebhook()
		return closeDB(ctx)
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if cfg.UseMemoryRepositories() {
		logger.Info("repositories initialized", "mode", "memory", "reason", "DB_URL empty")

		now := time.Now()
		leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(now))
		return repositories{
			teams:   memory.NewTeamRepository(memory.SeedTeams()),
			players: memory.NewPlayerRepository(memory.SeedPlayers(now)),
			matches: memory.NewMatchRepository(nil),
			leagues: leagueRepo,
			market:  memory.NewMarketRepository(leagueRepo),
			points:  memory.NewPointsRepository(),
		}, noop, nil
	}

	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return repositories{}, nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("repositories initialized", "mode", "postgres", "db_name", dbNameFromURL(cfg.DBURL))

	closeDB := func(context.Context) error { return db.Close() }
	return repositories{
		teams:   postgres.NewTeamRepository(db),
		players: postgres.NewPlayerRepository(db),
		matches: postgres.NewMatchRepository(db),
		leagues: postgres.NewLeagueRepository(db),
		market:  postgres.NewMarketRepository(db),
		points:  postgres.NewPointsRepository(db),
	}, closeDB, nil
}

// startWebhookMirror forwards sync completion events to the configured
// webhook. The returned stop func cancels the drain goroutine.
func startWebhookMirror(cfg config.Config, logger *logging.Logger, eventBus *bus.Bus) func() {
	if !cfg.WebhookEnabled {
		return func() {}
	}

	publisher := notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
		URL:     cfg.WebhookURL,
		Token:   cfg.WebhookToken,
		Timeout: cfg.WebhookTimeout,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	}, logger)

	events, unsubscribe := eventBus.Subscribe(usecase.TopicSyncCompleted)
	ctx, cancel := context.WithCancel(context.Background())
	go publisher.Listen(ctx, events)

	logger.Info("webhook mirror enabled", "topic", usecase.TopicSyncCompleted)

	return func() {
		unsubscribe()
		cancel()
	}
}

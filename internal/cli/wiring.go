package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"colmeia-quiz-service/internal/app"
	"colmeia-quiz-service/internal/config"
	"colmeia-quiz-service/internal/domain"
	"colmeia-quiz-service/internal/infra/file"
	"colmeia-quiz-service/internal/infra/memory"
	"colmeia-quiz-service/internal/infra/postgres"
	pgmigrations "colmeia-quiz-service/internal/infra/postgres/migrations"
	infraredis "colmeia-quiz-service/internal/infra/redis"
	"colmeia-quiz-service/internal/infra/sqlite"
	"colmeia-quiz-service/internal/seed"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// runtime holds the storage handles opened for one command invocation.
type runtime struct {
	cfg       config.Config
	redis     *redis.Client
	pool      *pgxpool.Pool
	dashboard app.DashboardStore
	history   app.HistoryLog
	closers   []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, err
	}
	if !found {
		log.Printf("WARN: [Config] %s not found, using defaults", path)
	}
	return cfg, nil
}

func usesPostgres(cfg config.Config) bool {
	return cfg.Storage.Driver == config.DriverPostgres || cfg.Questions.Source == config.SourcePostgres
}

// openRuntime connects the configured backends. Postgres migrations run first.
func openRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = rt.redis.Close() })
	}

	if usesPostgres(cfg) {
		if err := pgmigrations.Apply(ctx, cfg.Postgres.URL); err != nil {
			rt.Close()
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		rt.pool = pool
		rt.closers = append(rt.closers, pool.Close)
	}

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		rt.dashboard = memory.NewDashboardStore()
		rt.history = memory.NewHistoryLog()
	case config.DriverRedis:
		store := infraredis.NewStateStore(rt.redis, cfg.Redis.Prefix)
		rt.dashboard, rt.history = store, store
	case config.DriverPostgres:
		store := postgres.NewStateStore(rt.pool)
		rt.dashboard, rt.history = store, store
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = store.Close() })
		rt.dashboard, rt.history = store, store
	default:
		rt.dashboard = file.NewDashboardStore(file.DashboardPath(cfg.Storage.Dir))
		rt.history = file.NewHistoryLog(file.HistoryPath(cfg.Storage.Dir))
	}

	log.Printf("INFO: [Storage] using %s backend", cfg.Storage.Driver)
	return rt, nil
}

// questionLoader picks the configured bank source; remote sources are cached in Redis when available.
func (r *runtime) questionLoader() (app.QuestionLoader, error) {
	var loader app.QuestionLoader
	switch r.cfg.Questions.Source {
	case config.SourceFile:
		loader = file.NewQuestionLoader(r.cfg.Questions.Path)
	case config.SourcePostgres:
		loader = postgres.NewQuestionLoader(r.pool, r.cfg.Questions.BankID)
	default:
		questions, err := seed.Questions()
		if err != nil {
			return nil, err
		}
		return memory.NewStaticQuestionLoader(questions), nil
	}

	if r.redis != nil {
		ttl := config.TTLDuration(r.cfg.Redis.TTL, 10*time.Minute)
		loader = infraredis.NewQuestionCache(r.redis, loader, r.cfg.Redis.Prefix, ttl)
	}
	return loader, nil
}

func (r *runtime) initialDashboard() (domain.DashboardState, error) {
	if r.cfg.Dashboard.InitialPath != "" {
		return file.LoadSnapshot(r.cfg.Dashboard.InitialPath)
	}
	return seed.InitialDashboard()
}

// buildService loads the question bank and the initial snapshot and assembles the quiz service.
func (r *runtime) buildService(ctx context.Context) (*app.QuizService, error) {
	loader, err := r.questionLoader()
	if err != nil {
		return nil, err
	}
	bank, err := app.LoadQuestionBank(ctx, loader)
	if err != nil {
		return nil, fmt.Errorf("loading question bank: %w", err)
	}
	log.Printf("INFO: [QuestionBank] loaded %d questions from %s source", bank.Len(), r.cfg.Questions.Source)

	initial, err := r.initialDashboard()
	if err != nil {
		return nil, fmt.Errorf("loading initial dashboard: %w", err)
	}

	rules := app.NewRuleEngine(app.DefaultRules())
	for _, problem := range rules.ValidateAgainst(bank) {
		log.Printf("WARN: [RuleEngine] %s", problem)
	}

	if r.cfg.ShouldInitIfMissing() {
		if _, err := r.dashboard.Load(ctx); errors.Is(err, domain.ErrNotFound) {
			if err := r.dashboard.Save(ctx, initial); err != nil {
				return nil, fmt.Errorf("initializing dashboard: %w", err)
			}
			log.Printf("INFO: [Storage] dashboard initialized from snapshot")
		}
	}

	return app.NewQuizService(bank, rules, r.dashboard, r.history, initial), nil
}

package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/bundle"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/infra/postgres"
	infraredis "trivia-quiz-service/internal/infra/redis"
)

// services is the object graph behind the server and the admin commands.
type services struct {
	pool  *pgxpool.Pool
	db    *bun.DB
	redis *redis.Client

	questions *app.QuestionService
	scores    *app.ScoreService
	admin     *app.AdminService
}

// wire builds the services for cfg. Postgres and Redis are optional: without them questions
// come from the bundle and scores live in memory.
func wire(ctx context.Context, cfg config.Config) (*services, error) {
	files, err := openBundle(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{}
	if cfg.Postgres.URL != "" {
		s.pool, err = openPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		s.db = postgres.OpenBun(cfg.Postgres.URL)
	}
	if cfg.Redis.Addr != "" {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var primary app.QuestionLoader
	if s.pool != nil {
		primary = postgres.NewQuestionLoader(s.pool)
	}
	loader := app.NewFallbackLoader(primary, memory.NewStaticQuestionLoader(files))

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var questions interface {
		app.QuestionRepository
		app.QuestionCache
	}
	if s.redis != nil {
		questions = infraredis.NewQuestionRepository(s.redis, loader, quizTTL)
	} else {
		questions = memory.NewQuestionRepository(loader, quizTTL)
	}
	s.questions = app.NewQuestionService(questions, app.QuestionServiceConfig{
		DefaultCount: cfg.Quiz.DefaultCount,
		MaxCount:     cfg.Quiz.MaxCount,
	})

	var (
		store    app.ScoreStore
		stats    app.StatsReader
		importer app.QuestionImporter
	)
	if s.pool != nil {
		store = postgres.NewScoreStore(s.pool)
		stats = postgres.NewStats(s.pool)
		importer = postgres.NewImporter(s.db)
	} else {
		memStore := memory.NewScoreStore()
		store = memStore
		stats = memory.NewStats(files, memStore)
	}
	if s.redis != nil {
		store = infraredis.NewLeaderboardCache(s.redis, store, config.TTLDuration(cfg.Redis.TTL, time.Minute))
	}
	s.scores = app.NewScoreService(store, app.NewLeaderboardHub())
	s.admin = app.NewAdminService(stats, importer, files).WithCache(questions)
	return s, nil
}

// prepare migrates the database, when one is configured, and wires the services. A database
// that cannot be reached is logged rather than fatal: questions then come from the bundle.
func prepare(ctx context.Context, cfg config.Config) (*services, error) {
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			log.Printf("database migration failed, continuing with bundled questions: %v", err)
		}
	}
	return wire(ctx, cfg)
}

// openPool parses dsn and returns a pool that dials on first use, so a database that is down at
// startup does not stop the service.
func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	poolCfg.LazyConnect = true
	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

func openBundle(cfg config.Config) (*bundle.Bundle, error) {
	if cfg.Questions.Dir != "" {
		log.Printf("reading questions from %s", cfg.Questions.Dir)
		return bundle.Dir(cfg.Questions.Dir)
	}
	return bundle.Embedded()
}

// health pings the database when one is configured.
func (s *services) health() func(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	return s.pool.Ping
}

func (s *services) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

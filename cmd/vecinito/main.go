package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/hilacarreon/vecinito/internal/assistant"
	"github.com/hilacarreon/vecinito/internal/auditlog"
	"github.com/hilacarreon/vecinito/internal/cache"
	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/config"
	"github.com/hilacarreon/vecinito/internal/connectors/telegram"
	"github.com/hilacarreon/vecinito/internal/llm"
	"github.com/hilacarreon/vecinito/internal/ratelimit"
	"github.com/hilacarreon/vecinito/internal/retrieval"
	"github.com/hilacarreon/vecinito/internal/session"
	"github.com/hilacarreon/vecinito/internal/vectorsearch"
	"github.com/hilacarreon/vecinito/pkg/health"
	"github.com/hilacarreon/vecinito/pkg/health/checkers"
	"github.com/hilacarreon/vecinito/pkg/logger"
	"github.com/hilacarreon/vecinito/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.LoggerConfig())
	log.Info("Starting vecinito",
		logger.StringField("environment", cfg.Environment))

	m := metrics.New(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checker := health.New(health.WithLogger(log))

	// Session store: Redis when configured, memory otherwise. With
	// Redis present the memory store stays as the degradation target.
	var sessions session.Store = session.NewMemoryStore(cfg.Bot.MemorySessionCap)
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		checker.Add(checkers.NewRedisChecker(redisClient, "redis"))
		sessions = session.NewFallbackStore(
			session.NewRedisStore(redisClient, cfg.Bot.HistoryTTL, cfg.Bot.LocationTTL),
			sessions, log)
	}

	model, err := llm.New(llm.Config{
		APIKey:         cfg.OpenAI.APIKey,
		ChatModel:      cfg.OpenAI.ChatModel,
		EmbeddingModel: cfg.OpenAI.EmbeddingModel,
		Temperature:    cfg.OpenAI.Temperature,
		MaxTokens:      cfg.OpenAI.MaxTokens,
		EmbedCacheSize: cfg.OpenAI.EmbedCacheSize,
	}, log)
	if err != nil {
		return fmt.Errorf("building openai client: %w", err)
	}

	strategies, pool, err := buildStrategies(ctx, cfg, model, checker, log)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	orchestrator := retrieval.NewOrchestrator(strategies, cfg.Bot.TopK, log,
		retrieval.WithFallbackObserver(func(string) { m.RetrievalFallbacks.Inc() }))

	cacheOpts := []cache.Option{}
	if cfg.Bot.CacheGlobalTier {
		cacheOpts = append(cacheOpts, cache.WithGlobalFallback())
	}
	replies := cache.NewReplyCache(cfg.Bot.CacheTTL, cfg.Bot.CacheCapacity, cacheOpts...)

	var audit *auditlog.Writer
	if cfg.Bot.AuditLogPath != "" {
		audit, err = auditlog.New(cfg.Bot.AuditLogPath, log)
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
	}

	service := assistant.New(
		cfg.Bot, log, m, replies,
		ratelimit.New(cfg.Bot.RateLimit, cfg.Bot.RateLimitWindow),
		sessions, orchestrator, model, audit,
	)
	if err := service.Start(); err != nil {
		return fmt.Errorf("starting maintenance schedule: %w", err)
	}
	defer service.Stop()

	connector, err := telegram.New(cfg.Telegram, cfg.Bot, service, model, m, log)
	if err != nil {
		return fmt.Errorf("building telegram connector: %w", err)
	}
	defer connector.Stop()

	if cfg.Monitoring.Enabled {
		m.Listen(cfg.Monitoring.MetricsPort, checker.Handler())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.Shutdown(shutdownCtx)
		}()
	}

	connector.Start(ctx)
	log.Info("Shutting down")
	return nil
}

// buildStrategies assembles the retrieval chain: semantic search when
// Postgres is configured, with the lexical filter over the JSON catalog
// as fallback (or as the only strategy).
func buildStrategies(
	ctx context.Context,
	cfg *config.AppConfig,
	model *llm.Client,
	checker *health.Checker,
	log logger.Logger,
) ([]retrieval.Strategy, *pgxpool.Pool, error) {
	var strategies []retrieval.Strategy
	var pool *pgxpool.Pool

	if cfg.Database.Enabled() {
		var err error
		pool, err = pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		if err := vectorsearch.RunMigrations(pool, log); err != nil {
			pool.Close()
			return nil, nil, err
		}
		checker.Add(checkers.NewPostgresChecker(pool, "postgres"))
		strategies = append(strategies,
			retrieval.NewSemanticStrategy(model, vectorsearch.NewStore(pool)))
	}

	if cfg.Catalog.Path != "" {
		entries, err := catalog.Load(cfg.Catalog.Path)
		switch {
		case err != nil && !cfg.Database.Enabled():
			if pool != nil {
				pool.Close()
			}
			return nil, nil, fmt.Errorf("loading catalog: %w", err)
		case err != nil:
			log.Warn("catalog file unavailable, semantic search only",
				logger.ErrorField(err))
		default:
			log.Info("Catalog loaded", logger.IntField("entries", len(entries)))
			strategies = append(strategies,
				retrieval.NewLexicalStrategy(retrieval.NewFilter(entries, cfg.Bot.TopK)))
		}
	}

	if len(strategies) == 0 {
		if pool != nil {
			pool.Close()
		}
		return nil, nil, fmt.Errorf("no retrieval strategy available: configure a database or a catalog file")
	}
	return strategies, pool, nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tnguyen91/lexigraph/internal/analytics"
	"github.com/tnguyen91/lexigraph/internal/lexicon"
	"github.com/tnguyen91/lexigraph/internal/lexicon/index"
	"github.com/tnguyen91/lexigraph/internal/query"
	"github.com/tnguyen91/lexigraph/internal/server/cache"
	"github.com/tnguyen91/lexigraph/internal/server/handler"
	"github.com/tnguyen91/lexigraph/pkg/config"
	"github.com/tnguyen91/lexigraph/pkg/health"
	"github.com/tnguyen91/lexigraph/pkg/kafka"
	"github.com/tnguyen91/lexigraph/pkg/logger"
	"github.com/tnguyen91/lexigraph/pkg/metrics"
	"github.com/tnguyen91/lexigraph/pkg/middleware"
	"github.com/tnguyen91/lexigraph/pkg/postgres"
	pkgredis "github.com/tnguyen91/lexigraph/pkg/redis"
	"github.com/tnguyen91/lexigraph/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting lexigraph", "port", cfg.Server.Port, "data_dir", cfg.Corpus.DataDir)

	m := metrics.New()

	loadStart := time.Now()
	graph, err := lexicon.Load(cfg.Corpus)
	if err != nil {
		slog.Error("failed to load lexical corpus", "error", err)
		os.Exit(1)
	}
	idx, err := index.Build(graph)
	if err != nil {
		slog.Error("failed to build lexicon index", "error", err)
		os.Exit(1)
	}
	m.CorpusLoadSeconds.Set(time.Since(loadStart).Seconds())
	m.GraphSynsets.Set(float64(graph.SynsetCount()))
	m.GraphLemmas.Set(float64(graph.LemmaCount()))
	m.GraphRelations.Set(float64(graph.RelationCount()))
	slog.Info("lexical graph loaded",
		"synsets", graph.SynsetCount(),
		"lemmas", graph.LemmaCount(),
		"relations", graph.RelationCount(),
		"languages", graph.Languages(),
		"duration", time.Since(loadStart).Round(time.Millisecond),
	)

	engine := query.New(idx, cfg.Query)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var respCache *cache.ResponseCache
	var redisClient *pkgredis.Client
	err = resilience.Retry(ctx, "redis-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
		var connErr error
		redisClient, connErr = pkgredis.NewClient(cfg.Redis)
		return connErr
	})
	if err != nil {
		slog.Warn("redis unavailable, response caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		respCache = cache.New(redisClient, cfg.Redis)
		slog.Info("response cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	var collector *analytics.Collector
	var aggregator *analytics.Aggregator
	var pgClient *postgres.Client
	if cfg.Analytics.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
		collector = analytics.NewCollector(producer, cfg.Analytics.BufferSize)
		collector.Start(ctx)
		defer collector.Close()

		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents, nil)
		aggregator = analytics.NewAggregator(consumer)
		consumer.SetHandler(analytics.HandleEvent(aggregator))
		go func() {
			if err := aggregator.Start(ctx); err != nil && ctx.Err() == nil {
				slog.Error("analytics aggregator error", "error", err)
			}
		}()
		slog.Info("analytics pipeline started", "topic", cfg.Kafka.Topics.QueryEvents)

		err = resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{MaxAttempts: 3}, func() error {
			var connErr error
			pgClient, connErr = postgres.New(cfg.Postgres)
			return connErr
		})
		if err != nil {
			slog.Warn("postgres unavailable, analytics snapshots disabled", "error", err)
			pgClient = nil
		} else {
			defer pgClient.Close()
			store := analytics.NewStore(pgClient)
			store.StartPeriodicSave(ctx, aggregator, cfg.Analytics.SnapshotInterval)
		}
	}

	checker := health.NewChecker()
	checker.Register("lexical_graph", func(ctx context.Context) health.ComponentHealth {
		if graph.SynsetCount() > 0 {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d synsets loaded", graph.SynsetCount()),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "graph is empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if pgClient != nil {
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := pgClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	h := handler.New(engine, respCache, collector, m, cfg.Query)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/synsets", h.Lookup)
	mux.HandleFunc("GET /api/v1/synsets/{id}/related", h.Related)
	mux.HandleFunc("GET /api/v1/synsets/{id}/lemmas", h.Lemmas)
	mux.HandleFunc("GET /api/v1/define/{word}", h.Define)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	if aggregator != nil {
		analyticsH := analytics.NewHandler(aggregator)
		mux.HandleFunc("GET /api/v1/analytics", analyticsH.Stats)
	}
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("lexigraph listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("lexigraph stopped")
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/maptrivia/internal/cache"
	"github.com/playperu/maptrivia/internal/config"
	"github.com/playperu/maptrivia/internal/database"
	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/handler/health"
	"github.com/playperu/maptrivia/internal/loader"
	"github.com/playperu/maptrivia/internal/migrations"
	"github.com/playperu/maptrivia/internal/server"
	"github.com/playperu/maptrivia/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	catalog := store.NewCatalogStore(db)
	if cfg.SeedDemo {
		if err := store.SeedDemo(ctx, logger, catalog); err != nil {
			return fmt.Errorf("seeding demo catalog: %w", err)
		}
	}

	checks := map[string]health.Checker{
		"sqlite": dbChecker{db},
	}

	// --- Datasets ---
	var src loader.Source = catalog
	if cfg.RemoteDatasets() {
		src = loader.HTTPSource{
			Client:       &http.Client{Timeout: 30 * time.Second},
			PlacesURL:    cfg.PlacesURL,
			QuestionsURL: cfg.QuestionsURL,
		}
		logger.Info("loading datasets over http", "places", cfg.PlacesURL, "questions", cfg.QuestionsURL)
	}

	// --- Redis ---
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()
		logger.Info("connected to redis", "cache_ttl", cfg.CacheTTL)

		src = cache.New(src, cache.RedisKV{Client: rdb}, cfg.CacheTTL, logger)
		checks["redis"] = redisChecker{rdb}
	}

	datasets := loader.NewHolder()
	checks["datasets"] = health.CheckerFunc(func(context.Context) error {
		_, err := datasets.Catalog()
		return err
	})

	// --- HTTP Server ---
	broker := server.NewBroker()
	sessions := server.NewRegistry(datasets, broker, logger,
		game.WithRoundLength(cfg.RoundLength),
		game.WithTickPeriod(cfg.TickPeriod),
	)
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Sessions: sessions,
		Datasets: datasets,
		SPADir:   cfg.SPADir,
	}, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	// A failed load is reported to players through /api/status; the
	// server keeps running.
	g.Go(func() error {
		_ = datasets.Fill(gctx, src, logger)
		return nil
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}

// dbChecker adapts *sql.DB to health.Checker.
type dbChecker struct{ db *sql.DB }

func (d dbChecker) Check(ctx context.Context) error { return d.db.PingContext(ctx) }

// redisChecker adapts *redis.Client to health.Checker.
type redisChecker struct{ client *redis.Client }

func (r redisChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

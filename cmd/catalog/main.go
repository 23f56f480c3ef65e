// Command catalog imports location and question datasets into the sqlite
// catalog and exports them back in the places.json / questions.json format.
//
//	catalog import -places places.json -questions questions.json
//	catalog export -dir out/
//	catalog seed
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/maptrivia/internal/cache"
	"github.com/playperu/maptrivia/internal/config"
	"github.com/playperu/maptrivia/internal/database"
	"github.com/playperu/maptrivia/internal/loader"
	"github.com/playperu/maptrivia/internal/migrations"
	"github.com/playperu/maptrivia/internal/store"
)

var errUsage = errors.New("usage: catalog import|export|seed [flags]")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	catalog := store.NewCatalogStore(db)

	switch args[0] {
	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		fs.SetOutput(stderr)
		places := fs.String("places", "places.json", "places document")
		questions := fs.String("questions", "questions.json", "questions document")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := importFiles(ctx, catalog, *places, *questions); err != nil {
			return err
		}
		logger.Info("catalog imported", "places", *places, "questions", *questions)
		return invalidateCache(ctx, cfg, logger)

	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		fs.SetOutput(stderr)
		dir := fs.String("dir", "", "write places.json and questions.json here instead of stdout")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return export(ctx, catalog, *dir, stdout)

	case "seed":
		if err := store.SeedDemo(ctx, logger, catalog); err != nil {
			return err
		}
		return invalidateCache(ctx, cfg, logger)
	}
	return errUsage
}

func importFiles(ctx context.Context, catalog *store.CatalogStore, placesPath, questionsPath string) error {
	places, err := rootRelative(placesPath)
	if err != nil {
		return err
	}
	questions, err := rootRelative(questionsPath)
	if err != nil {
		return err
	}
	src := loader.FileSource{FS: os.DirFS("/"), PlacesPath: places, QuestionsPath: questions}

	placesDoc, err := src.Places(ctx)
	if err != nil {
		return err
	}
	questionsDoc, err := src.Questions(ctx)
	if err != nil {
		return err
	}
	return catalog.Import(ctx, placesDoc, questionsDoc)
}

// rootRelative turns path into an fs.FS path below "/".
func rootRelative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return strings.TrimPrefix(filepath.ToSlash(abs), "/"), nil
}

// export writes the catalog through trivia.Catalog so the output is exactly
// what the game would load.
func export(ctx context.Context, catalog *store.CatalogStore, dir string, stdout io.Writer) error {
	c, err := loader.Load(ctx, catalog)
	if err != nil {
		return err
	}
	places, questions := c.Docs()

	if dir == "" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(places); err != nil {
			return err
		}
		return enc.Encode(questions)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeDoc(filepath.Join(dir, "places.json"), places); err != nil {
		return err
	}
	return writeDoc(filepath.Join(dir, "questions.json"), questions)
}

func writeDoc(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func invalidateCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	if err := cache.New(nil, cache.RedisKV{Client: rdb}, cfg.CacheTTL, logger).Invalidate(ctx); err != nil {
		return err
	}
	logger.Info("dataset cache invalidated")
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/civicdata/congress-roster/internal/collect"
	"github.com/civicdata/congress-roster/internal/config"
	"github.com/civicdata/congress-roster/internal/congress"
	"github.com/civicdata/congress-roster/internal/logger"
	"github.com/civicdata/congress-roster/internal/snapshot"
)

func main() {
	// A .env file is optional; variables from the environment win.
	_ = godotenv.Load()

	log := logger.New("fetcher").With(slog.String("run_id", uuid.NewString()))

	cfg, err := config.LoadFetcher()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	count, paths, err := run(ctx, log, cfg)
	if err != nil {
		log.Error("snapshot run failed", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("snapshot written",
		slog.Int("members", count),
		slog.String("json", paths.JSON),
		slog.String("csv", paths.CSV),
		slog.String("json_latest", paths.JSONLatest),
		slog.String("csv_latest", paths.CSVLatest),
	)
}

// run executes one fetch-normalize-write cycle and returns the number
// of members persisted.
func run(ctx context.Context, log *slog.Logger, cfg *config.Fetcher) (int, snapshot.Paths, error) {
	client := congress.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout, log)

	collector := collect.New(client, log, collect.Options{
		PageLimit:     cfg.PageLimit,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	})

	records, err := collector.CollectAll(ctx)
	if err != nil {
		return 0, snapshot.Paths{}, fmt.Errorf("collect members: %w", err)
	}

	writer := snapshot.NewWriter(cfg.OutputDir, log)
	stamp := time.Now().UTC().Format("2006-01-02")
	paths, err := writer.Write(records, stamp)
	if err != nil {
		return 0, snapshot.Paths{}, fmt.Errorf("write snapshot: %w", err)
	}

	return len(records), paths, nil
}

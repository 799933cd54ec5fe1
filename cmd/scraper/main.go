package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dvornikita/SleecReddit/internal/collector"
	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/dvornikita/SleecReddit/internal/ingest"
	"github.com/dvornikita/SleecReddit/internal/logging"
	"github.com/dvornikita/SleecReddit/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Setup
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if err := cfg.ValidateCollector(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	// 2. Resolve subreddits
	if cfg.Collector.SubredditsFile != "" {
		subs, err := ingest.LoadSubreddits(cfg.Collector.SubredditsFile)
		if err != nil {
			logger.Error("Failed to load subreddits", "file", cfg.Collector.SubredditsFile, "err", err)
			return 1
		}
		cfg.Collector.Subreddits = subs
	}

	// 3. Initialize Client (Using Factory)
	source, err := collector.NewSource(cfg.Reddit)
	if err != nil {
		logger.Error("Failed to initialize collector", "error", err)
		return 1
	}
	logger.Info("Collector initialized", "mode", cfg.Reddit.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return scrape(ctx, source, cfg.Collector, logger)
}

// scrape collects one subreddit at a time. A failure is logged and the next
// subreddit still runs; files already written are left alone. The exit code
// is 1 when any subreddit failed.
func scrape(ctx context.Context, source domain.PostSource, cfg config.CollectorConfig, logger *slog.Logger) int {
	c := collector.New(source, logger, collector.WithMaxPages(cfg.MaxPages))
	writer := &storage.ItemWriter{Root: cfg.DataDir}

	total, failed := 0, 0
	for _, sub := range cfg.Subreddits {
		if !ingest.ValidSubreddit(sub) {
			logger.Warn("Skipping invalid subreddit name", "sub", sub)
			continue
		}

		items, err := c.Collect(ctx, sub, cfg.WindowYears)
		if err != nil {
			failed++
			logger.Error("Scrape failed", "sub", sub, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		paths, err := writer.SaveAll(items, sub)
		total += len(paths)
		if err != nil {
			failed++
			logger.Error("Saving posts failed", "sub", sub, "saved", len(paths), "err", err)
			continue
		}
		logger.Info("Saved posts", "sub", sub, "count", len(paths), "dir", cfg.DataDir)
	}

	logger.Info("Scrape complete. Data saved.", "posts", total, "dir", cfg.DataDir, "failed_subreddits", failed)
	if failed > 0 {
		return 1
	}
	return 0
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dvornikita/SleecReddit/internal/analyzer"
	"github.com/dvornikita/SleecReddit/internal/classifier"
	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/dvornikita/SleecReddit/internal/ledger"
	"github.com/dvornikita/SleecReddit/internal/logging"
	"github.com/dvornikita/SleecReddit/internal/storage"
	"github.com/google/uuid"
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
	if err := cfg.ValidateAnalyzer(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Clients
	provider, err := classifier.NewProvider(cfg.LLM, logger)
	if err != nil {
		logger.Error("Failed to initialize LLM provider", "err", err)
		return 1
	}
	clf := classifier.New(provider, logger, classifier.WithFailurePause(cfg.Analyzer.FailurePause))

	seed := cfg.Analyzer.SampleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	runID := uuid.NewString()
	opts := analyzer.Options{
		SampleSize:      cfg.Analyzer.SampleSize,
		CheckpointEvery: cfg.Analyzer.CheckpointEvery,
		ItemPause:       cfg.Analyzer.ItemPause,
		Rand:            rand.New(rand.NewSource(seed)),
		RunID:           runID,
	}

	// 3. Optional cross-run ledger
	if cfg.Analyzer.LedgerPath != "" {
		l, err := ledger.OpenSQLite(ctx, cfg.Analyzer.LedgerPath)
		if err != nil {
			logger.Error("Failed to open ledger", "path", cfg.Analyzer.LedgerPath, "err", err)
			return 1
		}
		defer l.Close()
		if n, err := l.Count(ctx); err == nil {
			logger.Info("Ledger opened", "path", cfg.Analyzer.LedgerPath, "classified", n)
		}
		opts.Ledger = l
	}

	sink := &storage.ResultsWriter{
		FilePath:     filepath.Join(cfg.Analyzer.ResultsDir, cfg.Analyzer.ResultsFile),
		PositivePath: filepath.Join(cfg.Analyzer.ResultsDir, cfg.Analyzer.PositiveFile),
	}

	// 4. Run
	logger.Info("Starting analysis", "run_id", runID, "store", cfg.Analyzer.DataDir, "model", cfg.LLM.Model, "mode", cfg.LLM.Mode, "seed", seed)
	report, err := analyzer.NewDriver(clf, sink, logger, opts).Run(ctx, cfg.Analyzer.DataDir)
	if err != nil {
		logger.Error("Analysis failed", "err", err)
		return 1
	}

	fmt.Printf("Analysis complete. Total posts analyzed: %d\n", report.Summary.Processed)
	fmt.Printf("Positive verdicts: %d\n", report.Summary.Positive)
	return 0
}

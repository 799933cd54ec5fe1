package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dvornikita/SleecReddit/internal/config"
	"github.com/dvornikita/SleecReddit/internal/dashboard"
	"github.com/dvornikita/SleecReddit/internal/logging"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	dataFile := filepath.Join(cfg.Analyzer.ResultsDir, cfg.Analyzer.ResultsFile)
	logger.Info("Starting Dashboard", "port", cfg.Dashboard.Port, "results", dataFile)
	if err := dashboard.StartServer(dataFile, cfg.Dashboard.Port, logger); err != nil {
		logger.Error("Dashboard failed", "err", err)
		os.Exit(1)
	}
}

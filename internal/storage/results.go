package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// ResultsWriter owns the analyzer's two output files. The results file is
// overwritten with the full accumulated sequence on every call, so it is
// always a valid JSON array.
type ResultsWriter struct {
	FilePath     string
	PositivePath string
}

// WriteResults replaces the results file with results.
func (w *ResultsWriter) WriteResults(results []domain.ClassificationResult) error {
	if results == nil {
		results = []domain.ClassificationResult{}
	}
	return writeJSON(w.FilePath, results)
}

// WritePositiveIndex stores the subreddit -> ids mapping.
func (w *ResultsWriter) WritePositiveIndex(index domain.PositiveIndex) error {
	if index == nil {
		index = domain.PositiveIndex{}
	}
	return writeJSON(w.PositivePath, index)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	data, err := encodeJSON(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFileAtomic(path, data)
}

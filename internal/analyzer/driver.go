// Package analyzer runs the classifier over the item store, checkpointing
// results as it goes.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/dvornikita/SleecReddit/internal/classifier"
	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/dvornikita/SleecReddit/internal/ingest"
)

// Classifier produces at most one result per item.
type Classifier interface {
	Classify(ctx context.Context, item domain.Item) (domain.ClassificationResult, error)
}

// Sink receives the full results sequence at each checkpoint and the
// positive index once at the end.
type Sink interface {
	WriteResults(results []domain.ClassificationResult) error
	WritePositiveIndex(index domain.PositiveIndex) error
}

// Ledger remembers verdicts across runs. Optional.
type Ledger interface {
	Seen(ctx context.Context, postID string) (bool, error)
	Record(ctx context.Context, r domain.ClassificationResult, runID string) error
}

type Options struct {
	// SampleSize caps how many items one run processes. <= 0 means all.
	SampleSize      int
	CheckpointEvery int
	ItemPause       time.Duration
	Rand            *rand.Rand
	Ledger          Ledger
	RunID           string
	Sleep           func(context.Context, time.Duration)
}

// Summary counts what happened to each enumerated item.
type Summary struct {
	Found             int // item files in the store
	AlreadyClassified int // excluded by the ledger
	Selected          int // after sampling
	Processed         int // results produced
	Positive          int
	Errors            int // results with verdict "error"
	Dropped           int // provider failures, no result
	Skipped           int // empty content
	Malformed         int // unreadable item files
	Interrupted       bool
}

// Report is the outcome of one run.
type Report struct {
	Results  []domain.ClassificationResult
	Positive domain.PositiveIndex
	Summary  Summary
}

type Driver struct {
	classifier Classifier
	sink       Sink
	logger     *slog.Logger
	opts       Options
}

func NewDriver(c Classifier, sink Sink, logger *slog.Logger, opts Options) *Driver {
	if opts.CheckpointEvery <= 0 {
		opts.CheckpointEvery = 10
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Driver{classifier: c, sink: sink, logger: logger, opts: opts}
}

// Run classifies the items under storeRoot one at a time. No single item
// stops the batch. Results are written every CheckpointEvery results and
// once more at the end, and the positive index is written once at the end.
// A cancelled ctx ends the loop early but the final writes still happen.
func (d *Driver) Run(ctx context.Context, storeRoot string) (Report, error) {
	stored, err := ingest.ScanStore(storeRoot)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Results:  []domain.ClassificationResult{},
		Positive: domain.PositiveIndex{},
	}
	sum := &report.Summary
	sum.Found = len(stored)
	d.logger.Info("Found posts to analyze", "count", sum.Found, "run_id", d.opts.RunID)

	if d.opts.Ledger != nil {
		stored = d.unclassified(ctx, stored, sum)
	}

	selected := Sample(stored, d.opts.SampleSize, d.opts.Rand)
	sum.Selected = len(selected)
	if len(selected) < len(stored) {
		d.logger.Info("Subsampled posts for analysis", "selected", len(selected), "of", len(stored))
	}

	for i, s := range selected {
		if ctx.Err() != nil {
			sum.Interrupted = true
			d.logger.Warn("Analysis interrupted", "remaining", len(selected)-i)
			break
		}
		if i > 0 {
			d.opts.Sleep(ctx, d.opts.ItemPause)
		}
		d.process(ctx, s, &report)
	}

	var errs []error
	if err := d.sink.WriteResults(report.Results); err != nil {
		errs = append(errs, fmt.Errorf("final checkpoint: %w", err))
	} else {
		d.logger.Info("Saved results", "count", len(report.Results))
	}
	if err := d.sink.WritePositiveIndex(report.Positive); err != nil {
		errs = append(errs, fmt.Errorf("positive index: %w", err))
	}

	d.logger.Info("Analysis complete",
		"run_id", d.opts.RunID,
		"found", sum.Found,
		"selected", sum.Selected,
		"processed", sum.Processed,
		"positive", sum.Positive,
		"errors", sum.Errors,
		"dropped", sum.Dropped,
		"skipped", sum.Skipped,
		"malformed", sum.Malformed,
		"already_classified", sum.AlreadyClassified)
	return report, errors.Join(errs...)
}

func (d *Driver) process(ctx context.Context, s ingest.StoredItem, report *Report) {
	sum := &report.Summary

	item, err := ingest.LoadItem(s.Path)
	if err != nil {
		sum.Malformed++
		d.logger.Error("Skipping unreadable post file", "path", s.Path, "err", err)
		return
	}

	result, err := d.classifier.Classify(ctx, item)
	switch {
	case errors.Is(err, classifier.ErrEmptyContent):
		sum.Skipped++
		d.logger.Info("Skipping post with no content", "post", item.ID)
		return
	case err != nil:
		sum.Dropped++
		d.logger.Error("Error analyzing post", "post", item.ID, "err", err)
		return
	}

	report.Results = append(report.Results, result)
	sum.Processed++
	switch result.Verdict {
	case domain.VerdictYes:
		sum.Positive++
		category := result.Subreddit
		if category == "" {
			category = s.Dir
		}
		report.Positive.Add(category, result.PostID)
	case domain.VerdictError:
		sum.Errors++
	}

	if d.opts.Ledger != nil && result.Verdict != domain.VerdictError {
		if err := d.opts.Ledger.Record(ctx, result, d.opts.RunID); err != nil {
			d.logger.Error("Ledger write failed", "post", result.PostID, "err", err)
		}
	}

	if len(report.Results)%d.opts.CheckpointEvery == 0 {
		if err := d.sink.WriteResults(report.Results); err != nil {
			d.logger.Error("Checkpoint failed", "count", len(report.Results), "err", err)
			return
		}
		d.logger.Info("Saved intermediate results", "count", len(report.Results))
	}
}

// unclassified drops items the ledger already has a verdict for. Files that
// cannot be read are kept so the main loop reports them.
func (d *Driver) unclassified(ctx context.Context, stored []ingest.StoredItem, sum *Summary) []ingest.StoredItem {
	kept := stored[:0:0]
	for _, s := range stored {
		item, err := ingest.LoadItem(s.Path)
		if err != nil {
			kept = append(kept, s)
			continue
		}
		seen, err := d.opts.Ledger.Seen(ctx, item.ID)
		if err != nil {
			d.logger.Warn("Ledger lookup failed, keeping post", "post", item.ID, "err", err)
			kept = append(kept, s)
			continue
		}
		if seen {
			sum.AlreadyClassified++
			continue
		}
		kept = append(kept, s)
	}
	if sum.AlreadyClassified > 0 {
		d.logger.Info("Excluded previously classified posts", "count", sum.AlreadyClassified)
	}
	return kept
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

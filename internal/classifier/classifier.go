// Package classifier turns a stored item into a Yes/No verdict through an LLM.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/dvornikita/SleecReddit/internal/llm"
)

var (
	// ErrEmptyContent means the item had neither title nor body. Not a failure.
	ErrEmptyContent = errors.New("no content to analyze")
	// ErrCompletion wraps a failed provider call. The item gets no result.
	ErrCompletion = errors.New("completion failed")
)

const defaultFailurePause = time.Second

// Classifier classifies one item per call.
type Classifier struct {
	provider     llm.Provider
	logger       *slog.Logger
	failurePause time.Duration
	sleep        func(context.Context, time.Duration)
}

type Option func(*Classifier)

// WithFailurePause sets the pause taken after a provider error.
func WithFailurePause(d time.Duration) Option {
	return func(c *Classifier) { c.failurePause = d }
}

// WithSleep replaces the pause implementation, mainly for tests.
func WithSleep(sleep func(context.Context, time.Duration)) Option {
	return func(c *Classifier) { c.sleep = sleep }
}

func New(provider llm.Provider, logger *slog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		provider:     provider,
		logger:       logger,
		failurePause: defaultFailurePause,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify renders the prompt for item, asks the provider and validates the
// answer. An unparseable answer still yields a result, with verdict "error".
// ErrEmptyContent and ErrCompletion mean there is no result for the item.
func (c *Classifier) Classify(ctx context.Context, item domain.Item) (domain.ClassificationResult, error) {
	if item.Title == "" && item.Body == "" {
		return domain.ClassificationResult{}, fmt.Errorf("post %s: %w", item.ID, ErrEmptyContent)
	}

	raw, err := c.provider.Complete(ctx, llm.Request{
		System: SystemPrompt,
		User:   RenderPrompt(item),
		JSON:   true,
	})
	if err != nil {
		c.sleep(ctx, c.failurePause)
		return domain.ClassificationResult{}, fmt.Errorf("post %s: %w: %w", item.ID, ErrCompletion, err)
	}

	result := domain.ClassificationResult{
		PostID:    item.ID,
		Title:     item.Title,
		Subreddit: item.Subreddit,
		Body:      item.Body,
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		c.logger.Warn("Unparseable model response", "post", item.ID, "err", err)
		result.Verdict = domain.VerdictError
		result.Reason = "Failed to parse response: " + err.Error()
		return result, nil
	}

	result.Verdict = analysis.Verdict
	result.Reason = analysis.Reason
	return result, nil
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

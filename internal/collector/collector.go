package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// Image links are dropped before anything is stored. Matching is case-sensitive.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

const permalinkHost = "https://www.reddit.com"

// A year is counted as 365 days; leap days are ignored.
const year = 365 * 24 * time.Hour

// Collector gathers the text posts of one subreddit from a PostSource.
type Collector struct {
	source   domain.PostSource
	logger   *slog.Logger
	now      func() time.Time
	maxPages int
}

type Option func(*Collector)

// WithClock replaces time.Now when computing the cutoff.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithMaxPages caps the pages read per listing. Zero means no cap.
func WithMaxPages(n int) Option {
	return func(c *Collector) { c.maxPages = n }
}

func New(source domain.PostSource, logger *slog.Logger, opts ...Option) *Collector {
	c := &Collector{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect returns the subreddit's text posts newer than windowYears, followed
// by all-time top posts not already included (these may be older than the
// window). Identifiers are unique in the result. A fetch error aborts the
// whole subreddit.
func (c *Collector) Collect(ctx context.Context, subreddit string, windowYears int) ([]domain.Item, error) {
	if windowYears <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d years", windowYears)
	}
	cutoff := c.now().Add(-time.Duration(windowYears) * year)

	c.logger.Info("Collecting posts", "sub", subreddit, "window_years", windowYears, "cutoff", cutoff.UTC().Format(time.RFC3339))

	// The new listing is newest first, so the first post at or before the
	// cutoff ends the walk.
	var recent []domain.RawPost
	err := c.walk(ctx, subreddit, domain.ListingNew, func(p domain.RawPost) bool {
		if !p.Created.After(cutoff) {
			return false
		}
		recent = append(recent, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	var top []domain.RawPost
	err = c.walk(ctx, subreddit, domain.ListingTopAll, func(p domain.RawPost) bool {
		top = append(top, p)
		return true
	})
	if err != nil {
		return nil, err
	}

	merged := Merge(recent, top)
	items := make([]domain.Item, 0, len(merged))
	for _, p := range merged {
		items = append(items, ExtractItem(p, subreddit))
	}

	c.logger.Info("Collected posts",
		"sub", subreddit,
		"new_in_window", len(recent),
		"top_all_time", len(top),
		"kept", len(items),
		"dropped", len(recent)+len(top)-len(items))
	return items, nil
}

// walk pages through a listing, handing each post to visit until visit
// returns false, the cursor runs out or repeats, or maxPages is reached.
func (c *Collector) walk(ctx context.Context, subreddit string, listing domain.Listing, visit func(domain.RawPost) bool) error {
	after := ""
	cursors := make(map[string]bool)
	for n := 0; c.maxPages == 0 || n < c.maxPages; n++ {
		page, err := c.source.FetchPage(ctx, subreddit, listing, after)
		if err != nil {
			return fmt.Errorf("fetch r/%s %s page %d: %w", subreddit, listing, n+1, err)
		}
		c.logger.Debug("Fetched page", "sub", subreddit, "listing", listing, "page", n+1, "posts", len(page.Posts))

		for _, p := range page.Posts {
			if !visit(p) {
				return nil
			}
		}
		if page.After == "" || cursors[page.After] {
			return nil
		}
		cursors[page.After] = true
		after = page.After
	}
	return nil
}

// Merge keeps recent posts first, then top posts whose id has not been seen.
// Image links are dropped from both lists, and a duplicate id keeps the
// earliest record.
func Merge(recent, top []domain.RawPost) []domain.RawPost {
	seen := make(map[string]bool, len(recent)+len(top))
	out := make([]domain.RawPost, 0, len(recent)+len(top))
	for _, list := range [][]domain.RawPost{recent, top} {
		for _, p := range list {
			if seen[p.ID] || IsImageURL(p.URL) {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

// IsImageURL reports whether u ends in one of the excluded image extensions.
func IsImageURL(u string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	return false
}

// ExtractItem maps a raw post onto the stored record. fallbackSub is used
// when the source did not report the subreddit.
func ExtractItem(p domain.RawPost, fallbackSub string) domain.Item {
	author := p.Author
	if author == "" {
		author = domain.DeletedAuthor
	}
	sub := p.Subreddit
	if sub == "" {
		sub = fallbackSub
	}
	permalink := p.Permalink
	if strings.HasPrefix(permalink, "/") {
		permalink = permalinkHost + permalink
	}

	return domain.Item{
		ID:          p.ID,
		Subreddit:   sub,
		Title:       p.Title,
		Author:      author,
		CreatedUTC:  float64(p.Created.Unix()),
		CreatedDate: p.Created.UTC().Format(domain.CreatedDateLayout),
		Score:       p.Score,
		UpvoteRatio: p.UpvoteRatio,
		URL:         p.URL,
		Permalink:   permalink,
		Body:        p.Body,
	}
}

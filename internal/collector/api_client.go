package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// pageSize is the largest listing page Reddit serves.
const pageSize = 100

// APIClient pages through listings with the authenticated OAuth API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchPage(ctx context.Context, sub string, listing domain.Listing, after string) (domain.Page, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return domain.Page{}, err
	}

	opts := reddit.ListOptions{Limit: pageSize, After: after}

	var (
		posts []*reddit.Post
		resp  *reddit.Response
		err   error
	)
	switch listing {
	case domain.ListingNew:
		posts, resp, err = ac.client.Subreddit.NewPosts(ctx, sub, &opts)
	case domain.ListingTopAll:
		posts, resp, err = ac.client.Subreddit.TopPosts(ctx, sub, &reddit.ListPostOptions{
			ListOptions: opts,
			Time:        "all",
		})
	default:
		return domain.Page{}, fmt.Errorf("unsupported listing %q", listing)
	}
	if err != nil {
		return domain.Page{}, fmt.Errorf("authenticated api error: %w", err)
	}

	page := domain.Page{Posts: make([]domain.RawPost, 0, len(posts))}
	if resp != nil {
		page.After = resp.After
	}
	for _, p := range posts {
		var created time.Time
		if p.Created != nil {
			created = p.Created.Time
		}
		page.Posts = append(page.Posts, domain.RawPost{
			ID:          p.ID,
			Subreddit:   p.SubredditName,
			Title:       p.Title,
			Author:      p.Author,
			Created:     created,
			Score:       p.Score,
			UpvoteRatio: float64(p.UpvoteRatio),
			URL:         p.URL,
			Permalink:   p.Permalink,
			Body:        p.Body,
		})
	}
	return page, nil
}

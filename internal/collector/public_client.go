package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
	"golang.org/x/time/rate"
)

const publicBaseURL = "https://www.reddit.com"

// PublicClient reads the unauthenticated JSON listings.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

type redditJSONResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Subreddit   string  `json:"subreddit"`
				Author      string  `json:"author"`
				URL         string  `json:"url"`
				Permalink   string  `json:"permalink"`
				Selftext    string  `json:"selftext"`
				Score       int     `json:"score"`
				UpvoteRatio float64 `json:"upvote_ratio"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	return &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   publicBaseURL,
	}, nil
}

func (pc *PublicClient) FetchPage(ctx context.Context, sub string, listing domain.Listing, after string) (domain.Page, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return domain.Page{}, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	switch listing {
	case domain.ListingNew:
	case domain.ListingTopAll:
		q.Set("t", "all")
	default:
		return domain.Page{}, fmt.Errorf("unsupported listing %q", listing)
	}

	u := fmt.Sprintf("%s/r/%s/%s.json?%s", pc.baseURL, url.PathEscape(sub), listing, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Page{}, err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return domain.Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Page{}, fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}

	var rResp redditJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return domain.Page{}, fmt.Errorf("decode %s listing: %w", listing, err)
	}

	page := domain.Page{After: rResp.Data.After}
	for _, child := range rResp.Data.Children {
		d := child.Data
		page.Posts = append(page.Posts, domain.RawPost{
			ID:          d.ID,
			Subreddit:   d.Subreddit,
			Title:       d.Title,
			Author:      d.Author,
			Created:     time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Score:       d.Score,
			UpvoteRatio: d.UpvoteRatio,
			URL:         d.URL,
			Permalink:   d.Permalink,
			Body:        d.Selftext,
		})
	}
	return page, nil
}

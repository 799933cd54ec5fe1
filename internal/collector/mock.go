package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dvornikita/SleecReddit/internal/domain"
)

// MockClient implements domain.PostSource with fixed offline listings.
//
// The "new" listing has NewPages pages of PerPage posts, one month apart,
// every fifth one an image link. The "top" listing repeats a few of the
// newest ids and adds older posts so that merging has something to drop.
type MockClient struct {
	Now      func() time.Time
	Latency  time.Duration
	NewPages int
	PerPage  int
}

func NewMockClient() *MockClient {
	return &MockClient{
		Now:      time.Now,
		Latency:  100 * time.Millisecond,
		NewPages: 3,
		PerPage:  20,
	}
}

func (mc *MockClient) FetchPage(ctx context.Context, sub string, listing domain.Listing, after string) (domain.Page, error) {
	// Simulate network latency
	if mc.Latency > 0 {
		select {
		case <-ctx.Done():
			return domain.Page{}, ctx.Err()
		case <-time.After(mc.Latency):
		}
	}

	pageNo := 0
	if after != "" {
		n, err := strconv.Atoi(after)
		if err != nil {
			return domain.Page{}, fmt.Errorf("mock: bad cursor %q", after)
		}
		pageNo = n
	}

	switch listing {
	case domain.ListingNew:
		return mc.newPage(sub, pageNo), nil
	case domain.ListingTopAll:
		return mc.topPage(sub), nil
	default:
		return domain.Page{}, fmt.Errorf("unsupported listing %q", listing)
	}
}

func (mc *MockClient) newPage(sub string, pageNo int) domain.Page {
	now := mc.Now()
	var page domain.Page
	for i := 0; i < mc.PerPage; i++ {
		n := pageNo*mc.PerPage + i
		page.Posts = append(page.Posts, mc.post(sub, n, now.AddDate(0, -n, 0)))
	}
	if pageNo+1 < mc.NewPages {
		page.After = strconv.Itoa(pageNo + 1)
	}
	return page
}

func (mc *MockClient) topPage(sub string) domain.Page {
	now := mc.Now()
	var page domain.Page
	for n := 0; n < 3; n++ {
		page.Posts = append(page.Posts, mc.post(sub, n, now.AddDate(0, -n, 0)))
	}
	for i := 0; i < 5; i++ {
		n := 1000 + i
		page.Posts = append(page.Posts, mc.post(sub, n, now.AddDate(-10, 0, -i)))
	}
	return page
}

func (mc *MockClient) post(sub string, n int, created time.Time) domain.RawPost {
	id := fmt.Sprintf("mock_%s_%d", sub, n)
	u := "https://www.reddit.com/r/" + sub + "/comments/" + id
	if n%5 == 4 {
		u = fmt.Sprintf("https://i.redd.it/%s.png", id)
	}
	return domain.RawPost{
		ID:          id,
		Subreddit:   sub,
		Title:       fmt.Sprintf("[%s] Simulated post #%d: stuck on calculus homework", sub, n),
		Author:      "simulated_user",
		Created:     created,
		Score:       n % 97,
		UpvoteRatio: 0.9,
		URL:         u,
		Permalink:   "/r/" + sub + "/comments/" + id + "/",
		Body:        "I feel hopeless about calculus, it's too hard.",
	}
}

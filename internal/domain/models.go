package domain

import (
	"context"
	"time"
)

// CreatedDateLayout is the human readable form stored next to created_utc.
const CreatedDateLayout = "2006-01-02 15:04:05"

// DeletedAuthor stands in for posts whose author account is gone.
const DeletedAuthor = "[deleted]"

// Listing selects which ordering of a subreddit to page through.
type Listing string

const (
	ListingNew    Listing = "new"
	ListingTopAll Listing = "top"
)

// RawPost is a post as returned by a source, before filtering.
type RawPost struct {
	ID          string
	Subreddit   string
	Title       string
	Author      string
	Created     time.Time
	Score       int
	UpvoteRatio float64
	URL         string
	Permalink   string
	Body        string
}

// Page is one slice of a listing. After is empty on the last page.
type Page struct {
	Posts []RawPost
	After string
}

// Item is the clean, persisted form of a collected text post.
type Item struct {
	ID          string  `json:"id"`
	Subreddit   string  `json:"subreddit"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	CreatedDate string  `json:"created_date"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Body        string  `json:"selftext"`
}

// Verdict values. VerdictError marks a local parse failure, not a model answer.
const (
	VerdictYes   = "Yes"
	VerdictNo    = "No"
	VerdictError = "error"
)

// ClassificationResult is one classified item.
type ClassificationResult struct {
	PostID    string `json:"post_id"`
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Body      string `json:"selftext"`
	Verdict   string `json:"verdict"`
	Reason    string `json:"reason"`
}

// PositiveIndex maps a subreddit to the ids of its Yes verdicts, in order.
type PositiveIndex map[string][]string

// Add appends id under subreddit.
func (p PositiveIndex) Add(subreddit, id string) {
	p[subreddit] = append(p[subreddit], id)
}

// PostSource defines the interface for paging through subreddit listings
type PostSource interface {
	FetchPage(ctx context.Context, subreddit string, listing Listing, after string) (Page, error)
}

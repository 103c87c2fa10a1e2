package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/sentiment"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

const redditSearchLimit = 25

// RedditCollector searches Reddit's public search endpoint for brand
// mentions and scores each post plus its comment tree.
type RedditCollector struct {
	store   store.Store
	client  *resty.Client
	baseURL string
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Permalink   string  `json:"permalink"`
	Created     float64 `json:"created_utc"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
}

type redditComment struct {
	Data struct {
		Body string `json:"body"`
	} `json:"data"`
}

// NewRedditCollector creates a new Reddit collector.
func NewRedditCollector(st store.Store) *RedditCollector {
	return &RedditCollector{
		store:   st,
		client:  resty.New().SetTimeout(10 * time.Second).SetHeader("User-Agent", userAgent),
		baseURL: "https://www.reddit.com",
	}
}

func (r *RedditCollector) Name() string {
	return "reddit"
}

// Enabled is always true: the public search endpoint needs no credentials.
func (r *RedditCollector) Enabled() bool {
	return true
}

func (r *RedditCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	searchURL := fmt.Sprintf("%s/search.json?q=%s&limit=%d",
		r.baseURL, url.QueryEscape(brand), redditSearchLimit)

	resp, err := r.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit search returned status %d", resp.StatusCode())
	}

	var listing redditListing
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("parse reddit response: %w", err)
	}

	var mentions []model.Mention

	for _, child := range listing.Data.Children {
		post := child.Data
		createdAt := time.Unix(int64(post.Created), 0)

		// Filter by window before the comment fetch so stale posts
		// don't cost an extra network call.
		if !window.Contains(createdAt) {
			continue
		}

		text := post.Title + "\n" + post.Selftext
		if !containsBrand(text, brand) {
			continue
		}

		result := sentiment.Score(text)
		breakdown := r.commentBreakdown(ctx, post.Permalink)

		mention := model.Mention{
			Brand:             brand,
			Platform:          model.PlatformReddit,
			Author:            post.Author,
			Title:             post.Title,
			Content:           post.Selftext,
			URL:               r.baseURL + post.Permalink,
			PublishedAt:       createdAt,
			Sentiment:         result.Label,
			SentimentScore:    result.Score,
			Likes:             post.Ups,
			NumComments:       post.NumComments,
			Timeline:          string(window),
			CommentSentiments: &breakdown,
		}

		if persistMention(ctx, r.store, &mention) {
			mentions = append(mentions, mention)
		}
	}

	logrus.Infof("Reddit: collected %d mentions for %s", len(mentions), brand)
	return mentions, nil
}

// commentBreakdown fetches a post's comment tree and counts sentiment
// labels. Any failure yields an all-zero breakdown so one bad comment
// fetch cannot abort the brand run.
func (r *RedditCollector) commentBreakdown(ctx context.Context, permalink string) model.SentimentSummary {
	var breakdown model.SentimentSummary

	resp, err := r.client.R().SetContext(ctx).Get(r.baseURL + permalink + ".json")
	if err != nil || resp.StatusCode() != 200 {
		logrus.Debugf("Reddit comment fetch failed for %s", permalink)
		return breakdown
	}

	// The endpoint returns two listings: the post itself, then comments.
	var listings []redditCommentListing
	if err := json.Unmarshal(resp.Body(), &listings); err != nil || len(listings) < 2 {
		return breakdown
	}

	for _, c := range listings[1].Data.Children {
		if c.Data.Body == "" {
			continue
		}
		switch sentiment.Score(c.Data.Body).Label {
		case model.SentimentPositive:
			breakdown.Positive++
		case model.SentimentNegative:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
	}

	return breakdown
}

type redditCommentListing struct {
	Data struct {
		Children []redditComment `json:"children"`
	} `json:"data"`
}

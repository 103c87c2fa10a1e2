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

// TwitterCollector runs a recent-search against the v2 API. Without a
// bearer token it degrades to an empty result.
type TwitterCollector struct {
	store       store.Store
	bearerToken string
	client      *resty.Client
	baseURL     string
}

type twitterSearchResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
		Metrics   struct {
			LikeCount  int `json:"like_count"`
			ReplyCount int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// NewTwitterCollector creates a new Twitter collector.
func NewTwitterCollector(st store.Store, bearerToken string) *TwitterCollector {
	return &TwitterCollector{
		store:       st,
		bearerToken: bearerToken,
		client:      resty.New().SetTimeout(10 * time.Second).SetHeader("User-Agent", userAgent),
		baseURL:     "https://api.twitter.com/2",
	}
}

func (t *TwitterCollector) Name() string {
	return "twitter"
}

func (t *TwitterCollector) Enabled() bool {
	return t.bearerToken != ""
}

func (t *TwitterCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	if !t.Enabled() {
		logrus.Debug("Twitter collector disabled - missing bearer token")
		return nil, nil
	}

	query := fmt.Sprintf(`"%s" -is:retweet lang:en`, brand)
	searchURL := fmt.Sprintf("%s/tweets/search/recent?query=%s&max_results=10&tweet.fields=author_id,created_at,public_metrics",
		t.baseURL, url.QueryEscape(query))

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("twitter search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("twitter search returned status %d", resp.StatusCode())
	}

	var search twitterSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return nil, fmt.Errorf("parse twitter response: %w", err)
	}

	var mentions []model.Mention

	for _, tweet := range search.Data {
		if !containsBrand(tweet.Text, brand) {
			continue
		}

		var createdAt time.Time
		if ts, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
			createdAt = ts
		}
		if !createdAt.IsZero() && !window.Contains(createdAt) {
			continue
		}

		result := sentiment.Score(tweet.Text)
		mention := model.Mention{
			Brand:          brand,
			Platform:       model.PlatformTwitter,
			Author:         tweet.AuthorID,
			Content:        tweet.Text,
			URL:            "https://twitter.com/i/web/status/" + tweet.ID,
			PublishedAt:    createdAt,
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Likes:          tweet.Metrics.LikeCount,
			NumComments:    tweet.Metrics.ReplyCount,
			Timeline:       string(window),
		}

		if persistMention(ctx, t.store, &mention) {
			mentions = append(mentions, mention)
		}
	}

	logrus.Infof("Twitter: collected %d mentions for %s", len(mentions), brand)
	return mentions, nil
}

package collectors

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/sentiment"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

const maxPerFeed = 20

// RSSCollector scans configured RSS/Atom feeds for brand mentions.
type RSSCollector struct {
	store  store.Store
	parser *gofeed.Parser
	feeds  []string
}

// NewRSSCollector creates an RSS collector over the given feed URLs.
func NewRSSCollector(st store.Store, feeds []string) *RSSCollector {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return &RSSCollector{
		store:  st,
		parser: parser,
		feeds:  feeds,
	}
}

func (r *RSSCollector) Name() string {
	return "rss"
}

func (r *RSSCollector) Enabled() bool {
	return len(r.feeds) > 0
}

func (r *RSSCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	var mentions []model.Mention

	for _, feedURL := range r.feeds {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			logrus.Debugf("RSS: failed to parse %s: %v", feedURL, err)
			continue
		}

		seen := 0
		for _, item := range feed.Items {
			if seen >= maxPerFeed {
				break
			}
			seen++

			link := item.Link
			if link == "" {
				link = item.GUID
			}
			if link == "" {
				continue
			}

			text := item.Title + "\n" + item.Description
			if !containsBrand(text, brand) {
				continue
			}

			var publishedAt time.Time
			if item.PublishedParsed != nil {
				publishedAt = *item.PublishedParsed
			} else if item.UpdatedParsed != nil {
				publishedAt = *item.UpdatedParsed
			}
			if !publishedAt.IsZero() && !window.Contains(publishedAt) {
				continue
			}

			result := sentiment.Score(text)
			mention := model.Mention{
				Brand:          brand,
				Platform:       model.PlatformRSS,
				Author:         feed.Title,
				Title:          item.Title,
				Content:        item.Description,
				URL:            link,
				PublishedAt:    publishedAt,
				Sentiment:      result.Label,
				SentimentScore: result.Score,
				Timeline:       string(window),
			}

			if persistMention(ctx, r.store, &mention) {
				mentions = append(mentions, mention)
			}
		}
	}

	logrus.Infof("RSS: collected %d mentions for %s across %d feeds", len(mentions), brand, len(r.feeds))
	return mentions, nil
}

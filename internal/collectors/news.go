package collectors

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/sentiment"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

const (
	newsScoreLength   = 2000
	newsSnippetLength = 300
)

// DefaultNewsSites are the outlet homepages checked when none are
// configured.
var DefaultNewsSites = []string{
	"https://www.bbc.com/news",
	"https://edition.cnn.com",
	"https://www.reuters.com",
	"https://www.hindustantimes.com",
	"https://timesofindia.indiatimes.com",
	"https://www.ndtv.com",
	"https://www.aljazeera.com",
	"https://www.theguardian.com/international",
	"https://www.cnbc.com/world/?region=world",
}

// NewsCollector scans a fixed list of outlet homepages for brand
// mentions. One record per matching site; unreachable sites are skipped.
type NewsCollector struct {
	store  store.Store
	client *resty.Client
	sites  []string
}

// NewNewsCollector creates a news collector over the given outlets.
func NewNewsCollector(st store.Store, sites []string) *NewsCollector {
	if len(sites) == 0 {
		sites = DefaultNewsSites
	}
	return &NewsCollector{
		store:  st,
		client: resty.New().SetTimeout(10 * time.Second).SetHeader("User-Agent", userAgent),
		sites:  sites,
	}
}

func (n *NewsCollector) Name() string {
	return "news"
}

func (n *NewsCollector) Enabled() bool {
	return len(n.sites) > 0
}

func (n *NewsCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	var mentions []model.Mention

	for _, site := range n.sites {
		resp, err := n.client.R().SetContext(ctx).Get(site)
		if err != nil || resp.StatusCode() != 200 {
			logrus.Debugf("News: failed to load %s", site)
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
		if err != nil {
			logrus.Debugf("News: failed to parse %s: %v", site, err)
			continue
		}

		bodyText := strings.TrimSpace(doc.Find("body").Text())
		if !containsBrand(bodyText, brand) {
			continue
		}

		publishedAt, found := extractPublishDate(doc)
		if !found {
			publishedAt = time.Now()
		}
		if !window.Contains(publishedAt) {
			continue
		}

		text := truncate(bodyText, newsScoreLength)
		result := sentiment.Score(text)

		snippet := text
		if len(snippet) > newsSnippetLength {
			snippet = truncate(snippet, newsSnippetLength) + "..."
		}

		record := model.NewsMention{
			Brand:          brand,
			Site:           site,
			Snippet:        snippet,
			PublishedAt:    publishedAt,
			FetchedAt:      time.Now(),
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Timeline:       string(window),
		}

		if !n.persistNews(ctx, &record) {
			continue
		}

		mentions = append(mentions, model.Mention{
			Brand:          brand,
			Platform:       model.PlatformNews,
			Content:        record.Snippet,
			URL:            site,
			PublishedAt:    publishedAt,
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Timeline:       string(window),
		})
	}

	logrus.Infof("News: collected %d mentions for %s across %d sites", len(mentions), brand, len(n.sites))
	return mentions, nil
}

// persistNews applies the (brand, site, publishedAt) composite dedup key.
func (n *NewsCollector) persistNews(ctx context.Context, record *model.NewsMention) bool {
	exists, err := n.store.NewsExists(ctx, record.Brand, record.Site, record.PublishedAt)
	if err != nil {
		logrus.Errorf("News: dedup check for %s: %v", record.Site, err)
		return false
	}
	if exists {
		return false
	}
	if err := n.store.InsertNews(ctx, record); err != nil {
		logrus.Errorf("News: failed to store mention from %s: %v", record.Site, err)
		return false
	}
	return true
}

package collectors

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	readability "github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/sentiment"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

const webSnippetLength = 3000

// WebCollector checks an arbitrary list of page URLs for brand
// mentions. Readability extraction is tried first, raw body text is the
// fallback; any per-URL failure is swallowed.
type WebCollector struct {
	store  store.Store
	client *resty.Client
	pages  []string
}

// NewWebCollector creates a web collector over the given page URLs.
func NewWebCollector(st store.Store, pages []string) *WebCollector {
	return &WebCollector{
		store:  st,
		client: resty.New().SetTimeout(8 * time.Second).SetHeader("User-Agent", userAgent),
		pages:  pages,
	}
}

func (w *WebCollector) Name() string {
	return "web"
}

func (w *WebCollector) Enabled() bool {
	return len(w.pages) > 0
}

func (w *WebCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	var mentions []model.Mention

	for _, page := range w.pages {
		resp, err := w.client.R().SetContext(ctx).Get(page)
		if err != nil || resp.StatusCode() != 200 {
			logrus.Debugf("Web: failed to load %s", page)
			continue
		}

		text := w.extractText(page, resp.Body())
		if text == "" || !containsBrand(text, brand) {
			continue
		}

		snippet := truncate(strings.TrimSpace(text), webSnippetLength)
		result := sentiment.Score(snippet)

		mention := model.Mention{
			Brand:          brand,
			Platform:       model.PlatformWeb,
			Content:        snippet,
			URL:            page,
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Timeline:       string(window),
		}

		if persistMention(ctx, w.store, &mention) {
			mentions = append(mentions, mention)
		}
	}

	logrus.Infof("Web: collected %d mentions for %s across %d pages", len(mentions), brand, len(w.pages))
	return mentions, nil
}

// extractText prefers readability's main-content extraction and falls
// back to the page's raw body text.
func (w *WebCollector) extractText(pageURL string, body []byte) string {
	parsed, _ := url.Parse(pageURL)
	if article, err := readability.FromReader(strings.NewReader(string(body)), parsed); err == nil {
		if text := strings.TrimSpace(article.TextContent); len(text) > 100 {
			return text
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("body").Text())
}

package collectors

import (
	"context"
	"fmt"
	"net/url"
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

// LinkedInCollector scrapes the public content search for brand posts.
// Like Instagram this is a low-confidence collector with a synthetic
// page-level fallback when the post markup can't be extracted.
type LinkedInCollector struct {
	store   store.Store
	client  *resty.Client
	baseURL string
}

// NewLinkedInCollector creates a new LinkedIn collector.
func NewLinkedInCollector(st store.Store) *LinkedInCollector {
	return &LinkedInCollector{
		store:   st,
		client:  resty.New().SetTimeout(10 * time.Second).SetHeader("User-Agent", browserUserAgent),
		baseURL: "https://www.linkedin.com",
	}
}

func (l *LinkedInCollector) Name() string {
	return "linkedin"
}

func (l *LinkedInCollector) Enabled() bool {
	return true
}

func (l *LinkedInCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	searchURL := fmt.Sprintf("%s/search/results/content/?keywords=%s", l.baseURL, url.QueryEscape(brand))

	resp, err := l.client.R().SetContext(ctx).Get(searchURL)
	if err != nil || resp.StatusCode() != 200 {
		logrus.Debugf("LinkedIn: search page unavailable for %s", brand)
		return nil, nil
	}

	body := string(resp.Body())
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil
	}

	var mentions []model.Mention

	posts := doc.Find(".feed-shared-update-v2, .update-components-text")
	posts.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 10 {
			return false
		}

		text := strings.TrimSpace(s.Find(".feed-shared-text, .update-components-text__text-view").Text())
		if text == "" {
			text = strings.TrimSpace(s.Text())
		}
		if len(text) < 10 || !containsBrand(text, brand) {
			return true
		}

		author := strings.TrimSpace(s.Find(".feed-shared-actor__name, .update-components-actor__name").Text())
		if author == "" {
			author = "linkedin_user"
		}
		postURL := searchURL
		if href, ok := s.Find(`a[href*="/feed/update"]`).First().Attr("href"); ok {
			if strings.HasPrefix(href, "http") {
				postURL = href
			} else {
				postURL = l.baseURL + href
			}
		}

		result := sentiment.Score(text)
		mention := model.Mention{
			Brand:          brand,
			Platform:       model.PlatformLinkedIn,
			Author:         author,
			Content:        text,
			URL:            postURL,
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Timeline:       string(window),
		}
		if persistMention(ctx, l.store, &mention) {
			mentions = append(mentions, mention)
		}
		return true
	})

	if len(mentions) == 0 && containsBrand(body, brand) {
		content := fmt.Sprintf("LinkedIn post mentioning %s", brand)
		result := sentiment.Score(content)
		mention := model.Mention{
			Brand:          brand,
			Platform:       model.PlatformLinkedIn,
			Author:         "linkedin_user",
			Content:        content,
			URL:            searchURL,
			Sentiment:      result.Label,
			SentimentScore: result.Score,
			Timeline:       string(window),
		}
		if persistMention(ctx, l.store, &mention) {
			mentions = append(mentions, mention)
		}
	}

	logrus.Infof("LinkedIn: collected %d mentions for %s", len(mentions), brand)
	return mentions, nil
}

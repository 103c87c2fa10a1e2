package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/sentiment"
	"github.com/brandwatch/brandwatchd/internal/store"
	"github.com/brandwatch/brandwatchd/internal/timeline"
)

// YouTubeCollector resolves a brand to its official channel, analyzes
// the channel's recent videos and rolls up per-video comment sentiment.
// Results patch the brand's single YouTubeAnalysis record.
type YouTubeCollector struct {
	store   store.Store
	apiKey  string
	client  *resty.Client
	baseURL string
}

type ytSearchResponse struct {
	Items []ytSearchItem `json:"items"`
}

type ytSearchItem struct {
	ID struct {
		ChannelID string `json:"channelId"`
		VideoID   string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
	} `json:"snippet"`
}

// The statistics values come back as decimal strings in the Data API.
type ytVideosResponse struct {
	Items []struct {
		Snippet struct {
			PublishedAt string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type ytCommentsResponse struct {
	Items []struct {
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay string `json:"textDisplay"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// NewYouTubeCollector creates a new YouTube collector.
func NewYouTubeCollector(st store.Store, apiKey string) *YouTubeCollector {
	return &YouTubeCollector{
		store:   st,
		apiKey:  apiKey,
		client:  resty.New().SetTimeout(10 * time.Second).SetHeader("User-Agent", userAgent),
		baseURL: "https://www.googleapis.com/youtube/v3",
	}
}

func (y *YouTubeCollector) Name() string {
	return "youtube"
}

func (y *YouTubeCollector) Enabled() bool {
	return y.apiKey != ""
}

func (y *YouTubeCollector) Collect(ctx context.Context, brand string, window timeline.Window) ([]model.Mention, error) {
	if !y.Enabled() {
		// Missing credentials is a configuration condition, not a fault.
		logrus.Debug("YouTube collector disabled - missing API key")
		return nil, nil
	}

	channelID, channelName, err := y.resolveChannel(ctx, brand)
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		logrus.Infof("YouTube: no channel found for %s", brand)
		return nil, nil
	}

	videoHits, err := y.fetchVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}

	analysis, err := y.store.GetYouTubeAnalysis(ctx, brand)
	if err != nil {
		logrus.Errorf("YouTube: loading analysis for %s: %v", brand, err)
		analysis = nil
	}
	if analysis == nil {
		analysis = &model.YouTubeAnalysis{Brand: brand}
	}
	analysis.ChannelName = channelName
	analysis.ChannelID = channelID

	// On a window change stale videos leave the list before fresh ones
	// are appended.
	if analysis.Timeline != string(window) {
		var kept []model.Video
		for _, v := range analysis.Videos {
			if window.Contains(v.PublishedAt) {
				kept = append(kept, v)
			}
		}
		analysis.Videos = kept
		analysis.Timeline = string(window)
	}

	var mentions []model.Mention

	for _, hit := range videoHits {
		videoID := hit.ID.VideoID
		if videoID == "" || analysis.HasVideo(videoID) {
			continue
		}

		likeCount, commentCount, publishedAt, err := y.fetchStats(ctx, videoID)
		if err != nil {
			logrus.Errorf("YouTube: stats for %s: %v", videoID, err)
			continue
		}
		if publishedAt.IsZero() {
			if t, perr := time.Parse(time.RFC3339, hit.Snippet.PublishedAt); perr == nil {
				publishedAt = t
			}
		}

		// Skip before the comment fetch to avoid wasted quota.
		if !window.Contains(publishedAt) {
			continue
		}

		summary, extracted := y.commentSummary(ctx, videoID)

		video := model.Video{
			VideoID:           videoID,
			Title:             hit.Snippet.Title,
			URL:               "https://www.youtube.com/watch?v=" + videoID,
			PublishedAt:       publishedAt,
			LikeCount:         likeCount,
			CommentCount:      commentCount,
			ExtractedComments: extracted,
			SentimentSummary:  summary,
		}
		analysis.Videos = append(analysis.Videos, video)

		mentions = append(mentions, model.Mention{
			Brand:       brand,
			Platform:    model.PlatformYouTube,
			Author:      channelName,
			Title:       video.Title,
			URL:         video.URL,
			PublishedAt: publishedAt,
			Sentiment:   video.DominantSentiment(),
			Likes:       likeCount,
			NumComments: commentCount,
			Timeline:    string(window),
		})
	}

	if err := y.store.PutYouTubeAnalysis(ctx, analysis); err != nil {
		logrus.Errorf("YouTube: storing analysis for %s: %v", brand, err)
	}

	logrus.Infof("YouTube: analyzed %d new videos for %s (channel %s)", len(mentions), brand, channelName)
	return mentions, nil
}

// resolveChannel searches channels by brand name and prefers a hit
// whose title contains the brand, else the top hit. No match at all is
// not an error.
func (y *YouTubeCollector) resolveChannel(ctx context.Context, brand string) (string, string, error) {
	searchURL := fmt.Sprintf("%s/search?part=snippet&q=%s&type=channel&maxResults=5&order=relevance&key=%s",
		y.baseURL, url.QueryEscape(brand), y.apiKey)

	resp, err := y.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return "", "", fmt.Errorf("youtube channel search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", "", fmt.Errorf("youtube channel search returned status %d", resp.StatusCode())
	}

	var search ytSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return "", "", fmt.Errorf("parse channel search: %w", err)
	}
	if len(search.Items) == 0 {
		return "", "", nil
	}

	for _, item := range search.Items {
		if strings.Contains(strings.ToLower(item.Snippet.Title), strings.ToLower(brand)) {
			return item.ID.ChannelID, item.Snippet.Title, nil
		}
	}
	top := search.Items[0]
	return top.ID.ChannelID, top.Snippet.Title, nil
}

func (y *YouTubeCollector) fetchVideos(ctx context.Context, channelID string) ([]ytSearchItem, error) {
	searchURL := fmt.Sprintf("%s/search?part=snippet&channelId=%s&type=video&maxResults=10&order=date&key=%s",
		y.baseURL, channelID, y.apiKey)

	resp, err := y.client.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("youtube video search: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube video search returned status %d", resp.StatusCode())
	}

	var search ytSearchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return nil, fmt.Errorf("parse video search: %w", err)
	}
	return search.Items, nil
}

func (y *YouTubeCollector) fetchStats(ctx context.Context, videoID string) (int, int, time.Time, error) {
	statsURL := fmt.Sprintf("%s/videos?part=snippet,statistics&id=%s&key=%s", y.baseURL, videoID, y.apiKey)

	resp, err := y.client.R().SetContext(ctx).Get(statsURL)
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	if resp.StatusCode() != 200 {
		return 0, 0, time.Time{}, fmt.Errorf("status %d", resp.StatusCode())
	}

	var videos ytVideosResponse
	if err := json.Unmarshal(resp.Body(), &videos); err != nil {
		return 0, 0, time.Time{}, err
	}
	if len(videos.Items) == 0 {
		return 0, 0, time.Time{}, nil
	}

	item := videos.Items[0]
	likes, _ := strconv.Atoi(item.Statistics.LikeCount)
	comments, _ := strconv.Atoi(item.Statistics.CommentCount)

	var publishedAt time.Time
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		publishedAt = t
	}
	return likes, comments, publishedAt, nil
}

// commentSummary scores up to 50 top-level comments. Disabled comments
// or any fetch failure yield an all-zero summary.
func (y *YouTubeCollector) commentSummary(ctx context.Context, videoID string) (model.SentimentSummary, int) {
	var summary model.SentimentSummary

	commentsURL := fmt.Sprintf("%s/commentThreads?part=snippet&videoId=%s&maxResults=50&textFormat=plainText&key=%s",
		y.baseURL, videoID, y.apiKey)

	resp, err := y.client.R().SetContext(ctx).Get(commentsURL)
	if err != nil || resp.StatusCode() != 200 {
		logrus.Debugf("YouTube: comments unavailable for %s", videoID)
		return summary, 0
	}

	var comments ytCommentsResponse
	if err := json.Unmarshal(resp.Body(), &comments); err != nil {
		return summary, 0
	}

	for _, item := range comments.Items {
		text := item.Snippet.TopLevelComment.Snippet.TextDisplay
		switch sentiment.Score(text).Label {
		case model.SentimentPositive:
			summary.Positive++
		case model.SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	return summary, len(comments.Items)
}

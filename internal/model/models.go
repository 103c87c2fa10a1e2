package model

import "time"

// Platform identifies the external source a mention was collected from.
type Platform string

const (
	PlatformReddit    Platform = "reddit"
	PlatformYouTube   Platform = "youtube"
	PlatformNews      Platform = "news"
	PlatformWeb       Platform = "web"
	PlatformRSS       Platform = "rss"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Sentiment labels derived from the signed score.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentSummary counts sentiment labels over a group of texts,
// e.g. the comment tree of a single post or video.
type SentimentSummary struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Mention represents a single normalized brand reference found on some platform
type Mention struct {
	ID             int64     `json:"id,omitempty"`
	Brand          string    `json:"brand"`
	Platform       Platform  `json:"platform"`
	Author         string    `json:"author,omitempty"`
	Title          string    `json:"title,omitempty"`
	Content        string    `json:"content,omitempty"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at"`
	CreatedAt      time.Time `json:"created_at"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore int       `json:"sentiment_score"`
	Likes          int       `json:"likes"`
	Dislikes       int       `json:"dislikes"`
	NumComments    int       `json:"num_comments"`
	Timeline       string    `json:"timeline,omitempty"`

	// CommentSentiments is only populated for Reddit posts, where the
	// collector scores the post's comment tree as a whole.
	CommentSentiments *SentimentSummary `json:"comment_sentiments,omitempty"`
}

// BestTimestamp resolves the record's timestamp through the ordered
// fallback chain: published date, then store creation time, then now.
func (m Mention) BestTimestamp() time.Time {
	if !m.PublishedAt.IsZero() {
		return m.PublishedAt
	}
	if !m.CreatedAt.IsZero() {
		return m.CreatedAt
	}
	return time.Now()
}

// NewsMention is a mention found on a news outlet homepage. Its natural
// key is (brand, site, publishedAt) rather than URL.
type NewsMention struct {
	ID             int64     `json:"id,omitempty"`
	Brand          string    `json:"brand"`
	Site           string    `json:"site"`
	Snippet        string    `json:"snippet"`
	PublishedAt    time.Time `json:"published_at"`
	FetchedAt      time.Time `json:"fetched_at"`
	Sentiment      string    `json:"sentiment"`
	SentimentScore int       `json:"sentiment_score"`
	Timeline       string    `json:"timeline,omitempty"`
}

// Video is one analyzed video inside a brand's YouTube analysis.
// VideoID is unique within the parent's list.
type Video struct {
	VideoID           string           `json:"video_id"`
	Title             string           `json:"title"`
	URL               string           `json:"url"`
	PublishedAt       time.Time        `json:"published_at"`
	LikeCount         int              `json:"like_count"`
	CommentCount      int              `json:"comment_count"`
	ExtractedComments int              `json:"extracted_comments"`
	SentimentSummary  SentimentSummary `json:"sentiment_summary"`
}

// DominantSentiment returns the label with the highest count in the
// video's comment summary, ties resolving in positive, negative,
// neutral order.
func (v Video) DominantSentiment() string {
	s := v.SentimentSummary
	best, label := s.Positive, SentimentPositive
	if s.Negative > best {
		best, label = s.Negative, SentimentNegative
	}
	if s.Neutral > best {
		label = SentimentNeutral
	}
	return label
}

// YouTubeAnalysis is the one mutable aggregate: a single record per
// brand holding the resolved channel and its analyzed videos. Updates
// patch the video list in place instead of inserting new rows.
type YouTubeAnalysis struct {
	Brand       string    `json:"brand"`
	ChannelName string    `json:"channel_name"`
	ChannelID   string    `json:"channel_id"`
	Timeline    string    `json:"timeline,omitempty"`
	Videos      []Video   `json:"videos"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasVideo reports whether the analysis already tracks the given video.
func (a *YouTubeAnalysis) HasVideo(videoID string) bool {
	for _, v := range a.Videos {
		if v.VideoID == videoID {
			return true
		}
	}
	return false
}

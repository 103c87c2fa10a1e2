package model

// SentimentDistribution holds per-label percentages over a record set.
// Buckets are rounded independently, so the sum may drift from 100.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// DateBucket is one point of a date-bucketed time series.
type DateBucket struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// SourceAnalytics is the dashboard summary for one brand+platform.
type SourceAnalytics struct {
	TotalPosts            int                   `json:"total_posts"`
	AverageLikes          int                   `json:"average_likes"`
	AverageDislikes       int                   `json:"average_dislikes"`
	AverageComments       int                   `json:"average_comments"`
	SentimentDistribution SentimentDistribution `json:"sentiment_distribution"`
	PostsByDate           []DateBucket          `json:"posts_by_date"`
}

// SourceCount is one entry of a top-sources ranking.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// ScoreStats summarizes raw sentiment scores for news mentions.
type ScoreStats struct {
	Average int `json:"average"`
	Min     int `json:"min"`
	Max     int `json:"max"`
}

// NewsAnalytics extends the common summary with news-only metrics.
type NewsAnalytics struct {
	SourceAnalytics
	SentimentScores ScoreStats    `json:"sentiment_scores"`
	TopSources      []SourceCount `json:"top_sources"`
}

// Dashboard merges per-source summaries into one brand-level response.
type Dashboard struct {
	Brand   string          `json:"brand"`
	Reddit  SourceAnalytics `json:"reddit"`
	YouTube SourceAnalytics `json:"youtube"`
	News    NewsAnalytics   `json:"news"`
}

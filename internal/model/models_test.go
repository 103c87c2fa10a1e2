package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVideo_DominantSentiment(t *testing.T) {
	tests := []struct {
		name    string
		summary SentimentSummary
		want    string
	}{
		{"clear positive", SentimentSummary{Positive: 5, Negative: 1, Neutral: 2}, SentimentPositive},
		{"clear negative", SentimentSummary{Positive: 1, Negative: 4, Neutral: 2}, SentimentNegative},
		{"clear neutral", SentimentSummary{Positive: 1, Negative: 1, Neutral: 7}, SentimentNeutral},
		{"positive wins ties", SentimentSummary{Positive: 3, Negative: 3, Neutral: 3}, SentimentPositive},
		{"negative beats neutral on tie", SentimentSummary{Negative: 2, Neutral: 2}, SentimentNegative},
		{"no comments at all", SentimentSummary{}, SentimentPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Video{SentimentSummary: tt.summary}
			assert.Equal(t, tt.want, v.DominantSentiment())
		})
	}
}

func TestYouTubeAnalysis_HasVideo(t *testing.T) {
	a := &YouTubeAnalysis{Videos: []Video{{VideoID: "v1"}, {VideoID: "v2"}}}

	assert.True(t, a.HasVideo("v1"))
	assert.False(t, a.HasVideo("v3"))
	assert.False(t, (&YouTubeAnalysis{}).HasVideo("v1"))
}

func TestMention_BestTimestamp(t *testing.T) {
	published := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, published, Mention{PublishedAt: published, CreatedAt: created}.BestTimestamp())
	assert.Equal(t, created, Mention{CreatedAt: created}.BestTimestamp())

	// Neither timestamp: resolves to roughly now.
	got := Mention{}.BestTimestamp()
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

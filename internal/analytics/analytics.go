package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/brandwatch/brandwatchd/internal/model"
	"github.com/brandwatch/brandwatchd/internal/store"
)

const topSourcesLimit = 5

// Mentions reduces a set of stored mentions into the dashboard summary
// for one brand+platform. An empty set yields the explicit zero shape.
func Mentions(mentions []model.Mention) model.SourceAnalytics {
	out := model.SourceAnalytics{PostsByDate: []model.DateBucket{}}
	if len(mentions) == 0 {
		return out
	}

	var likes, dislikes, comments int
	counts := map[string]int{}
	byDate := map[string]int{}

	for _, m := range mentions {
		likes += m.Likes
		dislikes += m.Dislikes
		comments += m.NumComments

		label := m.Sentiment
		if label == "" {
			label = model.SentimentNeutral
		}
		counts[label]++

		byDate[m.BestTimestamp().Format("2006-01-02")]++
	}

	n := len(mentions)
	out.TotalPosts = n
	out.AverageLikes = roundDiv(likes, n)
	out.AverageDislikes = roundDiv(dislikes, n)
	out.AverageComments = roundDiv(comments, n)
	out.SentimentDistribution = distribution(counts, n)
	out.PostsByDate = sortedBuckets(byDate)
	return out
}

// News reduces stored news mentions, adding the news-only metrics:
// top sources by mention count and min/avg/max raw sentiment score.
func News(news []model.NewsMention) model.NewsAnalytics {
	out := model.NewsAnalytics{
		SourceAnalytics: model.SourceAnalytics{PostsByDate: []model.DateBucket{}},
		TopSources:      []model.SourceCount{},
	}
	if len(news) == 0 {
		return out
	}

	counts := map[string]int{}
	byDate := map[string]int{}
	siteCounts := map[string]int{}
	siteOrder := map[string]int{}

	sum, min, max := 0, news[0].SentimentScore, news[0].SentimentScore
	for i, n := range news {
		counts[n.Sentiment]++

		ts := n.PublishedAt
		if ts.IsZero() {
			ts = n.FetchedAt
		}
		byDate[ts.Format("2006-01-02")]++

		if _, seen := siteOrder[n.Site]; !seen {
			siteOrder[n.Site] = i
		}
		siteCounts[n.Site]++

		score := n.SentimentScore
		sum += score
		if score < min {
			min = score
		}
		if score > max {
			max = score
		}
	}

	total := len(news)
	out.TotalPosts = total
	out.SentimentDistribution = distribution(counts, total)
	out.PostsByDate = sortedBuckets(byDate)
	out.SentimentScores = model.ScoreStats{
		Average: roundDiv(sum, total),
		Min:     min,
		Max:     max,
	}
	out.TopSources = topSources(siteCounts, siteOrder)
	return out
}

// YouTube reduces a brand's analysis record. Each video folds into the
// distribution under its dominant comment-sentiment label.
func YouTube(analysis *model.YouTubeAnalysis) model.SourceAnalytics {
	out := model.SourceAnalytics{PostsByDate: []model.DateBucket{}}
	if analysis == nil || len(analysis.Videos) == 0 {
		return out
	}

	var likes, comments int
	counts := map[string]int{}
	byDate := map[string]int{}

	for _, v := range analysis.Videos {
		likes += v.LikeCount
		comments += v.CommentCount
		counts[v.DominantSentiment()]++
		byDate[v.PublishedAt.Format("2006-01-02")]++
	}

	n := len(analysis.Videos)
	out.TotalPosts = n
	out.AverageLikes = roundDiv(likes, n)
	out.AverageComments = roundDiv(comments, n)
	out.SentimentDistribution = distribution(counts, n)
	out.PostsByDate = sortedBuckets(byDate)
	return out
}

// Dashboard merges the per-source summaries into one brand response.
func Dashboard(ctx context.Context, st store.Store, brand string) (*model.Dashboard, error) {
	reddit, err := st.FindMentions(ctx, store.MentionFilter{Brand: brand, Platform: model.PlatformReddit})
	if err != nil {
		return nil, fmt.Errorf("load reddit mentions: %w", err)
	}

	news, err := st.FindNews(ctx, store.NewsFilter{Brand: brand})
	if err != nil {
		return nil, fmt.Errorf("load news mentions: %w", err)
	}

	analysis, err := st.GetYouTubeAnalysis(ctx, brand)
	if err != nil {
		return nil, fmt.Errorf("load youtube analysis: %w", err)
	}

	return &model.Dashboard{
		Brand:   brand,
		Reddit:  Mentions(reddit),
		YouTube: YouTube(analysis),
		News:    News(news),
	}, nil
}

// distribution computes per-label percentages, each bucket rounded
// independently. The sum may drift from 100; that approximation is
// accepted, not corrected.
func distribution(counts map[string]int, total int) model.SentimentDistribution {
	return model.SentimentDistribution{
		Positive: roundPct(counts[model.SentimentPositive], total),
		Neutral:  roundPct(counts[model.SentimentNeutral], total),
		Negative: roundPct(counts[model.SentimentNegative], total),
	}
}

func roundPct(count, total int) int {
	return int(math.Round(float64(count) / float64(total) * 100))
}

func roundDiv(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

func sortedBuckets(byDate map[string]int) []model.DateBucket {
	buckets := make([]model.DateBucket, 0, len(byDate))
	for date, count := range byDate {
		buckets = append(buckets, model.DateBucket{Date: date, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// topSources ranks sites by mention count, ties broken by first-seen
// order, capped at five entries.
func topSources(counts map[string]int, order map[string]int) []model.SourceCount {
	ranked := make([]model.SourceCount, 0, len(counts))
	for site, count := range counts {
		ranked = append(ranked, model.SourceCount{Source: site, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return order[ranked[i].Source] < order[ranked[j].Source]
	})
	if len(ranked) > topSourcesLimit {
		ranked = ranked[:topSourcesLimit]
	}
	return ranked
}

// LatestMentions returns the brand's newest mentions for one platform.
func LatestMentions(ctx context.Context, st store.Store, brand string, platform model.Platform, limit int) ([]model.Mention, error) {
	if limit <= 0 {
		limit = 5
	}
	return st.FindMentions(ctx, store.MentionFilter{Brand: brand, Platform: platform, Newest: true, Limit: limit})
}

// LatestNews returns the brand's newest news mentions.
func LatestNews(ctx context.Context, st store.Store, brand string, limit int) ([]model.NewsMention, error) {
	if limit <= 0 {
		limit = 5
	}
	return st.FindNews(ctx, store.NewsFilter{Brand: brand, Newest: true, Limit: limit})
}

// LatestVideos returns the brand's newest analyzed videos.
func LatestVideos(ctx context.Context, st store.Store, brand string, limit int) ([]model.Video, error) {
	if limit <= 0 {
		limit = 5
	}
	analysis, err := st.GetYouTubeAnalysis(ctx, brand)
	if err != nil || analysis == nil {
		return nil, err
	}

	videos := append([]model.Video(nil), analysis.Videos...)
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

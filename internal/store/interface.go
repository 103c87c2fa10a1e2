package store

import (
	"context"
	"time"

	"github.com/brandwatch/brandwatchd/internal/model"
)

// MentionFilter selects mentions for queries and bulk deletes. Zero
// fields are ignored.
type MentionFilter struct {
	Brand    string
	Platform model.Platform
	Before   time.Time // records with best timestamp strictly older than this
	Limit    int
	Newest   bool // sort newest-first, for latest-posts queries
}

// NewsFilter selects news mentions. Zero fields are ignored.
type NewsFilter struct {
	Brand  string
	Before time.Time
	Limit  int
	Newest bool
}

// Store defines the document-store contract the pipeline depends on.
// Implementations only need CRUD plus natural-key existence checks;
// aggregation happens in memory in the analytics package.
type Store interface {
	InsertMention(ctx context.Context, m *model.Mention) error
	MentionExists(ctx context.Context, brand, url string) (bool, error)
	FindMentions(ctx context.Context, f MentionFilter) ([]model.Mention, error)
	DeleteMentions(ctx context.Context, f MentionFilter) (int64, error)

	InsertNews(ctx context.Context, n *model.NewsMention) error
	NewsExists(ctx context.Context, brand, site string, publishedAt time.Time) (bool, error)
	FindNews(ctx context.Context, f NewsFilter) ([]model.NewsMention, error)
	DeleteNews(ctx context.Context, f NewsFilter) (int64, error)

	GetYouTubeAnalysis(ctx context.Context, brand string) (*model.YouTubeAnalysis, error)
	PutYouTubeAnalysis(ctx context.Context, a *model.YouTubeAnalysis) error
	DeleteYouTubeAnalysis(ctx context.Context, brand string) error

	Close() error
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/brandwatch/brandwatchd/internal/model"
)

// SQLite is the local document store backing the pipeline.
type SQLite struct {
	db *sql.DB
}

// Ensure SQLite implements Store
var _ Store = (*SQLite)(nil)

// Open opens or creates the database at path and bootstraps the schema.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode keeps concurrent collector writes from blocking reads
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brand TEXT NOT NULL,
		platform TEXT NOT NULL,
		author TEXT,
		title TEXT,
		content TEXT,
		url TEXT NOT NULL,
		published_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		sentiment TEXT NOT NULL,
		sentiment_score INTEGER NOT NULL DEFAULT 0,
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0,
		num_comments INTEGER NOT NULL DEFAULT 0,
		timeline TEXT,
		comment_sentiments TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_mentions_brand ON mentions(brand, platform);
	CREATE INDEX IF NOT EXISTS idx_mentions_url ON mentions(brand, url);

	CREATE TABLE IF NOT EXISTS news_mentions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		brand TEXT NOT NULL,
		site TEXT NOT NULL,
		snippet TEXT NOT NULL,
		published_at TIMESTAMP,
		fetched_at TIMESTAMP NOT NULL,
		sentiment TEXT NOT NULL,
		sentiment_score INTEGER NOT NULL DEFAULT 0,
		timeline TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_news_key ON news_mentions(brand, site, published_at);

	CREATE TABLE IF NOT EXISTS youtube_analyses (
		brand TEXT PRIMARY KEY,
		channel_name TEXT,
		channel_id TEXT,
		timeline TEXT,
		videos TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// InsertMention stores one mention.
func (s *SQLite) InsertMention(ctx context.Context, m *model.Mention) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	var comments any
	if m.CommentSentiments != nil {
		data, err := json.Marshal(m.CommentSentiments)
		if err != nil {
			return fmt.Errorf("marshal comment sentiments: %w", err)
		}
		comments = string(data)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO mentions (
			brand, platform, author, title, content, url, published_at,
			created_at, sentiment, sentiment_score, likes, dislikes,
			num_comments, timeline, comment_sentiments
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Brand, string(m.Platform), m.Author, m.Title, m.Content, m.URL,
		nullTime(m.PublishedAt), m.CreatedAt, m.Sentiment, m.SentimentScore,
		m.Likes, m.Dislikes, m.NumComments, m.Timeline, comments,
	)
	if err != nil {
		return fmt.Errorf("insert mention: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		m.ID = id
	}
	return nil
}

// MentionExists reports whether the brand already has a mention with
// this URL. URL is the natural dedup key for reddit/web/generic records.
func (s *SQLite) MentionExists(ctx context.Context, brand, url string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM mentions WHERE brand = ? AND url = ?", brand, url,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("mention exists: %w", err)
	}
	return count > 0, nil
}

// FindMentions returns mentions matching the filter.
func (s *SQLite) FindMentions(ctx context.Context, f MentionFilter) ([]model.Mention, error) {
	query := `
		SELECT id, brand, platform, author, title, content, url, published_at,
		       created_at, sentiment, sentiment_score, likes, dislikes,
		       num_comments, timeline, comment_sentiments
		FROM mentions WHERE 1=1`
	var args []any

	if f.Brand != "" {
		query += " AND brand = ?"
		args = append(args, f.Brand)
	}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, string(f.Platform))
	}
	if !f.Before.IsZero() {
		query += " AND COALESCE(published_at, created_at) < ?"
		args = append(args, f.Before)
	}
	if f.Newest {
		query += " ORDER BY COALESCE(published_at, created_at) DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find mentions: %w", err)
	}
	defer rows.Close()

	var mentions []model.Mention
	for rows.Next() {
		var m model.Mention
		var platform string
		var published sql.NullTime
		var comments sql.NullString

		err := rows.Scan(
			&m.ID, &m.Brand, &platform, &m.Author, &m.Title, &m.Content,
			&m.URL, &published, &m.CreatedAt, &m.Sentiment, &m.SentimentScore,
			&m.Likes, &m.Dislikes, &m.NumComments, &m.Timeline, &comments,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mention: %w", err)
		}

		m.Platform = model.Platform(platform)
		if published.Valid {
			m.PublishedAt = published.Time
		}
		if comments.Valid && comments.String != "" {
			var cs model.SentimentSummary
			if err := json.Unmarshal([]byte(comments.String), &cs); err == nil {
				m.CommentSentiments = &cs
			}
		}
		mentions = append(mentions, m)
	}

	return mentions, rows.Err()
}

// DeleteMentions removes mentions matching the filter and returns the
// number deleted.
func (s *SQLite) DeleteMentions(ctx context.Context, f MentionFilter) (int64, error) {
	query := "DELETE FROM mentions WHERE 1=1"
	var args []any

	if f.Brand != "" {
		query += " AND brand = ?"
		args = append(args, f.Brand)
	}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, string(f.Platform))
	}
	if !f.Before.IsZero() {
		query += " AND COALESCE(published_at, created_at) < ?"
		args = append(args, f.Before)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete mentions: %w", err)
	}
	return res.RowsAffected()
}

// InsertNews stores one news mention.
func (s *SQLite) InsertNews(ctx context.Context, n *model.NewsMention) error {
	if n.FetchedAt.IsZero() {
		n.FetchedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO news_mentions (
			brand, site, snippet, published_at, fetched_at, sentiment,
			sentiment_score, timeline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.Brand, n.Site, n.Snippet, nullTime(n.PublishedAt), n.FetchedAt,
		n.Sentiment, n.SentimentScore, n.Timeline,
	)
	if err != nil {
		return fmt.Errorf("insert news mention: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		n.ID = id
	}
	return nil
}

// NewsExists checks the (brand, site, publishedAt) composite key.
func (s *SQLite) NewsExists(ctx context.Context, brand, site string, publishedAt time.Time) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM news_mentions WHERE brand = ? AND site = ? AND published_at = ?",
		brand, site, publishedAt,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("news exists: %w", err)
	}
	return count > 0, nil
}

// FindNews returns news mentions matching the filter.
func (s *SQLite) FindNews(ctx context.Context, f NewsFilter) ([]model.NewsMention, error) {
	query := `
		SELECT id, brand, site, snippet, published_at, fetched_at,
		       sentiment, sentiment_score, timeline
		FROM news_mentions WHERE 1=1`
	var args []any

	if f.Brand != "" {
		query += " AND brand = ?"
		args = append(args, f.Brand)
	}
	if !f.Before.IsZero() {
		query += " AND COALESCE(published_at, fetched_at) < ?"
		args = append(args, f.Before)
	}
	if f.Newest {
		query += " ORDER BY COALESCE(published_at, fetched_at) DESC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find news: %w", err)
	}
	defer rows.Close()

	var news []model.NewsMention
	for rows.Next() {
		var n model.NewsMention
		var published sql.NullTime

		err := rows.Scan(
			&n.ID, &n.Brand, &n.Site, &n.Snippet, &published, &n.FetchedAt,
			&n.Sentiment, &n.SentimentScore, &n.Timeline,
		)
		if err != nil {
			return nil, fmt.Errorf("scan news mention: %w", err)
		}

		if published.Valid {
			n.PublishedAt = published.Time
		}
		news = append(news, n)
	}

	return news, rows.Err()
}

// DeleteNews removes news mentions matching the filter.
func (s *SQLite) DeleteNews(ctx context.Context, f NewsFilter) (int64, error) {
	query := "DELETE FROM news_mentions WHERE 1=1"
	var args []any

	if f.Brand != "" {
		query += " AND brand = ?"
		args = append(args, f.Brand)
	}
	if !f.Before.IsZero() {
		query += " AND COALESCE(published_at, fetched_at) < ?"
		args = append(args, f.Before)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete news: %w", err)
	}
	return res.RowsAffected()
}

// GetYouTubeAnalysis loads a brand's analysis record, or nil when the
// brand has none.
func (s *SQLite) GetYouTubeAnalysis(ctx context.Context, brand string) (*model.YouTubeAnalysis, error) {
	var a model.YouTubeAnalysis
	var videos string

	err := s.db.QueryRowContext(ctx, `
		SELECT brand, channel_name, channel_id, timeline, videos, updated_at
		FROM youtube_analyses WHERE brand = ?`, brand,
	).Scan(&a.Brand, &a.ChannelName, &a.ChannelID, &a.Timeline, &videos, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get youtube analysis: %w", err)
	}

	if err := json.Unmarshal([]byte(videos), &a.Videos); err != nil {
		return nil, fmt.Errorf("decode video list: %w", err)
	}
	return &a, nil
}

// PutYouTubeAnalysis writes the whole analysis record. The video-list
// patch is read-modify-write on this single row; last writer wins under
// concurrent updates for the same brand.
func (s *SQLite) PutYouTubeAnalysis(ctx context.Context, a *model.YouTubeAnalysis) error {
	a.UpdatedAt = time.Now()

	videos, err := json.Marshal(a.Videos)
	if err != nil {
		return fmt.Errorf("encode video list: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO youtube_analyses (brand, channel_name, channel_id, timeline, videos, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(brand) DO UPDATE SET
			channel_name = excluded.channel_name,
			channel_id = excluded.channel_id,
			timeline = excluded.timeline,
			videos = excluded.videos,
			updated_at = excluded.updated_at`,
		a.Brand, a.ChannelName, a.ChannelID, a.Timeline, string(videos), a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put youtube analysis: %w", err)
	}
	return nil
}

// DeleteYouTubeAnalysis removes a brand's analysis record.
func (s *SQLite) DeleteYouTubeAnalysis(ctx context.Context, brand string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM youtube_analyses WHERE brand = ?", brand)
	if err != nil {
		return fmt.Errorf("delete youtube analysis: %w", err)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

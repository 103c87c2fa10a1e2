package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/brandwatch/brandwatchd/internal/model"
)

// Memory is an in-process Store used by tests and local runs without a
// database file.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	mentions []model.Mention
	news     []model.NewsMention
	analyses map[string]*model.YouTubeAnalysis
}

// Ensure Memory implements Store
var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextID:   1,
		analyses: make(map[string]*model.YouTubeAnalysis),
	}
}

func (s *Memory) Close() error { return nil }

func (s *Memory) InsertMention(ctx context.Context, m *model.Mention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.ID = s.nextID
	s.nextID++
	s.mentions = append(s.mentions, *m)
	return nil
}

func (s *Memory) MentionExists(ctx context.Context, brand, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.mentions {
		if m.Brand == brand && m.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func matchMention(m model.Mention, f MentionFilter) bool {
	if f.Brand != "" && m.Brand != f.Brand {
		return false
	}
	if f.Platform != "" && m.Platform != f.Platform {
		return false
	}
	if !f.Before.IsZero() && !m.BestTimestamp().Before(f.Before) {
		return false
	}
	return true
}

func (s *Memory) FindMentions(ctx context.Context, f MentionFilter) ([]model.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Mention
	for _, m := range s.mentions {
		if matchMention(m, f) {
			out = append(out, m)
		}
	}
	if f.Newest {
		sort.Slice(out, func(i, j int) bool {
			return out[i].BestTimestamp().After(out[j].BestTimestamp())
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Memory) DeleteMentions(ctx context.Context, f MentionFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []model.Mention
	var deleted int64
	for _, m := range s.mentions {
		if matchMention(m, f) {
			deleted++
			continue
		}
		kept = append(kept, m)
	}
	s.mentions = kept
	return deleted, nil
}

func (s *Memory) InsertNews(ctx context.Context, n *model.NewsMention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.FetchedAt.IsZero() {
		n.FetchedAt = time.Now()
	}
	n.ID = s.nextID
	s.nextID++
	s.news = append(s.news, *n)
	return nil
}

func (s *Memory) NewsExists(ctx context.Context, brand, site string, publishedAt time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.news {
		if n.Brand == brand && n.Site == site && n.PublishedAt.Equal(publishedAt) {
			return true, nil
		}
	}
	return false, nil
}

func newsTimestamp(n model.NewsMention) time.Time {
	if !n.PublishedAt.IsZero() {
		return n.PublishedAt
	}
	return n.FetchedAt
}

func matchNews(n model.NewsMention, f NewsFilter) bool {
	if f.Brand != "" && n.Brand != f.Brand {
		return false
	}
	if !f.Before.IsZero() && !newsTimestamp(n).Before(f.Before) {
		return false
	}
	return true
}

func (s *Memory) FindNews(ctx context.Context, f NewsFilter) ([]model.NewsMention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.NewsMention
	for _, n := range s.news {
		if matchNews(n, f) {
			out = append(out, n)
		}
	}
	if f.Newest {
		sort.Slice(out, func(i, j int) bool {
			return newsTimestamp(out[i]).After(newsTimestamp(out[j]))
		})
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Memory) DeleteNews(ctx context.Context, f NewsFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []model.NewsMention
	var deleted int64
	for _, n := range s.news {
		if matchNews(n, f) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	s.news = kept
	return deleted, nil
}

func (s *Memory) GetYouTubeAnalysis(ctx context.Context, brand string) (*model.YouTubeAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[brand]
	if !ok {
		return nil, nil
	}
	copied := *a
	copied.Videos = append([]model.Video(nil), a.Videos...)
	return &copied, nil
}

func (s *Memory) PutYouTubeAnalysis(ctx context.Context, a *model.YouTubeAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.UpdatedAt = time.Now()
	copied := *a
	copied.Videos = append([]model.Video(nil), a.Videos...)
	s.analyses[a.Brand] = &copied
	return nil
}

func (s *Memory) DeleteYouTubeAnalysis(ctx context.Context, brand string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.analyses, brand)
	return nil
}
